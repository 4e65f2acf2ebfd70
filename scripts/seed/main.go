// Seed creates a user and a batch of todos owned by it. This is the internal
// seeding path: the owner is explicit here, unlike API creates where it comes
// from the authenticated caller. Run from project root: go run ./scripts/seed
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"todoapi/internal/config"
	"todoapi/internal/database"
	"todoapi/internal/repository"
)

func main() {
	loadEnvFile(".env")

	ctx := context.Background()
	cfg := config.Load()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	store := repository.NewStore(db)
	user, err := store.CreateUser(ctx, fmt.Sprintf("seed-user-%d", time.Now().Unix()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Create user failed:", err)
		os.Exit(1)
	}

	const total = 1000
	start := time.Now()
	for n := 1; n <= total; n++ {
		_, err := store.CreateTodo(ctx,
			fmt.Sprintf("Todo %d", n),
			fmt.Sprintf("Content for todo %d", n),
			&user.ID, n%2 == 0)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		if n%100 == 0 {
			fmt.Printf("\rInserted %d / %d", n, total)
		}
	}

	fmt.Printf("\nDone: %d todos for user %d in %v\n", total, user.ID, time.Since(start))
}

func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		val = strings.Trim(val, `"'`)
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
