package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"todoapi/internal/config"
	"todoapi/pkg/logger"
)

// Open builds the Postgres connection pool from config.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBPoolSize)
	db.SetMaxIdleConns(cfg.DBPoolSize / 2)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	return db, nil
}

// MigrateOrCreateSchema creates the users and todos tables if missing.
// Deleting a user cascades to its todos through an explicit transaction in
// the repository, not through a foreign-key action, so the schema carries
// a plain REFERENCES constraint.
func MigrateOrCreateSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS todos (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(80) NOT NULL,
			content VARCHAR(500) NOT NULL,
			user_id BIGINT REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			is_finished BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_updated_at ON todos (updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
