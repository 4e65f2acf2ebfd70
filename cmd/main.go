package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"todoapi/internal/cache"
	"todoapi/internal/config"
	"todoapi/internal/controller"
	"todoapi/internal/database"
	"todoapi/internal/queue"
	"todoapi/internal/repository"
	"todoapi/internal/routes"
	"todoapi/internal/worker"
	"todoapi/pkg/logger"
)

func main() {
	loadEnvFile(".env")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Database not available; exiting", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		logger.Error(ctx, "Schema migration failed", "error", err)
		os.Exit(1)
	}

	// Cache and event stream are optional; the API runs without either.
	listCache := cache.New(ctx, cfg)
	publisher := queue.NewPublisher(ctx, cfg)
	queue.EnsureTopic(ctx, cfg)

	// Consume change events from other replicas and drop stale cached lists.
	go worker.Run(ctx, cfg, listCache)

	store := repository.NewStore(db)
	todos := controller.NewTodoController(store, listCache, publisher)
	users := controller.NewUserController(store)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(cfg.JWTSecret, todos, users, db, listCache),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	cancel()
	if err := publisher.Close(); err != nil {
		logger.Error(ctx, "Kafka producer close error", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}

// loadEnvFile reads a .env file and sets env vars (only if not already set).
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
		if strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = strings.Trim(val, `"`)
		} else if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
			val = strings.Trim(val, "'")
		}
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
