package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"todoapi/internal/config"
	"todoapi/pkg/logger"
)

const todosListKey = "todos:all"

// Cache is a raw-bytes Redis cache for the unfiltered todo list. Filtered
// queries always go to the database; only the hot no-filter read is cached.
// A nil *Cache is valid and disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis from config. Returns nil (caching disabled) when the
// URL is invalid or the server is unreachable; the API works without it.
func New(ctx context.Context, cfg *config.Config) *Cache {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
		return nil
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "Redis unreachable, caching disabled", "error", err)
		return nil
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	return &Cache{client: client, ttl: time.Duration(cfg.CacheTTL) * time.Second}
}

// GetRawTodos reads the serialized unfiltered list. (nil, false) on miss.
func (c *Cache) GetRawTodos(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, todosListKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	return b, true
}

// SetRawTodos stores the serialized unfiltered list with the configured TTL.
func (c *Cache) SetRawTodos(ctx context.Context, b []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, todosListKey, b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// Invalidate drops the cached list so the next read goes to the database.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, todosListKey).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate todos failed", "error", err)
	}
}

// Ping reports Redis reachability for the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
