package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todoapi/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "DATABASE_URL", "DB_POOL_SIZE", "REDIS_URL",
		"CACHE_TTL_SEC", "KAFKA_BROKERS", "KAFKA_TODO_TOPIC", "JWT_SECRET"} {
		t.Setenv(key, "")
	}
	cfg := config.Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 20, cfg.DBPoolSize)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 300, cfg.CacheTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "todo-events", cfg.KafkaTopic)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("DB_POOL_SIZE", "7")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("JWT_SECRET", "s3cret")
	cfg := config.Load()
	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, 7, cfg.DBPoolSize)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadBadInt(t *testing.T) {
	t.Setenv("DB_POOL_SIZE", "lots")
	assert.Equal(t, 20, config.Load().DBPoolSize)
}
