package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	DBPoolSize      int
	RedisURL        string
	RedisPoolSize   int
	CacheTTL        int // seconds
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
	JWTSecret       string
}

// Load builds a Config from the environment, applying defaults.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBPoolSize:      getIntEnv("DB_POOL_SIZE", 20),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPoolSize:   getIntEnv("REDIS_POOL_SIZE", 50),
		CacheTTL:        getIntEnv("CACHE_TTL_SEC", 300),
		KafkaBrokers:    getSliceEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:      getEnv("KAFKA_TODO_TOPIC", "todo-events"),
		KafkaPartitions: getIntEnv("KAFKA_PARTITIONS", 4),
		JWTSecret:       os.Getenv("JWT_SECRET"),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key, defaultVal string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = defaultVal
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
