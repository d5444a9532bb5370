package config

import (
	"os"
	"strconv"
	"time"
)

// DBConfig carries the connection string and pool sizing knobs. The pool
// ceiling is the base size plus the overflow allowance, mirroring how the
// deployment environment sizes it.
type DBConfig struct {
	URL             string
	Path            string
	MaxConns        int
	MinConns        int
	ConnectTimeout  time.Duration
	ConnMaxLifetime time.Duration
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ResponseCacheConfig configuration for response caching
type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// AppConfig general application configurations
type AppConfig struct {
	Port string
	DB   DBConfig

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	CacheConfigs map[string]ResponseCacheConfig

	Environment string
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port: envOr("PORT", "8080"),
		DB: DBConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Path:            envOr("DATABASE_PATH", "tasks.db"),
			MaxConns:        envInt("DB_MAX_CONNS", 30),
			MinConns:        envInt("DB_MIN_CONNS", 10),
			ConnectTimeout:  envDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]ResponseCacheConfig{
			"/tasks": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
		},
		Environment: envOr("ENVIRONMENT", "development"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)

	if err != nil {
		return fallback
	}

	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)

	if err != nil {
		return fallback
	}

	return parsed
}
