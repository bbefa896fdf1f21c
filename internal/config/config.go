// Package config loads service configuration from the environment.
package config

import (
	"os"
	"time"
)

// Config holds all runtime configuration for the server.
type Config struct {
	// HTTP
	Port        string
	Environment string // development | production
	LogLevel    string

	// Storage
	DatabaseURL string

	// Auth
	JWTSecret string

	// Payment gateway
	GatewayBaseURL   string
	GatewayServerKey string
	GatewayTimeout   time.Duration

	// Catalog cache
	CacheTTL  time.Duration
	RedisAddr string // empty = in-memory cache
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Port:        getEnv("APP_PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/tillpoint"),

		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),

		GatewayBaseURL:   getEnv("GATEWAY_BASE_URL", "https://app.sandbox.midtrans.com"),
		GatewayServerKey: getEnv("GATEWAY_SERVER_KEY", ""),
		GatewayTimeout:   getEnvDuration("GATEWAY_TIMEOUT", 15*time.Second),

		CacheTTL:  getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		RedisAddr: getEnv("REDIS_ADDR", ""),
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
