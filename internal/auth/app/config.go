package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer       string // Issuer claim stamped into minted tokens
	DatabaseFile string // Path to the SQLite account directory (default: ./warden.db)

	AccessTTL  time.Duration // Access/identity token lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 7d)

	// MaxFailedAttempts is the failure-counter threshold at which a
	// lockout-enabled account gets locked (default: 5).
	MaxFailedAttempts int

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              getEnvOrDefault("WARDEN_ISSUER", "warden-auth"),
		DatabaseFile:        getEnvOrDefault("WARDEN_DATABASE_FILE", "warden.db"),
		AccessTTL:           getEnvDurationOrDefault("WARDEN_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:          getEnvDurationOrDefault("WARDEN_REFRESH_TTL", 7*24*time.Hour),
		MaxFailedAttempts:   getEnvIntOrDefault("WARDEN_MAX_FAILED_ATTEMPTS", 5),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
