package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
)

type Config struct {
	Addr           string        // HTTP listen address (default: :8080)
	Issuer         string        // Issuer claim for session tokens (default: clubhouse-clubstore)
	DBDriver       string        // Database driver (sqlite, postgres) (default: sqlite)
	DBDSN          string        // Driver DSN; a file path for sqlite (default: clubstore.db)
	SigningKeyPath string        // Optional: Ed25519 PEM key file, generated if missing. Empty means an ephemeral key.
	PepperFile     string        // Optional: path to file containing pepper for password hashing
	SessionTTL     time.Duration // Session lifetime (default: 30 days)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Addr:           getEnvOrDefault("CLUBSTORE_ADDR", ":8080"),
		Issuer:         getEnvOrDefault("CLUBSTORE_ISSUER", "clubhouse-clubstore"),
		DBDriver:       getEnvOrDefault("CLUBSTORE_DB_DRIVER", "sqlite"),
		DBDSN:          os.Getenv("CLUBSTORE_DB_DSN"),
		SigningKeyPath: os.Getenv("CLUBSTORE_SIGNING_KEY_PATH"),
		PepperFile:     os.Getenv("CLUBSTORE_PEPPER_PATH"),
		SessionTTL:     getEnvDurationOrDefault("CLUBSTORE_SESSION_TTL", jwtx.DefaultSessionTTL),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("CLUBSTORE_HOUSEKEEPING_INTERVAL", time.Hour),
	}

	if cfg.DBDSN == "" && cfg.DBDriver == "sqlite" {
		cfg.DBDSN = "clubstore.db"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
