// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every server setting.
type Config struct {
	Port int

	// DBDriver is "sqlite" or "postgres". SQLite uses DBPath, PostgreSQL
	// uses DatabaseURL.
	DBDriver    string
	DBPath      string
	DatabaseURL string

	// RedisURL is optional; an empty value disables the cache.
	RedisURL string
	CacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	// FxSourceURL is optional; an empty value disables the refresher.
	FxSourceURL       string
	FxRefreshInterval time.Duration
	FxBase            string

	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBPath:      getEnv("DB_PATH", "./data/wesplit.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FxSourceURL: getEnv("FX_SOURCE_URL", ""),
		FxBase:      getEnv("FX_BASE", "USD"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.FxRefreshInterval, err = getDuration("FX_REFRESH_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.FxSourceURL != "" && c.FxRefreshInterval <= 0 {
		return fmt.Errorf("FX_REFRESH_INTERVAL must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
