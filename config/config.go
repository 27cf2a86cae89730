// config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration for the app.
type Config struct {
	Port         string
	BaseHost     string
	DatabasePath string
	DatabaseURL  string // libsql/Turso URL; takes precedence over DatabasePath
	AppEnv       string // "development" | "production"
	LogLevel     string

	CacheSize int

	RateLimitMax    int
	RateLimitWindow time.Duration

	ClickBatchSize     int
	ClickFlushInterval time.Duration
	ClickBuffer        int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		BaseHost:     os.Getenv("BASE_HOST"),
		DatabasePath: getenv("DATABASE_PATH", "data/db.sqlite3"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AppEnv:       getenv("APP_ENV", "production"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.CacheSize, err = getint("CACHE_SIZE", 4096); err != nil {
		return nil, err
	}
	if cfg.RateLimitMax, err = getint("RATE_LIMIT_MAX", 60); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getduration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ClickBatchSize, err = getint("CLICK_BATCH_SIZE", 400); err != nil {
		return nil, err
	}
	if cfg.ClickFlushInterval, err = getduration("CLICK_FLUSH_INTERVAL", 250*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ClickBuffer, err = getint("CLICK_BUFFER", 8192); err != nil {
		return nil, err
	}

	// Required validations
	if cfg.BaseHost == "" {
		return nil, errors.New("BASE_HOST is required")
	}
	if cfg.CacheSize <= 0 {
		return nil, errors.New("CACHE_SIZE must be positive")
	}
	if cfg.ClickBatchSize <= 0 || cfg.ClickFlushInterval <= 0 {
		return nil, errors.New("CLICK_BATCH_SIZE and CLICK_FLUSH_INTERVAL must be positive")
	}

	return cfg, nil
}

// Development reports whether verbose development logging should be used.
func (c *Config) Development() bool {
	return c.LogLevel == "debug" || c.AppEnv == "development"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
