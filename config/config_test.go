package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BASE_HOST", "http://go")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://go", cfg.BaseHost)
	assert.Equal(t, "data/db.sqlite3", cfg.DatabasePath)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 4096, cfg.CacheSize)
	assert.Equal(t, 60, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 400, cfg.ClickBatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.ClickFlushInterval)
	assert.Equal(t, 8192, cfg.ClickBuffer)
	assert.False(t, cfg.Development())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BASE_HOST", "https://go.example.com")
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "libsql://links.turso.io")
	t.Setenv("CACHE_SIZE", "16")
	t.Setenv("RATE_LIMIT_WINDOW", "10s")
	t.Setenv("CLICK_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "libsql://links.turso.io", cfg.DatabaseURL)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, time.Second, cfg.ClickFlushInterval)
	assert.True(t, cfg.Development())
}

func TestLoadRequiresBaseHost(t *testing.T) {
	t.Setenv("BASE_HOST", "")

	_, err := Load()
	assert.EqualError(t, err, "BASE_HOST is required")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := map[string]string{
		"CACHE_SIZE":           "lots",
		"RATE_LIMIT_WINDOW":    "soon",
		"CLICK_BATCH_SIZE":     "0",
		"CLICK_FLUSH_INTERVAL": "-1s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("BASE_HOST", "http://go")
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
