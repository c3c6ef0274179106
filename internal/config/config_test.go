package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "BTC-USD", cfg.Book.Symbol)
	assert.Equal(t, int32(2), cfg.Book.DecimalScale)
	assert.Equal(t, int64(1_000_000_000), cfg.Book.MaxMagnitude)
	assert.False(t, cfg.Book.Demo)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOB_SERVER_ADDR", ":9090")
	t.Setenv("LOB_BOOK_SYMBOL", "ETH-USD")
	t.Setenv("LOB_BOOK_DECIMAL_SCALE", "4")
	t.Setenv("LOB_CACHE_ENABLED", "true")
	t.Setenv("LOB_CACHE_REDIS_ADDR", "redis:6379")
	t.Setenv("LOB_LOGGING_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "ETH-USD", cfg.Book.Symbol)
	assert.Equal(t, int32(4), cfg.Book.DecimalScale)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
