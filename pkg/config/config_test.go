package config_test

import (
	"testing"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.DB.MaxOpenConns)
	assert.Equal(t, 3, cfg.DB.TxMaxRetries)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/prod")
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "postgres://u:p@db:5432/prod", cfg.DB.Url)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "json", cfg.Log.Format)
}
