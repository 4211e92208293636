package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.Equal(t, 900*time.Millisecond, cfg.Retry.BaseDelay)
	require.False(t, cfg.HasCredentials())
}

func TestLoadReadsFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
edamam:
  appId: file-id
  appKey: file-key
cache:
  ttl: 10m
  backend: sqlite
  sqlite:
    path: /tmp/pools.db
planner:
  defaultMealsPerDay: 4
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("EDAMAM_APP_KEY", "env-key")
	t.Setenv("RETRY_BASE_DELAY", "250ms")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "file-id", cfg.Edamam.AppID)
	require.Equal(t, "env-key", cfg.Edamam.AppKey)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, CacheBackendSQLite, cfg.Cache.Backend)
	require.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
	require.Equal(t, 4, cfg.Planner.DefaultMealsPerDay)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORS.AllowedOrigins)
	require.True(t, cfg.HasCredentials())
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown backend":       func(c *Config) { c.Cache.Backend = "memcached" },
		"valkey without addr":   func(c *Config) { c.Cache.Backend = CacheBackendValkey },
		"postgres without dsn":  func(c *Config) { c.Cache.Backend = CacheBackendPostgres },
		"zero ttl":              func(c *Config) { c.Cache.TTL = 0 },
		"zero attempts":         func(c *Config) { c.Retry.MaxAttempts = 0 },
		"shrinking backoff":     func(c *Config) { c.Retry.BackoffFactor = 0.5 },
		"default above maximum": func(c *Config) { c.Planner.DefaultMealsPerDay = 9 },
		"rate limit burst":      func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
