package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends understood by the pool store provider.
const (
	CacheBackendMemory   = "memory"
	CacheBackendValkey   = "valkey"
	CacheBackendSQLite   = "sqlite"
	CacheBackendPostgres = "postgres"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Edamam  EdamamConfig  `yaml:"edamam"`
	Retry   RetryConfig   `yaml:"retry"`
	Cache   CacheConfig   `yaml:"cache"`
	Planner PlannerConfig `yaml:"planner"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// EdamamConfig holds recipe search credentials.
type EdamamConfig struct {
	BaseURL    string        `yaml:"baseUrl"`
	AppID      string        `yaml:"appId"`
	AppKey     string        `yaml:"appKey"`
	UserID     string        `yaml:"userId"`
	MaxResults int           `yaml:"maxResults"`
	ImageSize  string        `yaml:"imageSize"`
	Random     bool          `yaml:"random"`
	Timeout    time.Duration `yaml:"timeout"`
}

// RetryConfig shapes the backoff of upstream recipe searches.
type RetryConfig struct {
	MaxAttempts   int           `yaml:"maxAttempts"`
	BaseDelay     time.Duration `yaml:"baseDelay"`
	BackoffFactor float64       `yaml:"backoffFactor"`
}

// CacheConfig selects and configures the recipe pool cache.
type CacheConfig struct {
	TTL      time.Duration  `yaml:"ttl"`
	Backend  string         `yaml:"backend"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// SQLiteConfig points at the local cache database.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// PlannerConfig bounds plan shapes accepted from clients.
type PlannerConfig struct {
	MaxMealsPerDay     int `yaml:"maxMealsPerDay"`
	DefaultMealsPerDay int `yaml:"defaultMealsPerDay"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("EDAMAM_BASE_URL"); v != "" {
		cfg.Edamam.BaseURL = v
	}
	if v := os.Getenv("EDAMAM_APP_ID"); v != "" {
		cfg.Edamam.AppID = v
	}
	if v := os.Getenv("EDAMAM_APP_KEY"); v != "" {
		cfg.Edamam.AppKey = v
	}
	if v := os.Getenv("EDAMAM_USER_ID"); v != "" {
		cfg.Edamam.UserID = v
	}
	if v := os.Getenv("EDAMAM_MAX_RESULTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Edamam.MaxResults = parsed
		}
	}
	if v := os.Getenv("EDAMAM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Edamam.Timeout = parsed
		}
	}
	if v := os.Getenv("RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("RETRY_BASE_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Retry.BaseDelay = parsed
		}
	}
	if v := os.Getenv("RETRY_BACKOFF_FACTOR"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Retry.BackoffFactor = parsed
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("CACHE_SQLITE_PATH"); v != "" {
		cfg.Cache.SQLite.Path = v
	}
	if v := os.Getenv("CACHE_POSTGRES_DSN"); v != "" {
		cfg.Cache.Postgres.DSN = v
	}
	if v := os.Getenv("CACHE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CACHE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("PLANNER_MAX_MEALS_PER_DAY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Planner.MaxMealsPerDay = parsed
		}
	}
	if v := os.Getenv("PLANNER_DEFAULT_MEALS_PER_DAY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Planner.DefaultMealsPerDay = parsed
		}
	}
}

// Default returns the configuration used when no file or env overrides apply.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		Edamam: EdamamConfig{
			BaseURL:    "https://api.edamam.com/api/recipes/v2",
			MaxResults: 60,
			ImageSize:  "REGULAR",
			Random:     true,
			Timeout:    15 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:   3,
			BaseDelay:     900 * time.Millisecond,
			BackoffFactor: 2,
		},
		Cache: CacheConfig{
			TTL:     15 * time.Minute,
			Backend: CacheBackendMemory,
			Valkey:  ValkeyConfig{Prefix: "mealweek"},
			SQLite:  SQLiteConfig{Path: "data/pools.db"},
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Planner: PlannerConfig{
			MaxMealsPerDay:     6,
			DefaultMealsPerDay: 3,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Edamam.BaseURL) == "" {
		return errors.New("edamam.baseUrl cannot be empty")
	}
	if c.Edamam.MaxResults <= 0 {
		return errors.New("edamam.maxResults must be positive")
	}
	if c.Edamam.Timeout <= 0 {
		return errors.New("edamam.timeout must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return errors.New("retry.maxAttempts must be positive")
	}
	if c.Retry.BaseDelay < 0 {
		return errors.New("retry.baseDelay cannot be negative")
	}
	if c.Retry.BackoffFactor < 1 {
		return errors.New("retry.backoffFactor must be at least 1")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendValkey:
		if strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
			return errors.New("cache.valkey.addr cannot be empty when the valkey backend is selected")
		}
	case CacheBackendSQLite:
		if strings.TrimSpace(c.Cache.SQLite.Path) == "" {
			return errors.New("cache.sqlite.path cannot be empty when the sqlite backend is selected")
		}
	case CacheBackendPostgres:
		if strings.TrimSpace(c.Cache.Postgres.DSN) == "" {
			return errors.New("cache.postgres.dsn cannot be empty when the postgres backend is selected")
		}
	default:
		return fmt.Errorf("cache.backend %q is not supported", c.Cache.Backend)
	}
	if c.Planner.MaxMealsPerDay <= 0 {
		return errors.New("planner.maxMealsPerDay must be positive")
	}
	if c.Planner.DefaultMealsPerDay <= 0 || c.Planner.DefaultMealsPerDay > c.Planner.MaxMealsPerDay {
		return errors.New("planner.defaultMealsPerDay must be between 1 and planner.maxMealsPerDay")
	}
	return nil
}

// HasCredentials reports whether recipe search credentials are set.
func (c *Config) HasCredentials() bool {
	return strings.TrimSpace(c.Edamam.AppID) != "" && strings.TrimSpace(c.Edamam.AppKey) != ""
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
