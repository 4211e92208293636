package poolstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/internal/infra/config"
)

// Open connects the backend selected by cfg and returns the store with
// a function releasing its connections.
func Open(ctx context.Context, cfg config.CacheConfig) (mealplan.Store, func(), error) {
	switch cfg.Backend {
	case "", config.CacheBackendMemory:
		return NewMemoryStore(), func() {}, nil

	case config.CacheBackendValkey:
		opt, err := valkeyOptions(cfg.Valkey.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid valkey configuration: %w", err)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			return nil, nil, fmt.Errorf("create valkey client: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("valkey ping: %w", err)
		}
		return NewValkeyStore(client, cfg.Valkey.Prefix), client.Close, nil

	case config.CacheBackendSQLite:
		store, err := OpenSQLiteStore(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if _, err := store.Purge(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("purge expired pools: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case config.CacheBackendPostgres:
		pool, err := openPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		store := NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("prepare postgres schema: %w", err)
		}
		return store, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
}

func openPostgresPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func valkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
