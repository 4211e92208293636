package poolstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS recipe_pools (
	cache_key   TEXT PRIMARY KEY,
	recorded_at TIMESTAMPTZ NOT NULL,
	expires_at  TIMESTAMPTZ,
	pool        JSONB NOT NULL
)`

// PostgresStore shares pools between service replicas through Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the backing table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresSchema)
	return err
}

// Get implements mealplan.Store.
func (s *PostgresStore) Get(ctx context.Context, key string) (mealplan.CacheEntry, bool, error) {
	if key == "" {
		return mealplan.CacheEntry{}, false, nil
	}
	var (
		recordedAt time.Time
		payload    []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT recorded_at, pool
		FROM recipe_pools
		WHERE cache_key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, key).Scan(&recordedAt, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return mealplan.CacheEntry{}, false, nil
	}
	if err != nil {
		return mealplan.CacheEntry{}, false, err
	}
	var pool mealplan.RecipePool
	if err := json.Unmarshal(payload, &pool); err != nil {
		return mealplan.CacheEntry{}, false, fmt.Errorf("decode cached pool: %w", err)
	}
	return mealplan.CacheEntry{Key: key, RecordedAt: recordedAt.UTC(), Pool: pool}, true, nil
}

// Put implements mealplan.Store.
func (s *PostgresStore) Put(ctx context.Context, entry mealplan.CacheEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry.Pool)
	if err != nil {
		return err
	}
	var expiresAt *time.Time
	if ttl > 0 {
		exp := entry.RecordedAt.Add(ttl)
		expiresAt = &exp
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO recipe_pools (cache_key, recorded_at, expires_at, pool)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET
			recorded_at = EXCLUDED.recorded_at,
			expires_at = EXCLUDED.expires_at,
			pool = EXCLUDED.pool
	`, entry.Key, entry.RecordedAt, expiresAt, payload)
	return err
}

var _ mealplan.Store = (*PostgresStore)(nil)
