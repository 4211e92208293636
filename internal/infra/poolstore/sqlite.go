package poolstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS recipe_pools (
	cache_key   TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL DEFAULT 0,
	pool        TEXT NOT NULL
)`

// SQLiteStore keeps pools in a local SQLite file so a CLI run can reuse
// the previous run's searches.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens or creates the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps SQLITE_BUSY away.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Get implements mealplan.Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) (mealplan.CacheEntry, bool, error) {
	if key == "" {
		return mealplan.CacheEntry{}, false, nil
	}
	var (
		recordedAt int64
		expiresAt  int64
		payload    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT recorded_at, expires_at, pool FROM recipe_pools WHERE cache_key = ?`, key,
	).Scan(&recordedAt, &expiresAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return mealplan.CacheEntry{}, false, nil
	}
	if err != nil {
		return mealplan.CacheEntry{}, false, err
	}
	if expiresAt > 0 && s.now().UnixMilli() >= expiresAt {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM recipe_pools WHERE cache_key = ?`, key)
		return mealplan.CacheEntry{}, false, nil
	}
	var pool mealplan.RecipePool
	if err := json.Unmarshal([]byte(payload), &pool); err != nil {
		return mealplan.CacheEntry{}, false, fmt.Errorf("decode cached pool: %w", err)
	}
	return mealplan.CacheEntry{
		Key:        key,
		RecordedAt: time.UnixMilli(recordedAt).UTC(),
		Pool:       pool,
	}, true, nil
}

// Put implements mealplan.Store.
func (s *SQLiteStore) Put(ctx context.Context, entry mealplan.CacheEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry.Pool)
	if err != nil {
		return err
	}
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixMilli()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipe_pools (cache_key, recorded_at, expires_at, pool)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			recorded_at = excluded.recorded_at,
			expires_at = excluded.expires_at,
			pool = excluded.pool
	`, entry.Key, entry.RecordedAt.UnixMilli(), expiresAt, string(payload))
	return err
}

// Purge drops expired rows and returns how many were removed.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipe_pools WHERE expires_at > 0 AND expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ mealplan.Store = (*SQLiteStore)(nil)
