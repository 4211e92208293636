package poolstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "cache", "pools.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	recorded := time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)
	entry := fakeEntry("pool:breakfast", 7, recorded)
	store.now = func() time.Time { return recorded }

	require.NoError(t, store.Put(ctx, entry, 15*time.Minute))
	got, ok, err := store.Get(ctx, entry.Key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, entry.Key, got.Key)
	require.True(t, recorded.Equal(got.RecordedAt))
	require.Equal(t, entry.Pool, got.Pool)
}

func TestSQLiteStoreUpsertAndEmptyPool(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Put(ctx, fakeEntry("k", 1, now), 0))
	require.NoError(t, store.Put(ctx, mealplan.CacheEntry{Key: "k", RecordedAt: now}, 0))

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got.Pool)
}

func TestSQLiteStoreExpiryAndPurge(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, fakeEntry("short", 1, now), time.Minute))
	require.NoError(t, store.Put(ctx, fakeEntry("long", 2, now), time.Hour))
	now = now.Add(2 * time.Minute)

	purged, err := store.Purge(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = store.Get(ctx, "long")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOpenSQLiteStoreRequiresPath(t *testing.T) {
	_, err := OpenSQLiteStore(context.Background(), "")
	require.Error(t, err)
}
