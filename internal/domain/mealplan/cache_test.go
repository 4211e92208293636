package mealplan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheKeyIgnoresSetOrder(t *testing.T) {
	kcal := 600
	a := CacheKey(QueryInput{SearchText: "lunch", SlotKcal: &kcal, Filters: Filters{
		Cuisines: []string{"italian", "Mexican"},
		Excluded: []string{"shrimp", "peanuts"},
	}})
	b := CacheKey(QueryInput{SearchText: "lunch", SlotKcal: &kcal, Filters: Filters{
		Cuisines: []string{"mexican", "italian"},
		Excluded: []string{"peanuts", "shrimp", "shrimp"},
	}})
	require.Equal(t, a, b)
	require.Contains(t, a, cacheKeyPrefix)
}

func TestCacheKeyDistinguishesRelevantInputs(t *testing.T) {
	low, high := 600, 900
	base := CacheKey(QueryInput{SearchText: "lunch", SlotKcal: &low})
	require.NotEqual(t, base, CacheKey(QueryInput{SearchText: "dinner", SlotKcal: &low}))
	require.NotEqual(t, base, CacheKey(QueryInput{SearchText: "lunch", SlotKcal: &high}))
	require.NotEqual(t, base, CacheKey(QueryInput{SearchText: "lunch", SlotKcal: &low, Filters: Filters{Health: "vegan"}}))
	require.Equal(t, base, CacheKey(QueryInput{SearchText: "lunch", SlotKcal: &low, Filters: Filters{Cuisines: []string{AnyCuisine}}}))
}

func TestPoolCacheTTL(t *testing.T) {
	store := newMapStore()
	cache := NewPoolCache(store, 15*time.Minute, nil, newTestLogger())
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	ctx := context.Background()
	cache.Put(ctx, "k", recipes("A"))

	clock = clock.Add(14*time.Minute + 59*time.Second)
	pool, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, "A", pool[0].Label)

	clock = clock.Add(time.Second)
	_, ok = cache.Get(ctx, "k")
	require.False(t, ok, "entry at exactly TTL age is stale")
}

func TestPoolCachePutOverwrites(t *testing.T) {
	store := newMapStore()
	cache := NewPoolCache(store, time.Minute, nil, newTestLogger())
	ctx := context.Background()

	cache.Put(ctx, "k", recipes("A"))
	cache.Put(ctx, "k", recipes("B"))
	pool, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, "B", pool[0].Label)
}

func TestPoolCacheAbsorbsStoreFailures(t *testing.T) {
	store := newMapStore()
	store.getErr = errStoreDown
	store.putErr = errStoreDown
	cache := NewPoolCache(store, time.Minute, nil, newTestLogger())
	ctx := context.Background()

	require.NotPanics(t, func() { cache.Put(ctx, "k", recipes("A")) })
	_, ok := cache.Get(ctx, "k")
	require.False(t, ok)

	nilStore := NewPoolCache(nil, time.Minute, nil, newTestLogger())
	nilStore.Put(ctx, "k", recipes("A"))
	_, ok = nilStore.Get(ctx, "k")
	require.False(t, ok)
}
