package mealplan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/yanqian/mealweek/pkg/metrics"
	"github.com/yanqian/mealweek/pkg/util"
)

// DefaultCacheTTL bounds how long a fetched pool is reused.
const DefaultCacheTTL = 15 * time.Minute

const cacheKeyPrefix = "pool:"

// CacheKey derives the cache key for a query. It depends only on the
// parameters sent upstream, with set-valued filters sorted so that
// selection order never changes the key.
func CacheKey(in QueryInput) string {
	in.Filters = in.Filters.canonical()
	sum := sha256.Sum256([]byte(BuildQuery(in).Encode()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// PoolCache is a best-effort TTL cache in front of a Store. Store failures
// are logged and treated as misses; a nil store always misses.
type PoolCache struct {
	store   Store
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewPoolCache wraps store with TTL semantics.
func NewPoolCache(store Store, ttl time.Duration, collector *metrics.Collector, logger *slog.Logger) *PoolCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PoolCache{
		store:   store,
		ttl:     ttl,
		now:     util.NowUTC,
		logger:  logger.With("component", "mealplan.cache"),
		metrics: collector,
	}
}

// Get returns the pool for key when it was recorded less than TTL ago.
func (c *PoolCache) Get(ctx context.Context, key string) (RecipePool, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("pool cache read failed", "key", key, "error", err)
		c.metrics.CacheLookup("error")
		return nil, false
	}
	if !ok {
		c.metrics.CacheLookup("miss")
		return nil, false
	}
	if c.now().Sub(entry.RecordedAt) >= c.ttl {
		c.metrics.CacheLookup("stale")
		return nil, false
	}
	c.metrics.CacheLookup("hit")
	return entry.Pool, true
}

// Put records pool under key, replacing any previous entry.
func (c *PoolCache) Put(ctx context.Context, key string, pool RecipePool) {
	if c == nil || c.store == nil {
		return
	}
	entry := CacheEntry{Key: key, RecordedAt: c.now(), Pool: pool}
	if err := c.store.Put(ctx, entry, c.ttl); err != nil {
		c.logger.Warn("pool cache write failed", "key", key, "error", err)
	}
}
