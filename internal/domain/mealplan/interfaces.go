package mealplan

import (
	"context"
	"net/url"
	"time"
)

// RecipeSearcher runs one recipe search, retrying transient failures and
// reporting retries to observer (which may be nil).
type RecipeSearcher interface {
	Search(ctx context.Context, params url.Values, observer RetryObserver) (RecipePool, error)
}

// Store is the key-value surface backing the pool cache. Implementations
// overwrite on Put; ttl is a hint for physical expiry.
type Store interface {
	Get(ctx context.Context, key string) (CacheEntry, bool, error)
	Put(ctx context.Context, entry CacheEntry, ttl time.Duration) error
}
