package poolstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

type memoryRecord struct {
	entry     mealplan.CacheEntry
	expiresAt time.Time
}

// MemoryStore keeps pools in process memory. It is the default backend
// and the fallback when a configured backend cannot be reached.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryRecord
	now     func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

// Get implements mealplan.Store.
func (s *MemoryStore) Get(_ context.Context, key string) (mealplan.CacheEntry, bool, error) {
	if key == "" {
		return mealplan.CacheEntry{}, false, nil
	}
	s.mu.RLock()
	record, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return mealplan.CacheEntry{}, false, nil
	}
	if s.expired(record.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return mealplan.CacheEntry{}, false, nil
	}
	return record.entry, true, nil
}

// Put overwrites any existing entry for the key.
func (s *MemoryStore) Put(_ context.Context, entry mealplan.CacheEntry, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = memoryRecord{entry: entry, expiresAt: exp}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !s.now().Before(ts)
}

var _ mealplan.Store = (*MemoryStore)(nil)
