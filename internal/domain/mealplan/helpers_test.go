package mealplan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mapStore struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	getErr  error
	putErr  error
	puts    int
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]CacheEntry)}
}

func (s *mapStore) Get(_ context.Context, key string) (CacheEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return CacheEntry{}, false, s.getErr
	}
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *mapStore) Put(_ context.Context, entry CacheEntry, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[entry.Key] = entry
	return nil
}

// stubSearcher answers by search term and records every call.
type stubSearcher struct {
	mu     sync.Mutex
	pools  map[string]RecipePool
	errs   map[string]error
	calls  []url.Values
	events []RetryEvent
}

func (s *stubSearcher) Search(ctx context.Context, params url.Values, observer RetryObserver) (RecipePool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, params)
	for _, ev := range s.events {
		Notify(observer, ev)
	}
	term := params.Get("q")
	if err, ok := s.errs[term]; ok {
		return nil, err
	}
	return s.pools[term], nil
}

func (s *stubSearcher) terms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Get("q"))
	}
	return out
}

func recipes(labels ...string) RecipePool {
	pool := make(RecipePool, 0, len(labels))
	for _, label := range labels {
		pool = append(pool, &Recipe{Label: label, Servings: 1, KcalTotal: 500})
	}
	return pool
}

var errStoreDown = errors.New("store unavailable")
