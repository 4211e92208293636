package poolstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

const defaultValkeyPrefix = "mealweek"

// ValkeyStore persists pools in a Valkey/Redis compatible server with
// native key expiry.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = defaultValkeyPrefix
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements mealplan.Store.
func (s *ValkeyStore) Get(ctx context.Context, key string) (mealplan.CacheEntry, bool, error) {
	if key == "" {
		return mealplan.CacheEntry{}, false, nil
	}
	result := s.client.Do(ctx, s.client.B().Get().Key(s.entryKey(key)).Build())
	payload, err := result.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return mealplan.CacheEntry{}, false, nil
		}
		return mealplan.CacheEntry{}, false, err
	}
	var entry mealplan.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return mealplan.CacheEntry{}, false, err
	}
	return entry, true, nil
}

// Put implements mealplan.Store.
func (s *ValkeyStore) Put(ctx context.Context, entry mealplan.CacheEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(entry.Key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":" + key
}

var _ mealplan.Store = (*ValkeyStore)(nil)
