// Package cache stores provider responses under a TTL. MemoryStore keeps
// entries in process; RedisStore shares them between instances.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Store is a byte-oriented TTL cache. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key joins the parts of a cache key. Parts are lower-cased so that
// "Protein" and "protein" share an entry.
func Key(parts ...string) string {
	clean := make([]string, len(parts))
	for i, p := range parts {
		clean[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(clean, ":")
}

// GetJSON decodes a cached value into out. It reports whether the key was
// present.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
