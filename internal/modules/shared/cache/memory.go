package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Metrics tracks cache performance statistics
type Metrics struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalReads int64
	TotalSize  int64
}

// HitRate calculates the cache hit rate as a percentage
func (m *Metrics) HitRate() float64 {
	if m.TotalReads == 0 {
		return 0.0
	}
	return float64(m.Hits) / float64(m.TotalReads) * 100.0
}

// MemoryStore is a size-bounded in-process TTL cache.
type MemoryStore struct {
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
	mu      sync.Mutex
	metrics Metrics
	stopCh  chan struct{}
	once    sync.Once
}

// NewMemoryStore starts a store that sweeps expired entries twice per TTL.
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	s := newMemoryStore(ttl, maxSize, time.Now)
	go s.cleanupLoop()
	return s
}

func newMemoryStore(ttl time.Duration, maxSize int, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		maxSize: max(maxSize, 1),
		now:     now,
		stopCh:  make(chan struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalReads++

	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		s.metrics.Misses++
		return nil, false, nil
	}

	s.metrics.Hits++
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxSize {
		s.evictExpired()
		if len(s.entries) >= s.maxSize {
			s.evictOldest()
		}
	}

	s.entries[key] = &entry{
		value:     value,
		expiresAt: s.now().Add(s.ttl),
	}
	s.metrics.TotalSize = int64(len(s.entries))
	return nil
}

// Size returns the current number of entries, expired ones included.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Metrics returns a copy of the current cache metrics
func (s *MemoryStore) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// Close stops the background sweep.
func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.stopCh)
	})
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(max(s.ttl/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.metrics.TotalSize = int64(len(s.entries))
}

// evictExpired must be called with the lock held.
func (s *MemoryStore) evictExpired() {
	now := s.now()
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			s.metrics.Evictions++
		}
	}
}

// evictOldest drops the entry closest to expiry. Must be called with the
// lock held.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldest time.Time

	for key, e := range s.entries {
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey = key
			oldest = e.expiresAt
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
		s.metrics.Evictions++
	}
}
