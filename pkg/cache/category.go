package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Category names a class of cached data with its own fixed TTL.
type Category string

const (
	CategoryPrice          Category = "price"
	CategoryPredict        Category = "predict"
	CategoryRecommendation Category = "recommendation"
	CategoryHistorical     Category = "historical"
	CategoryHeadlines      Category = "headlines"
	CategoryNewsFeeds      Category = "news_feeds"
)

// DefaultTTL applies to categories missing from the TTL table.
const DefaultTTL = 60 * time.Second

// DefaultTTLs returns the process-wide category TTL table.
func DefaultTTLs() map[Category]time.Duration {
	return map[Category]time.Duration{
		CategoryPrice:          60 * time.Second,
		CategoryPredict:        300 * time.Second,
		CategoryRecommendation: 120 * time.Second,
		CategoryHistorical:     3600 * time.Second,
		CategoryHeadlines:      300 * time.Second,
		CategoryNewsFeeds:      600 * time.Second,
	}
}

// Status reports live entry count and the categories seen so far.
type Status struct {
	TotalEntries int      `json:"total_entries"`
	CacheTypes   []string `json:"cache_types"`
}

// Store binds a cache backend to the category TTL table. The table is fixed
// at construction; Set resolves the expiration from the entry's category.
type Store struct {
	backend Service
	ttls    map[Category]time.Duration

	mu   sync.RWMutex
	cats map[Category]struct{}
}

// NewStore creates a category-aware store over a backend. A nil table means
// the default one.
func NewStore(backend Service, ttls map[Category]time.Duration) *Store {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &Store{
		backend: backend,
		ttls:    ttls,
		cats:    make(map[Category]struct{}),
	}
}

// TTL returns the category's TTL, or DefaultTTL for an unknown category.
func (s *Store) TTL(cat Category) time.Duration {
	if ttl, ok := s.ttls[cat]; ok {
		return ttl
	}
	return DefaultTTL
}

// Set stores a value under the category's TTL. Always overwrites.
func (s *Store) Set(ctx context.Context, key string, value interface{}, cat Category) error {
	s.mu.Lock()
	s.cats[cat] = struct{}{}
	s.mu.Unlock()

	return s.backend.Set(ctx, key, value, s.TTL(cat))
}

// Get reads a fresh value; returns ErrCacheMiss for unknown or expired keys.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	return s.backend.Get(ctx, key, dest)
}

// GetStale reads a value regardless of freshness. Only the historical
// fallback path is allowed to serve data obtained this way.
func (s *Store) GetStale(ctx context.Context, key string, dest interface{}) error {
	return s.backend.GetStale(ctx, key, dest)
}

// Delete removes keys from the backend.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	return s.backend.Delete(ctx, keys...)
}

// ClearExpired sweeps expired entries and returns how many were evicted.
// Housekeeping only; Get already enforces freshness lazily.
func (s *Store) ClearExpired(ctx context.Context) (int, error) {
	return s.backend.Sweep(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Status reports observability counters for the cache status endpoint.
func (s *Store) Status(ctx context.Context) (Status, error) {
	n, err := s.backend.Len(ctx)
	if err != nil {
		return Status{}, err
	}

	s.mu.RLock()
	types := make([]string, 0, len(s.cats))
	for cat := range s.cats {
		types = append(types, string(cat))
	}
	s.mu.RUnlock()
	sort.Strings(types)

	return Status{TotalEntries: n, CacheTypes: types}, nil
}
