package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryItem stores an encoded cached value with expiration.
type MemoryItem struct {
	Data     []byte
	ExpireAt time.Time
}

// IsExpired checks if item has expired.
func (m *MemoryItem) IsExpired() bool {
	return time.Now().After(m.ExpireAt)
}

// MemoryCache implements Service using in-memory storage with LRU eviction.
// An expired entry read by Get is evicted from the live table but moved to a
// stale shadow so GetStale can still serve it until the next Set or Delete
// of that key.
type MemoryCache struct {
	data          map[string]*MemoryItem
	stale         map[string][]byte
	access        map[string]time.Time
	mutex         sync.RWMutex
	maxSize       int
	cleanupTicker *time.Ticker
	done          chan struct{}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		data:          make(map[string]*MemoryItem),
		stale:         make(map[string][]byte),
		access:        make(map[string]time.Time),
		maxSize:       cfg.MaxSize,
		cleanupTicker: time.NewTicker(cfg.CleanupInterval),
		done:          make(chan struct{}),
	}

	go mc.cleanupLoop()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := encodeValue(value)
	if err != nil {
		return err
	}

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if _, exists := mc.data[key]; !exists && len(mc.data) >= mc.maxSize {
		mc.evictLRU()
	}

	if expiration <= 0 {
		expiration = DefaultTTL
	}

	mc.data[key] = &MemoryItem{
		Data:     data,
		ExpireAt: time.Now().Add(expiration),
	}
	mc.access[key] = time.Now()
	delete(mc.stale, key)
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	item, exists := mc.data[key]
	if !exists {
		return ErrCacheMiss
	}
	if item.IsExpired() {
		// Lazy eviction: the read removes the entry from the live table,
		// keeping the value reachable for stale fallback.
		mc.stale[key] = item.Data
		delete(mc.data, key)
		delete(mc.access, key)
		return ErrCacheMiss
	}

	mc.access[key] = time.Now()
	return decodeValue(item.Data, dest)
}

func (mc *MemoryCache) GetStale(_ context.Context, key string, dest interface{}) error {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	if item, ok := mc.data[key]; ok {
		return decodeValue(item.Data, dest)
	}
	if data, ok := mc.stale[key]; ok {
		return decodeValue(data, dest)
	}
	return ErrCacheMiss
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
		delete(mc.stale, key)
		delete(mc.access, key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	for _, key := range keys {
		if item, ok := mc.data[key]; ok && !item.IsExpired() {
			return true, nil
		}
	}
	return false, nil
}

// Len counts live (non-expired) entries.
func (mc *MemoryCache) Len(_ context.Context) (int, error) {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	n := 0
	for _, item := range mc.data {
		if !item.IsExpired() {
			n++
		}
	}
	return n, nil
}

// Sweep moves all expired entries out of the live table and returns the count.
func (mc *MemoryCache) Sweep(_ context.Context) (int, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	evicted := 0
	for key, item := range mc.data {
		if item.IsExpired() {
			mc.stale[key] = item.Data
			delete(mc.data, key)
			delete(mc.access, key)
			evicted++
		}
	}
	return evicted, nil
}

func (mc *MemoryCache) evictLRU() {
	if len(mc.data) == 0 {
		return
	}

	var oldestKey string
	oldestTime := time.Now()

	for key, accessTime := range mc.access {
		if accessTime.Before(oldestTime) {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(mc.data, oldestKey)
		delete(mc.access, oldestKey)
	}
}

func (mc *MemoryCache) cleanupLoop() {
	for {
		select {
		case <-mc.done:
			return
		case <-mc.cleanupTicker.C:
			_, _ = mc.Sweep(context.Background())
		}
	}
}

// Close stops the cleanup ticker.
func (mc *MemoryCache) Close() error {
	if mc.cleanupTicker != nil {
		mc.cleanupTicker.Stop()
	}
	close(mc.done)
	return nil
}
