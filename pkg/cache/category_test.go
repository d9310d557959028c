package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T, ttls map[Category]time.Duration) *Store {
	t.Helper()
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	return NewStore(mc, ttls)
}

func TestStoreSetThenGet(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	if err := s.Set(ctx, "price:bitcoin", 50000.0, CategoryPrice); err != nil {
		t.Fatalf("set: %v", err)
	}
	var v float64
	if err := s.Get(ctx, "price:bitcoin", &v); err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 50000.0 {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestStoreCategoryTTLTable(t *testing.T) {
	s := newTestStore(t, nil)

	cases := map[Category]time.Duration{
		CategoryPrice:          60 * time.Second,
		CategoryPredict:        300 * time.Second,
		CategoryRecommendation: 120 * time.Second,
		CategoryHistorical:     3600 * time.Second,
		CategoryHeadlines:      300 * time.Second,
		CategoryNewsFeeds:      600 * time.Second,
	}
	for cat, want := range cases {
		if got := s.TTL(cat); got != want {
			t.Fatalf("ttl(%s) = %v, want %v", cat, got, want)
		}
	}
	if got := s.TTL(Category("mystery")); got != DefaultTTL {
		t.Fatalf("unknown category ttl = %v, want %v", got, DefaultTTL)
	}
}

func TestStoreExpiry(t *testing.T) {
	s := newTestStore(t, map[Category]time.Duration{
		Category("blink"): 10 * time.Millisecond,
	})
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", Category("blink")); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	var v string
	if err := s.Get(ctx, "k", &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestStoreClearExpired(t *testing.T) {
	s := newTestStore(t, map[Category]time.Duration{
		Category("blink"): 10 * time.Millisecond,
		Category("keep"):  time.Minute,
	})
	ctx := context.Background()

	_ = s.Set(ctx, "a", "1", Category("blink"))
	_ = s.Set(ctx, "b", "2", Category("keep"))
	time.Sleep(20 * time.Millisecond)

	evicted, err := s.ClearExpired(ctx)
	if err != nil {
		t.Fatalf("clear expired: %v", err)
	}
	if evicted != 1 {
		t.Fatalf("expected 1 evicted, got %d", evicted)
	}
}

func TestStoreStatus(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_ = s.Set(ctx, "p", 1.0, CategoryPrice)
	_ = s.Set(ctx, "h", 2.0, CategoryHistorical)
	_ = s.Set(ctx, "h2", 3.0, CategoryHistorical)

	st, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.TotalEntries != 3 {
		t.Fatalf("expected 3 entries, got %d", st.TotalEntries)
	}
	if len(st.CacheTypes) != 2 || st.CacheTypes[0] != "historical" || st.CacheTypes[1] != "price" {
		t.Fatalf("unexpected cache types %v", st.CacheTypes)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				key := GenerateKeyWithParams("price", n, j%5)
				_ = s.Set(ctx, key, float64(j), CategoryPrice)
				var v float64
				_ = s.Get(ctx, key, &v)
				_, _ = s.ClearExpired(ctx)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
