package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
)

// ---- shared test doubles ----

type fakePriceSource struct {
	prices map[string]float64
	err    error

	mu    sync.Mutex
	calls int
}

func (f *fakePriceSource) CurrentPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

type fakeHistoricalSource struct {
	series      []models.PricePoint
	rangePoints []models.PricePoint
	err         error

	mu          sync.Mutex
	seriesCalls int
	rangeCalls  int
}

func (f *fakeHistoricalSource) Series(ctx context.Context, id string, days int) ([]models.PricePoint, error) {
	f.mu.Lock()
	f.seriesCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func (f *fakeHistoricalSource) SeriesRange(ctx context.Context, id string, from, to time.Time) ([]models.PricePoint, error) {
	f.mu.Lock()
	f.rangeCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rangePoints, nil
}

type fakeHeadlines struct {
	titles map[string][]string

	mu    sync.Mutex
	calls int
}

func (f *fakeHeadlines) Headlines(ctx context.Context, topic string, limit int) []string {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	titles, ok := f.titles[topic]
	if !ok {
		return []string{}
	}
	if limit > 0 && len(titles) > limit {
		titles = titles[:limit]
	}
	return titles
}

// fixedScorer maps exact texts to scores; anything else is neutral.
type fixedScorer struct {
	scores map[string]float64
}

func (f *fixedScorer) Polarity(text string) float64 {
	return f.scores[text]
}

type nopMetrics struct{}

func (nopMetrics) RecordCacheHit(string)           {}
func (nopMetrics) RecordCacheMiss(string)          {}
func (nopMetrics) RecordStaleServed(string)        {}
func (nopMetrics) RecordLastPrice(string, float64) {}

var errUpstreamDown = errors.New("upstream down")

func newTestStore() *cache.Store {
	return cache.NewStore(cache.NewMemoryCache(), nil)
}

func testAssets() *config.Config {
	cfg := &config.Config{}
	cfg.Assets = []config.Asset{
		{Symbol: "BTC", ID: "bitcoin", Subreddit: "Bitcoin"},
		{Symbol: "ETH", ID: "ethereum", Subreddit: "Ethereum"},
	}
	cfg.Feeds.Limit = 10
	cfg.Historical.MaxDays = 365
	cfg.Historical.BufferDays = 5
	return cfg
}

func dayMs(daysAgo int) int64 {
	return time.Now().AddDate(0, 0, -daysAgo).UnixMilli()
}

var testLogger = logger.Nop()
