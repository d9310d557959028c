package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
)

// Recommendation composes current price, the price from 24 hours earlier and
// aggregated sentiment into one trading signal per asset. Every constituent
// is independently cached; the composed result is cached on top so a burst
// of simultaneous sub-cache misses still bounds recomputation.
type Recommendation struct {
	store      *cache.Store
	prices     *Prices
	historical repository.HistoricalSource
	sentiment  *Sentiment
	assets     []config.Asset
	metrics    repository.Metrics
	logger     *logger.Logger

	now func() time.Time
}

func NewRecommendation(store *cache.Store, prices *Prices, historical repository.HistoricalSource, sentiment *Sentiment, cfg *config.Config, metrics repository.Metrics, log *logger.Logger) *Recommendation {
	return &Recommendation{
		store:      store,
		prices:     prices,
		historical: historical,
		sentiment:  sentiment,
		assets:     cfg.Assets,
		metrics:    metrics,
		logger:     log,
		now:        time.Now,
	}
}

const recommendationCacheKey = "recommendation:all"

func point24hKey(id string) string {
	return cache.GenerateKeyWithParams("historical", "point24h", id)
}

// Signals returns the composed signal map for all tracked assets. Per-asset
// pipelines run concurrently; a failed asset is dropped from the map and
// logged rather than failing the whole response.
func (r *Recommendation) Signals(ctx context.Context) map[string]models.RecommendationSignal {
	var cached map[string]models.RecommendationSignal
	if err := r.store.Get(ctx, recommendationCacheKey, &cached); err == nil {
		r.metrics.RecordCacheHit(string(cache.CategoryRecommendation))
		return cached
	}
	r.metrics.RecordCacheMiss(string(cache.CategoryRecommendation))

	out := make(map[string]models.RecommendationSignal, len(r.assets))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, a := range r.assets {
		wg.Add(1)
		go func(asset config.Asset) {
			defer wg.Done()
			signal, err := r.assetSignal(ctx, asset)
			if err != nil {
				r.logger.Error("recommendation unavailable",
					logger.String("symbol", asset.Symbol),
					logger.Error(err),
				)
				return
			}
			mu.Lock()
			out[asset.Symbol] = signal
			mu.Unlock()
		}(a)
	}
	wg.Wait()

	if err := r.store.Set(ctx, recommendationCacheKey, out, cache.CategoryRecommendation); err != nil {
		r.logger.Warn("cache recommendation", logger.Error(err))
	}
	return out
}

func (r *Recommendation) assetSignal(ctx context.Context, asset config.Asset) (models.RecommendationSignal, error) {
	current, err := r.prices.CurrentPrice(ctx, asset)
	if err != nil {
		return models.RecommendationSignal{}, err
	}

	var delta, previous *float64
	if prev, err := r.price24hAgo(ctx, asset); err != nil {
		// Absent delta degrades to Hold; the signal still goes out.
		r.logger.Warn("24h price unavailable",
			logger.String("symbol", asset.Symbol),
			logger.Error(err),
		)
	} else if prev != 0 {
		d := (current - prev) / prev
		delta, previous = &d, &prev
	}

	report := r.sentiment.AssetReport(ctx, asset, 0)
	sentiment := report.Aggregate()

	return models.RecommendationSignal{
		Symbol:         asset.Symbol,
		Recommendation: models.Decide(sentiment, delta),
		Sentiment:      sentiment,
		PriceDelta:     delta,
		CurrentPrice:   current,
		PreviousPrice:  previous,
	}, nil
}

// price24hAgo resolves the price closest to 24 hours ago. The resolved
// scalar is cached under its own historical key, distinct from the slicer's
// full-series key; the raw range response is never cached.
func (r *Recommendation) price24hAgo(ctx context.Context, asset config.Asset) (float64, error) {
	key := point24hKey(asset.ID)

	var price float64
	if err := r.store.Get(ctx, key, &price); err == nil {
		r.metrics.RecordCacheHit(string(cache.CategoryHistorical))
		return price, nil
	}
	r.metrics.RecordCacheMiss(string(cache.CategoryHistorical))

	now := r.now()
	target := now.Add(-24 * time.Hour)
	points, err := r.historical.SeriesRange(ctx, asset.ID, target, now)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("empty 24h range for %s", asset.ID)
	}

	best := points[0]
	bestDist := absInt64(best.TimestampMs - target.UnixMilli())
	for _, p := range points[1:] {
		if d := absInt64(p.TimestampMs - target.UnixMilli()); d < bestDist {
			best, bestDist = p, d
		}
	}

	if err := r.store.Set(ctx, key, best.Value, cache.CategoryHistorical); err != nil {
		r.logger.Warn("cache 24h price", logger.String("id", asset.ID), logger.Error(err))
	}
	return best.Value, nil
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
