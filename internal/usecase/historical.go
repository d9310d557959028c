package usecase

import (
	"context"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
)

// Historical implements the fetch-once, slice-many historical pipeline: one
// long-range series per asset is fetched and cached at the maximum horizon,
// and every timeframe window is sliced out of that cached series. When the
// upstream is down and the cached series has expired, the stale copy is
// served and flagged.
type Historical struct {
	store      *cache.Store
	source     repository.HistoricalSource
	assets     []config.Asset
	maxDays    int
	bufferDays int
	metrics    repository.Metrics
	logger     *logger.Logger

	now func() time.Time
}

func NewHistorical(store *cache.Store, source repository.HistoricalSource, cfg *config.Config, metrics repository.Metrics, log *logger.Logger) *Historical {
	return &Historical{
		store:      store,
		source:     source,
		assets:     cfg.Assets,
		maxDays:    cfg.Historical.MaxDays,
		bufferDays: cfg.Historical.BufferDays,
		metrics:    metrics,
		logger:     log,
		now:        time.Now,
	}
}

func seriesKey(id string) string {
	return cache.GenerateKey("historical", id)
}

// Window returns every tracked asset's view for the timeframe. Assets are
// computed concurrently and failures are scoped per asset; one dead series
// never blocks the others.
func (h *Historical) Window(ctx context.Context, tf repository.Timeframe) map[string]models.HistoricalView {
	out := make(map[string]models.HistoricalView, len(h.assets))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, a := range h.assets {
		wg.Add(1)
		go func(asset config.Asset) {
			defer wg.Done()
			view := h.assetWindow(ctx, asset, tf)
			mu.Lock()
			out[asset.Symbol] = view
			mu.Unlock()
		}(a)
	}
	wg.Wait()
	return out
}

func (h *Historical) assetWindow(ctx context.Context, asset config.Asset, tf repository.Timeframe) models.HistoricalView {
	points, stale, err := h.series(ctx, asset)
	if err != nil {
		h.logger.Error("historical series unavailable",
			logger.String("symbol", asset.Symbol),
			logger.Error(err),
		)
		return models.HistoricalView{
			Symbol:    asset.Symbol,
			Timeframe: tf.String(),
			Error:     "historical data unavailable",
		}
	}

	days := tf.Days()
	cutoff := h.now().AddDate(0, 0, -(days + h.bufferDays)).UnixMilli()
	window := points[:0:0]
	for _, p := range points {
		if p.TimestampMs >= cutoff {
			window = append(window, p)
		}
	}

	daily := models.DedupDaily(window).TailDays(days)
	last, change, percent, _ := daily.Delta()

	return models.HistoricalView{
		Symbol:             asset.Symbol,
		Dates:              daily.Dates,
		Prices:             daily.Prices,
		CurrentPrice:       last,
		PriceChange:        change,
		PriceChangePercent: percent,
		Timeframe:          tf.String(),
		Stale:              stale,
	}
}

// series returns the asset's long-range raw series: fresh cache, then a new
// fetch at the maximum horizon, then the stale fallback.
func (h *Historical) series(ctx context.Context, asset config.Asset) ([]models.PricePoint, bool, error) {
	key := seriesKey(asset.ID)

	var points []models.PricePoint
	if err := h.store.Get(ctx, key, &points); err == nil {
		h.metrics.RecordCacheHit(string(cache.CategoryHistorical))
		return points, false, nil
	}
	h.metrics.RecordCacheMiss(string(cache.CategoryHistorical))

	points, fetchErr := h.source.Series(ctx, asset.ID, h.maxDays)
	if fetchErr == nil {
		if err := h.store.Set(ctx, key, points, cache.CategoryHistorical); err != nil {
			h.logger.Warn("cache historical series", logger.String("id", asset.ID), logger.Error(err))
		}
		return points, false, nil
	}

	if err := h.store.GetStale(ctx, key, &points); err == nil {
		h.logger.Warn("serving stale historical series",
			logger.String("symbol", asset.Symbol),
			logger.Error(fetchErr),
		)
		h.metrics.RecordStaleServed(asset.Symbol)
		return points, true, nil
	}
	return nil, false, fetchErr
}
