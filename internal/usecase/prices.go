package usecase

import (
	"context"
	"fmt"

	"CoinPulse/internal/domain/repository"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
)

// Prices serves current USD prices for the tracked assets. One batched
// upstream call fills every asset's cache entry; subsequent lookups within
// the price TTL never touch the upstream.
type Prices struct {
	store   *cache.Store
	source  repository.PriceSource
	assets  []config.Asset
	metrics repository.Metrics
	logger  *logger.Logger
}

func NewPrices(store *cache.Store, source repository.PriceSource, cfg *config.Config, metrics repository.Metrics, log *logger.Logger) *Prices {
	return &Prices{
		store:   store,
		source:  source,
		assets:  cfg.Assets,
		metrics: metrics,
		logger:  log,
	}
}

func priceKey(id string) string {
	return cache.GenerateKey("price", id)
}

// Current returns the simple-price map for all tracked assets, in the
// upstream's own shape. This is the one path where total upstream failure
// escalates to the caller: with no price at all there is no degraded answer
// worth serving.
func (p *Prices) Current(ctx context.Context) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64, len(p.assets))

	var missing []config.Asset
	for _, a := range p.assets {
		var price float64
		if err := p.store.Get(ctx, priceKey(a.ID), &price); err == nil {
			p.metrics.RecordCacheHit(string(cache.CategoryPrice))
			out[a.ID] = map[string]float64{"usd": price}
			continue
		}
		p.metrics.RecordCacheMiss(string(cache.CategoryPrice))
		missing = append(missing, a)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := p.fetchAll(ctx)
	if err != nil {
		if len(out) > 0 {
			// Some assets still have fresh prices; serve the partial map.
			p.logger.Warn("price fetch failed, serving partial result", logger.Error(err))
			return out, nil
		}
		return nil, err
	}
	for _, a := range missing {
		if price, ok := fetched[a.ID]; ok {
			out[a.ID] = map[string]float64{"usd": price}
		}
	}
	return out, nil
}

// CurrentPrice resolves one asset's USD price through the same cache. A miss
// fetches the whole tracked set in one batched call.
func (p *Prices) CurrentPrice(ctx context.Context, asset config.Asset) (float64, error) {
	var price float64
	if err := p.store.Get(ctx, priceKey(asset.ID), &price); err == nil {
		p.metrics.RecordCacheHit(string(cache.CategoryPrice))
		return price, nil
	}
	p.metrics.RecordCacheMiss(string(cache.CategoryPrice))

	fetched, err := p.fetchAll(ctx)
	if err != nil {
		return 0, err
	}
	price, ok := fetched[asset.ID]
	if !ok {
		return 0, fmt.Errorf("no price for %s in upstream response", asset.ID)
	}
	return price, nil
}

// fetchAll performs the batched upstream call and caches every returned
// asset individually.
func (p *Prices) fetchAll(ctx context.Context) (map[string]float64, error) {
	ids := make([]string, len(p.assets))
	for i, a := range p.assets {
		ids[i] = a.ID
	}

	prices, err := p.source.CurrentPrices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch current prices: %w", err)
	}

	for _, a := range p.assets {
		price, ok := prices[a.ID]
		if !ok {
			continue
		}
		if err := p.store.Set(ctx, priceKey(a.ID), price, cache.CategoryPrice); err != nil {
			p.logger.Warn("cache price", logger.String("id", a.ID), logger.Error(err))
		}
		p.metrics.RecordLastPrice(a.Symbol, price)
	}
	return prices, nil
}
