package usecase

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
	"CoinPulse/pkg/util"
)

// predictionDays is the trailing window the regression is fit over.
const predictionDays = 30

// Prediction estimates each asset's next-day price with an ordinary least
// squares fit over the last month of daily closes.
type Prediction struct {
	store   *cache.Store
	source  repository.HistoricalSource
	assets  []config.Asset
	metrics repository.Metrics
	logger  *logger.Logger
}

func NewPrediction(store *cache.Store, source repository.HistoricalSource, cfg *config.Config, metrics repository.Metrics, log *logger.Logger) *Prediction {
	return &Prediction{
		store:   store,
		source:  source,
		assets:  cfg.Assets,
		metrics: metrics,
		logger:  log,
	}
}

const predictionCacheKey = "predict:all"

// Predict returns next-day estimates for all tracked assets. The whole
// response is cached as one unit under the predict TTL.
func (p *Prediction) Predict(ctx context.Context) map[string]models.Prediction {
	var cached map[string]models.Prediction
	if err := p.store.Get(ctx, predictionCacheKey, &cached); err == nil {
		p.metrics.RecordCacheHit(string(cache.CategoryPredict))
		return cached
	}
	p.metrics.RecordCacheMiss(string(cache.CategoryPredict))

	out := make(map[string]models.Prediction, len(p.assets))
	for _, a := range p.assets {
		out[a.Symbol] = p.assetPrediction(ctx, a)
	}

	if err := p.store.Set(ctx, predictionCacheKey, out, cache.CategoryPredict); err != nil {
		p.logger.Warn("cache prediction", logger.Error(err))
	}
	return out
}

func (p *Prediction) assetPrediction(ctx context.Context, asset config.Asset) models.Prediction {
	points, err := p.source.Series(ctx, asset.ID, predictionDays)
	if err != nil {
		p.logger.Error("prediction series unavailable",
			logger.String("symbol", asset.Symbol),
			logger.Error(err),
		)
		return models.Prediction{Symbol: asset.Symbol, Error: "historical data unavailable"}
	}

	daily := models.DedupDaily(points)
	if daily.Len() < 2 {
		return models.Prediction{Symbol: asset.Symbol, Error: "not enough data to predict"}
	}

	// Fit price against the day index; the next index is tomorrow.
	xs := make([]float64, daily.Len())
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, daily.Prices, nil, false)
	predicted := alpha + beta*float64(daily.Len())

	nextDay, err := util.NextDayKey(daily.Dates[daily.Len()-1])
	if err != nil {
		return models.Prediction{Symbol: asset.Symbol, Error: "malformed series dates"}
	}

	return models.Prediction{
		Symbol:         asset.Symbol,
		History:        daily.Prices,
		Dates:          append(append([]string{}, daily.Dates...), nextDay),
		PredictedPrice: predicted,
	}
}
