package repository

import (
	"context"
	"time"

	"CoinPulse/internal/domain/models"
)

// PriceSource returns current USD prices for a batch of asset ids.
type PriceSource interface {
	CurrentPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// HistoricalSource returns ordered price series for one asset. Series
// ascend by time and may hold several points per calendar day.
type HistoricalSource interface {
	Series(ctx context.Context, id string, days int) ([]models.PricePoint, error)
	SeriesRange(ctx context.Context, id string, from, to time.Time) ([]models.PricePoint, error)
}

// HeadlineSource returns headline texts for a topic, best-effort: an
// unavailable upstream yields an empty slice, not an error.
type HeadlineSource interface {
	Headlines(ctx context.Context, topic string, limit int) []string
}

// SentimentScorer maps a text to a polarity in [-1, 1].
type SentimentScorer interface {
	Polarity(text string) float64
}

// Metrics records domain observability counters.
type Metrics interface {
	RecordCacheHit(category string)
	RecordCacheMiss(category string)
	RecordStaleServed(symbol string)
	RecordLastPrice(symbol string, price float64)
}
