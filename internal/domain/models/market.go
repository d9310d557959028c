package models

// Recommendation is the three-way trading action for one asset.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "Buy"
	RecommendationSell Recommendation = "Sell"
	RecommendationHold Recommendation = "Hold"
)

// PricePoint is one observation from a historical series source.
type PricePoint struct {
	TimestampMs int64
	Value       float64
}

// SentimentSummary aggregates polarity scores for one headline pool.
// An empty pool yields the identity {0, []}, not an error.
type SentimentSummary struct {
	Average float64   `json:"average"`
	Scores  []float64 `json:"scores"`
}

// PoolSentiment pairs one headline pool with its summary.
type PoolSentiment struct {
	Pool      string           `json:"pool"`
	Headlines []string         `json:"headlines"`
	Sentiment SentimentSummary `json:"sentiment"`
}

// AssetSentiment is the full per-asset sentiment report. The recommendation
// aggregator reuses its pool averages instead of refetching headlines; this
// struct is the single shape shared between the two pipelines.
type AssetSentiment struct {
	Symbol string          `json:"symbol"`
	Pools  []PoolSentiment `json:"pools"`
}

// Aggregate averages the pool averages (not the individual scores).
func (s AssetSentiment) Aggregate() float64 {
	if len(s.Pools) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Pools {
		sum += p.Sentiment.Average
	}
	return sum / float64(len(s.Pools))
}

// RecommendationSignal is the composed per-asset trading signal.
// PriceDelta and PreviousPrice are nil when the 24h-ago price is unknown.
type RecommendationSignal struct {
	Symbol         string         `json:"symbol"`
	Recommendation Recommendation `json:"recommendation"`
	Sentiment      float64        `json:"sentiment"`
	PriceDelta     *float64       `json:"price_delta"`
	CurrentPrice   float64        `json:"current_price"`
	PreviousPrice  *float64       `json:"previous_price"`
}

// Decide applies the decision rule in its fixed order, no smoothing.
func Decide(sentiment float64, priceDelta *float64) Recommendation {
	switch {
	case priceDelta == nil:
		return RecommendationHold
	case sentiment > 0.5 && *priceDelta > 0:
		return RecommendationBuy
	case sentiment < -0.5 && *priceDelta < 0:
		return RecommendationSell
	default:
		return RecommendationHold
	}
}

// HistoricalView is one asset's sliced historical window, or a scoped error.
type HistoricalView struct {
	Symbol             string    `json:"symbol"`
	Dates              []string  `json:"dates,omitempty"`
	Prices             []float64 `json:"prices,omitempty"`
	CurrentPrice       float64   `json:"current_price"`
	PriceChange        float64   `json:"price_change"`
	PriceChangePercent float64   `json:"price_change_percent"`
	Timeframe          string    `json:"timeframe"`
	Stale              bool      `json:"stale,omitempty"`
	Error              string    `json:"error,omitempty"`
}

// Prediction is one asset's next-day price estimate, or a scoped error.
type Prediction struct {
	Symbol         string    `json:"symbol,omitempty"`
	History        []float64 `json:"history,omitempty"`
	Dates          []string  `json:"dates,omitempty"`
	PredictedPrice float64   `json:"predicted_price,omitempty"`
	Error          string    `json:"error,omitempty"`
}
