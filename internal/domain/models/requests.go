package models

// Requests for market HTTP endpoints. Defined in domain for consistency and reuse.

type HistoricalRequest struct {
	Timeframe string `query:"timeframe" json:"timeframe" default:"30d" validate:"oneof=7d 30d 6m 1y"`
}

type SentimentRequest struct {
	Limit int `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=50"`
}
