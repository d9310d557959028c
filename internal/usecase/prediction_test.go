package usecase

import (
	"context"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
)

func TestPredictLinearSeries(t *testing.T) {
	// Perfectly linear closes: 100, 110, ..., 190 over ten days. The fit
	// must extrapolate the next day exactly.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	series := make([]models.PricePoint, 0, 10)
	for i := 0; i < 10; i++ {
		series = append(series, models.PricePoint{
			TimestampMs: base.AddDate(0, 0, i).UnixMilli(),
			Value:       100 + float64(i)*10,
		})
	}
	src := &fakeHistoricalSource{series: series}
	p := NewPrediction(newTestStore(), src, testAssets(), nopMetrics{}, testLogger)

	out := p.Predict(context.Background())
	pred := out["BTC"]
	if pred.Error != "" {
		t.Fatalf("unexpected error: %s", pred.Error)
	}
	if !approx(pred.PredictedPrice, 200) {
		t.Fatalf("predicted = %v, want 200", pred.PredictedPrice)
	}
	if len(pred.Dates) != 11 {
		t.Fatalf("got %d dates, want 10 history + 1 predicted", len(pred.Dates))
	}
	if pred.Dates[10] != "2026-08-11" {
		t.Errorf("predicted date = %q, want 2026-08-11", pred.Dates[10])
	}
	if len(pred.History) != 10 {
		t.Errorf("history length = %d", len(pred.History))
	}
}

func TestPredictDedupsIntraday(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := []models.PricePoint{
		{TimestampMs: base.Add(2 * time.Hour).UnixMilli(), Value: 100},
		{TimestampMs: base.Add(20 * time.Hour).UnixMilli(), Value: 105},
		{TimestampMs: base.AddDate(0, 0, 1).UnixMilli(), Value: 110},
	}
	src := &fakeHistoricalSource{series: series}
	p := NewPrediction(newTestStore(), src, testAssets(), nopMetrics{}, testLogger)

	out := p.Predict(context.Background())
	pred := out["BTC"]
	if len(pred.History) != 2 {
		t.Fatalf("history = %v, want last-wins dedup to 2 days", pred.History)
	}
	if pred.History[0] != 105 {
		t.Errorf("day one close = %v, want 105 (last observation wins)", pred.History[0])
	}
}

func TestPredictTooFewPoints(t *testing.T) {
	src := &fakeHistoricalSource{series: []models.PricePoint{
		{TimestampMs: time.Now().UnixMilli(), Value: 100},
	}}
	p := NewPrediction(newTestStore(), src, testAssets(), nopMetrics{}, testLogger)

	out := p.Predict(context.Background())
	if out["BTC"].Error == "" {
		t.Fatal("expected per-asset error for a one-point series")
	}
}

func TestPredictCachedWhole(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := []models.PricePoint{
		{TimestampMs: base.UnixMilli(), Value: 100},
		{TimestampMs: base.AddDate(0, 0, 1).UnixMilli(), Value: 110},
	}
	src := &fakeHistoricalSource{series: series}
	p := NewPrediction(newTestStore(), src, testAssets(), nopMetrics{}, testLogger)

	p.Predict(context.Background())
	calls := src.seriesCalls
	p.Predict(context.Background())
	if src.seriesCalls != calls {
		t.Fatalf("cached predict refetched series: %d -> %d", calls, src.seriesCalls)
	}
}

func TestPredictScopedUpstreamError(t *testing.T) {
	src := &fakeHistoricalSource{err: errUpstreamDown}
	p := NewPrediction(newTestStore(), src, testAssets(), nopMetrics{}, testLogger)

	out := p.Predict(context.Background())
	for sym, pred := range out {
		if pred.Error == "" {
			t.Errorf("%s: expected scoped error", sym)
		}
	}
}
