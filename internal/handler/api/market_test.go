package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/usecase"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
)

type stubPrices struct {
	prices map[string]float64
	err    error
}

func (s *stubPrices) CurrentPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	return s.prices, s.err
}

type stubHistorical struct {
	series []models.PricePoint
	err    error
}

func (s *stubHistorical) Series(ctx context.Context, id string, days int) ([]models.PricePoint, error) {
	return s.series, s.err
}

func (s *stubHistorical) SeriesRange(ctx context.Context, id string, from, to time.Time) ([]models.PricePoint, error) {
	return s.series, s.err
}

type stubHeadlines struct{}

func (stubHeadlines) Headlines(ctx context.Context, topic string, limit int) []string {
	return []string{"rally continues"}
}

type stubScorer struct{}

func (stubScorer) Polarity(text string) float64 { return 0.6 }

type stubMetrics struct{}

func (stubMetrics) RecordCacheHit(string)           {}
func (stubMetrics) RecordCacheMiss(string)          {}
func (stubMetrics) RecordStaleServed(string)        {}
func (stubMetrics) RecordLastPrice(string, float64) {}

func testHandler(prices *stubPrices, hist *stubHistorical) (*MarketHandler, *echo.Echo) {
	cfg := &config.Config{}
	cfg.Assets = []config.Asset{{Symbol: "BTC", ID: "bitcoin", Subreddit: "Bitcoin"}}
	cfg.Feeds.Limit = 10
	cfg.Historical.MaxDays = 365
	cfg.Historical.BufferDays = 5

	store := cache.NewStore(cache.NewMemoryCache(), nil)
	log := logger.Nop()
	m := stubMetrics{}

	p := usecase.NewPrices(store, prices, cfg, m, log)
	sent := usecase.NewSentiment(store, stubHeadlines{}, stubHeadlines{}, stubScorer{}, cfg, m, log)
	pred := usecase.NewPrediction(store, hist, cfg, m, log)
	rec := usecase.NewRecommendation(store, p, hist, sent, cfg, m, log)
	histUC := usecase.NewHistorical(store, hist, cfg, m, log)

	h := NewMarketHandler(log, store, p, pred, sent, rec, histUC)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doRequest(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func linearSeries(n int) []models.PricePoint {
	base := time.Now().AddDate(0, 0, -n)
	out := make([]models.PricePoint, n)
	for i := range out {
		out[i] = models.PricePoint{TimestampMs: base.AddDate(0, 0, i).UnixMilli(), Value: 100 + float64(i)}
	}
	return out
}

func TestPing(t *testing.T) {
	_, e := testHandler(&stubPrices{}, &stubHistorical{})
	rec := doRequest(e, "/ping")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["message"] != "pong" {
		t.Fatalf("body = %v", body)
	}
}

func TestPriceRawShape(t *testing.T) {
	_, e := testHandler(&stubPrices{prices: map[string]float64{"bitcoin": 65000}}, &stubHistorical{})
	rec := doRequest(e, "/api/price")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["bitcoin"]["usd"] != 65000 {
		t.Fatalf("body = %v", body)
	}
}

func TestPriceEscalates503(t *testing.T) {
	_, e := testHandler(&stubPrices{err: errors.New("down")}, &stubHistorical{})
	rec := doRequest(e, "/api/price")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Fatalf("body = %v, want error message", body)
	}
}

func TestHistoricalDefaultsTimeframe(t *testing.T) {
	_, e := testHandler(&stubPrices{}, &stubHistorical{series: linearSeries(40)})
	rec := doRequest(e, "/api/historical")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]models.HistoricalView
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["BTC"].Timeframe != "30d" {
		t.Fatalf("timeframe = %q, want default 30d", body["BTC"].Timeframe)
	}
}

func TestHistoricalRejectsBadTimeframe(t *testing.T) {
	_, e := testHandler(&stubPrices{}, &stubHistorical{series: linearSeries(40)})
	rec := doRequest(e, "/api/historical?timeframe=2w")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendationShape(t *testing.T) {
	_, e := testHandler(
		&stubPrices{prices: map[string]float64{"bitcoin": 102}},
		&stubHistorical{series: []models.PricePoint{
			{TimestampMs: time.Now().Add(-24 * time.Hour).UnixMilli(), Value: 100},
		}},
	)
	rec := doRequest(e, "/api/recommendation")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]models.RecommendationSignal
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	sig := body["BTC"]
	if sig.Recommendation != models.RecommendationBuy {
		t.Fatalf("recommendation = %s, want Buy", sig.Recommendation)
	}
	if sig.PriceDelta == nil {
		t.Fatal("price_delta missing")
	}
}

func TestCacheStatus(t *testing.T) {
	_, e := testHandler(&stubPrices{prices: map[string]float64{"bitcoin": 65000}}, &stubHistorical{})
	doRequest(e, "/api/price")

	rec := doRequest(e, "/api/cache/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body cache.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.TotalEntries == 0 {
		t.Fatal("expected at least one cached entry after a price request")
	}
}
