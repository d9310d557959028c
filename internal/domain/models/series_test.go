package models

import (
	"testing"
	"time"
)

func ms(t time.Time) int64 { return t.UnixMilli() }

func TestDedupDailyLastWins(t *testing.T) {
	day1 := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	day1b := time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	s := DedupDaily([]PricePoint{
		{TimestampMs: ms(day1), Value: 100},
		{TimestampMs: ms(day1b), Value: 105},
		{TimestampMs: ms(day2), Value: 110},
	})

	if len(s.Dates) != 2 || s.Dates[0] != "2024-05-01" || s.Dates[1] != "2024-05-02" {
		t.Fatalf("unexpected dates %v", s.Dates)
	}
	if s.Prices[0] != 105 || s.Prices[1] != 110 {
		t.Fatalf("unexpected prices %v", s.Prices)
	}
}

func TestDedupDailyEmpty(t *testing.T) {
	s := DedupDaily(nil)
	if s.Len() != 0 {
		t.Fatalf("expected empty series")
	}
}

func TestTailDays(t *testing.T) {
	s := DailySeries{
		Dates:  []string{"2024-05-01", "2024-05-02", "2024-05-03"},
		Prices: []float64{1, 2, 3},
	}
	got := s.TailDays(2)
	if got.Len() != 2 || got.Dates[0] != "2024-05-02" || got.Prices[1] != 3 {
		t.Fatalf("unexpected tail %v %v", got.Dates, got.Prices)
	}
	if s.TailDays(10).Len() != 3 {
		t.Fatalf("tail larger than series should return all days")
	}
}

func TestDeltaGuardsShortSeries(t *testing.T) {
	if _, _, _, ok := (DailySeries{}).Delta(); ok {
		t.Fatalf("empty series must not report a delta")
	}

	last, _, _, ok := (DailySeries{Dates: []string{"d"}, Prices: []float64{42}}).Delta()
	if ok || last != 42 {
		t.Fatalf("single-point series must report last only, got ok=%v last=%v", ok, last)
	}
}

func TestDelta(t *testing.T) {
	s := DailySeries{
		Dates:  []string{"2024-05-01", "2024-05-02", "2024-05-03"},
		Prices: []float64{100, 90, 110},
	}
	last, change, percent, ok := s.Delta()
	if !ok {
		t.Fatalf("expected delta")
	}
	if last != 110 || change != 10 || percent != 10 {
		t.Fatalf("unexpected delta last=%v change=%v percent=%v", last, change, percent)
	}
}

func ptr(f float64) *float64 { return &f }

func TestDecide(t *testing.T) {
	cases := []struct {
		name      string
		sentiment float64
		delta     *float64
		want      Recommendation
	}{
		{"missing delta holds regardless of sentiment", 0.9, nil, RecommendationHold},
		{"positive sentiment and rising price buys", 0.6, ptr(0.02), RecommendationBuy},
		{"negative sentiment and falling price sells", -0.6, ptr(-0.01), RecommendationSell},
		{"weak sentiment holds", 0.1, ptr(0.05), RecommendationHold},
		{"strong sentiment against the move holds", 0.9, ptr(-0.05), RecommendationHold},
		{"boundary sentiment holds", 0.5, ptr(0.05), RecommendationHold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.sentiment, tc.delta); got != tc.want {
				t.Fatalf("Decide(%v, %v) = %s, want %s", tc.sentiment, tc.delta, got, tc.want)
			}
		})
	}
}
