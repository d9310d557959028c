package models

import (
	"sort"

	"CoinPulse/pkg/util"
)

// DailySeries holds exactly one price per calendar day, ascending by date.
type DailySeries struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

// DedupDaily collapses raw points to one observation per UTC calendar day.
// The last observation timestamped on a day wins ties.
func DedupDaily(points []PricePoint) DailySeries {
	byDay := make(map[string]float64, len(points))
	for _, p := range points {
		byDay[util.DayKey(p.TimestampMs)] = p.Value
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	prices := make([]float64, len(dates))
	for i, d := range dates {
		prices[i] = byDay[d]
	}
	return DailySeries{Dates: dates, Prices: prices}
}

// Len returns the number of unique days.
func (s DailySeries) Len() int { return len(s.Dates) }

// TailDays truncates to the last n unique days, or all of them when fewer
// are available.
func (s DailySeries) TailDays(n int) DailySeries {
	if n <= 0 || s.Len() <= n {
		return s
	}
	start := s.Len() - n
	return DailySeries{Dates: s.Dates[start:], Prices: s.Prices[start:]}
}

// Delta reports last value, absolute change and percent change over the
// series. ok is false when fewer than 2 points exist and no change can be
// derived.
func (s DailySeries) Delta() (last, change, percent float64, ok bool) {
	if s.Len() == 0 {
		return 0, 0, 0, false
	}
	last = s.Prices[s.Len()-1]
	if s.Len() < 2 {
		return last, 0, 0, false
	}
	first := s.Prices[0]
	change = last - first
	if first != 0 {
		percent = change / first * 100
	}
	return last, change, percent, true
}
