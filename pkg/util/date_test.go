package util

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	ms := time.Date(2024, 10, 10, 23, 59, 59, 0, time.UTC).UnixMilli()
	if got := DayKey(ms); got != "2024-10-10" {
		t.Fatalf("unexpected day key %s", got)
	}
}

func TestNextDayKey(t *testing.T) {
	got, err := NextDayKey("2024-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2025-01-01" {
		t.Fatalf("unexpected next day %s", got)
	}
}

func TestNextDayKeyInvalid(t *testing.T) {
	if _, err := NextDayKey("not-a-day"); err == nil {
		t.Fatalf("expected error")
	}
}
