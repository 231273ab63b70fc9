package valueobject

import (
	"testing"
	"time"
)

func TestIsMatured(t *testing.T) {
	asOf := time.Date(2026, 5, 15, 8, 0, 0, 0, time.UTC)
	mexico := time.FixedZone("CST", -6*60*60)

	tests := []struct {
		name       string
		chargeDate time.Time
		want       bool
	}{
		{"previous day", time.Date(2026, 5, 14, 23, 0, 0, 0, time.UTC), true},
		{"same day earlier hour", time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), false},
		{"same day later hour", time.Date(2026, 5, 15, 22, 0, 0, 0, time.UTC), false},
		{"future", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"zero date", time.Time{}, false},
		{"local calendar date is used", time.Date(2026, 5, 14, 21, 0, 0, 0, mexico), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMatured(tt.chargeDate, asOf); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTodayIn(t *testing.T) {
	// 03:00 UTC on the 16th is still the 15th in UTC-6.
	now := time.Date(2026, 5, 16, 3, 0, 0, 0, time.UTC)
	loc := time.FixedZone("CST", -6*60*60)

	got := TodayIn(now, loc)
	want := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	if got := TodayIn(now, nil); !got.Equal(time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected UTC date for nil location, got %s", got)
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2026-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.February || got.Day() != 1 {
		t.Errorf("expected 2026-02-01, got %s", got)
	}

	if _, err := ParseMonth("2026-13"); err == nil {
		t.Error("expected error for month 13")
	}
}
