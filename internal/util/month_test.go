package util

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2025, 10)

	if !start.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start 2025-10-01, got %v", start)
	}
	if !end.Equal(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected end 2025-11-01, got %v", end)
	}
}

func TestMonthWindow_DecemberRollsOver(t *testing.T) {
	start, end := MonthWindow(2025, 12)

	if !start.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start 2025-12-01, got %v", start)
	}
	if !end.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected end 2026-01-01, got %v", end)
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		base     time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "mid-month stays on same day",
			base:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			months:   2,
			expected: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 28",
			base:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 29 in leap year",
			base:     time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "does not stick to clamped day on longer months",
			base:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   2,
			expected: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "crosses year boundary",
			base:     time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero months normalizes to date only",
			base:     time.Date(2025, 6, 5, 13, 45, 0, 0, time.UTC),
			months:   0,
			expected: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.base, tt.months)
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestInWindow_Boundaries(t *testing.T) {
	start, end := MonthWindow(2025, 10)

	if !InWindow(start, start, end) {
		t.Error("Expected start boundary to be inside the window")
	}
	if InWindow(end, start, end) {
		t.Error("Expected end boundary to be outside the window")
	}
	if InWindow(start.AddDate(0, 0, -1), start, end) {
		t.Error("Expected day before start to be outside the window")
	}
	if !InWindow(end.AddDate(0, 0, -1), start, end) {
		t.Error("Expected last day of month to be inside the window")
	}
}

func TestValidYearMonth(t *testing.T) {
	if !ValidYearMonth(2025, 1) || !ValidYearMonth(2025, 12) {
		t.Error("Expected valid year/month to pass")
	}
	if ValidYearMonth(2025, 0) || ValidYearMonth(2025, 13) {
		t.Error("Expected out-of-range month to fail")
	}
	if ValidYearMonth(25, 6) {
		t.Error("Expected two-digit year to fail")
	}
}
