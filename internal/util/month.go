package util

import "time"

// MonthWindow returns the half-open range [year-month-01, nextMonth-01) in UTC.
// December rolls over into January of the next year.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start, end
}

// AddMonthsClamped returns t shifted by months calendar months, clamping the
// day to the last day of the target month (Jan 31 + 1 month = Feb 28/29, not
// Mar 3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)

	// Day 0 of the following month is the last day of the target month.
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

// InWindow reports whether t falls inside the half-open range [start, end).
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// ValidYearMonth reports whether year/month identify a usable period.
func ValidYearMonth(year, month int) bool {
	return month >= 1 && month <= 12 && year >= 1000 && year <= 9999
}
