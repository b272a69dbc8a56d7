package util

import (
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
)

// ResolvePeriod maps a reference date to the billing period containing it.
// The time of day is discarded. A period starts on startDay of a month and ends, exclusive,
// on startDay of the following month. Anchor days beyond a month's length are clamped to its
// last day and anchor days below 1 are treated as 1, so adjacent periods always tile the calendar.
func ResolvePeriod(ref time.Time, startDay int) domain.BillingPeriod {
	day := TruncateDay(ref)

	start := CalculateActualDate(day.Year(), day.Month(), startDay)
	if day.Before(start) {
		prevYear, prevMonth := PreviousMonth(day.Year(), int(day.Month()))
		start = CalculateActualDate(prevYear, time.Month(prevMonth), startDay)
	}

	nextYear, nextMonth := NextMonth(start.Year(), int(start.Month()))
	end := CalculateActualDate(nextYear, time.Month(nextMonth), startDay)

	return domain.BillingPeriod{Start: start, End: end}
}

// TruncateDay keeps the calendar day of t, as seen in t's own location, at midnight UTC
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM month and returns the given day of it
func ParseMonth(s string, day int) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return CalculateActualDate(t.Year(), t.Month(), day), nil
}

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// NextMonth returns the year and month for the following month
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// IsClosedPeriod returns true once now has reached the period's exclusive end
func IsClosedPeriod(p domain.BillingPeriod, now time.Time) bool {
	return !TruncateDay(now).Before(p.End)
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int) time.Time {
	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}
	if actualDay < 1 {
		actualDay = 1
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}
