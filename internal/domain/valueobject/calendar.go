// Package valueobject contains domain value objects for the community ledger.
package valueobject

import (
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format for billing months.
const MonthLayout = "2006-01"

// DateOnly returns the calendar date of t, as seen in t's own location,
// normalized to midnight UTC so values from different locations compare by date.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsMatured reports whether a charge posted on chargeDate counts toward a balance
// computed as of asOf. Only charges dated strictly before the asOf calendar date
// have matured; same-day and future charges have not.
func IsMatured(chargeDate, asOf time.Time) bool {
	if chargeDate.IsZero() {
		return false
	}
	return DateOnly(chargeDate).Before(DateOnly(asOf))
}

// TodayIn returns the calendar date of now in the given location.
// A nil location means UTC.
func TodayIn(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// ParseMonth parses a YYYY-MM string into the first day of that month (UTC).
func ParseMonth(value string) (time.Time, error) {
	return time.Parse(MonthLayout, value)
}

// LocationOrDefault loads the named IANA time zone, falling back when the name
// is empty or unknown.
func LocationOrDefault(name string, fallback *time.Location) *time.Location {
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
