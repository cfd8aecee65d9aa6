package domain

import "time"

// Dates are civil calendar dates: midnight UTC carrying only year, month and day.
// The salon runs in a single timezone, "today" is taken from the clock in that timezone.

// DateOf returns the civil date of t in t's own location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses "YYYY-MM-DD"
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// DaysBetween returns the number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
