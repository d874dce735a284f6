// Package timeutil provides date helpers for academic term handling.
// Term calendars work in whole days; times of day only matter for the
// end-of-term cutoff. No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// DateOnly truncates a time to midnight UTC of the same calendar day.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Date creates a UTC date at midnight.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of the calendar day in UTC. Term-end
// cutoffs use it so a grade recorded on the deadline day still counts as
// in-term.
func EndOfDay(t time.Time) time.Time {
	return DateOnly(t).Add(24*time.Hour - time.Nanosecond)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// Overdue reports whether now is past the given deadline's end of day.
func Overdue(deadline, now time.Time) bool {
	return now.After(EndOfDay(deadline))
}
