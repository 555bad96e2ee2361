// Package timeutil provides calendar-day helpers for streak and daily-activity
// bookkeeping in CPA Path Hub. Days are compared by formatted date key, never
// by raw durations, so activity maps and streak transitions stay stable across
// DST and leap days.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// DateKeyLayout is the canonical format for daily-activity map keys.
const DateKeyLayout = "2006-01-02"

// DateKey returns the calendar-day key for t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// YesterdayKey returns the calendar-day key for the day before t.
func YesterdayKey(t time.Time) string {
	return DateKey(t.AddDate(0, 0, -1))
}

// ParseDateKey parses a calendar-day key back into a midnight time in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// IsValidDateKey reports whether key is a well-formed calendar-day key.
func IsValidDateKey(key string) bool {
	_, err := time.Parse(DateKeyLayout, key)
	return err == nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day
// when both are viewed in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween returns the number of whole calendar days from a to b
// (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	from := StartOfDay(a)
	to := StartOfDay(b.In(a.Location()))
	return int(to.Sub(from).Hours() / 24)
}

// ElapsedMinutes returns the minutes elapsed between from and to,
// preserving sub-minute precision.
func ElapsedMinutes(from, to time.Time) float64 {
	return to.Sub(from).Minutes()
}
