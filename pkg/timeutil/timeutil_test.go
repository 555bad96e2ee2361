package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-03-07", DateKey(ts))
	assert.Equal(t, "2026-03-06", YesterdayKey(ts))
}

func TestYesterdayKeyAcrossMonthBoundary(t *testing.T) {
	ts := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-02-28", YesterdayKey(ts))
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	parsed, err := ParseDateKey("2026-01-15", time.UTC)
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-15", DateKey(parsed))

	_, err = ParseDateKey("not-a-date", time.UTC)
	assert.Error(t, err)
}

func TestIsValidDateKey(t *testing.T) {
	assert.True(t, IsValidDateKey("2026-08-31"))
	assert.False(t, IsValidDateKey("2026-8-31"))
	assert.False(t, IsValidDateKey(""))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 5, 1, 0, 1, 0, 0, time.UTC)
	night := time.Date(2026, 5, 1, 23, 58, 0, 0, time.UTC)
	nextDay := time.Date(2026, 5, 2, 0, 1, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, nextDay))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 5, 2, 1, 0, 0, 0, time.UTC)

	// Two hours apart but on adjacent calendar days.
	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestElapsedMinutes(t *testing.T) {
	from := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	to := from.Add(25*time.Minute + 30*time.Second)
	assert.InDelta(t, 25.5, ElapsedMinutes(from, to), 0.001)
}
