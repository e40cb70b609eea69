package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestBackfill_RejectsFutureDates(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	b := NewBackfill(fixedClock(now), time.UTC)

	assert.False(t, b.SetDate(now.AddDate(0, 0, 1)))
	_, ok := b.Date()
	assert.False(t, ok, "rejected date must not be stored")

	require.True(t, b.SetDate(now.AddDate(0, 0, -3)))
	assert.False(t, b.SetDate(now.AddDate(0, 0, 1)))

	date, ok := b.Date()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), date)
}

func TestBackfill_AcceptsLaterTimeToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	b := NewBackfill(fixedClock(now), time.UTC)

	require.True(t, b.SetDate(now.Add(10*time.Hour)))
	date, _ := b.Date()
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), date)
}

func TestBackfill_UsesStationTimezone(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	// 20:00 UTC on the 10th is already the 11th in the station's zone.
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	b := NewBackfill(fixedClock(now), shanghai)

	require.True(t, b.SetDate(time.Date(2026, 3, 11, 0, 0, 0, 0, shanghai)))
	assert.False(t, b.SetDate(time.Date(2026, 3, 12, 0, 0, 0, 0, shanghai)))
}

func TestBackfill_Clear(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	b := NewBackfill(fixedClock(now), time.UTC)
	b.SetToday()
	b.Clear()
	_, ok := b.Date()
	assert.False(t, ok)
}
