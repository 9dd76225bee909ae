package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCategory("volcano")
	require.Error(t, err)
}

func TestNewAlertRecord(t *testing.T) {
	ts := time.Date(2024, 1, 1, 16, 10, 0, 0, time.FixedZone("JST", 9*3600))

	rec := NewAlertRecord("quake", CategoryEarthquake, "震度7 石川県能登", ts)

	assert.Equal(t, "2024-01-01T07:10:00Z", rec.Timestamp)
	assert.True(t, strings.HasPrefix(rec.ID, "earthquake-"))
	assert.Equal(t, "quake", rec.Source)
	assert.False(t, rec.Urgent)

	again := NewAlertRecord("other", CategoryEarthquake, "震度7 石川県能登", ts)
	assert.Equal(t, rec.ID, again.ID, "ID depends on content only")
}

func TestNewAlertRecord_ZeroTimeUsesClock(t *testing.T) {
	fixed := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	rec := NewAlertRecord("feed", CategoryWeather, "大雨警報", time.Time{})
	assert.Equal(t, "2024-04-26T15:10:00Z", rec.Timestamp)
}

func TestFallbackAlert(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, c := range Categories {
		rec := FallbackAlert(c, now)
		assert.Equal(t, "fallback-"+string(c), rec.ID)
		assert.Equal(t, c, rec.Category)
		assert.NotEmpty(t, rec.Message)
		assert.True(t, rec.Synthetic)
		assert.False(t, rec.Urgent)
	}
}

func TestCannedAlert_AllCombinations(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for _, c := range Categories {
		for _, urgent := range []bool{true, false} {
			rec := CannedAlert(c, urgent, now)
			assert.Equal(t, c, rec.Category)
			assert.Equal(t, urgent, rec.Urgent)
			assert.NotEmpty(t, rec.Message)
			assert.False(t, seen[rec.ID], "canned alerts must have distinct IDs")
			seen[rec.ID] = true
		}
	}
}
