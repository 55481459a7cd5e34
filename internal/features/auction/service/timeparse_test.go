package service_test

import (
	"testing"
	"time"

	"auction-tool-backend/internal/features/auction/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeadlineForms(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	cases := map[string]time.Time{
		"2026-10-30 15:20": time.Date(2026, 10, 30, 15, 20, 0, 0, time.UTC),
		"2026/10/30 15:20": time.Date(2026, 10, 30, 15, 20, 0, 0, time.UTC),
		"30-10-2026 15:20": time.Date(2026, 10, 30, 15, 20, 0, 0, time.UTC),
		"18:30":            time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		"until 18:30":      time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
	}

	for text, want := range cases {
		got, err := service.ParseDeadline(text, now, time.UTC)
		require.NoError(t, err, text)
		assert.True(t, want.Equal(got), "%s: want %v, got %v", text, want, got)
	}
}

func TestParseDeadlineRollsBareTimeToNextDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	// 09:00 already passed today, so it means tomorrow morning.
	got, err := service.ParseDeadline("09:00", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), got)

	// Exactly now also rolls over: the deadline must be in the future.
	got, err = service.ParseDeadline("12:00", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), got)
}

func TestParseDeadlineUsesReferenceTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	// 03:00 UTC is 10:00 in Bangkok, so a bare 18:00 is still today there.
	now := time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)
	got, err := service.ParseDeadline("18:00", now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 18, 0, 0, 0, loc), got)
}

func TestParseDeadlineRejectsGarbage(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	for _, text := range []string{"", "soon", "25:99", "2026-10-30", "15:20:30"} {
		_, err := service.ParseDeadline(text, now, time.UTC)
		assert.ErrorIs(t, err, service.ErrInvalidTimeFormat, text)
	}
}
