package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"auction-tool-backend/internal/features/auction/models"
	"auction-tool-backend/internal/features/auction/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDrafts(clock *fakeClock) *service.DraftService {
	return service.NewDraftService(clock, time.UTC)
}

func TestSetBasicsValidation(t *testing.T) {
	clock := newFakeClock(testStart)
	drafts := newDrafts(clock)

	err := drafts.SetBasics("op", "", "desc", "", "1000", "18:00")
	assert.ErrorIs(t, err, service.ErrIncompleteDraft)

	err = drafts.SetBasics("op", "Sword", strings.Repeat("x", 2000), "", "1000", "18:00")
	assert.ErrorIs(t, err, service.ErrIncompleteDraft)

	err = drafts.SetBasics("op", "Sword", "desc", "not-a-color", "1000", "18:00")
	assert.ErrorIs(t, err, service.ErrInvalidColor)

	err = drafts.SetBasics("op", "Sword", "desc", "", "free", "18:00")
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	err = drafts.SetBasics("op", "Sword", "desc", "", "1000", "sometime tomorrow")
	assert.ErrorIs(t, err, service.ErrInvalidTimeFormat)

	// A failed update never leaves a partial draft behind.
	_, err = drafts.SnapshotForPublish("op")
	assert.ErrorIs(t, err, service.ErrIncompleteDraft)
}

func TestSetBasicsAppliesDefaultsAndParsing(t *testing.T) {
	clock := newFakeClock(testStart)
	drafts := newDrafts(clock)

	require.NoError(t, drafts.SetBasics("op", "Sword", "A sword", "", "15,000 coins", "18:00"))

	spec, err := drafts.SnapshotForPublish("op")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultColor, spec.Color)
	assert.Equal(t, int64(15000), spec.MinimumBid)
	assert.Equal(t, time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC), spec.EndTime)
}

func TestSetBasicsParsesHexColor(t *testing.T) {
	clock := newFakeClock(testStart)
	drafts := newDrafts(clock)

	require.NoError(t, drafts.SetBasics("op", "Sword", "A sword", "#ff8800", "1000", "18:00"))

	spec, err := drafts.SnapshotForPublish("op")
	require.NoError(t, err)
	assert.Equal(t, 0xff8800, spec.Color)
}

func TestSnapshotForPublishRechecksDeadline(t *testing.T) {
	clock := newFakeClock(testStart)
	drafts := newDrafts(clock)

	require.NoError(t, drafts.SetBasics("op", "Sword", "A sword", "", "1000", "18:00"))

	// Drafting and publishing are separated in time; the operator waited
	// too long.
	clock.mu.Lock()
	clock.now = clock.now.Add(8 * time.Hour)
	clock.mu.Unlock()

	_, err := drafts.SnapshotForPublish("op")
	assert.ErrorIs(t, err, service.ErrPastDeadline)
}

func TestDraftsAreScopedPerOperator(t *testing.T) {
	clock := newFakeClock(testStart)
	drafts := newDrafts(clock)

	require.NoError(t, drafts.SetBasics("alice", "Sword", "A sword", "", "1000", "18:00"))
	require.NoError(t, drafts.SetMedia("alice", "fine print", "", ""))

	_, err := drafts.SnapshotForPublish("bob")
	assert.ErrorIs(t, err, service.ErrIncompleteDraft)

	spec, err := drafts.SnapshotForPublish("alice")
	require.NoError(t, err)
	assert.Equal(t, "fine print", spec.Footer)
}

func TestSetMediaRejectsBadURLs(t *testing.T) {
	clock := newFakeClock(testStart)
	drafts := newDrafts(clock)

	assert.Error(t, drafts.SetMedia("op", "", "not a url", ""))
	assert.Error(t, drafts.SetMedia("op", "", "", "ftp://example.com/a.png"))
	assert.NoError(t, drafts.SetMedia("op", "", "https://example.com/a.png", ""))
}

func TestPublishResetsDraft(t *testing.T) {
	clock := newFakeClock(testStart)
	engine, _ := newTestEngine(t, clock, newTestRepo(t))
	publishAuction(t, engine, clock, "10000", time.Minute)

	_, err := engine.Publish(context.Background(), "operator", "guild-1", "channel-1")
	assert.ErrorIs(t, err, service.ErrIncompleteDraft)
}

func TestParseAmount(t *testing.T) {
	for text, want := range map[string]int64{
		"15000":       15000,
		"15,000":      15000,
		" 15 000 gp ": 15000,
		"1":           1,
	} {
		got, err := service.ParseAmount(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}

	for _, text := range []string{"", "zero", "0"} {
		_, err := service.ParseAmount(text)
		assert.ErrorIs(t, err, service.ErrInvalidAmount, text)
	}
}
