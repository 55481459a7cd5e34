package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"auction-tool-backend/internal/features/auction/models"
	"auction-tool-backend/internal/features/auction/repository"
	filerepo "auction-tool-backend/internal/features/auction/repository/file"
	"auction-tool-backend/internal/features/auction/service"

	"github.com/stretchr/testify/require"
)

// fakeClock drives time manually so expiry is deterministic in tests.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Schedule(d time.Duration, fn func()) service.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires every due timer synchronously.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)

	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.when.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakePublisher records render and announce calls.
type fakePublisher struct {
	mu            sync.Mutex
	rendered      []string
	updated       []*models.Auction
	announcements []string
}

func (p *fakePublisher) RenderCard(ctx context.Context, channelID string, auction *models.Auction) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rendered = append(p.rendered, auction.ID)
	return "message-" + auction.ID, nil
}

func (p *fakePublisher) UpdateCard(ctx context.Context, auction *models.Auction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, auction)
	return nil
}

func (p *fakePublisher) Announce(ctx context.Context, channelID, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.announcements = append(p.announcements, text)
	return nil
}

func (p *fakePublisher) Announcements() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.announcements...)
}

// testStart is a round minute so bare HH:MM deadlines resolve exactly.
var testStart = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()

	dir := t.TempDir()
	repo, err := filerepo.New(
		filepath.Join(dir, "auctions.json"),
		filepath.Join(dir, "auctions_closed.json"),
		filepath.Join(dir, "bindings.json"),
	)
	require.NoError(t, err)
	return repo
}

func newTestEngine(t *testing.T, clock service.Clock, repo repository.Repository) (*service.AuctionService, *fakePublisher) {
	t.Helper()

	pub := &fakePublisher{}
	engine := service.NewAuctionService(clock, repo, pub, time.UTC)
	t.Cleanup(engine.Shutdown)
	return engine, pub
}

// publishAuction drafts and publishes a minimal auction ending after d.
func publishAuction(t *testing.T, engine *service.AuctionService, clock *fakeClock, minBid string, d time.Duration) string {
	t.Helper()

	endTime := clock.Now().Add(d).Format("2006-01-02 15:04")
	drafts := engine.Drafts()
	require.NoError(t, drafts.SetBasics("operator", "Rare sword", "A very rare sword", "", minBid, endTime))

	id, err := engine.Publish(context.Background(), "operator", "guild-1", "channel-1")
	require.NoError(t, err)
	return id
}
