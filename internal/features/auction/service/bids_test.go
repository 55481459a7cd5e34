package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-tool-backend/internal/features/auction/models"
	"auction-tool-backend/internal/features/auction/repository"
	"auction-tool-backend/internal/features/auction/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBidValidation(t *testing.T) {
	clock := newFakeClock(testStart)
	engine, _ := newTestEngine(t, clock, newTestRepo(t))
	id := publishAuction(t, engine, clock, "10000", time.Minute)

	ctx := context.Background()

	_, err := engine.SubmitBid(ctx, "missing-id", "bidder-1", "15000")
	assert.ErrorIs(t, err, service.ErrAuctionNotFound)

	_, err = engine.SubmitBid(ctx, id, "bidder-1", "lots of money")
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = engine.SubmitBid(ctx, id, "bidder-1", "9000")
	assert.ErrorIs(t, err, service.ErrBelowMinimum)

	// Equal to the opening minimum: the synthetic opening high must be
	// strictly exceeded, not matched.
	_, err = engine.SubmitBid(ctx, id, "bidder-1", "10000")
	assert.ErrorIs(t, err, service.ErrNotHighEnough)

	outcome, err := engine.SubmitBid(ctx, id, "bidder-1", "12000")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), outcome.Amount)

	// Equal to the current high: rejected, the incumbent keeps the lead.
	_, err = engine.SubmitBid(ctx, id, "bidder-2", "12000")
	assert.ErrorIs(t, err, service.ErrNotHighEnough)

	auction, err := engine.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), auction.CurrentHighBid)
	assert.Equal(t, "bidder-1", auction.CurrentHighBidder)
}

func TestSubmitBidStripsFormatting(t *testing.T) {
	clock := newFakeClock(testStart)
	engine, _ := newTestEngine(t, clock, newTestRepo(t))
	id := publishAuction(t, engine, clock, "10000", time.Minute)

	outcome, err := engine.SubmitBid(context.Background(), id, "bidder-1", "15,000 coins")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), outcome.Amount)
}

func TestSubmitBidMonotonic(t *testing.T) {
	clock := newFakeClock(testStart)
	engine, _ := newTestEngine(t, clock, newTestRepo(t))
	id := publishAuction(t, engine, clock, "100", time.Minute)

	ctx := context.Background()
	high := int64(100)
	for _, amount := range []int64{150, 120, 200, 200, 175, 300} {
		_, err := engine.SubmitBid(ctx, id, "bidder", fmt.Sprintf("%d", amount))
		if amount > high {
			require.NoError(t, err)
			high = amount
		} else {
			require.Error(t, err)
		}

		auction, getErr := engine.Get(id)
		require.NoError(t, getErr)
		assert.Equal(t, high, auction.CurrentHighBid)
	}
}

func TestConcurrentBidsSingleWinner(t *testing.T) {
	clock := newFakeClock(testStart)
	engine, _ := newTestEngine(t, clock, newTestRepo(t))
	id := publishAuction(t, engine, clock, "100", time.Minute)

	const bidders = 50
	var wg sync.WaitGroup
	for n := 0; n < bidders; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			amount := fmt.Sprintf("%d", 1000+n)
			engine.SubmitBid(context.Background(), id, fmt.Sprintf("bidder-%d", n), amount)
		}(n)
	}
	wg.Wait()

	// Whatever interleaving happened, the maximum bid always wins: it is
	// admissible against any prior accepted amount.
	auction, err := engine.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1000+bidders-1), auction.CurrentHighBid)
	assert.Equal(t, fmt.Sprintf("bidder-%d", bidders-1), auction.CurrentHighBidder)
}

func TestBidAtDeadlineRejectedBeforeTimerFires(t *testing.T) {
	clock := newFakeClock(testStart)
	engine, _ := newTestEngine(t, clock, newTestRepo(t))
	id := publishAuction(t, engine, clock, "100", time.Minute)

	// Move past the deadline without letting the timer fire, simulating
	// scheduling jitter between expiry and the timer callback.
	clock.mu.Lock()
	clock.now = clock.now.Add(2 * time.Minute)
	clock.mu.Unlock()

	_, err := engine.SubmitBid(context.Background(), id, "bidder-1", "500")
	assert.ErrorIs(t, err, service.ErrAuctionClosed)
}

// failingRepo wraps a working repository but fails every Save after arming.
type failingRepo struct {
	repository.Repository
	failSaves bool
}

func (r *failingRepo) Save(ctx context.Context, auction *models.Auction) error {
	if r.failSaves {
		return errors.New("disk full")
	}
	return r.Repository.Save(ctx, auction)
}

func TestBidNotAcknowledgedWhenPersistenceFails(t *testing.T) {
	clock := newFakeClock(testStart)
	repo := &failingRepo{Repository: newTestRepo(t)}
	engine, _ := newTestEngine(t, clock, repo)
	id := publishAuction(t, engine, clock, "100", time.Minute)

	repo.failSaves = true
	_, err := engine.SubmitBid(context.Background(), id, "bidder-1", "500")
	require.Error(t, err)

	// The rejected bid left no trace: the in-memory record rolled back.
	auction, getErr := engine.Get(id)
	require.NoError(t, getErr)
	assert.Equal(t, int64(100), auction.CurrentHighBid)
	assert.False(t, auction.HasBids())

	// Once storage recovers the same bid goes through.
	repo.failSaves = false
	outcome, err := engine.SubmitBid(context.Background(), id, "bidder-1", "500")
	require.NoError(t, err)
	assert.Equal(t, int64(500), outcome.Amount)
}
