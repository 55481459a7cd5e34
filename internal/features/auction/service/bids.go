package service

import (
	"context"
	"fmt"

	"auction-tool-backend/internal/common/logger"
	"auction-tool-backend/internal/features/auction/models"
)

// BidOutcome reports an accepted bid.
type BidOutcome struct {
	AuctionID string
	Amount    int64
	BidderID  string
}

// SubmitBid admits one bid against one auction.
//
// Everything from the deadline check to the mutation runs inside the
// auction's critical section, which is shared with the finalize transition:
// a bid and an expiry on the same auction can never both appear to succeed.
// The bid is durable before success is reported; a persistence failure rolls
// the in-memory record back and surfaces the error instead of silently
// accepting an unpersisted bid.
func (s *AuctionService) SubmitBid(ctx context.Context, auctionID, bidderID, amountText string) (BidOutcome, error) {
	s.mu.RLock()
	e, ok := s.auctions[auctionID]
	s.mu.RUnlock()
	if !ok {
		return BidOutcome{}, ErrAuctionNotFound
	}

	amount, err := ParseAmount(amountText)
	if err != nil {
		return BidOutcome{}, err
	}

	e.mu.Lock()
	auction := e.auction

	// Closing is a one-time transition, not a derived property of time:
	// the status check catches auctions already finalized, and the deadline
	// check rejects a late bid even when the timer has not fired yet due to
	// scheduling jitter.
	if auction.Status != models.AuctionStatusOpen || auction.HasEnded(s.clock.Now()) {
		e.mu.Unlock()
		return BidOutcome{}, ErrAuctionClosed
	}

	if amount < auction.MinimumBid {
		e.mu.Unlock()
		return BidOutcome{}, fmt.Errorf("%w of %d", ErrBelowMinimum, auction.MinimumBid)
	}

	// Strictly greater than: an equal bid never overrides the incumbent,
	// including the synthetic opening high at the published minimum.
	if amount <= auction.CurrentHighBid {
		e.mu.Unlock()
		return BidOutcome{}, fmt.Errorf("%w of %d", ErrNotHighEnough, auction.CurrentHighBid)
	}

	prevBid := auction.CurrentHighBid
	prevBidder := auction.CurrentHighBidder
	prevCount := auction.BidCount

	auction.CurrentHighBid = amount
	auction.CurrentHighBidder = bidderID
	auction.BidCount++

	persistCtx, cancel := context.WithTimeout(ctx, PersistTimeout)
	err = s.repo.Save(persistCtx, auction)
	cancel()
	if err != nil {
		auction.CurrentHighBid = prevBid
		auction.CurrentHighBidder = prevBidder
		auction.BidCount = prevCount
		e.mu.Unlock()
		return BidOutcome{}, fmt.Errorf("failed to persist bid on auction %s: %w", auctionID, err)
	}

	snapshot := auction.Clone()
	e.mu.Unlock()

	logger.Info().
		Str("auction_id", auctionID).
		Str("bidder_id", bidderID).
		Int64("amount", amount).
		Msg("Bid accepted")

	// Card re-render is best-effort and runs off the critical section so a
	// slow chat API never blocks other bids.
	go func() {
		renderCtx, cancel := context.WithTimeout(context.Background(), RenderTimeout)
		defer cancel()
		if err := s.publisher.UpdateCard(renderCtx, snapshot); err != nil {
			logger.Error().
				Err(err).
				Str("auction_id", auctionID).
				Msg("Failed to update auction card after bid")
		}
	}()

	return BidOutcome{AuctionID: auctionID, Amount: amount, BidderID: bidderID}, nil
}
