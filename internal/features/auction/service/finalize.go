package service

import (
	"context"

	"auction-tool-backend/internal/common/logger"
	"auction-tool-backend/internal/features/auction/models"
)

// finalize is the one-time close transition. It runs when an auction's timer
// fires, when the process restores an already-elapsed record at startup, and
// when an operator forces a close. The open-status check inside the
// per-auction critical section makes it idempotent, so a cancellation racing
// a trigger that already fired resolves to exactly one completion.
func (s *AuctionService) finalize(auctionID string) {
	s.mu.RLock()
	e, ok := s.auctions[auctionID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	e.mu.Lock()
	auction := e.auction
	if auction.Status != models.AuctionStatusOpen {
		e.mu.Unlock()
		return
	}

	now := s.clock.Now()
	auction.Status = models.AuctionStatusClosed
	auction.ClosedAt = &now

	ctx, cancel := context.WithTimeout(context.Background(), PersistTimeout)
	if err := s.repo.Delete(ctx, auctionID); err != nil {
		// The record stays closed in memory and no further bids are
		// accepted; a restart re-finalizes it from the stale snapshot.
		logger.Error().Err(err).Str("auction_id", auctionID).Msg("Failed to remove finalized auction from snapshot")
	}
	if err := s.repo.Archive(ctx, auction); err != nil {
		logger.Error().Err(err).Str("auction_id", auctionID).Msg("Failed to archive finalized auction")
	}
	cancel()

	snapshot := auction.Clone()
	e.mu.Unlock()

	s.mu.Lock()
	delete(s.auctions, auctionID)
	s.mu.Unlock()

	logger.Info().
		Str("auction_id", auctionID).
		Str("item", snapshot.ItemName).
		Str("winner_id", snapshot.CurrentHighBidder).
		Int64("high_bid", snapshot.CurrentHighBid).
		Bool("has_bids", snapshot.HasBids()).
		Msg("Auction finalized")

	renderCtx, cancel := context.WithTimeout(context.Background(), RenderTimeout)
	defer cancel()
	if err := s.publisher.UpdateCard(renderCtx, snapshot); err != nil {
		logger.Error().Err(err).Str("auction_id", auctionID).Msg("Failed to render closed auction card")
	}
	if err := s.publisher.Announce(renderCtx, snapshot.ChannelID, snapshot.WinnerAnnouncement()); err != nil {
		logger.Error().Err(err).Str("auction_id", auctionID).Msg("Failed to announce auction outcome")
	}
}

// ForceClose finalizes an auction before its natural deadline. The armed
// trigger is cancelled first; if it fired in the meantime, the idempotency
// guard in finalize turns this call into a no-op.
func (s *AuctionService) ForceClose(ctx context.Context, auctionID string) error {
	s.mu.RLock()
	_, ok := s.auctions[auctionID]
	s.mu.RUnlock()
	if !ok {
		return ErrAuctionNotFound
	}

	s.scheduler.Cancel(auctionID)
	s.finalize(auctionID)
	return nil
}
