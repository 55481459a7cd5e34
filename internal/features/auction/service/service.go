package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-tool-backend/internal/common/logger"
	"auction-tool-backend/internal/features/auction/models"
	"auction-tool-backend/internal/features/auction/repository"

	"github.com/google/uuid"
)

// AuctionService is the auction lifecycle engine. It owns the active auction
// set keyed by auction id; every record is guarded by its own per-auction
// mutex so bids on different auctions proceed fully concurrently while a bid
// and an expiry on the same auction are linearized.
type AuctionService struct {
	clock     Clock
	repo      repository.Repository
	publisher NotificationPublisher
	drafts    *DraftService
	scheduler *Scheduler

	mu       sync.RWMutex
	auctions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	auction *models.Auction
}

// NewAuctionService wires the engine. loc is the reference timezone for bare
// HH:MM deadlines.
func NewAuctionService(clock Clock, repo repository.Repository, publisher NotificationPublisher, loc *time.Location) *AuctionService {
	s := &AuctionService{
		clock:     clock,
		repo:      repo,
		publisher: publisher,
		drafts:    NewDraftService(clock, loc),
		auctions:  make(map[string]*entry),
	}
	s.scheduler = NewScheduler(clock, s.finalize)
	return s
}

// Drafts exposes the draft builder for the command layer.
func (s *AuctionService) Drafts() *DraftService {
	return s.drafts
}

// Scheduler exposes the timer registry, mainly for shutdown and tests.
func (s *AuctionService) Scheduler() *Scheduler {
	return s.scheduler
}

// Publish turns the operator's draft into a live auction: renders the public
// card, persists the new record and arms its expiry timer. The draft is
// discarded only after the record is durable.
func (s *AuctionService) Publish(ctx context.Context, operatorID, guildID, channelID string) (string, error) {
	spec, err := s.drafts.SnapshotForPublish(operatorID)
	if err != nil {
		return "", err
	}

	auction := models.NewAuction(uuid.New().String(), spec, guildID, channelID, s.clock.Now())

	// The card render is best-effort: a render failure is logged and the
	// auction still runs, because the persisted record is the source of
	// truth.
	renderCtx, cancel := context.WithTimeout(ctx, RenderTimeout)
	messageID, err := s.publisher.RenderCard(renderCtx, channelID, auction)
	cancel()
	if err != nil {
		logger.Error().
			Err(err).
			Str("auction_id", auction.ID).
			Str("channel_id", channelID).
			Msg("Failed to render auction card")
	} else {
		auction.MessageID = messageID
	}

	if err := s.repo.Save(ctx, auction); err != nil {
		return "", fmt.Errorf("failed to persist auction %s: %w", auction.ID, err)
	}

	s.mu.Lock()
	s.auctions[auction.ID] = &entry{auction: auction}
	s.mu.Unlock()

	s.scheduler.Register(auction.ID, auction.EndTime)
	s.drafts.Reset(operatorID)

	logger.Info().
		Str("auction_id", auction.ID).
		Str("item", auction.ItemName).
		Int64("minimum_bid", auction.MinimumBid).
		Time("end_time", auction.EndTime).
		Msg("Auction published")

	return auction.ID, nil
}

// Restore reloads every previously active record from storage and re-arms its
// timer. Records whose deadline has already elapsed finalize immediately with
// whatever bid state was last durably saved, so no auction silently
// disappears across a restart and none runs forever.
func (s *AuctionService) Restore(ctx context.Context) error {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load auction snapshot: %w", err)
	}

	open := make([]*models.Auction, 0, len(records))
	s.mu.Lock()
	for _, auction := range records {
		if auction.Status != models.AuctionStatusOpen {
			// A closed record has no business in the active snapshot;
			// drop it rather than re-announcing its outcome.
			if err := s.repo.Delete(ctx, auction.ID); err != nil {
				logger.Error().Err(err).Str("auction_id", auction.ID).Msg("Failed to drop closed record from snapshot")
			}
			continue
		}
		s.auctions[auction.ID] = &entry{auction: auction}
		open = append(open, auction)
	}
	s.mu.Unlock()

	// Elapsed deadlines fire synchronously inside Register, which finalizes
	// through the same path a live expiry takes.
	for _, auction := range open {
		s.scheduler.Register(auction.ID, auction.EndTime)
	}

	logger.Info().Int("count", len(open)).Msg("Auctions restored from snapshot")
	return nil
}

// Get returns a copy of one auction's current state.
func (s *AuctionService) Get(id string) (*models.Auction, error) {
	s.mu.RLock()
	e, ok := s.auctions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrAuctionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auction.Clone(), nil
}

// ListActive returns copies of every open auction, soonest deadline first.
func (s *AuctionService) ListActive() []*models.Auction {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.auctions))
	for _, e := range s.auctions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]*models.Auction, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.auction.Clone())
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EndTime.Before(out[j].EndTime)
	})
	return out
}

// Shutdown cancels every armed timer. Records stay durable; they are
// re-registered by Restore on the next start.
func (s *AuctionService) Shutdown() {
	s.scheduler.Shutdown()
}
