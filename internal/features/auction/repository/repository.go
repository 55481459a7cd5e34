package repository

import (
	"context"

	"auction-tool-backend/internal/features/auction/models"
)

// AuctionRepository is the durable persistence gateway for the auction engine.
//
// Save and Delete must be atomic from a reader's perspective: a crashed write
// never leaves a partially written snapshot behind. LoadAll on a missing
// snapshot returns an empty slice (first-run case), not an error. Writes are
// idempotent; repeating a Save or Delete is safe.
type AuctionRepository interface {
	// Save persists the record's current state into the active snapshot.
	Save(ctx context.Context, auction *models.Auction) error

	// Delete removes the record from the active snapshot.
	Delete(ctx context.Context, id string) error

	// LoadAll returns every record in the active snapshot.
	LoadAll(ctx context.Context) ([]*models.Auction, error)

	// Archive stores a closed record outside the active snapshot.
	Archive(ctx context.Context, auction *models.Auction) error
}

// BindingRepository persists per-guild channel configuration.
type BindingRepository interface {
	SaveBindings(ctx context.Context, bindings map[string]models.ChannelBinding) error
	LoadBindings(ctx context.Context) (map[string]models.ChannelBinding, error)
}

// Repository combines auction and binding persistence; both concrete stores
// implement it.
type Repository interface {
	AuctionRepository
	BindingRepository

	// Ping reports whether the backing store is reachable (readiness probe).
	Ping(ctx context.Context) error
}
