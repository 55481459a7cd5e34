package service

import (
	"context"

	"auction-tool-backend/internal/features/auction/models"
)

// NotificationPublisher renders and updates auction cards and announces
// outcomes in the chat platform. All of its failures are best-effort from the
// engine's point of view: they are logged and never affect auction state,
// because the source of truth is the persisted record, not the rendered card.
type NotificationPublisher interface {
	// RenderCard posts a fresh card for the auction and returns the handle
	// (message id) of the posted card.
	RenderCard(ctx context.Context, channelID string, auction *models.Auction) (string, error)

	// UpdateCard re-renders the existing card in place.
	UpdateCard(ctx context.Context, auction *models.Auction) error

	// Announce posts a plain text message to the channel.
	Announce(ctx context.Context, channelID, text string) error
}
