package models

import "time"

// AuctionStatus represents the lifecycle state of a published auction.
type AuctionStatus string

const (
	AuctionStatusOpen   AuctionStatus = "open"
	AuctionStatusClosed AuctionStatus = "closed"
)

// AuctionSpec is the immutable snapshot of a draft taken at publish time.
type AuctionSpec struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Color        int       `json:"color"`
	Footer       string    `json:"footer,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	MinimumBid   int64     `json:"minimum_bid"`
	EndTime      time.Time `json:"end_time"`
}

// Auction is the durable, mutable state of one published auction.
//
// EndTime is serialized as RFC3339 with offset so snapshots survive process
// and timezone changes across restarts.
type Auction struct {
	ID                string        `json:"id"`
	ItemName          string        `json:"item_name"`
	Description       string        `json:"description"`
	Color             int           `json:"color"`
	Footer            string        `json:"footer,omitempty"`
	ThumbnailURL      string        `json:"thumbnail_url,omitempty"`
	ImageURL          string        `json:"image_url,omitempty"`
	MinimumBid        int64         `json:"minimum_bid"`
	CurrentHighBid    int64         `json:"current_high_bid"`
	CurrentHighBidder string        `json:"current_high_bidder,omitempty"`
	EndTime           time.Time     `json:"end_time"`
	GuildID           string        `json:"guild_id"`
	ChannelID         string        `json:"channel_id"`
	MessageID         string        `json:"message_id,omitempty"`
	Status            AuctionStatus `json:"status"`
	BidCount          int           `json:"bid_count"`
	CreatedAt         time.Time     `json:"created_at"`
	ClosedAt          *time.Time    `json:"closed_at,omitempty"`
}

// NewAuction creates an open auction record from a publish snapshot. The
// opening high bid is the minimum bid with no bidder attached.
func NewAuction(id string, spec AuctionSpec, guildID, channelID string, now time.Time) *Auction {
	return &Auction{
		ID:             id,
		ItemName:       spec.Title,
		Description:    spec.Description,
		Color:          spec.Color,
		Footer:         spec.Footer,
		ThumbnailURL:   spec.ThumbnailURL,
		ImageURL:       spec.ImageURL,
		MinimumBid:     spec.MinimumBid,
		CurrentHighBid: spec.MinimumBid,
		EndTime:        spec.EndTime,
		GuildID:        guildID,
		ChannelID:      channelID,
		Status:         AuctionStatusOpen,
		CreatedAt:      now,
	}
}

// HasEnded reports whether the deadline has passed at the given instant.
func (a *Auction) HasEnded(now time.Time) bool {
	return !now.Before(a.EndTime)
}

// HasBids reports whether any bid above the opening minimum was accepted.
func (a *Auction) HasBids() bool {
	return a.CurrentHighBidder != ""
}

// Clone returns a deep copy safe to hand outside the engine's lock domain.
func (a *Auction) Clone() *Auction {
	c := *a
	if a.ClosedAt != nil {
		t := *a.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}
