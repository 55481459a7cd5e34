package models

// ChannelBinding holds the per-guild channel configuration: where the bot is
// configured and where published auction cards go.
type ChannelBinding struct {
	SetupChannelID   string `json:"setup_channel_id,omitempty"`
	AuctionChannelID string `json:"auction_channel_id,omitempty"`
}
