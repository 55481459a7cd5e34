package discord

import (
	"context"
	"fmt"

	"auction-tool-backend/internal/features/auction/models"

	"github.com/bwmarrin/discordgo"
)

// BidButtonPrefix namespaces the bid button's component custom id; the
// auction id follows the colon.
const BidButtonPrefix = "auction_bid:"

// Publisher renders auction cards as Discord embeds with a bid button and
// posts winner announcements. It is the notification collaborator: callers
// treat every error as non-fatal.
type Publisher struct {
	session *discordgo.Session
}

func NewPublisher(session *discordgo.Session) *Publisher {
	return &Publisher{session: session}
}

// EmbedFromCard translates platform-neutral card content into an embed.
func EmbedFromCard(card models.CardContent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       card.Title,
		Description: card.Description,
		Color:       card.Color,
	}
	if card.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: card.ThumbnailURL}
	}
	if card.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: card.ImageURL}
	}
	if card.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: card.Footer}
	}
	for _, f := range card.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}
	return embed
}

func bidComponents(auction *models.Auction) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Place bid 💰",
					Style:    discordgo.SuccessButton,
					CustomID: BidButtonPrefix + auction.ID,
					Disabled: auction.Status != models.AuctionStatusOpen,
				},
			},
		},
	}
}

func (p *Publisher) RenderCard(ctx context.Context, channelID string, auction *models.Auction) (string, error) {
	msg, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{EmbedFromCard(auction.LiveCard())},
		Components: bidComponents(auction),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to post auction card: %w", err)
	}
	return msg.ID, nil
}

func (p *Publisher) UpdateCard(ctx context.Context, auction *models.Auction) error {
	if auction.MessageID == "" {
		// The original render failed; nothing to edit.
		return nil
	}

	edit := discordgo.NewMessageEdit(auction.ChannelID, auction.MessageID)
	embeds := []*discordgo.MessageEmbed{EmbedFromCard(auction.LiveCard())}
	components := bidComponents(auction)
	edit.Embeds = &embeds
	edit.Components = &components

	if _, err := p.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit auction card: %w", err)
	}
	return nil
}

func (p *Publisher) Announce(ctx context.Context, channelID, text string) error {
	if _, err := p.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to announce: %w", err)
	}
	return nil
}
