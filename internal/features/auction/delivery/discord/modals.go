package discord

import (
	"context"
	"fmt"
	"strings"

	"auction-tool-backend/internal/common/logger"
	platform "auction-tool-backend/internal/platform/discord"

	"github.com/bwmarrin/discordgo"
)

const (
	modalDecorate      = "auction_decorate"
	modalDecorateMedia = "auction_decorate_media"
	modalBidPrefix     = "auction_bid_amount:"
)

func (h *Handler) handleDecorate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.inSetupChannel(i) {
		respondEphemeral(s, i, "❌ Run this in the configured setup channel.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalDecorate,
			Title:    "Auction item",
			Components: []discordgo.MessageComponent{
				textInputRow("title", "Item title", discordgo.TextInputShort, true, ""),
				textInputRow("description", "Description", discordgo.TextInputParagraph, true, ""),
				textInputRow("color", "Hex color (#RRGGBB)", discordgo.TextInputShort, false, "#00ff00"),
				textInputRow("min_bid", "Minimum bid", discordgo.TextInputShort, true, "10000"),
				textInputRow("end_time", "End time", discordgo.TextInputShort, true, "'12:00' or '2025-10-30 15:20'"),
			},
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open decorate modal")
	}
}

func (h *Handler) handleDecorateMedia(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.inSetupChannel(i) {
		respondEphemeral(s, i, "❌ Run this in the configured setup channel.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalDecorateMedia,
			Title:    "Auction card media",
			Components: []discordgo.MessageComponent{
				textInputRow("footer", "Footer (optional)", discordgo.TextInputShort, false, ""),
				textInputRow("thumbnail", "Thumbnail URL (optional)", discordgo.TextInputShort, false, ""),
				textInputRow("image", "Main image URL (optional)", discordgo.TextInputShort, false, ""),
			},
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open media modal")
	}
}

func (h *Handler) openBidModal(s *discordgo.Session, i *discordgo.InteractionCreate, auctionID string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalBidPrefix + auctionID,
			Title:    "Place your bid",
			Components: []discordgo.MessageComponent{
				textInputRow("amount", "Amount", discordgo.TextInputShort, true, "e.g. 15000"),
			},
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open bid modal")
	}
}

func (h *Handler) onModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()

	switch {
	case data.CustomID == modalDecorate:
		values := modalValues(data)
		err := h.service.Drafts().SetBasics(operatorID(i),
			values["title"], values["description"], values["color"],
			values["min_bid"], values["end_time"])
		if err != nil {
			respondEphemeral(s, i, userMessage(err))
			return
		}
		h.respondWithPreview(s, i, "✅ Draft updated — preview:")

	case data.CustomID == modalDecorateMedia:
		values := modalValues(data)
		err := h.service.Drafts().SetMedia(operatorID(i),
			values["footer"], values["thumbnail"], values["image"])
		if err != nil {
			respondEphemeral(s, i, userMessage(err))
			return
		}
		h.respondWithPreview(s, i, "✅ Card media updated — preview:")

	case strings.HasPrefix(data.CustomID, modalBidPrefix):
		auctionID := strings.TrimPrefix(data.CustomID, modalBidPrefix)
		amount := modalValues(data)["amount"]

		outcome, err := h.service.SubmitBid(context.Background(), auctionID, operatorID(i), amount)
		if err != nil {
			respondEphemeral(s, i, userMessage(err))
			return
		}
		respondEphemeral(s, i, fmt.Sprintf("✅ Bid accepted — you are leading at %d", outcome.Amount))
	}
}

func (h *Handler) respondWithPreview(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	card := h.service.Drafts().Preview(operatorID(i))
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  []*discordgo.MessageEmbed{platform.EmbedFromCard(card)},
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to send draft preview")
	}
}

func textInputRow(customID, label string, style discordgo.TextInputStyle, required bool, placeholder string) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    customID,
				Label:       label,
				Style:       style,
				Required:    required,
				Placeholder: placeholder,
			},
		},
	}
}

// modalValues flattens submitted text inputs into a custom-id keyed map.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actionsRow.Components {
			if input, ok := c.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}
