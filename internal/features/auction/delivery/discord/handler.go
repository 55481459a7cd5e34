package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"auction-tool-backend/internal/common/logger"
	"auction-tool-backend/internal/features/auction/models"
	"auction-tool-backend/internal/features/auction/repository"
	"auction-tool-backend/internal/features/auction/service"
	platform "auction-tool-backend/internal/platform/discord"

	"github.com/bwmarrin/discordgo"
)

// Handler is the command/UI layer: it collects operator input through slash
// commands and modals, enforces permission and channel-scoping checks, and
// calls into the auction engine. The engine trusts these checks were done.
type Handler struct {
	service *service.AuctionService
	repo    repository.BindingRepository

	mu       sync.RWMutex
	bindings map[string]models.ChannelBinding
}

func NewHandler(ctx context.Context, svc *service.AuctionService, repo repository.BindingRepository) (*Handler, error) {
	bindings, err := repo.LoadBindings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel bindings: %w", err)
	}

	return &Handler{
		service:  svc,
		repo:     repo,
		bindings: bindings,
	}, nil
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "setup-channel",
		Description: "Set the channel used for decorating and previewing auctions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel for bot setup",
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildText,
				},
			},
		},
	},
	{
		Name:        "auction-channel",
		Description: "Set the channel where published auctions are posted",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel for live auctions",
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildText,
				},
			},
		},
	},
	{
		Name:        "decorate",
		Description: "Set the auction item, price and deadline (run in the setup channel)",
	},
	{
		Name:        "decorate-media",
		Description: "Set optional footer and images for the auction card",
	},
	{
		Name:        "preview",
		Description: "Preview the drafted auction card",
	},
	{
		Name:        "start-auction",
		Description: "Publish the drafted auction to the auction channel",
	},
	{
		Name:        "close-auction",
		Description: "Close an auction before its deadline",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "auction_id",
				Description: "Identifier of the auction to close",
				Required:    true,
			},
		},
	},
}

// Register installs the slash commands and the interaction dispatcher. An
// empty guildID registers the commands globally.
func (h *Handler) Register(s *discordgo.Session, guildID string) error {
	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd); err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
	}

	s.AddHandler(h.onInteraction)
	logger.Info().Int("commands", len(commands)).Msg("Slash commands registered")
	return nil
}

func (h *Handler) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.onCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.onComponent(s, i)
	case discordgo.InteractionModalSubmit:
		h.onModalSubmit(s, i)
	}
}

func (h *Handler) onCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "setup-channel":
		h.handleBindChannel(s, i, true)
	case "auction-channel":
		h.handleBindChannel(s, i, false)
	case "decorate":
		h.handleDecorate(s, i)
	case "decorate-media":
		h.handleDecorateMedia(s, i)
	case "preview":
		h.handlePreview(s, i)
	case "start-auction":
		h.handleStartAuction(s, i)
	case "close-auction":
		h.handleCloseAuction(s, i)
	}
}

func (h *Handler) onComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if auctionID, ok := strings.CutPrefix(customID, platform.BidButtonPrefix); ok {
		h.openBidModal(s, i, auctionID)
	}
}

func (h *Handler) binding(guildID string) models.ChannelBinding {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bindings[guildID]
}

func (h *Handler) handleBindChannel(s *discordgo.Session, i *discordgo.InteractionCreate, setup bool) {
	if !hasManageGuild(i) {
		respondEphemeral(s, i, "❌ You need the Manage Server permission for this.")
		return
	}

	channel := i.ApplicationCommandData().Options[0].ChannelValue(s)
	if channel == nil {
		respondEphemeral(s, i, "❌ Channel not found.")
		return
	}

	h.mu.Lock()
	binding := h.bindings[i.GuildID]
	if setup {
		binding.SetupChannelID = channel.ID
	} else {
		binding.AuctionChannelID = channel.ID
	}
	h.bindings[i.GuildID] = binding
	snapshot := make(map[string]models.ChannelBinding, len(h.bindings))
	for k, v := range h.bindings {
		snapshot[k] = v
	}
	h.mu.Unlock()

	if err := h.repo.SaveBindings(context.Background(), snapshot); err != nil {
		logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("Failed to persist channel bindings")
		respondEphemeral(s, i, "❌ Could not save the channel binding, try again.")
		return
	}

	if setup {
		respondEphemeral(s, i, fmt.Sprintf("✅ Setup channel set to <#%s>", channel.ID))
	} else {
		respondEphemeral(s, i, fmt.Sprintf("✅ Auction channel set to <#%s>", channel.ID))
	}
}

func (h *Handler) handlePreview(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.inSetupChannel(i) {
		respondEphemeral(s, i, "❌ Run this in the configured setup channel.")
		return
	}

	card := h.service.Drafts().Preview(operatorID(i))
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Draft preview:",
			Embeds:  []*discordgo.MessageEmbed{platform.EmbedFromCard(card)},
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to send draft preview")
	}
}

func (h *Handler) handleStartAuction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasManageGuild(i) {
		respondEphemeral(s, i, "❌ You need the Manage Server permission to start an auction.")
		return
	}

	binding := h.binding(i.GuildID)
	if binding.AuctionChannelID == "" {
		respondEphemeral(s, i, "❌ Set the auction channel first with /auction-channel.")
		return
	}

	auctionID, err := h.service.Publish(context.Background(), operatorID(i), i.GuildID, binding.AuctionChannelID)
	if err != nil {
		respondEphemeral(s, i, userMessage(err))
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("✅ Auction `%s` published in <#%s>!", auctionID, binding.AuctionChannelID))
}

func (h *Handler) handleCloseAuction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasManageGuild(i) {
		respondEphemeral(s, i, "❌ You need the Manage Server permission to close an auction.")
		return
	}

	auctionID := i.ApplicationCommandData().Options[0].StringValue()
	if err := h.service.ForceClose(context.Background(), auctionID); err != nil {
		respondEphemeral(s, i, userMessage(err))
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("✅ Auction `%s` closed.", auctionID))
}

func (h *Handler) inSetupChannel(i *discordgo.InteractionCreate) bool {
	binding := h.binding(i.GuildID)
	// No setup channel bound yet: allow anywhere, matching first-run use.
	return binding.SetupChannelID == "" || binding.SetupChannelID == i.ChannelID
}

func hasManageGuild(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageServer != 0
}

func operatorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to respond to interaction")
	}
}

// userMessage maps engine errors onto operator/bidder-facing text; anything
// unexpected gets a generic line and the detail stays in the logs.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrIncompleteDraft),
		errors.Is(err, service.ErrPastDeadline),
		errors.Is(err, service.ErrInvalidColor),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTimeFormat),
		errors.Is(err, service.ErrAuctionNotFound),
		errors.Is(err, service.ErrAuctionClosed),
		errors.Is(err, service.ErrBelowMinimum),
		errors.Is(err, service.ErrNotHighEnough):
		return "❌ " + err.Error()
	default:
		logger.Error().Err(err).Msg("Unexpected error in interaction")
		return "❌ Something went wrong, try again later."
	}
}
