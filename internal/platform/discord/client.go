package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Open creates a Discord gateway session for the bot token and connects it.
func Open(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("empty bot token")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open discord gateway: %w", err)
	}
	return session, nil
}
