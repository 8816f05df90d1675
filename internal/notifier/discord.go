package notifier

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/callowayfam/reunion-api/internal/config"
	"github.com/callowayfam/reunion-api/internal/models"
)

type Notifier interface {
	NotifyRegistration(registration models.Registration, attendeeCount int) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordNotifier opens a Discord session for organizer notifications.
// Returns an error when the bot token or channel id is not configured; the
// caller runs without notifications in that case.
func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord bot token or channel ID not configured")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
	}, nil
}

func (n *DiscordNotifier) NotifyRegistration(registration models.Registration, attendeeCount int) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	requestsStr := ""
	if registration.SpecialRequests != "" {
		requestsStr = fmt.Sprintf("\n**Special Requests:** %s", registration.SpecialRequests)
	}

	message := fmt.Sprintf("🎉 **New Registration**\n**Email:** %s\n**Party:** %d adults, %d children (%d attendees)\n**Paid:** %.2f %s (%s)\n**Confirmation:** %s%s",
		registration.Email,
		registration.Adults,
		registration.Children,
		attendeeCount,
		float64(registration.AmountTotal)/100,
		registration.Currency,
		registration.PaymentType,
		registration.ConfirmationCode,
		requestsStr,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		slog.Error("failed to send discord message", "error", err)
		return err
	}

	return nil
}
