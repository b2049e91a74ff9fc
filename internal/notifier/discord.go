package notifier

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/event-signup-bot/internal/models"
)

var (
	ErrNoSession = errors.New("discord session is nil")
	ErrNoChannel = errors.New("discord channel ID is empty")
)

type channelSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts every completed registration to a Discord channel.
type DiscordNotifier struct {
	session   channelSender
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	n := &DiscordNotifier{channelID: channelID}
	if session != nil {
		n.session = session
	}
	return n
}

func (n *DiscordNotifier) NotifyRegistration(reg models.Registration, event models.Event) error {
	if n.session == nil {
		return ErrNoSession
	}
	if n.channelID == "" {
		return ErrNoChannel
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, formatRegistration(reg, event)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func formatRegistration(reg models.Registration, event models.Event) string {
	payment := "not bringing"
	if reg.PaymentReady() {
		payment = strconv.FormatFloat(event.Price, 'f', -1, 64)
	}

	name := reg.FirstName
	if reg.LastName != "" {
		name += " " + reg.LastName
	}

	return fmt.Sprintf("🎉 **New Registration**\n**Name:** %s\n**Telegram ID:** %s\n**Event:** %s\n**Date:** %s %s\n**Payment:** %s",
		name,
		reg.TelegramID,
		event.Title,
		event.Date.Format("02.01.2006"),
		event.Time,
		payment,
	)
}
