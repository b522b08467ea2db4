package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Messenger implements domain.Messenger over Telegram. The identity is the
// chat ID rendered as a decimal string.
type Messenger struct {
	client *bot.Bot
}

func NewMessenger(client *bot.Bot) *Messenger {
	return &Messenger{client: client}
}

func (m *Messenger) Send(ctx context.Context, identity, text, mediaURL string) error {
	chatID, err := strconv.ParseInt(identity, 10, 64)
	if err != nil {
		return fmt.Errorf("identidad inválida %q: %w", identity, err)
	}

	if mediaURL != "" {
		_, err = m.client.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileString{Data: mediaURL},
			Caption: text,
		})
		return err
	}

	_, err = m.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}
