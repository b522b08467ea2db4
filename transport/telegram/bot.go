package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"agendabot/internal/domain"
	"agendabot/internal/usecase"
)

const genericApology = "Lo siento, no pude procesar tu mensaje."

// Bot is the inbound chat transport: every text message is classified and
// routed to the matching use case. The user always gets a textual reply.
type Bot struct {
	client    *bot.Bot
	resolver  *usecase.IntentResolver
	scheduler *usecase.EventScheduler
	reminders *usecase.ReminderUsecase
	users     domain.UserRepository
}

func NewBot(client *bot.Bot, resolver *usecase.IntentResolver, scheduler *usecase.EventScheduler, reminders *usecase.ReminderUsecase, users domain.UserRepository) *Bot {
	return &Bot{
		client:    client,
		resolver:  resolver,
		scheduler: scheduler,
		reminders: reminders,
		users:     users,
	}
}

func (b *Bot) RegisterHandlers() {
	b.client.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, b.handleMessage)
}

func (b *Bot) Start(ctx context.Context) {
	b.client.Start(ctx)
}

func (b *Bot) handleMessage(ctx context.Context, botClient *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	identity := strconv.FormatInt(update.Message.Chat.ID, 10)

	// Lazy user creation on first contact.
	if _, err := b.users.Ensure(ctx, identity); err != nil {
		slog.Warn("no se pudo registrar el usuario", "identity", identity, "error", err)
	}

	reply := b.respond(ctx, identity, update.Message.Text)

	if _, err := botClient.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   reply,
	}); err != nil {
		slog.Warn("no se pudo responder el mensaje", "identity", identity, "error", err)
	}
}

// respond branches on the resolved intent and always produces a reply.
func (b *Bot) respond(ctx context.Context, identity, text string) string {
	intent, err := b.resolver.Resolve(ctx, text)
	if err != nil {
		// Classification failed: fall through to plain chat.
		intent = domain.Intent{Kind: domain.IntentChitchat}
	}

	switch intent.Kind {
	case domain.IntentCalendarEvent:
		event, err := b.scheduler.Schedule(ctx, intent, text, identity)
		if err != nil {
			slog.Warn("no se pudo agendar el evento", "identity", identity, "error", err)
			return "Lo siento, no pude agendar el evento."
		}
		return fmt.Sprintf("Listo, agendé \"%s\" para el %s.",
			event.Summary, event.Start.Format("02/01 15:04"))

	case domain.IntentLocalReminder:
		body := intent.Summary
		if body == "" {
			body = text
		}
		reminder, err := b.reminders.Add(ctx, identity, body)
		if err != nil {
			slog.Warn("no se pudo crear el recordatorio", "identity", identity, "error", err)
			return "Lo siento, no pude crear el recordatorio."
		}
		return fmt.Sprintf("Listo, te lo recuerdo a las %s.",
			reminder.DueAt.Format("15:04"))

	default:
		answer, err := b.resolver.Chat(ctx, text)
		if err != nil || answer == "" {
			return genericApology
		}
		return answer
	}
}
