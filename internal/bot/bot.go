/**
 * @description
 * Telegram bot surface of PayPlanner. The bot handles onboarding (/start),
 * quick statistics (/stats) and pointers into the Mini App; it also exposes
 * SendMessage so the reminder pipeline can deliver notifications through
 * the same connection.
 */
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Pailon/PayPlanner/internal/domain"
	"github.com/Pailon/PayPlanner/internal/store"
)

// SubscriptionLister is the slice of the service layer the bot needs for
// the /stats command.
type SubscriptionLister interface {
	List(ctx context.Context, userID int64, includeInactive bool) ([]domain.Subscription, error)
}

// SettingsReader loads a user's notification settings for /settings.
type SettingsReader interface {
	GetSettings(ctx context.Context, userID int64) (*domain.NotificationSettings, error)
}

// Bot wires Telegram updates to command handlers.
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *store.UserRepository
	subs      SubscriptionLister
	settings  SettingsReader
	logger    *slog.Logger
	webAppURL string
}

// New creates a Bot from an existing bot token.
func New(token string, users *store.UserRepository, subs SubscriptionLister, settings SettingsReader, webAppURL string, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = false

	return &Bot{
		api:       api,
		users:     users,
		subs:      subs,
		settings:  settings,
		logger:    logger,
		webAppURL: webAppURL,
	}, nil
}

// Run consumes updates via long polling until ctx is canceled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

// SendMessage delivers a plain text message to a Telegram user. This makes
// Bot satisfy the dispatcher's MessageSender.
func (b *Bot) SendMessage(telegramID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(telegramID, text))
	return err
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send bot reply", "chat_id", chatID, "error", err)
	}
}
