/**
 * @description
 * Command handlers for the PayPlanner bot: /start, /help, /stats and
 * /settings. All responses are plain text in Russian; /start carries the
 * inline button that launches the Mini App.
 */
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Pailon/PayPlanner/internal/app"
	"github.com/Pailon/PayPlanner/internal/domain"
	"github.com/Pailon/PayPlanner/internal/store"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		b.handleStart(ctx, msg)
	case strings.HasPrefix(text, "/help"):
		b.reply(msg.Chat.ID, helpText)
	case strings.HasPrefix(text, "/stats"):
		b.handleStats(ctx, msg)
	case strings.HasPrefix(text, "/settings"):
		b.handleSettings(ctx, msg)
	}
}

// handleStart registers the user on first contact and offers the Mini App
// launch button.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		b.reply(msg.Chat.ID, unknownUserText)
		return
	}

	var username *string
	if from.UserName != "" {
		username = &from.UserName
	}
	if _, err := b.users.FindOrCreate(ctx, from.ID, username); err != nil {
		b.logger.Error("failed to register user", "telegram_id", from.ID, "error", err)
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, startText)
	reply.ReplyMarkup = webAppKeyboard(b.webAppURL)
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Error("failed to send start message", "chat_id", msg.Chat.ID, "error", err)
	}
}

// handleSettings shows the user's current reminder preferences.
func (b *Bot) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		b.reply(msg.Chat.ID, unknownUserText)
		return
	}

	user, err := b.users.GetByTelegramID(ctx, from.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			b.reply(msg.Chat.ID, noUserText)
			return
		}
		b.logger.Error("settings command failed", "telegram_id", from.ID, "error", err)
		b.reply(msg.Chat.ID, settingsText)
		return
	}

	reminderDays := domain.DefaultReminderDays
	notificationTime := domain.DefaultNotificationTime
	enabled := true

	settings, err := b.settings.GetSettings(ctx, user.ID)
	switch {
	case err == nil:
		if len(settings.ReminderDays) > 0 {
			reminderDays = settings.ReminderDays
		}
		if settings.NotificationTime != "" {
			notificationTime = settings.NotificationTime
		}
		enabled = settings.Enabled
	case errors.Is(err, store.ErrNotFound):
		// Defaults apply.
	default:
		b.logger.Error("failed to load notification settings", "user_id", user.ID, "error", err)
		b.reply(msg.Chat.ID, settingsText)
		return
	}

	status := "включены ✅"
	if !enabled {
		status = "выключены ❌"
	}

	days := make([]string, len(reminderDays))
	for i, d := range reminderDays {
		days[i] = strconv.Itoa(d)
	}

	var sb strings.Builder
	sb.WriteString("⚙️ Настройки уведомлений:\n\n")
	fmt.Fprintf(&sb, "🔔 Уведомления: %s\n", status)
	fmt.Fprintf(&sb, "📅 Напоминать за: %s дн. до оплаты\n", strings.Join(days, ", "))
	fmt.Fprintf(&sb, "🕘 Время напоминаний: %s\n\n", notificationTime)
	sb.WriteString(settingsText)

	b.reply(msg.Chat.ID, sb.String())
}

// handleStats renders the compact statistics summary.
func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		b.reply(msg.Chat.ID, unknownUserText)
		return
	}

	user, err := b.users.GetByTelegramID(ctx, from.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			b.reply(msg.Chat.ID, noUserText)
			return
		}
		b.logger.Error("stats command failed", "telegram_id", from.ID, "error", err)
		b.reply(msg.Chat.ID, statsErrorText)
		return
	}

	subs, err := b.subs.List(ctx, user.ID, false)
	if err != nil {
		b.logger.Error("stats command failed", "telegram_id", from.ID, "error", err)
		b.reply(msg.Chat.ID, statsErrorText)
		return
	}
	if len(subs) == 0 {
		b.reply(msg.Chat.ID, noSubscriptionsText)
		return
	}

	now := time.Now()
	stats := app.ComputeStatistics(subs, now)

	var sb strings.Builder
	sb.WriteString("📊 Ваша статистика:\n\n")
	fmt.Fprintf(&sb, "💰 Месячные расходы: %.2f ₽\n", stats.TotalMonthly)
	fmt.Fprintf(&sb, "📱 Активных подписок: %d\n", stats.ActiveCount)

	if len(stats.UpcomingPayments) > 0 {
		sb.WriteString("\n⏰ Ближайшие оплаты (7 дней):\n")
		upcoming := stats.UpcomingPayments
		if len(upcoming) > 5 {
			upcoming = upcoming[:5]
		}
		for _, p := range upcoming {
			daysLeft := app.DaysUntil(p.NextPaymentDate, now)
			fmt.Fprintf(&sb, "• %s: %.2f %s (через %d дн.)\n",
				p.ServiceName, p.Amount, p.Currency, daysLeft)
		}
	}

	b.reply(msg.Chat.ID, sb.String())
}
