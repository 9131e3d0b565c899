/**
 * @description
 * The reminder scan. Once per hour (plus once at startup) it walks every
 * active subscription due within the next 30 days and decides, per user
 * offset, whether a payment reminder should be enqueued. Subscriptions due
 * today get an immediate message instead of a delayed job.
 *
 * Each dispatched reminder is registered under a (subscription, offset,
 * due date) dedup key so repeated hourly runs on the same day never enqueue
 * the same reminder twice.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// reminderLookaheadDays bounds the scheduler's scan window.
const reminderLookaheadDays = 30

// ReminderRepository defines the database reads the scan needs.
type ReminderRepository interface {
	ListUpcoming(ctx context.Context, lookaheadDays int) ([]domain.ReminderCandidate, error)
}

// Notifier is the scan's outbound port: delayed jobs go through Schedule,
// same-day notices bypass the queue via SendNow.
type Notifier interface {
	Schedule(ctx context.Context, job domain.ReminderJob) error
	SendNow(ctx context.Context, telegramID int64, text string) error
}

// Deduper records dispatched reminders and reports first-time dispatches.
type Deduper interface {
	MarkScheduled(ctx context.Context, key domain.DedupKey) (bool, error)
}

// Reminders runs the periodic reminder scan.
type Reminders struct {
	repo     ReminderRepository
	notifier Notifier
	dedup    Deduper
	logger   *slog.Logger
	now      func() time.Time
}

// NewReminders creates the reminder scan job.
func NewReminders(repo ReminderRepository, notifier Notifier, dedup Deduper, logger *slog.Logger) *Reminders {
	return &Reminders{
		repo:     repo,
		notifier: notifier,
		dedup:    dedup,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes a single scan. It is the cron entry point and never returns
// an error: failures are logged and the next tick retries naturally.
func (r *Reminders) Run() {
	ctx := context.Background()
	if err := r.Scan(ctx, r.now()); err != nil {
		r.logger.Error("reminder scan failed", "error", err)
	}
}

// Scan performs one scheduling pass at the given instant.
func (r *Reminders) Scan(ctx context.Context, now time.Time) error {
	candidates, err := r.repo.ListUpcoming(ctx, reminderLookaheadDays)
	if err != nil {
		return fmt.Errorf("list upcoming subscriptions: %w", err)
	}

	for _, c := range candidates {
		r.processCandidate(ctx, c, now)
	}
	return nil
}

func (r *Reminders) processCandidate(ctx context.Context, c domain.ReminderCandidate, now time.Time) {
	daysUntil := DaysUntil(c.NextPaymentDate, now)
	dueDate := c.NextPaymentDate.Format("2006-01-02")

	if daysUntil == 0 {
		key := domain.DedupKey{SubscriptionID: c.SubscriptionID, OffsetDays: 0, DueDate: dueDate}
		first, err := r.dedup.MarkScheduled(ctx, key)
		if err != nil {
			r.logger.Error("dedup check failed", "subscription_id", c.SubscriptionID, "error", err)
			return
		}
		if !first {
			return
		}
		text := dueTodayMessage(c)
		if err := r.notifier.SendNow(ctx, c.TelegramID, text); err != nil {
			r.logger.Error("failed to send due-today notification",
				"subscription_id", c.SubscriptionID, "telegram_id", c.TelegramID, "error", err)
		}
		return
	}

	offsets := c.ReminderDays
	if len(offsets) == 0 {
		offsets = domain.DefaultReminderDays
	}

	for _, offset := range offsets {
		if daysUntil != offset {
			continue
		}

		fireAt := reminderFireTime(c.NextPaymentDate, offset, c.NotificationTime)
		if !fireAt.After(now) {
			// The offset moment already passed within this run; the next
			// matching offset (or the due-today notice) will cover it.
			continue
		}

		key := domain.DedupKey{SubscriptionID: c.SubscriptionID, OffsetDays: offset, DueDate: dueDate}
		first, err := r.dedup.MarkScheduled(ctx, key)
		if err != nil {
			r.logger.Error("dedup check failed", "subscription_id", c.SubscriptionID, "error", err)
			continue
		}
		if !first {
			continue
		}

		job := domain.ReminderJob{
			UserID:         c.UserID,
			TelegramID:     c.TelegramID,
			SubscriptionID: c.SubscriptionID,
			Message:        reminderMessage(c, offset),
			Type:           "reminder",
			FireAt:         fireAt,
		}
		if err := r.notifier.Schedule(ctx, job); err != nil {
			r.logger.Error("failed to schedule reminder",
				"subscription_id", c.SubscriptionID, "offset_days", offset, "error", err)
		}
	}
}

// reminderFireTime places the reminder on the calendar day `offset` days
// before the due date, at the user's preferred wall-clock time.
func reminderFireTime(paymentDate time.Time, offset int, notificationTime string) time.Time {
	day := truncateToDate(paymentDate).AddDate(0, 0, -offset)

	hhmm := notificationTime
	if hhmm == "" {
		hhmm = domain.DefaultNotificationTime
	}
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		parsed, _ = time.Parse("15:04", domain.DefaultNotificationTime)
	}
	return day.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

func reminderMessage(c domain.ReminderCandidate, offset int) string {
	return fmt.Sprintf("🔔 Напоминание: через %d %s необходимо оплатить подписку «%s» на сумму %s %s",
		offset, dayWord(offset), c.ServiceName, formatAmount(c.Amount), c.Currency)
}

func dueTodayMessage(c domain.ReminderCandidate) string {
	return fmt.Sprintf("💰 Сегодня необходимо оплатить подписку «%s» на сумму %s %s",
		c.ServiceName, formatAmount(c.Amount), c.Currency)
}

// dayWord picks the Russian plural form for a day count.
func dayWord(n int) string {
	n = n % 100
	if n >= 11 && n <= 14 {
		return "дней"
	}
	switch n % 10 {
	case 1:
		return "день"
	case 2, 3, 4:
		return "дня"
	default:
		return "дней"
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
