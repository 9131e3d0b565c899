/**
 * @description
 * The notification dispatcher: the consuming end of the reminder pipeline.
 * It receives promoted reminder jobs from the queue and delivers them to
 * Telegram. Delivery is at-most-once: a failed send is logged and the job is
 * acknowledged anyway, never retried.
 */
package app

import (
	"encoding/json"
	"log/slog"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// MessageSender delivers a text message to a Telegram user.
type MessageSender interface {
	SendMessage(telegramID int64, text string) error
}

// Dispatcher consumes reminder jobs and delivers them.
type Dispatcher struct {
	sender MessageSender
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher delivering through the given sender.
func NewDispatcher(sender MessageSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// Handle processes one queued job body. It always returns true: delivery
// failures are logged and dropped rather than requeued.
func (d *Dispatcher) Handle(body []byte) bool {
	var job domain.ReminderJob
	if err := json.Unmarshal(body, &job); err != nil {
		d.logger.Error("discarding malformed reminder job", "error", err)
		return true
	}

	if err := d.sender.SendMessage(job.TelegramID, job.Message); err != nil {
		d.logger.Error("failed to deliver reminder",
			"telegram_id", job.TelegramID, "subscription_id", job.SubscriptionID, "error", err)
		return true
	}

	d.logger.Info("reminder delivered",
		"telegram_id", job.TelegramID, "subscription_id", job.SubscriptionID, "type", job.Type)
	return true
}
