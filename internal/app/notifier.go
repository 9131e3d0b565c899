/**
 * @description
 * Default Notifier implementation: delayed jobs go to the queue, same-day
 * notices go straight to Telegram.
 */
package app

import (
	"context"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// JobEnqueuer stores a reminder job until its fire time elapses.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, job domain.ReminderJob) error
}

// QueueNotifier routes scheduled reminders through the delayed queue and
// immediate notices through the message sender.
type QueueNotifier struct {
	queue  JobEnqueuer
	sender MessageSender
}

// NewQueueNotifier creates the production Notifier.
func NewQueueNotifier(queue JobEnqueuer, sender MessageSender) *QueueNotifier {
	return &QueueNotifier{queue: queue, sender: sender}
}

// Schedule enqueues a delayed reminder job.
func (n *QueueNotifier) Schedule(ctx context.Context, job domain.ReminderJob) error {
	return n.queue.Enqueue(ctx, job)
}

// SendNow delivers a message immediately, bypassing the queue.
func (n *QueueNotifier) SendNow(ctx context.Context, telegramID int64, text string) error {
	return n.sender.SendMessage(telegramID, text)
}
