/**
 * @description
 * Domain models for the reminder pipeline: the delayed reminder job that
 * travels through the queue, and the statistics DTOs served to the Mini App.
 */
package domain

import "time"

// ReminderJob is a single scheduled payment reminder. It is owned by the
// dispatch queue from creation until delivery; nothing else persists it.
type ReminderJob struct {
	UserID         int64     `json:"user_id"`
	TelegramID     int64     `json:"telegram_id"`
	SubscriptionID int64     `json:"subscription_id"`
	Message        string    `json:"message"`
	Type           string    `json:"type"` // "reminder" or "payment_due"
	FireAt         time.Time `json:"fire_at"`
}

// DedupKey identifies a reminder uniquely by subscription, offset and due
// date, so that hourly scheduler runs do not enqueue the same reminder twice.
type DedupKey struct {
	SubscriptionID int64
	OffsetDays     int
	DueDate        string // YYYY-MM-DD
}

// ReminderCandidate is one row of the scheduler's scan: an active
// subscription due within the lookahead window joined with its owner and
// the owner's notification settings.
type ReminderCandidate struct {
	SubscriptionID   int64
	ServiceName      string
	Amount           float64
	Currency         string
	NextPaymentDate  time.Time
	UserID           int64
	TelegramID       int64
	ReminderDays     []int  // nil when the user has no settings row
	NotificationTime string // "" when the user has no settings row
}

// Statistics is the aggregate view of a user's active subscriptions.
type Statistics struct {
	TotalMonthly     float64           `json:"totalMonthly"`
	ActiveCount      int               `json:"activeCount"`
	CategoryStats    []CategoryStat    `json:"categoryStats"`
	UpcomingPayments []UpcomingPayment `json:"upcomingPayments"`
}

// CategoryStat groups monthly spending by subscription category.
type CategoryStat struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Amount   float64 `json:"amount"`
}

// UpcomingPayment is a payment due within the next seven days.
type UpcomingPayment struct {
	ServiceName     string    `json:"service_name"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	NextPaymentDate time.Time `json:"next_payment_date"`
}
