/**
 * @description
 * This file implements the data access layer for the reminder scheduler.
 * Its single scan query joins active subscriptions due within the lookahead
 * window with their owners and the owners' notification settings, skipping
 * users who have explicitly disabled notifications.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// ReminderRepository handles the scheduler's database reads.
type ReminderRepository struct {
	db *pgxpool.Pool
}

// NewReminderRepository creates a new reminder repository.
func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// ListUpcoming fetches all active subscriptions whose next payment date
// falls within the next lookaheadDays days, joined with owner and settings.
// A missing settings row counts as notifications enabled with defaults.
func (r *ReminderRepository) ListUpcoming(ctx context.Context, lookaheadDays int) ([]domain.ReminderCandidate, error) {
	query := `
        SELECT
            s.id,
            s.service_name,
            s.amount,
            s.currency,
            s.next_payment_date,
            u.id AS user_id,
            u.telegram_id,
            ns.reminder_days,
            ns.notification_time
        FROM subscriptions s
        JOIN users u ON s.user_id = u.id
        LEFT JOIN notification_settings ns ON ns.user_id = u.id
        WHERE s.is_active = TRUE
          AND s.next_payment_date BETWEEN CURRENT_DATE AND CURRENT_DATE + $1 * INTERVAL '1 day'
          AND (ns.enabled IS NULL OR ns.enabled = TRUE)
    `
	rows, err := r.db.Query(ctx, query, lookaheadDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.ReminderCandidate
	for rows.Next() {
		var c domain.ReminderCandidate
		var reminderDays []int32
		var notificationTime *string
		err := rows.Scan(
			&c.SubscriptionID,
			&c.ServiceName,
			&c.Amount,
			&c.Currency,
			&c.NextPaymentDate,
			&c.UserID,
			&c.TelegramID,
			&reminderDays,
			&notificationTime,
		)
		if err != nil {
			return nil, err
		}
		for _, d := range reminderDays {
			c.ReminderDays = append(c.ReminderDays, int(d))
		}
		if notificationTime != nil {
			c.NotificationTime = *notificationTime
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetSettings returns a user's notification settings, or ErrNotFound when
// the user has never saved any.
func (r *ReminderRepository) GetSettings(ctx context.Context, userID int64) (*domain.NotificationSettings, error) {
	query := `
        SELECT user_id, reminder_days, notification_time, enabled
        FROM notification_settings
        WHERE user_id = $1
    `
	var settings domain.NotificationSettings
	var reminderDays []int32
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&reminderDays,
		&settings.NotificationTime,
		&settings.Enabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	for _, d := range reminderDays {
		settings.ReminderDays = append(settings.ReminderDays, int(d))
	}
	return &settings, nil
}
