/**
 * @description
 * This file defines the user domain model for the PayPlanner backend.
 * Users are created lazily on first contact with the bot or the Mini App
 * and are identified by their numeric Telegram ID.
 */
package domain

import "time"

// User represents a registered Telegram user.
type User struct {
	ID           int64      `json:"id"`
	TelegramID   int64      `json:"telegram_id"`
	Username     *string    `json:"username,omitempty"`
	LanguageCode string     `json:"language_code"`
	Timezone     string     `json:"timezone"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TelegramUser is the identity parsed out of a Mini App initData payload.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// NotificationSettings holds a user's reminder preferences.
// Users without a settings row fall back to DefaultReminderDays with
// notifications enabled.
type NotificationSettings struct {
	UserID           int64  `json:"user_id"`
	ReminderDays     []int  `json:"reminder_days"`
	NotificationTime string `json:"notification_time"` // "HH:MM", user-local wall clock
	Enabled          bool   `json:"enabled"`
}

// DefaultReminderDays is applied when a user has no notification settings row.
var DefaultReminderDays = []int{1, 3, 7}

// DefaultNotificationTime is the wall-clock time reminders aim for.
const DefaultNotificationTime = "09:00"
