/**
 * @description
 * This file defines the core domain models for subscription tracking.
 * It includes the Subscription struct that maps to the database table and the
 * request payloads used by the API layer. Update payloads use pointer fields
 * so that only fields actually present in the request are written.
 */
package domain

import "time"

// Subscription represents a single recurring paid subscription of a user.
// Notes are stored encrypted at rest; the repository transparently
// decrypts them on read.
type Subscription struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	ServiceName      string    `json:"service_name"`
	ServiceIcon      *string   `json:"service_icon,omitempty"`
	Category         *string   `json:"category,omitempty"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	BillingCycleDays int       `json:"billing_cycle_days"`
	NextPaymentDate  time.Time `json:"next_payment_date"`
	ColorTag         *string   `json:"color_tag,omitempty"`
	IsActive         bool      `json:"is_active"`
	Notes            string    `json:"notes,omitempty"`
	ServiceURL       *string   `json:"service_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MonthlyRate returns the subscription's contribution to monthly spending,
// normalizing the billing cycle to a 30-day month.
func (s Subscription) MonthlyRate() float64 {
	return s.Amount * 30.0 / float64(s.BillingCycleDays)
}

// CreateSubscriptionData is the payload for creating a subscription.
type CreateSubscriptionData struct {
	ServiceName      string  `json:"service_name"`
	ServiceIcon      *string `json:"service_icon,omitempty"`
	Category         *string `json:"category,omitempty"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	BillingCycleDays int     `json:"billing_cycle_days"`
	NextPaymentDate  string  `json:"next_payment_date"` // YYYY-MM-DD
	ColorTag         *string `json:"color_tag,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	ServiceURL       *string `json:"service_url,omitempty"`
}

// UpdateSubscriptionData is the payload for partial updates. A nil field
// means "leave untouched"; a non-nil field is written as-is.
type UpdateSubscriptionData struct {
	ServiceName      *string  `json:"service_name,omitempty"`
	ServiceIcon      *string  `json:"service_icon,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	Currency         *string  `json:"currency,omitempty"`
	BillingCycleDays *int     `json:"billing_cycle_days,omitempty"`
	NextPaymentDate  *string  `json:"next_payment_date,omitempty"`
	ColorTag         *string  `json:"color_tag,omitempty"`
	IsActive         *bool    `json:"is_active,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	ServiceURL       *string  `json:"service_url,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
// An empty update is a no-op, not an error.
func (u UpdateSubscriptionData) IsEmpty() bool {
	return u.ServiceName == nil && u.ServiceIcon == nil && u.Category == nil &&
		u.Amount == nil && u.Currency == nil && u.BillingCycleDays == nil &&
		u.NextPaymentDate == nil && u.ColorTag == nil && u.IsActive == nil &&
		u.Notes == nil && u.ServiceURL == nil
}
