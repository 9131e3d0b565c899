/**
 * @description
 * This file contains the core business logic for subscription management.
 * The Service layer validates requests, orchestrates data from the
 * repositories and computes the statistics served to the Mini App and the
 * bot's /stats command.
 */
package app

import (
	"context"
	"math"
	"net/url"
	"regexp"
	"sort"
	"time"

	"github.com/Pailon/PayPlanner/internal/domain"
)

const (
	upcomingWindowDays = 7
	upcomingLimit      = 10
	fallbackCategory   = "Другое"
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

	validCurrencies = map[string]bool{"RUB": true, "USD": true, "EUR": true}
)

// SubscriptionRepository defines the persistence operations the service needs.
type SubscriptionRepository interface {
	ListByUserID(ctx context.Context, userID int64, includeInactive bool) ([]domain.Subscription, error)
	GetByID(ctx context.Context, id, userID int64) (*domain.Subscription, error)
	Create(ctx context.Context, userID int64, data domain.CreateSubscriptionData) (*domain.Subscription, error)
	Update(ctx context.Context, id, userID int64, data domain.UpdateSubscriptionData) (*domain.Subscription, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// Service provides the business logic for subscription management.
type Service struct {
	repo SubscriptionRepository
}

// NewService creates a new subscription service.
func NewService(repo SubscriptionRepository) *Service {
	return &Service{repo: repo}
}

// List returns a user's subscriptions ordered by next payment date.
func (s *Service) List(ctx context.Context, userID int64, includeInactive bool) ([]domain.Subscription, error) {
	return s.repo.ListByUserID(ctx, userID, includeInactive)
}

// Get returns a single subscription scoped by owner.
func (s *Service) Get(ctx context.Context, id, userID int64) (*domain.Subscription, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// Create validates and stores a new subscription.
func (s *Service) Create(ctx context.Context, userID int64, data domain.CreateSubscriptionData) (*domain.Subscription, error) {
	if data.Currency == "" {
		data.Currency = "RUB"
	}
	if err := validateCreate(data); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userID, data)
}

// Update validates and applies a partial update. An empty update returns
// the current row unchanged.
func (s *Service) Update(ctx context.Context, id, userID int64, data domain.UpdateSubscriptionData) (*domain.Subscription, error) {
	if err := validateUpdate(data); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, userID, data)
}

// Delete removes a subscription. It returns store.ErrNotFound semantics via
// the boolean: false means no row belonged to this user under that id.
func (s *Service) Delete(ctx context.Context, id, userID int64) (bool, error) {
	return s.repo.Delete(ctx, id, userID)
}

// Pause deactivates a subscription without deleting it.
func (s *Service) Pause(ctx context.Context, id, userID int64) (*domain.Subscription, error) {
	inactive := false
	return s.repo.Update(ctx, id, userID, domain.UpdateSubscriptionData{IsActive: &inactive})
}

// Resume reactivates a paused subscription.
func (s *Service) Resume(ctx context.Context, id, userID int64) (*domain.Subscription, error) {
	active := true
	return s.repo.Update(ctx, id, userID, domain.UpdateSubscriptionData{IsActive: &active})
}

// Statistics aggregates a user's active subscriptions: total monthly spend
// normalized to 30-day months, per-category breakdown, and payments due
// within the next seven days.
func (s *Service) Statistics(ctx context.Context, userID int64, now time.Time) (*domain.Statistics, error) {
	subs, err := s.repo.ListByUserID(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return ComputeStatistics(subs, now), nil
}

// ComputeStatistics builds the statistics view from a set of active
// subscriptions. Split out so the bot's /stats command can reuse it.
func ComputeStatistics(subs []domain.Subscription, now time.Time) *domain.Statistics {
	stats := &domain.Statistics{
		ActiveCount:      len(subs),
		CategoryStats:    []domain.CategoryStat{},
		UpcomingPayments: []domain.UpcomingPayment{},
	}

	byCategory := make(map[string]*domain.CategoryStat)
	var categories []string

	for _, sub := range subs {
		monthly := sub.MonthlyRate()
		stats.TotalMonthly += monthly

		category := fallbackCategory
		if sub.Category != nil && *sub.Category != "" {
			category = *sub.Category
		}
		entry, ok := byCategory[category]
		if !ok {
			entry = &domain.CategoryStat{Category: category}
			byCategory[category] = entry
			categories = append(categories, category)
		}
		entry.Count++
		entry.Amount += monthly

		days := DaysUntil(sub.NextPaymentDate, now)
		if days >= 0 && days <= upcomingWindowDays {
			stats.UpcomingPayments = append(stats.UpcomingPayments, domain.UpcomingPayment{
				ServiceName:     sub.ServiceName,
				Amount:          sub.Amount,
				Currency:        sub.Currency,
				NextPaymentDate: sub.NextPaymentDate,
			})
		}
	}

	stats.TotalMonthly = round2(stats.TotalMonthly)
	for _, category := range categories {
		entry := byCategory[category]
		entry.Amount = round2(entry.Amount)
		stats.CategoryStats = append(stats.CategoryStats, *entry)
	}

	sort.Slice(stats.UpcomingPayments, func(i, j int) bool {
		return stats.UpcomingPayments[i].NextPaymentDate.Before(stats.UpcomingPayments[j].NextPaymentDate)
	})
	if len(stats.UpcomingPayments) > upcomingLimit {
		stats.UpcomingPayments = stats.UpcomingPayments[:upcomingLimit]
	}

	return stats
}

// DaysUntil returns the number of calendar days from now until the given
// payment date, rounding partial days up. A payment due later today yields 0.
func DaysUntil(paymentDate, now time.Time) int {
	due := truncateToDate(paymentDate)
	diff := due.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateCreate(data domain.CreateSubscriptionData) error {
	fields := make(map[string]string)

	if data.ServiceName == "" || len(data.ServiceName) > 255 {
		fields["service_name"] = "must be between 1 and 255 characters"
	}
	if data.Amount <= 0 {
		fields["amount"] = "must be positive"
	}
	if !validCurrencies[data.Currency] {
		fields["currency"] = "must be one of RUB, USD, EUR"
	}
	if data.BillingCycleDays <= 0 {
		fields["billing_cycle_days"] = "must be a positive integer"
	}
	if msg := validateDate(data.NextPaymentDate); msg != "" {
		fields["next_payment_date"] = msg
	}
	if data.ColorTag != nil && !colorRe.MatchString(*data.ColorTag) {
		fields["color_tag"] = "must be a hex color like #A1B2C3"
	}
	if msg := validateURL(data.ServiceURL); msg != "" {
		fields["service_url"] = msg
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateUpdate(data domain.UpdateSubscriptionData) error {
	fields := make(map[string]string)

	if data.ServiceName != nil && (*data.ServiceName == "" || len(*data.ServiceName) > 255) {
		fields["service_name"] = "must be between 1 and 255 characters"
	}
	if data.Amount != nil && *data.Amount <= 0 {
		fields["amount"] = "must be positive"
	}
	if data.Currency != nil && !validCurrencies[*data.Currency] {
		fields["currency"] = "must be one of RUB, USD, EUR"
	}
	if data.BillingCycleDays != nil && *data.BillingCycleDays <= 0 {
		fields["billing_cycle_days"] = "must be a positive integer"
	}
	if data.NextPaymentDate != nil {
		if msg := validateDate(*data.NextPaymentDate); msg != "" {
			fields["next_payment_date"] = msg
		}
	}
	if data.ColorTag != nil && !colorRe.MatchString(*data.ColorTag) {
		fields["color_tag"] = "must be a hex color like #A1B2C3"
	}
	if msg := validateURL(data.ServiceURL); msg != "" {
		fields["service_url"] = msg
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateDate(value string) string {
	if !dateRe.MatchString(value) {
		return "must be a date in YYYY-MM-DD format"
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return "must be a valid calendar date"
	}
	return ""
}

// validateURL accepts nil and empty strings; anything else must parse as an
// absolute http(s) URL.
func validateURL(value *string) string {
	if value == nil || *value == "" {
		return ""
	}
	u, err := url.Parse(*value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "must be a valid URL"
	}
	return ""
}
