package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pailon/PayPlanner/internal/domain"
)

type serviceRepoStub struct {
	subs       []domain.Subscription
	listErr    error
	created    *domain.CreateSubscriptionData
	updated    *domain.UpdateSubscriptionData
	updateUser int64
	deleted    bool
}

func (s *serviceRepoStub) ListByUserID(ctx context.Context, userID int64, includeInactive bool) ([]domain.Subscription, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.subs, nil
}

func (s *serviceRepoStub) GetByID(ctx context.Context, id, userID int64) (*domain.Subscription, error) {
	for i := range s.subs {
		if s.subs[i].ID == id && s.subs[i].UserID == userID {
			return &s.subs[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (s *serviceRepoStub) Create(ctx context.Context, userID int64, data domain.CreateSubscriptionData) (*domain.Subscription, error) {
	s.created = &data
	return &domain.Subscription{ID: 1, UserID: userID, ServiceName: data.ServiceName}, nil
}

func (s *serviceRepoStub) Update(ctx context.Context, id, userID int64, data domain.UpdateSubscriptionData) (*domain.Subscription, error) {
	s.updated = &data
	s.updateUser = userID
	return &domain.Subscription{ID: id, UserID: userID}, nil
}

func (s *serviceRepoStub) Delete(ctx context.Context, id, userID int64) (bool, error) {
	return s.deleted, nil
}

func strPtr(s string) *string { return &s }

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		name  string
		sub   domain.Subscription
		want  float64
		delta float64
	}{
		{"monthly cycle", domain.Subscription{Amount: 300, BillingCycleDays: 30}, 300, 0.001},
		{"weekly cycle", domain.Subscription{Amount: 300, BillingCycleDays: 7}, 1285.714, 0.001},
		{"yearly cycle", domain.Subscription{Amount: 3650, BillingCycleDays: 365}, 300, 0.001},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.sub.MonthlyRate()
			if got < tc.want-tc.delta || got > tc.want+tc.delta {
				t.Errorf("MonthlyRate() = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestComputeStatistics(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	subs := []domain.Subscription{
		{ServiceName: "Яндекс Плюс", Amount: 299, Currency: "RUB", BillingCycleDays: 30,
			Category: strPtr("Развлечения"), NextPaymentDate: date("2025-06-12")},
		{ServiceName: "Spotify", Amount: 169, Currency: "RUB", BillingCycleDays: 30,
			Category: strPtr("Развлечения"), NextPaymentDate: date("2025-06-25")},
		{ServiceName: "VPN", Amount: 90, Currency: "RUB", BillingCycleDays: 30,
			NextPaymentDate: date("2025-06-11")},
	}

	stats := ComputeStatistics(subs, now)

	if stats.ActiveCount != 3 {
		t.Errorf("ActiveCount = %d, want 3", stats.ActiveCount)
	}
	if stats.TotalMonthly != 558 {
		t.Errorf("TotalMonthly = %f, want 558", stats.TotalMonthly)
	}

	// Missing category falls into the default bucket.
	var foundDefault bool
	for _, cs := range stats.CategoryStats {
		if cs.Category == "Другое" {
			foundDefault = true
			if cs.Count != 1 || cs.Amount != 90 {
				t.Errorf("default category = %+v, want count 1 amount 90", cs)
			}
		}
	}
	if !foundDefault {
		t.Error("expected a default category bucket")
	}

	// Only payments within seven days, sorted soonest first.
	if len(stats.UpcomingPayments) != 2 {
		t.Fatalf("UpcomingPayments = %d entries, want 2", len(stats.UpcomingPayments))
	}
	if stats.UpcomingPayments[0].ServiceName != "VPN" {
		t.Errorf("first upcoming = %q, want VPN", stats.UpcomingPayments[0].ServiceName)
	}
}

func TestComputeStatistics_UpcomingCappedAtTen(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	var subs []domain.Subscription
	for i := 0; i < 15; i++ {
		subs = append(subs, domain.Subscription{
			ServiceName:      "svc",
			Amount:           100,
			Currency:         "RUB",
			BillingCycleDays: 30,
			NextPaymentDate:  date("2025-06-12"),
		})
	}

	stats := ComputeStatistics(subs, now)
	if len(stats.UpcomingPayments) != 10 {
		t.Errorf("UpcomingPayments = %d entries, want cap of 10", len(stats.UpcomingPayments))
	}
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil, time.Now())
	if stats.ActiveCount != 0 || stats.TotalMonthly != 0 {
		t.Errorf("empty stats = %+v, want zeros", stats)
	}
	if stats.CategoryStats == nil || stats.UpcomingPayments == nil {
		t.Error("expected empty slices, not nil")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"due earlier today", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 0},
		{"due tomorrow", time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), 1},
		{"due in three days", time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), 3},
		{"overdue yesterday", time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntil(tc.due, now); got != tc.want {
				t.Errorf("DaysUntil = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCreate_DefaultsCurrencyToRUB(t *testing.T) {
	repo := &serviceRepoStub{}
	service := NewService(repo)

	_, err := service.Create(context.Background(), 1, domain.CreateSubscriptionData{
		ServiceName:      "Netflix",
		Amount:           649,
		BillingCycleDays: 30,
		NextPaymentDate:  "2025-07-01",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if repo.created.Currency != "RUB" {
		t.Errorf("currency = %q, want RUB", repo.created.Currency)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	repo := &serviceRepoStub{}
	service := NewService(repo)

	tests := []struct {
		name  string
		data  domain.CreateSubscriptionData
		field string
	}{
		{"empty name", domain.CreateSubscriptionData{
			Amount: 100, BillingCycleDays: 30, NextPaymentDate: "2025-07-01"}, "service_name"},
		{"negative amount", domain.CreateSubscriptionData{
			ServiceName: "x", Amount: -5, BillingCycleDays: 30, NextPaymentDate: "2025-07-01"}, "amount"},
		{"unknown currency", domain.CreateSubscriptionData{
			ServiceName: "x", Amount: 100, Currency: "GBP", BillingCycleDays: 30, NextPaymentDate: "2025-07-01"}, "currency"},
		{"zero cycle", domain.CreateSubscriptionData{
			ServiceName: "x", Amount: 100, BillingCycleDays: 0, NextPaymentDate: "2025-07-01"}, "billing_cycle_days"},
		{"bad date format", domain.CreateSubscriptionData{
			ServiceName: "x", Amount: 100, BillingCycleDays: 30, NextPaymentDate: "01.07.2025"}, "next_payment_date"},
		{"impossible date", domain.CreateSubscriptionData{
			ServiceName: "x", Amount: 100, BillingCycleDays: 30, NextPaymentDate: "2025-02-30"}, "next_payment_date"},
		{"bad color", domain.CreateSubscriptionData{
			ServiceName: "x", Amount: 100, BillingCycleDays: 30, NextPaymentDate: "2025-07-01",
			ColorTag: strPtr("red")}, "color_tag"},
		{"bad url", domain.CreateSubscriptionData{
			ServiceName: "x", Amount: 100, BillingCycleDays: 30, NextPaymentDate: "2025-07-01",
			ServiceURL: strPtr("not a url")}, "service_url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), 1, tc.data)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("expected error on field %q, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestUpdate_ValidData(t *testing.T) {
	repo := &serviceRepoStub{}
	service := NewService(repo)

	amount := 499.0
	_, err := service.Update(context.Background(), 10, 1, domain.UpdateSubscriptionData{Amount: &amount})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if repo.updated == nil || repo.updated.Amount == nil || *repo.updated.Amount != 499 {
		t.Errorf("update payload = %+v, want amount 499", repo.updated)
	}
}

func TestUpdate_RejectsInvalidFields(t *testing.T) {
	repo := &serviceRepoStub{}
	service := NewService(repo)

	empty := ""
	_, err := service.Update(context.Background(), 10, 1, domain.UpdateSubscriptionData{ServiceName: &empty})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.updated != nil {
		t.Error("repository should not be called for invalid input")
	}
}

func TestPauseResume(t *testing.T) {
	repo := &serviceRepoStub{}
	service := NewService(repo)

	if _, err := service.Pause(context.Background(), 10, 1); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if repo.updated.IsActive == nil || *repo.updated.IsActive {
		t.Error("pause should set is_active to false")
	}

	if _, err := service.Resume(context.Background(), 10, 1); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if repo.updated.IsActive == nil || !*repo.updated.IsActive {
		t.Error("resume should set is_active to true")
	}
}
