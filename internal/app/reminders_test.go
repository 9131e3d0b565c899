package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Pailon/PayPlanner/internal/domain"
)

type reminderRepoStub struct {
	candidates []domain.ReminderCandidate
	err        error
}

func (s *reminderRepoStub) ListUpcoming(ctx context.Context, lookaheadDays int) ([]domain.ReminderCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

type notifierStub struct {
	scheduled []domain.ReminderJob
	sentNow   []string
}

func (s *notifierStub) Schedule(ctx context.Context, job domain.ReminderJob) error {
	s.scheduled = append(s.scheduled, job)
	return nil
}

func (s *notifierStub) SendNow(ctx context.Context, telegramID int64, text string) error {
	s.sentNow = append(s.sentNow, text)
	return nil
}

// dedupStub mimics the SETNX semantics: the first call per key wins.
type dedupStub struct {
	seen map[domain.DedupKey]bool
	err  error
}

func newDedupStub() *dedupStub {
	return &dedupStub{seen: make(map[domain.DedupKey]bool)}
}

func (s *dedupStub) MarkScheduled(ctx context.Context, key domain.DedupKey) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func newTestReminders(repo ReminderRepository, notifier Notifier, dedup Deduper) *Reminders {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReminders(repo, notifier, dedup, logger)
}

func candidate(subID int64, due time.Time, reminderDays []int) domain.ReminderCandidate {
	return domain.ReminderCandidate{
		SubscriptionID:  subID,
		ServiceName:     "Яндекс Плюс",
		Amount:          299,
		Currency:        "RUB",
		NextPaymentDate: due,
		UserID:          1,
		TelegramID:      420042,
		ReminderDays:    reminderDays,
	}
}

func TestScan_SchedulesOneJobForMatchingOffset(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC) // three days out

	repo := &reminderRepoStub{candidates: []domain.ReminderCandidate{
		candidate(10, due, nil),
	}}
	notifier := &notifierStub{}
	reminders := newTestReminders(repo, notifier, newDedupStub())

	if err := reminders.Scan(context.Background(), now); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(notifier.scheduled) != 1 {
		t.Fatalf("scheduled %d jobs, want 1", len(notifier.scheduled))
	}
	job := notifier.scheduled[0]
	if !job.FireAt.After(now) {
		t.Errorf("job fire time %v is not after now %v", job.FireAt, now)
	}
	if job.SubscriptionID != 10 || job.TelegramID != 420042 {
		t.Errorf("job routing = %+v", job)
	}
	if !strings.Contains(job.Message, "через 3 дня") {
		t.Errorf("message = %q, want day count phrase", job.Message)
	}
	if len(notifier.sentNow) != 0 {
		t.Errorf("expected no immediate sends, got %d", len(notifier.sentNow))
	}
}

func TestScan_DueTodaySendsImmediately(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	repo := &reminderRepoStub{candidates: []domain.ReminderCandidate{
		candidate(10, due, nil),
	}}
	notifier := &notifierStub{}
	reminders := newTestReminders(repo, notifier, newDedupStub())

	if err := reminders.Scan(context.Background(), now); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(notifier.sentNow) != 1 {
		t.Fatalf("sent %d immediate messages, want 1", len(notifier.sentNow))
	}
	if !strings.Contains(notifier.sentNow[0], "Сегодня") {
		t.Errorf("message = %q, want due-today phrase", notifier.sentNow[0])
	}
	if len(notifier.scheduled) != 0 {
		t.Errorf("scheduled %d jobs, want 0 for due-today", len(notifier.scheduled))
	}
}

func TestScan_RepeatedRunsDoNotDuplicate(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	repo := &reminderRepoStub{candidates: []domain.ReminderCandidate{
		candidate(10, due, nil),
	}}
	notifier := &notifierStub{}
	reminders := newTestReminders(repo, notifier, newDedupStub())

	// Two hourly runs on the same morning.
	if err := reminders.Scan(context.Background(), now); err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	if err := reminders.Scan(context.Background(), now.Add(time.Hour)); err != nil {
		t.Fatalf("second scan failed: %v", err)
	}

	if len(notifier.scheduled) != 1 {
		t.Fatalf("scheduled %d jobs across two runs, want 1", len(notifier.scheduled))
	}
}

func TestScan_CustomOffsetsRespected(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) // five days out

	repo := &reminderRepoStub{candidates: []domain.ReminderCandidate{
		candidate(10, due, []int{5}),
	}}
	notifier := &notifierStub{}
	reminders := newTestReminders(repo, notifier, newDedupStub())

	if err := reminders.Scan(context.Background(), now); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(notifier.scheduled) != 1 {
		t.Fatalf("scheduled %d jobs, want 1 for custom offset", len(notifier.scheduled))
	}
}

func TestScan_NoMatchingOffsetSchedulesNothing(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) // five days, defaults are 1/3/7

	repo := &reminderRepoStub{candidates: []domain.ReminderCandidate{
		candidate(10, due, nil),
	}}
	notifier := &notifierStub{}
	reminders := newTestReminders(repo, notifier, newDedupStub())

	if err := reminders.Scan(context.Background(), now); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(notifier.scheduled) != 0 || len(notifier.sentNow) != 0 {
		t.Errorf("expected nothing dispatched, got %d scheduled / %d sent",
			len(notifier.scheduled), len(notifier.sentNow))
	}
}

func TestScan_PassedFireTimeIsSkipped(t *testing.T) {
	// At 10:00 the 09:00 fire moment for today is already gone; the job must
	// not be scheduled in the past.
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	repo := &reminderRepoStub{candidates: []domain.ReminderCandidate{
		candidate(10, due, nil),
	}}
	notifier := &notifierStub{}
	reminders := newTestReminders(repo, notifier, newDedupStub())

	if err := reminders.Scan(context.Background(), now); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	for _, job := range notifier.scheduled {
		if !job.FireAt.After(now) {
			t.Errorf("job scheduled in the past: %v", job.FireAt)
		}
	}
}

func TestScan_UsesNotificationTime(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	c := candidate(10, due, nil)
	c.NotificationTime = "20:30"
	repo := &reminderRepoStub{candidates: []domain.ReminderCandidate{c}}
	notifier := &notifierStub{}
	reminders := newTestReminders(repo, notifier, newDedupStub())

	if err := reminders.Scan(context.Background(), now); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(notifier.scheduled) != 1 {
		t.Fatalf("scheduled %d jobs, want 1", len(notifier.scheduled))
	}
	fireAt := notifier.scheduled[0].FireAt
	if fireAt.Hour() != 20 || fireAt.Minute() != 30 {
		t.Errorf("fire time = %v, want 20:30 wall clock", fireAt)
	}
}

func TestScan_RepositoryErrorPropagates(t *testing.T) {
	repo := &reminderRepoStub{err: errors.New("db unavailable")}
	reminders := newTestReminders(repo, &notifierStub{}, newDedupStub())

	if err := reminders.Scan(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error from failing repository")
	}
}

func TestDayWord(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "день"}, {2, "дня"}, {3, "дня"}, {4, "дня"},
		{5, "дней"}, {7, "дней"}, {11, "дней"}, {14, "дней"},
		{21, "день"}, {22, "дня"}, {25, "дней"},
	}
	for _, tc := range tests {
		if got := dayWord(tc.n); got != tc.want {
			t.Errorf("dayWord(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
