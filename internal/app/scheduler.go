/**
 * @description
 * Cron scheduler setup for the reminder scan.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// reminderSchedule runs the scan at the top of every hour.
const reminderSchedule = "@hourly"

// Scheduler manages the hourly reminder scan.
type Scheduler struct {
	cron      *cron.Cron
	reminders *Reminders
	logger    *slog.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(reminders *Reminders, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:      c,
		reminders: reminders,
		logger:    logger,
	}
}

// Start registers the reminder scan and starts the cron scheduler. The scan
// also runs once immediately so a freshly restarted process does not wait up
// to an hour for the first pass.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(reminderSchedule, s.reminders.Run); err != nil {
		s.logger.Error("failed to schedule reminder scan", "error", err)
	} else {
		s.logger.Info("scheduled reminder scan", "schedule", reminderSchedule)
	}

	s.cron.Start()
	go s.reminders.Run()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
