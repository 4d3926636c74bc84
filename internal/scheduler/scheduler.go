// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger permanently removes soft-deleted documents older than a cutoff.
type Purger interface {
	PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}

// Scheduler handles scheduled tasks like purging soft-deleted records.
type Scheduler struct {
	purger    Purger
	cron      *cron.Cron
	logger    *slog.Logger
	retention time.Duration
}

// New creates a new scheduler instance. Retention is how long soft-deleted
// documents are kept before the purge job removes them for good.
func New(purger Purger, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		purger:    purger,
		cron:      cron.New(),
		logger:    logger,
		retention: retention,
	}
}

// Start begins the scheduler with an hourly purge job.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", s.runPurge)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "retention", s.retention)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunPurgeNow triggers the purge job outside its schedule. Used at startup
// and by tests.
func (s *Scheduler) RunPurgeNow() {
	s.runPurge()
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	purged, err := s.purger.PurgeSoftDeleted(ctx, cutoff)
	if err != nil {
		s.logger.Error("purging soft-deleted records", "error", err)
		return
	}
	if purged > 0 {
		s.logger.Info("purged soft-deleted records", "count", purged, "cutoff", cutoff)
	}
}
