// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type stubPurger struct {
	cutoffs []time.Time
	purged  int64
	err     error
}

func (p *stubPurger) PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	p.cutoffs = append(p.cutoffs, olderThan)
	return p.purged, p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPurgeNow_UsesRetentionCutoff(t *testing.T) {
	purger := &stubPurger{purged: 3}
	s := New(purger, 30*24*time.Hour, discardLogger())

	before := time.Now().Add(-30 * 24 * time.Hour)
	s.RunPurgeNow()
	after := time.Now().Add(-30 * 24 * time.Hour)

	if len(purger.cutoffs) != 1 {
		t.Fatalf("purge ran %d times, want 1", len(purger.cutoffs))
	}
	cutoff := purger.cutoffs[0]
	if cutoff.Before(before) || cutoff.After(after) {
		t.Errorf("cutoff %v outside expected window [%v, %v]", cutoff, before, after)
	}
}

func TestRunPurgeNow_ErrorDoesNotPanic(t *testing.T) {
	purger := &stubPurger{err: errors.New("db down")}
	s := New(purger, time.Hour, discardLogger())

	s.RunPurgeNow()

	if len(purger.cutoffs) != 1 {
		t.Fatalf("purge ran %d times, want 1", len(purger.cutoffs))
	}
}

func TestStartStop(t *testing.T) {
	purger := &stubPurger{}
	s := New(purger, time.Hour, discardLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	s.Stop()
}
