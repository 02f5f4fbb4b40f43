// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/movienight/internal/models"
)

var _ suture.Service = (*PeriodicService)(nil)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// serve runs svc until the test ends and returns a stop func that waits
// for Serve to return.
func serve(t *testing.T, svc suture.Service) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	stopped := false
	stop := func() error {
		if stopped {
			return nil
		}
		stopped = true
		cancel()
		select {
		case err := <-errCh:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
			return nil
		}
	}
	t.Cleanup(func() { _ = stop() })
	return stop
}

func TestPeriodicServiceRunsOnInterval(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	svc := NewPeriodicService(func(context.Context) error {
		calls.Add(1)
		return nil
	}, PeriodicConfig{Name: "ticker", Interval: 10 * time.Millisecond})

	stop := serve(t, svc)
	waitFor(t, "three runs", func() bool { return svc.Runs() >= 3 })

	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if svc.Failures() != 0 {
		t.Errorf("Failures() = %d", svc.Failures())
	}
	if svc.String() != "ticker" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestPeriodicServiceRunOnStart(t *testing.T) {
	t.Parallel()

	svc := NewPeriodicService(func(context.Context) error { return nil },
		PeriodicConfig{Interval: time.Hour, RunOnStart: true})

	serve(t, svc)
	waitFor(t, "startup run", func() bool { return svc.Runs() == 1 })
	if svc.String() != "periodic-task" {
		t.Errorf("default name = %q", svc.String())
	}
}

func TestPeriodicServiceSurvivesFailures(t *testing.T) {
	t.Parallel()

	svc := NewPeriodicService(func(context.Context) error {
		return errors.New("database is locked")
	}, PeriodicConfig{Name: "flaky", Interval: 5 * time.Millisecond})

	stop := serve(t, svc)
	waitFor(t, "repeated failures", func() bool { return svc.Failures() >= 3 })

	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if svc.Runs() != svc.Failures() {
		t.Errorf("runs = %d, failures = %d", svc.Runs(), svc.Failures())
	}
}

func TestPeriodicServiceTimeout(t *testing.T) {
	t.Parallel()

	svc := NewPeriodicService(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, PeriodicConfig{Interval: time.Hour, RunOnStart: true, Timeout: 20 * time.Millisecond})

	serve(t, svc)
	waitFor(t, "timed out run", func() bool { return svc.Failures() == 1 })
}

type fakeWarmer struct{ calls atomic.Int32 }

func (f *fakeWarmer) WarmLeaderboard(context.Context) error {
	f.calls.Add(1)
	return nil
}

type fakeCheckpointer struct{ calls atomic.Int32 }

func (f *fakeCheckpointer) Checkpoint(context.Context) error {
	f.calls.Add(1)
	return nil
}

type fakeGC struct{ calls atomic.Int32 }

func (f *fakeGC) RunGC() error {
	f.calls.Add(1)
	return nil
}

func TestMaintenanceServices(t *testing.T) {
	t.Parallel()

	warmer := &fakeWarmer{}
	checkpointer := &fakeCheckpointer{}
	gc := &fakeGC{}

	tests := []struct {
		svc   *PeriodicService
		name  string
		calls *atomic.Int32
	}{
		{NewLeaderboardWarmer(warmer, 10*time.Millisecond), "leaderboard-warmer", &warmer.calls},
		{NewCheckpointService(checkpointer, 10*time.Millisecond), "duckdb-checkpoint", &checkpointer.calls},
		{NewCacheGCService(gc, 10*time.Millisecond), "tmdb-cache-gc", &gc.calls},
	}

	for _, tt := range tests {
		if tt.svc.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.svc.String(), tt.name)
		}
		serve(t, tt.svc)
		calls := tt.calls
		waitFor(t, tt.name+" runs", func() bool { return calls.Load() >= 2 })
	}
}

func TestLeaderboardWarmerWarmsImmediately(t *testing.T) {
	t.Parallel()

	warmer := &fakeWarmer{}
	serve(t, NewLeaderboardWarmer(warmer, time.Hour))
	waitFor(t, "startup warm", func() bool { return warmer.calls.Load() == 1 })
}

type fakeSyncer struct {
	calls    atomic.Int32
	lastDays atomic.Int32
}

func (f *fakeSyncer) SyncReleases(_ context.Context, days int) (*models.ReleaseSyncResult, error) {
	f.calls.Add(1)
	f.lastDays.Store(int32(days))
	if f.calls.Load() == 1 {
		return nil, errors.New("tmdb unavailable")
	}
	return &models.ReleaseSyncResult{DaysAhead: days}, nil
}

func TestReleaseSyncService(t *testing.T) {
	t.Parallel()

	syncer := &fakeSyncer{}
	svc := NewReleaseSyncService(syncer, 10*time.Millisecond, 14)
	if svc.String() != "release-sync" {
		t.Errorf("String() = %q, want release-sync", svc.String())
	}

	serve(t, svc)
	waitFor(t, "sync after failed first run", func() bool { return syncer.calls.Load() >= 2 })
	if got := syncer.lastDays.Load(); got != 14 {
		t.Errorf("days = %d, want 14", got)
	}
	if svc.Failures() < 1 {
		t.Errorf("Failures() = %d, want the first run counted", svc.Failures())
	}
}
