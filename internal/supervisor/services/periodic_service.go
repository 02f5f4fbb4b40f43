// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/models"
)

// defaultInterval applies when a PeriodicConfig has no interval.
const defaultInterval = time.Minute

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// PeriodicConfig configures a PeriodicService.
type PeriodicConfig struct {
	// Name identifies the service in logs and supervisor events.
	Name string

	// Interval between runs. Default: 1m
	Interval time.Duration

	// RunOnStart runs the task once before the first tick.
	RunOnStart bool

	// Timeout bounds a single run. Zero means no bound beyond the
	// service context.
	Timeout time.Duration
}

// PeriodicService runs a task on a fixed interval until its context is
// canceled. A failed run is logged and retried on the next tick; it does
// not return from Serve, so a flaky dependency never triggers restarts.
type PeriodicService struct {
	task     Task
	config   PeriodicConfig
	logger   zerolog.Logger
	runs     atomic.Int64
	failures atomic.Int64
}

// NewPeriodicService creates a periodic service for task.
func NewPeriodicService(task Task, cfg PeriodicConfig) *PeriodicService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Name == "" {
		cfg.Name = "periodic-task"
	}
	return &PeriodicService{
		task:   task,
		config: cfg,
		logger: logging.WithComponent(cfg.Name),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	s.logger.Debug().
		Dur("interval", s.config.Interval).
		Bool("run_on_start", s.config.RunOnStart).
		Msg("periodic service starting")

	if s.config.RunOnStart {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Msg("periodic service stopping")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := s.task(ctx)
	s.runs.Add(1)
	if err != nil {
		s.failures.Add(1)
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("periodic task failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task complete")
}

// Runs is the number of completed task runs.
func (s *PeriodicService) Runs() int64 {
	return s.runs.Load()
}

// Failures is the number of task runs that returned an error.
func (s *PeriodicService) Failures() int64 {
	return s.failures.Load()
}

// String names the service in supervisor events.
func (s *PeriodicService) String() string {
	return s.config.Name
}

// LeaderboardWarmer recomputes and caches the suggestion leaderboard.
// *api.Handler implements it.
type LeaderboardWarmer interface {
	WarmLeaderboard(ctx context.Context) error
}

// NewLeaderboardWarmer keeps the cached leaderboard fresh. It warms once
// at startup so the first read after boot is a hit.
func NewLeaderboardWarmer(w LeaderboardWarmer, interval time.Duration) *PeriodicService {
	return NewPeriodicService(w.WarmLeaderboard, PeriodicConfig{
		Name:       "leaderboard-warmer",
		Interval:   interval,
		RunOnStart: true,
	})
}

// Checkpointer flushes the database write-ahead log. *database.DB
// implements it.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// NewCheckpointService checkpoints the DuckDB WAL on an interval.
func NewCheckpointService(c Checkpointer, interval time.Duration) *PeriodicService {
	return NewPeriodicService(c.Checkpoint, PeriodicConfig{
		Name:     "duckdb-checkpoint",
		Interval: interval,
		Timeout:  time.Minute,
	})
}

// GarbageCollector reclaims space in an on-disk cache. *tmdb.BadgerCache
// implements it.
type GarbageCollector interface {
	RunGC() error
}

// NewCacheGCService runs value-log GC on the TMDB response cache.
func NewCacheGCService(gc GarbageCollector, interval time.Duration) *PeriodicService {
	return NewPeriodicService(func(context.Context) error { return gc.RunGC() }, PeriodicConfig{
		Name:     "tmdb-cache-gc",
		Interval: interval,
	})
}

// ReleaseSyncer refreshes the upcoming release calendar. *api.Handler
// implements it.
type ReleaseSyncer interface {
	SyncReleases(ctx context.Context, days int) (*models.ReleaseSyncResult, error)
}

// NewReleaseSyncService refreshes the release calendar for the next days
// on an interval, starting at boot.
func NewReleaseSyncService(s ReleaseSyncer, interval time.Duration, days int) *PeriodicService {
	return NewPeriodicService(func(ctx context.Context) error {
		_, err := s.SyncReleases(ctx, days)
		return err
	}, PeriodicConfig{
		Name:       "release-sync",
		Interval:   interval,
		RunOnStart: true,
		Timeout:    2 * time.Minute,
	})
}
