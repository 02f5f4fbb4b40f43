// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package main

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tomtom215/movienight/internal/api"
	"github.com/tomtom215/movienight/internal/config"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/tmdb"
)

// initSentry configures error reporting when a DSN is set. The returned
// func flushes buffered events and is safe to call when Sentry is off.
func initSentry(cfg *config.SentryConfig) (func(), error) {
	if !cfg.Enabled() {
		logging.Info().Msg("Sentry disabled (no DSN configured)")
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry.Init: %w", err)
	}

	timeout := cfg.FlushTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	logging.Info().Str("environment", cfg.Environment).Msg("Sentry error reporting enabled")
	return func() { sentry.Flush(timeout) }, nil
}

// initTMDB builds the TMDB client and its response cache. It returns a nil
// MovieSource when TMDB is disabled, so handlers answer 503 instead of
// calling a client without a key.
func initTMDB(cfg *config.TMDBConfig) (api.MovieSource, *tmdb.BadgerCache, error) {
	if !cfg.Enabled {
		logging.Info().Msg("TMDB integration disabled")
		return nil, nil, nil
	}

	var (
		cache *tmdb.BadgerCache
		err   error
	)
	if cfg.CachePath != "" {
		cache, err = tmdb.OpenBadgerCache(cfg.CachePath)
	} else {
		cache, err = tmdb.OpenInMemoryCache()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open TMDB cache: %w", err)
	}

	client := tmdb.New(cfg, tmdb.WithCache(cache))
	logging.Info().
		Str("cache_path", cfg.CachePath).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("TMDB client initialized")
	return client, cache, nil
}
