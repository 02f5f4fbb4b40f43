// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

// Package metrics declares the Prometheus collectors MovieNight exports on
// /metrics. Collectors are registered with the default registry at init via
// promauto; callers use the Record*/Observe* helpers.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movienight_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_duckdb_query_errors_total",
			Help: "Total number of failed DuckDB queries",
		},
		[]string{"operation", "table"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movienight_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movienight_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Accuracy engine
	AccuracyComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movienight_accuracy_computation_duration_seconds",
			Help:    "Time spent computing accuracy reports",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	AccuracyComputationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_accuracy_computation_errors_total",
			Help: "Accuracy computations that failed",
		},
		[]string{"operation", "reason"}, // reason: canceled, timeout, storage
	)

	LeaderboardCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movienight_leaderboard_cache_hits_total",
			Help: "Leaderboard requests served from cache",
		},
	)

	LeaderboardCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movienight_leaderboard_cache_misses_total",
			Help: "Leaderboard requests that required a computation",
		},
	)

	LeaderboardWarmRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_leaderboard_warm_runs_total",
			Help: "Background leaderboard recomputations",
		},
		[]string{"result"}, // success, failure
	)

	AnalyticsCacheKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movienight_analytics_cache_keys",
			Help: "Entries currently held in the analytics cache",
		},
	)

	AnalyticsCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movienight_analytics_cache_hit_ratio",
			Help: "Lifetime analytics cache hit ratio (0-1)",
		},
	)

	// Releases
	ReleaseSyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_release_sync_runs_total",
			Help: "Upcoming release calendar refreshes",
		},
		[]string{"result"}, // success, failure
	)

	ReleasesStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movienight_releases_stored",
			Help: "Releases in the calendar after the last successful sync",
		},
	)

	// TMDB
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_tmdb_requests_total",
			Help: "Requests sent to TMDB",
		},
		[]string{"endpoint", "result"}, // result: success, error, cached, rejected
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movienight_tmdb_request_duration_seconds",
			Help:    "TMDB request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	TMDBRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movienight_tmdb_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the TMDB rate limiter",
			Buckets: []float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5, 10},
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movienight_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienight_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records one database query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ObserveAccuracyComputation records one engine call.
func ObserveAccuracyComputation(operation string, duration time.Duration, err error) {
	AccuracyComputationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err == nil {
		return
	}
	reason := "storage"
	switch {
	case errors.Is(err, context.Canceled):
		reason = "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		reason = "timeout"
	}
	AccuracyComputationErrors.WithLabelValues(operation, reason).Inc()
}

// RecordLeaderboardCache records a leaderboard cache lookup.
func RecordLeaderboardCache(hit bool) {
	if hit {
		LeaderboardCacheHits.Inc()
	} else {
		LeaderboardCacheMisses.Inc()
	}
}

// RecordLeaderboardWarm records one background recomputation.
func RecordLeaderboardWarm(err error) {
	if err != nil {
		LeaderboardWarmRuns.WithLabelValues("failure").Inc()
		return
	}
	LeaderboardWarmRuns.WithLabelValues("success").Inc()
}

// RecordTMDBRequest records one TMDB call. result is success, error, cached
// or rejected.
func RecordTMDBRequest(endpoint, result string, duration time.Duration) {
	TMDBRequestsTotal.WithLabelValues(endpoint, result).Inc()
	if result == "success" || result == "error" {
		TMDBRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

// ObserveAnalyticsCache publishes a cache snapshot. hitRate is a percentage.
func ObserveAnalyticsCache(keys int64, hitRate float64) {
	AnalyticsCacheKeys.Set(float64(keys))
	AnalyticsCacheHitRatio.Set(hitRate / 100)
}

// RecordReleaseSync records one release calendar refresh.
func RecordReleaseSync(stored int, err error) {
	if err != nil {
		ReleaseSyncRuns.WithLabelValues("failure").Inc()
		return
	}
	ReleaseSyncRuns.WithLabelValues("success").Inc()
	ReleasesStored.Set(float64(stored))
}
