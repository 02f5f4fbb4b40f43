// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

// Package config loads MovieNight configuration.
//
// Configuration is layered with Koanf v2:
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/movienight/config.yaml)
//  3. Environment variables (a .env file in the working directory is loaded first)
//
// The resulting Config is validated once and treated as immutable afterwards.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Sentry    SentryConfig    `koanf:"sentry"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT
//   - ENVIRONMENT: development or production
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path to the database file, or ":memory:".
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is DuckDB's worker count; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
	// SeedDemoData inserts a small demo data set into an empty database.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// SecurityConfig holds authentication and request limiting settings.
//
// AuthMode is "jwt" (bearer tokens signed with JWTSecret) or "none"
// (development only; every request acts as DevUserID).
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	DevUserID         string        `koanf:"dev_user_id"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// TMDBConfig configures the TMDB client used for search and movie import.
// TMDB allows 40 requests per 10 seconds per key.
type TMDBConfig struct {
	Enabled       bool          `koanf:"enabled"`
	APIKey        string        `koanf:"api_key"`
	BaseURL       string        `koanf:"base_url"`
	ImageBaseURL  string        `koanf:"image_base_url"`
	Timeout       time.Duration `koanf:"timeout"`
	RateRequests  int           `koanf:"rate_requests"`
	RateWindow    time.Duration `koanf:"rate_window"`
	CachePath     string        `koanf:"cache_path"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	MaxResults    int           `koanf:"max_results"`
	MinValidYear  int           `koanf:"min_valid_year"`
	MovieYearSlop int           `koanf:"movie_year_slop"`
	TVYearSlop    int           `koanf:"tv_year_slop"`

	// ReleaseSyncInterval is how often upcoming releases are refreshed
	// from TMDB discover. Zero disables the background sync.
	ReleaseSyncInterval time.Duration `koanf:"release_sync_interval"`
	// ReleaseSyncDays is how far ahead the sync looks, 1 to 90.
	ReleaseSyncDays int `koanf:"release_sync_days"`
}

// AnalyticsConfig tunes the accuracy endpoints.
type AnalyticsConfig struct {
	// LeaderboardCacheTTL bounds how stale a cached leaderboard may be.
	LeaderboardCacheTTL time.Duration `koanf:"leaderboard_cache_ttl"`
	// WarmInterval is how often the background warmer recomputes the
	// leaderboard. Zero disables the warmer.
	WarmInterval time.Duration `koanf:"warm_interval"`
	// QueryTimeout bounds a single engine call.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN              string        `koanf:"dsn"`
	Environment      string        `koanf:"environment"`
	Release          string        `koanf:"release"`
	TracesSampleRate float64       `koanf:"traces_sample_rate"`
	FlushTimeout     time.Duration `koanf:"flush_timeout"`
}

// Enabled reports whether Sentry reporting is configured.
func (s SentryConfig) Enabled() bool {
	return s.DSN != ""
}

// Load reads configuration from defaults, file and environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
