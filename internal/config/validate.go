// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/movienight/internal/logging"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
	minJWTSecretLength   = 32
)

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSecurity,
		c.validateLogging,
		c.validateTMDB,
		c.validateAnalytics,
		c.validateSentry,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
		}
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
		}
		if c.Security.SessionTimeout <= 0 {
			return fmt.Errorf("SESSION_TIMEOUT must be positive")
		}
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
		}
		if c.Security.DevUserID == "" {
			return fmt.Errorf("DEV_USER_ID is required when AUTH_MODE is none")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: jwt, none")
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a recognised level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if !c.TMDB.Enabled {
		return nil
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required when TMDB_ENABLED is true")
	}
	if !strings.HasPrefix(c.TMDB.BaseURL, "http://") && !strings.HasPrefix(c.TMDB.BaseURL, "https://") {
		return fmt.Errorf("TMDB_BASE_URL must start with http:// or https://")
	}
	if c.TMDB.RateRequests < 1 || c.TMDB.RateWindow <= 0 {
		return fmt.Errorf("TMDB_RATE_REQUESTS and TMDB_RATE_WINDOW must be positive")
	}
	if c.TMDB.MaxResults < 1 {
		return fmt.Errorf("tmdb.max_results must be positive")
	}
	if c.TMDB.ReleaseSyncInterval < 0 {
		return fmt.Errorf("TMDB_RELEASE_SYNC_INTERVAL must not be negative")
	}
	if c.TMDB.ReleaseSyncDays < 1 || c.TMDB.ReleaseSyncDays > 90 {
		return fmt.Errorf("TMDB_RELEASE_SYNC_DAYS must be between 1 and 90")
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	if c.Analytics.LeaderboardCacheTTL < 0 || c.Analytics.WarmInterval < 0 {
		return fmt.Errorf("LEADERBOARD_CACHE_TTL and LEADERBOARD_WARM_INTERVAL must not be negative")
	}
	if c.Analytics.QueryTimeout <= 0 {
		return fmt.Errorf("ANALYTICS_QUERY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSentry() error {
	if c.Sentry.TracesSampleRate < 0 || c.Sentry.TracesSampleRate > 1 {
		return fmt.Errorf("SENTRY_TRACES_SAMPLE_RATE must be between 0 and 1")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// ShouldWarnAboutCORS reports wildcard CORS combined with authentication.
func (c *Config) ShouldWarnAboutCORS() bool {
	if c.Security.AuthMode == "none" {
		return false
	}
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
