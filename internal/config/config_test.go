// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// isolate points the loader at an empty directory so that stray config.yaml
// or .env files in the package directory cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))

	oldPaths, oldDotEnv := DefaultConfigPaths, DotEnvPath
	DefaultConfigPaths = nil
	DotEnvPath = filepath.Join(dir, ".env")
	t.Cleanup(func() {
		DefaultConfigPaths = oldPaths
		DotEnvPath = oldDotEnv
	})
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3001 {
		t.Errorf("Server.Port = %d, want 3001", cfg.Server.Port)
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("Security.AuthMode = %q, want jwt", cfg.Security.AuthMode)
	}
	if cfg.TMDB.RateRequests != 40 || cfg.TMDB.RateWindow != 10*time.Second {
		t.Errorf("TMDB rate = %d/%v, want 40/10s", cfg.TMDB.RateRequests, cfg.TMDB.RateWindow)
	}
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.ImageBaseURL != "https://image.tmdb.org/t/p/w500" {
		t.Errorf("TMDB.ImageBaseURL = %q", cfg.TMDB.ImageBaseURL)
	}
	if cfg.TMDB.ReleaseSyncDays != 30 || cfg.TMDB.ReleaseSyncInterval != 7*24*time.Hour {
		t.Errorf("TMDB release sync = %d days every %v, want 30 days weekly", cfg.TMDB.ReleaseSyncDays, cfg.TMDB.ReleaseSyncInterval)
	}
	if cfg.Analytics.LeaderboardCacheTTL != 5*time.Minute {
		t.Errorf("Analytics.LeaderboardCacheTTL = %v, want 5m", cfg.Analytics.LeaderboardCacheTTL)
	}
	if cfg.Sentry.Enabled() {
		t.Error("Sentry should be disabled without a DSN")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LEADERBOARD_WARM_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Analytics.WarmInterval != 30*time.Second {
		t.Errorf("WarmInterval = %v, want 30s", cfg.Analytics.WarmInterval)
	}
}

func TestLoadConfigFileThenEnvOverride(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8080
database:
  path: /tmp/file.duckdb
security:
  jwt_secret: ` + testSecret + `
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080 from file", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/file.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error from env", cfg.Logging.Level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	const key = "SENTRY_ENVIRONMENT"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET="+testSecret+"\n"+key+"=staging\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv(key)
		os.Unsetenv("JWT_SECRET")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sentry.Environment != "staging" {
		t.Errorf("Sentry.Environment = %q, want staging", cfg.Sentry.Environment)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := defaultConfig()
		c.Security.JWTSecret = testSecret
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "at least 32"},
		{"bad auth mode", func(c *Config) { c.Security.AuthMode = "basic" }, "AUTH_MODE must be one of"},
		{"none needs dev user", func(c *Config) { c.Security.AuthMode = "none" }, "DEV_USER_ID"},
		{"none in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Security.DevUserID = "u1"
			c.Server.Environment = "production"
		}, "not allowed"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"tmdb without key", func(c *Config) { c.TMDB.Enabled = true }, "TMDB_API_KEY"},
		{"tmdb bad url", func(c *Config) {
			c.TMDB.Enabled = true
			c.TMDB.APIKey = "k"
			c.TMDB.BaseURL = "ftp://x"
		}, "TMDB_BASE_URL"},
		{"release sync days", func(c *Config) {
			c.TMDB.Enabled = true
			c.TMDB.APIKey = "k"
			c.TMDB.ReleaseSyncDays = 91
		}, "TMDB_RELEASE_SYNC_DAYS"},
		{"sentry sample rate", func(c *Config) { c.Sentry.TracesSampleRate = 2 }, "SENTRY_TRACES_SAMPLE_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	c := defaultConfig()
	if !c.ShouldWarnAboutCORS() {
		t.Error("expected warning for wildcard CORS with jwt auth")
	}
	c.Security.CORSOrigins = []string{"https://movienight.example"}
	if c.ShouldWarnAboutCORS() {
		t.Error("expected no warning for explicit origins")
	}
}
