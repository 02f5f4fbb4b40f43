// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movienight/config.yaml",
	"/etc/movienight/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPath is the dotenv file loaded before environment variables are read.
// Variables already present in the process environment are not overwritten.
var DotEnvPath = ".env"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3001,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/movienight.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			SessionTimeout:  7 * 24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		TMDB: TMDBConfig{
			Enabled:       false,
			BaseURL:       "https://api.themoviedb.org/3",
			ImageBaseURL:  "https://image.tmdb.org/t/p/w500",
			Timeout:       10 * time.Second,
			RateRequests:  40,
			RateWindow:    10 * time.Second,
			CachePath:     "/data/tmdb-cache",
			CacheTTL:      24 * time.Hour,
			MaxResults:    20,
			MinValidYear:  1900,
			MovieYearSlop: 2,
			TVYearSlop:    3,

			ReleaseSyncInterval: 7 * 24 * time.Hour,
			ReleaseSyncDays:     30,
		},
		Analytics: AnalyticsConfig{
			LeaderboardCacheTTL: 5 * time.Minute,
			WarmInterval:        2 * time.Minute,
			QueryTimeout:        10 * time.Second,
		},
		Sentry: SentryConfig{
			TracesSampleRate: 0,
			FlushTimeout:     2 * time.Second,
		},
	}
}

// LoadWithKoanf layers defaults, the config file and the environment.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv populates the process environment from path. A missing file is
// not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_port":    "server.port",
	"port":         "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"dev_user_id":         "security.dev_user_id",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"tmdb_enabled":        "tmdb.enabled",
	"tmdb_api_key":        "tmdb.api_key",
	"tmdb_base_url":       "tmdb.base_url",
	"tmdb_image_base_url": "tmdb.image_base_url",
	"tmdb_timeout":        "tmdb.timeout",
	"tmdb_rate_requests":  "tmdb.rate_requests",
	"tmdb_rate_window":    "tmdb.rate_window",
	"tmdb_cache_path":     "tmdb.cache_path",
	"tmdb_cache_ttl":      "tmdb.cache_ttl",

	"tmdb_release_sync_interval": "tmdb.release_sync_interval",
	"tmdb_release_sync_days":     "tmdb.release_sync_days",

	"leaderboard_cache_ttl":     "analytics.leaderboard_cache_ttl",
	"leaderboard_warm_interval": "analytics.warm_interval",
	"analytics_query_timeout":   "analytics.query_timeout",

	"sentry_dsn":                "sentry.dsn",
	"sentry_environment":        "sentry.environment",
	"sentry_release":            "sentry.release",
	"sentry_traces_sample_rate": "sentry.traces_sample_rate",
}

func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
