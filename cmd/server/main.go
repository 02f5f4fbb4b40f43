// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tomtom215/movienight/internal/accuracy"
	"github.com/tomtom215/movienight/internal/api"
	"github.com/tomtom215/movienight/internal/auth"
	"github.com/tomtom215/movienight/internal/config"
	"github.com/tomtom215/movienight/internal/database"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/supervisor"
	"github.com/tomtom215/movienight/internal/supervisor/services"
)

// Maintenance intervals for the data layer.
const (
	checkpointInterval = 5 * time.Minute
	cacheGCInterval    = 10 * time.Minute
)

func main() {
	tokenUser := flag.String("token", "", "print a signed JWT for this user ID and exit")
	tokenRole := flag.String("role", auth.RoleUser, "role for -token (user or admin)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if *tokenUser != "" {
		if err := printToken(cfg, *tokenUser, *tokenRole); err != nil {
			logging.Fatal().Err(err).Msg("Failed to issue token")
		}
		return
	}

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("MovieNight stopped with error")
		os.Exit(1)
	}
}

// run wires every component and blocks until shutdown.
//
//nolint:gocyclo // sequential setup steps
func run(cfg *config.Config) error {
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("tmdb_enabled", cfg.TMDB.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting MovieNight")

	flushSentry, err := initSentry(&cfg.Sentry)
	if err != nil {
		return err
	}
	defer flushSentry()
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			flushSentry()
			panic(r)
		}
	}()

	db, err := database.New(&cfg.Database)
	if err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(context.Background()); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	movies, tmdbCache, err := initTMDB(&cfg.TMDB)
	if err != nil {
		return err
	}
	if tmdbCache != nil {
		defer func() {
			if err := tmdbCache.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing TMDB cache")
			}
		}()
	}

	engine, err := accuracy.NewEngine(db, logging.WithComponent("accuracy"))
	if err != nil {
		return fmt.Errorf("create accuracy engine: %w", err)
	}

	authMiddleware, err := initAuth(&cfg.Security)
	if err != nil {
		return err
	}

	handler := api.NewHandler(db, engine, movies, cfg)
	defer handler.Close()

	router := api.NewRouter(handler, authMiddleware, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security)))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewCheckpointService(db, checkpointInterval))
	if tmdbCache != nil {
		tree.AddDataService(services.NewCacheGCService(tmdbCache, cacheGCInterval))
	}
	if cfg.Analytics.WarmInterval > 0 {
		tree.AddBackgroundService(services.NewLeaderboardWarmer(handler, cfg.Analytics.WarmInterval))
	}
	if movies != nil && cfg.TMDB.ReleaseSyncInterval > 0 {
		tree.AddBackgroundService(services.NewReleaseSyncService(handler, cfg.TMDB.ReleaseSyncInterval, cfg.TMDB.ReleaseSyncDays))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	stop()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("MovieNight stopped")
	return nil
}

// initAuth builds the authentication middleware for the configured mode.
func initAuth(sec *config.SecurityConfig) (*auth.Middleware, error) {
	if sec.AuthMode == auth.AuthModeNone {
		logging.Warn().Str("dev_user_id", sec.DevUserID).Msg("Authentication disabled: every request acts as the dev user")
		return auth.NewMiddleware(nil, sec), nil
	}

	manager, err := auth.NewJWTManager(sec)
	if err != nil {
		return nil, fmt.Errorf("create JWT manager: %w", err)
	}
	return auth.NewMiddleware(manager, sec), nil
}

// printToken writes a signed token for local testing against jwt mode.
func printToken(cfg *config.Config, userID, role string) error {
	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(userID, role)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, token)
	return err
}
