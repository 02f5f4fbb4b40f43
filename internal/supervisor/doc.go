// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

/*
Package supervisor runs MovieNight's long-lived services under a suture v4
supervision tree.

Crashed services restart with backoff, each layer isolates its own
failures, and canceling the root context shuts everything down in order.
Supervisor events are logged through sutureslog using the slog adapter
from the logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddBackgroundService(services.NewLeaderboardWarmer(handler, cfg.Analytics.WarmInterval))
	tree.AddDataService(services.NewCheckpointService(db, 5*time.Minute))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

# Services

Service implementations live in the services subpackage:
  - HTTPServerService: net/http server with graceful shutdown
  - PeriodicService: runs a task on an interval, used for the leaderboard
    warmer, DuckDB checkpoints and TMDB cache garbage collection
*/
package supervisor
