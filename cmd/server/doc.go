// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

/*
Command server runs the MovieNight API.

MovieNight tracks movie suggestions between friends and scores how well
each user's predicted "desire rating" matches the ratings recipients
actually give.

# Process layout

	movienight
	├── data-layer
	│   ├── duckdb-checkpoint
	│   └── tmdb-cache-gc (when TMDB is enabled)
	├── background-layer
	│   ├── leaderboard-warmer (when LEADERBOARD_WARM_INTERVAL > 0)
	│   └── release-sync (when TMDB is enabled and TMDB_RELEASE_SYNC_INTERVAL > 0)
	└── api-layer
	    └── http-server

Startup order: configuration (koanf, .env), logging, Sentry, DuckDB,
TMDB client with its Badger cache, accuracy engine, authentication,
HTTP router, supervisor tree.

# Configuration

Settings come from built-in defaults, an optional config.yaml and
environment variables, highest last. Common variables:

	HTTP_PORT=8080
	DUCKDB_PATH=/data/movienight.duckdb
	AUTH_MODE=jwt            # or none (development)
	JWT_SECRET=...           # 32+ characters
	TMDB_ENABLED=true
	TMDB_API_KEY=...
	TMDB_CACHE_PATH=/data/tmdb-cache
	TMDB_RELEASE_SYNC_INTERVAL=168h
	TMDB_RELEASE_SYNC_DAYS=30
	SENTRY_DSN=...

# Tokens

Authentication normally happens upstream. For local testing in jwt mode,
print a token signed with the configured secret:

	server -token alice -role admin

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to 10 seconds, then the TMDB cache and the
database are closed.
*/
package main
