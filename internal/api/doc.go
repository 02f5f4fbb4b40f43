// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

/*
Package api provides the HTTP REST API for MovieNight.

Every response uses the APIResponse envelope:

	{"success": true, "data": {...}, "message": "..."}
	{"success": false, "error": "...", "code": "NOT_FOUND", "details": {...}}

# Routes

Health (unauthenticated):
  - GET /api/health/live
  - GET /api/health/ready
  - GET /metrics (Prometheus)

Suggestion analytics (cached, invalidated on every write):
  - GET /api/analytics/suggestion-accuracy/{userId}
  - GET /api/analytics/suggestion-leaderboard
  - GET /api/analytics/suggestion-impact/{userId}

Suggestions and watch history:
  - GET, POST /api/suggestions
  - POST /api/suggestions/respond
  - DELETE /api/suggestions/{id}
  - GET, POST /api/watched

Catalogue and TMDB:
  - POST /api/movies, GET /api/movies/{id}
  - POST /api/movies/import
  - GET /api/tmdb/search?q=&page=

Users:
  - GET /api/users, GET /api/users/me
  - POST /api/users (admin)

Upcoming releases (refreshed from TMDB discover):
  - GET /api/releases?period=week|month|quarter&platform=
  - POST /api/releases/sync?days= (admin)

# Caching

Analytics results live in an in-process TTL cache. Concurrent misses for
the same key share one engine call, and a result computed before a write
invalidated the cache is never stored.

# Errors

Store and TMDB sentinel errors map to fixed status codes and messages.
Anything else is logged, reported to Sentry when configured, and answered
with a generic 500 so internal details do not leak.
*/
package api
