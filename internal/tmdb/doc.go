// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

/*
Package tmdb is the client for The Movie Database (TMDB) v3 API.

It backs two features: multi search (movies and TV) for the "add movie"
flow, and fetching a movie's details for import into the local catalogue.

Every outbound request passes through three layers:

  - a Limiter (default: golang.org/x/time/rate token bucket sized to TMDB's
    40 requests per 10 seconds), injected at construction so tests and
    multiple clients never share hidden module-level state
  - a sony/gobreaker circuit breaker that stops calling TMDB while it is
    failing; client errors (bad key, not found) never trip it
  - an optional Cache (BadgerCache persists raw responses with a TTL)
    consulted before the limiter, so cached reads cost no quota

Errors are mapped to sentinels: ErrInvalidAPIKey (401), ErrRateLimited
(429), ErrNotFound (404) and ErrUnavailable (circuit open).
*/
package tmdb
