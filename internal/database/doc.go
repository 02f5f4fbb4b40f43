// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

/*
Package database provides the DuckDB-backed store for MovieNight.

Tables:
  - users: profile rows (authentication lives upstream)
  - movies: titles, optionally linked to TMDB by tmdb_id
  - suggestions: one author recommending a movie with a desire rating
  - suggestion_recipients: ordered recipients of each suggestion
  - watch_desires: recipients' ratings, unique per (suggestion_id, user_id)
  - watched_movies: watch history; watched_with is a JSON array of user IDs

Write operations validate referenced rows and return sentinel errors
(ErrMovieNotFound, ErrSuggestionNotFound, ErrForbidden, *InvalidUsersError)
that the API layer maps to HTTP status codes with errors.Is / errors.As.

Analytics reads go through ReadSnapshot, which runs a callback against a
single transaction so that one accuracy computation never observes a
half-applied write. It implements accuracy.Snapshotter.

Every query records its duration and failures in the
movienight_db_query_* Prometheus metrics.
*/
package database
