// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

// Package services provides suture.Service wrappers for MovieNight's
// long-running components: the HTTP server and the periodic jobs
// (leaderboard warmer, DuckDB checkpoint, TMDB cache GC).
//
// Dependencies are taken as small interfaces so this package does not
// import api, database or tmdb.
package services
