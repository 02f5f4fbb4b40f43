// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

// Package accuracy scores how well users predict their friends' taste.
//
// When a user suggests a movie they attach a desire rating (1-10): how much
// they expect the recipients to want to watch it. Recipients answer with their
// own rating. For a suggestion with at least one answer:
//
//	accuracy = round((1 - |desireRating - meanResponse| / 10) * 100)
//
// clamped to [0, 100]. Suggestions nobody has answered have no accuracy and
// are left out of every average, bucket and ranking, though they still count
// towards a user's total.
//
// The Engine exposes three reports:
//
//   - UserAccuracy: one user's overall accuracy, bucket breakdown and most
//     recent rated suggestions
//   - Leaderboard: the ten most accurate users, ties broken by how many rated
//     suggestions back the score
//   - SuggestionImpact: how many recipients answered and how many went on to
//     watch the movie
//
// Each report is computed inside a single read snapshot supplied by a
// Snapshotter, so suggestions and responses are mutually consistent. The
// Engine itself holds no state and is safe for concurrent use.
package accuracy
