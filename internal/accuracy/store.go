// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package accuracy

import (
	"context"

	"github.com/tomtom215/movienight/internal/models"
)

// SuggestionReader reads suggestion records.
type SuggestionReader interface {
	// SuggestionsBy returns every suggestion authored by authorID.
	SuggestionsBy(ctx context.Context, authorID string) ([]models.Suggestion, error)

	// AllSuggestions returns every suggestion in the system.
	AllSuggestions(ctx context.Context) ([]models.Suggestion, error)
}

// ResponseReader reads recipients' ratings.
type ResponseReader interface {
	// ResponsesFor returns the watch desires whose SuggestionID matches.
	ResponsesFor(ctx context.Context, suggestionID string) ([]models.WatchDesire, error)
}

// MovieResolver resolves movie IDs to display titles.
type MovieResolver interface {
	// MovieTitle returns the title and true, or "" and false when the movie
	// does not exist.
	MovieTitle(ctx context.Context, movieID string) (string, bool, error)
}

// WatchedReader reads watch history.
type WatchedReader interface {
	// WatchedBy returns every watch record for movieID.
	WatchedBy(ctx context.Context, movieID string) ([]models.WatchedMovie, error)
}

// UserReader lists users for the leaderboard.
type UserReader interface {
	Users(ctx context.Context) ([]models.User, error)
}

// Store is the full read surface the Engine needs.
type Store interface {
	SuggestionReader
	ResponseReader
	MovieResolver
	WatchedReader
	UserReader
}

// Snapshotter runs fn against a Store whose reads all observe the same
// consistent state. The Store must not be used after fn returns.
type Snapshotter interface {
	ReadSnapshot(ctx context.Context, fn func(Store) error) error
}
