// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"errors"
	"fmt"
)

// Sentinel errors. The messages of ErrInvalidAPIKey and ErrRateLimited are
// shown to API clients as is.
var (
	ErrInvalidAPIKey = errors.New("Invalid TMDB API key")     //nolint:staticcheck // user-facing message
	ErrRateLimited   = errors.New("TMDB rate limit exceeded") //nolint:staticcheck // user-facing message
	ErrNotFound      = errors.New("tmdb: not found")
	ErrUnavailable   = errors.New("tmdb: service unavailable")
	ErrNotConfigured = errors.New("tmdb: api key not configured")
	ErrEmptyQuery    = errors.New("Search query is required")               //nolint:staticcheck // user-facing message
	ErrInvalidDays   = errors.New("Days parameter must be between 1 and 90") //nolint:staticcheck // user-facing message
)

// StatusError is an unexpected non-2xx response from TMDB.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned HTTP %d", e.Path, e.Code)
}
