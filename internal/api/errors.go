// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/tomtom215/movienight/internal/database"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/tmdb"
)

// errorMapping translates a known error into an HTTP response.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// knownErrors lists sentinel errors with a fixed client-facing response.
// Order matters only for errors that wrap more than one sentinel.
var knownErrors = []errorMapping{
	{database.ErrMovieNotFound, http.StatusNotFound, ErrCodeNotFound, "Movie not found"},
	{database.ErrSuggestionNotFound, http.StatusNotFound, ErrCodeNotFound, "Suggestion not found"},
	{database.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound, "User not found"},
	{database.ErrUserExists, http.StatusConflict, ErrCodeConflict, "User already exists"},
	{database.ErrForbidden, http.StatusForbidden, ErrCodeForbidden, "Not allowed to modify this suggestion"},
	{database.ErrNoProfile, http.StatusForbidden, ErrCodeForbidden, "User profile not registered"},
	{tmdb.ErrEmptyQuery, http.StatusBadRequest, ErrCodeBadRequest, tmdb.ErrEmptyQuery.Error()},
	{tmdb.ErrInvalidDays, http.StatusBadRequest, ErrCodeBadRequest, tmdb.ErrInvalidDays.Error()},
	{tmdb.ErrNotFound, http.StatusNotFound, ErrCodeNotFound, "Movie not found on TMDB"},
	{tmdb.ErrInvalidAPIKey, http.StatusBadGateway, ErrCodeUpstream, tmdb.ErrInvalidAPIKey.Error()},
	{tmdb.ErrRateLimited, http.StatusTooManyRequests, ErrCodeTooManyRequests, tmdb.ErrRateLimited.Error()},
	{tmdb.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "TMDB is temporarily unavailable"},
	{tmdb.ErrNotConfigured, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "TMDB integration is not configured"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out"},
}

// respondServiceError maps err to a response. Errors that are not known
// sentinels are logged, reported to Sentry and answered with a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *database.InvalidUsersError
	if errors.As(err, &invalid) {
		respondErrorWithDetails(w, http.StatusBadRequest, ErrCodeBadRequest, invalid.Error(),
			map[string]interface{}{"invalidUserIds": invalid.IDs})
		return
	}

	for _, m := range knownErrors {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				logging.Ctx(r.Context()).Warn().Err(err).Int("status", m.status).Msg("Request failed")
			}
			respondError(w, m.status, m.code, m.message)
			return
		}
	}

	if errors.Is(err, context.Canceled) {
		// Client went away; nobody reads the response.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled")
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unexpected error")
	captureError(r, err)
	respondError(w, http.StatusInternalServerError, ErrCodeInternalError, internalErrorMessage)
}

// captureError reports err to Sentry tagged with the request and caller.
// It is a no-op when Sentry is not initialized.
func captureError(r *http.Request, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		if id := logging.RequestIDFromContext(r.Context()); id != "" {
			scope.SetTag("request_id", id)
		}
		if uid := logging.UserIDFromContext(r.Context()); uid != "" {
			scope.SetUser(sentry.User{ID: uid})
		}
		hub.CaptureException(err)
	})
}
