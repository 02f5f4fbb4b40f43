// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/movienight/internal/database"
	"github.com/tomtom215/movienight/internal/models"
)

// RecordWatched records that the caller watched a movie.
//
// POST /api/watched
func (h *Handler) RecordWatched(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.RecordWatchedRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	watched, err := h.store.RecordWatched(r.Context(), userID, &req)
	if errors.Is(err, database.ErrMovieNotFound) {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Movie not found")
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.ClearCache()
	respondCreated(w, watched, "Movie marked as watched")
}

// WatchHistory lists the caller's watched records, most recent first.
//
// GET /api/watched
func (h *Handler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	history, err := h.store.WatchHistory(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, history)
}
