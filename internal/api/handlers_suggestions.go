// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/movienight/internal/auth"
	"github.com/tomtom215/movienight/internal/database"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/models"
)

// CreateSuggestion suggests a movie from the caller to one or more users.
//
// POST /api/suggestions
func (h *Handler) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.CreateSuggestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	suggestion, err := h.store.CreateSuggestion(r.Context(), userID, &req)
	if errors.Is(err, database.ErrMovieNotFound) {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Movie not found")
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.ClearCache()
	logging.Ctx(r.Context()).Info().
		Str("suggestion_id", suggestion.ID).
		Int("recipients", len(suggestion.SuggestedTo)).
		Msg("Suggestion created")
	respondCreated(w, suggestion, "Suggestion sent successfully")
}

// ListSuggestions returns the suggestions sent to the caller, newest first.
//
// GET /api/suggestions
func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	suggestions, err := h.store.SuggestionsFor(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, suggestions)
}

// RespondToSuggestion records the caller's rating for a suggestion.
//
// POST /api/suggestions/respond
func (h *Handler) RespondToSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.RespondSuggestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.store.RespondToSuggestion(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.ClearCache()
	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    resp,
		Message: "Response recorded",
	})
}

// DeleteSuggestion removes a suggestion and its responses. Only the author
// or an admin may delete.
//
// DELETE /api/suggestions/{id}
func (h *Handler) DeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Suggestion ID is required")
		return
	}

	deleted, err := h.store.DeleteSuggestion(r.Context(), id, userID, auth.IsAdmin(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.ClearCache()
	logging.Ctx(r.Context()).Info().Str("suggestion_id", deleted.ID).Msg("Suggestion deleted")
	respondJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    deleted,
		Message: "Suggestion and related data deleted successfully",
	})
}
