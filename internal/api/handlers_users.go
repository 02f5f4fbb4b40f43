// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"net/http"

	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/models"
)

// CreateUser registers a user profile. Admin only.
//
// POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.CreateUser(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// Cached reports resolve user names.
	h.ClearCache()
	logging.Ctx(r.Context()).Info().Str("new_user_id", user.ID).Str("role", user.Role).Msg("User created")
	respondCreated(w, user, "User created successfully")
}

// ListUsers returns every user profile.
//
// GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, users)
}

// CurrentUser returns the caller's profile.
//
// GET /api/users/me
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, user)
}
