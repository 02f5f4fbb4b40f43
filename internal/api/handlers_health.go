// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/movienight/internal/logging"
)

// readinessTimeout bounds the database ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// GET /api/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only if the database answers, 503 otherwise.
//
// GET /api/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		respondJSON(w, http.StatusServiceUnavailable, &APIResponse{
			Data:  map[string]interface{}{"ready": false, "database": false},
			Error: "Database unavailable",
			Code:  ErrCodeServiceUnavailable,
		})
		return
	}

	respondData(w, map[string]interface{}{
		"ready":    true,
		"database": true,
		"tmdb":     h.movies != nil,
	})
}
