// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/movienight/internal/cache"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
	"github.com/tomtom215/movienight/internal/validation"
)

// leaderboardCacheKey is the cache key of the suggestion leaderboard.
const leaderboardCacheKey = "suggestion-leaderboard"

// userIDParam is the {userId} path parameter of the per-user reports.
type userIDParam struct {
	UserID string `json:"userId" validate:"required,entityid"`
}

// AnalyticsSuggestionAccuracy returns how well a user predicts their
// friends' ratings.
//
// GET /api/analytics/suggestion-accuracy/{userId}
func (h *Handler) AnalyticsSuggestionAccuracy(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	key := cache.GenerateKey("suggestion-accuracy", userID)
	report, err := cachedCompute(r.Context(), h, key, nil, func(ctx context.Context) (*models.UserAccuracyReport, error) {
		return h.analytics.UserAccuracy(ctx, userID)
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, report)
}

// AnalyticsSuggestionLeaderboard returns the top predictors.
//
// GET /api/analytics/suggestion-leaderboard
func (h *Handler) AnalyticsSuggestionLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := cachedCompute(r.Context(), h, leaderboardCacheKey, metrics.RecordLeaderboardCache, h.analytics.Leaderboard)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, entries)
}

// AnalyticsSuggestionImpact returns how often a user's suggestions were
// answered and watched.
//
// GET /api/analytics/suggestion-impact/{userId}
func (h *Handler) AnalyticsSuggestionImpact(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	key := cache.GenerateKey("suggestion-impact", userID)
	report, err := cachedCompute(r.Context(), h, key, nil, func(ctx context.Context) (*models.ImpactReport, error) {
		return h.analytics.SuggestionImpact(ctx, userID)
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, report)
}

// WarmLeaderboard recomputes the leaderboard and stores it in the cache.
// The background warmer calls it on an interval.
func (h *Handler) WarmLeaderboard(ctx context.Context) error {
	ctx, cancel := h.queryContext(ctx)
	defer cancel()

	gen := h.generation.Load()
	entries, err := h.analytics.Leaderboard(ctx)
	metrics.RecordLeaderboardWarm(err)
	if err != nil {
		return err
	}
	h.storeIfCurrent(gen, leaderboardCacheKey, entries)
	logging.Debug().Int("entries", len(entries)).Msg("Leaderboard cache warmed")
	return nil
}

// pathUserID reads and validates {userId}, writing a 400 when invalid.
func (h *Handler) pathUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := userIDParam{UserID: chi.URLParam(r, "userId")}
	if verr := validation.ValidateStruct(&p); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
		return "", false
	}
	return p.UserID, true
}

// cachedCompute serves key from the analytics cache, computing it with fn
// under the query timeout on a miss. Concurrent misses share one
// computation. record, when set, observes hits and misses.
func cachedCompute[T any](ctx context.Context, h *Handler, key string, record func(hit bool), fn func(context.Context) (T, error)) (T, error) {
	if v, ok := h.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			if record != nil {
				record(true)
			}
			h.reportCacheStats()
			return typed, nil
		}
	}
	if record != nil {
		record(false)
	}

	gen := h.generation.Load()
	v, err, _ := h.flight.Do(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		// Detached from the first caller so its cancellation does not fail
		// the callers sharing this computation.
		qctx, cancel := h.queryContext(context.WithoutCancel(ctx))
		defer cancel()

		result, err := fn(qctx)
		if err != nil {
			return nil, err
		}
		h.storeIfCurrent(gen, key, result)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// storeIfCurrent caches value unless a write invalidated the cache since
// gen was read.
func (h *Handler) storeIfCurrent(gen uint64, key string, value interface{}) {
	h.cacheMu.Lock()
	if h.generation.Load() == gen {
		h.cache.Set(key, value)
	}
	h.cacheMu.Unlock()
	h.reportCacheStats()
}
