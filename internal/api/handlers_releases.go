// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
	"github.com/tomtom215/movienight/internal/tmdb"
)

// defaultReleaseDays is used when the configured lookahead is unset.
const defaultReleaseDays = 30

// releasePeriods maps the period query value to a lookahead in days.
var releasePeriods = map[string]int{
	"week":    7,
	"month":   30,
	"quarter": 90,
}

// ListReleases returns the stored release calendar from today onwards.
// period limits the window to a week, month or quarter; platform keeps
// releases whose platform contains the value.
//
// GET /api/releases?period=&platform=
func (h *Handler) ListReleases(w http.ResponseWriter, r *http.Request) {
	today := h.now().UTC().Truncate(24 * time.Hour)
	filter := models.ReleaseFilter{
		From:     today,
		Platform: strings.TrimSpace(r.URL.Query().Get("platform")),
	}

	if period := r.URL.Query().Get("period"); period != "" {
		days, ok := releasePeriods[period]
		if !ok {
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid period: use week, month or quarter")
			return
		}
		filter.To = today.AddDate(0, 0, days)
	}

	releases, err := h.store.Releases(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, releases)
}

// SyncReleasesNow refreshes the release calendar from TMDB. days defaults
// to the configured lookahead.
//
// POST /api/releases/sync?days=
func (h *Handler) SyncReleasesNow(w http.ResponseWriter, r *http.Request) {
	days := h.releaseDays()
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "days must be an integer")
			return
		}
		days = n
	}

	result, err := h.SyncReleases(r.Context(), days)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, &APIResponse{Success: true, Data: result, Message: "Release calendar refreshed"})
}

// SyncReleases fetches upcoming releases for the next days and replaces
// the stored calendar. The stored calendar is untouched when the fetch
// fails.
func (h *Handler) SyncReleases(ctx context.Context, days int) (*models.ReleaseSyncResult, error) {
	if h.movies == nil {
		return nil, tmdb.ErrNotConfigured
	}

	releases, err := h.movies.UpcomingReleases(ctx, days)
	if err == nil {
		err = h.store.ReplaceReleases(ctx, releases)
	}
	metrics.RecordReleaseSync(len(releases), err)
	if err != nil {
		return nil, err
	}

	result := &models.ReleaseSyncResult{
		TotalReleases: len(releases),
		DaysAhead:     days,
		SyncTime:      h.now().UTC(),
	}
	logging.Ctx(ctx).Info().
		Int("releases", result.TotalReleases).
		Int("days", days).
		Msg("Release calendar synced")
	return result, nil
}

func (h *Handler) releaseDays() int {
	if d := h.config.TMDB.ReleaseSyncDays; d > 0 {
		return d
	}
	return defaultReleaseDays
}
