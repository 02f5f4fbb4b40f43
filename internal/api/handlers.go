// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/movienight/internal/cache"
	"github.com/tomtom215/movienight/internal/config"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
)

// Store is the persistence surface the handlers need. *database.DB
// implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	Users(ctx context.Context) ([]models.User, error)

	GetMovie(ctx context.Context, id string) (*models.Movie, error)
	CreateMovie(ctx context.Context, req *models.CreateMovieRequest) (*models.Movie, error)
	UpsertTMDBMovie(ctx context.Context, m *models.Movie) (*models.Movie, bool, error)

	CreateSuggestion(ctx context.Context, authorID string, req *models.CreateSuggestionRequest) (*models.Suggestion, error)
	SuggestionsFor(ctx context.Context, recipientID string) ([]models.ReceivedSuggestion, error)
	RespondToSuggestion(ctx context.Context, userID string, req *models.RespondSuggestionRequest) (*models.SuggestionResponse, error)
	DeleteSuggestion(ctx context.Context, suggestionID, actorID string, isAdmin bool) (*models.Suggestion, error)

	RecordWatched(ctx context.Context, userID string, req *models.RecordWatchedRequest) (*models.WatchedMovie, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchedMovie, error)

	ReplaceReleases(ctx context.Context, releases []models.Release) error
	Releases(ctx context.Context, filter models.ReleaseFilter) ([]models.Release, error)
}

// Analytics computes suggestion accuracy. *accuracy.Engine implements it.
type Analytics interface {
	UserAccuracy(ctx context.Context, userID string) (*models.UserAccuracyReport, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	SuggestionImpact(ctx context.Context, userID string) (*models.ImpactReport, error)
}

// MovieSource looks up titles on TMDB. *tmdb.Client implements it.
type MovieSource interface {
	SearchMulti(ctx context.Context, query string, page int) ([]models.SearchResult, error)
	MovieDetails(ctx context.Context, tmdbID int64) (*models.Movie, error)
	UpcomingReleases(ctx context.Context, days int) ([]models.Release, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files by resource:
//   - handlers_analytics.go: accuracy, leaderboard and impact reports
//   - handlers_suggestions.go: suggestion create/list/respond/delete
//   - handlers_watched.go: watched movie records
//   - handlers_movies.go: movie catalogue and TMDB search/import
//   - handlers_users.go: user profiles
//   - handlers_releases.go: upcoming release calendar
//   - handlers_health.go: liveness and readiness
type Handler struct {
	store     Store
	analytics Analytics
	movies    MovieSource
	config    *config.Config
	cache     *cache.Cache
	startTime time.Time
	now       func() time.Time

	// generation counts cache invalidations; results computed under an
	// older generation are not cached.
	generation atomic.Uint64
	cacheMu    sync.Mutex
	flight     singleflight.Group
}

// NewHandler wires the handlers. movies may be nil when TMDB is disabled.
func NewHandler(store Store, analytics Analytics, movies MovieSource, cfg *config.Config) *Handler {
	ttl := cfg.Analytics.LeaderboardCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Handler{
		store:     store,
		analytics: analytics,
		movies:    movies,
		config:    cfg,
		cache:     cache.New(ttl),
		startTime: time.Now(),
		now:       time.Now,
	}
}

// ClearCache invalidates every cached analytics result. Called after any
// write that can change a score.
func (h *Handler) ClearCache() {
	h.cacheMu.Lock()
	h.generation.Add(1)
	h.cache.Clear()
	h.cacheMu.Unlock()
	h.reportCacheStats()
	logging.Debug().Msg("Analytics cache cleared")
}

func (h *Handler) reportCacheStats() {
	metrics.ObserveAnalyticsCache(h.cache.GetStats().TotalKeys, h.cache.HitRate())
}

// Close stops the cache's background sweep.
func (h *Handler) Close() {
	h.cache.Stop()
}

// queryContext bounds an engine call by the configured query timeout.
func (h *Handler) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := h.config.Analytics.QueryTimeout
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
