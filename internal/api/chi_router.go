// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/movienight/internal/auth"
	"github.com/tomtom215/movienight/internal/middleware"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. chiMW may be nil for defaults.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(SentryRecoverer())
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// Health probes are unauthenticated
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Suggestion analytics: cached reads, permissive limit
	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAnalytics))
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Authenticate)

		r.Get("/suggestion-accuracy/{userId}", router.handler.AnalyticsSuggestionAccuracy)
		r.Get("/suggestion-leaderboard", router.handler.AnalyticsSuggestionLeaderboard)
		r.Get("/suggestion-impact/{userId}", router.handler.AnalyticsSuggestionImpact)
	})

	r.Route("/api/tmdb", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitSearch))
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Authenticate)

		r.Get("/search", router.handler.SearchTMDB)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Authenticate)

		writeLimit := router.chiMiddleware.RateLimitCustom(RateLimitWrite)

		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", router.handler.ListSuggestions)
			r.With(writeLimit).Post("/", router.handler.CreateSuggestion)
			r.With(writeLimit).Post("/respond", router.handler.RespondToSuggestion)
			r.With(writeLimit).Delete("/{id}", router.handler.DeleteSuggestion)
		})

		r.Route("/watched", func(r chi.Router) {
			r.Get("/", router.handler.WatchHistory)
			r.With(writeLimit).Post("/", router.handler.RecordWatched)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/{id}", router.handler.GetMovie)
			r.With(writeLimit).Post("/", router.handler.CreateMovie)
			r.With(writeLimit).Post("/import", router.handler.ImportMovie)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", router.handler.ListUsers)
			r.Get("/me", router.handler.CurrentUser)
			r.With(router.auth.RequireAdmin, writeLimit).Post("/", router.handler.CreateUser)
		})

		r.Route("/releases", func(r chi.Router) {
			r.Get("/", router.handler.ListReleases)
			r.With(router.auth.RequireAdmin, writeLimit).Post("/sync", router.handler.SyncReleasesNow)
		})
	})

	return r
}
