// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/models"
	"github.com/tomtom215/movienight/internal/tmdb"
)

// tmdbSearchResponse is the payload of GET /api/tmdb/search.
type tmdbSearchResponse struct {
	Query   string                `json:"query"`
	Page    int                   `json:"page"`
	Results []models.SearchResult `json:"results"`
}

// GetMovie returns a movie from the catalogue.
//
// GET /api/movies/{id}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.store.GetMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, movie)
}

// CreateMovie adds a manually entered movie to the catalogue.
//
// POST /api/movies
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMovieRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := h.store.CreateMovie(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.ClearCache()
	respondCreated(w, movie, "Movie created successfully")
}

// ImportMovie fetches a movie from TMDB and stores it. Importing the same
// TMDB ID again refreshes the stored metadata.
//
// POST /api/movies/import
func (h *Handler) ImportMovie(w http.ResponseWriter, r *http.Request) {
	if h.movies == nil {
		respondServiceError(w, r, tmdb.ErrNotConfigured)
		return
	}

	var req models.ImportMovieRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	details, err := h.movies.MovieDetails(r.Context(), req.TMDBID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	movie, created, err := h.store.UpsertTMDBMovie(r.Context(), details)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// A refreshed title changes what the reports show.
	h.ClearCache()
	logging.Ctx(r.Context()).Info().
		Int64("tmdb_id", req.TMDBID).
		Str("movie_id", movie.ID).
		Bool("created", created).
		Msg("Movie imported from TMDB")

	if created {
		respondCreated(w, movie, "Movie saved successfully")
		return
	}
	respondJSON(w, http.StatusOK, &APIResponse{Success: true, Data: movie, Message: "Movie updated from TMDB"})
}

// SearchTMDB searches TMDB for movies and TV shows.
//
// GET /api/tmdb/search?q=&page=
func (h *Handler) SearchTMDB(w http.ResponseWriter, r *http.Request) {
	if h.movies == nil {
		respondServiceError(w, r, tmdb.ErrNotConfigured)
		return
	}

	query := r.URL.Query().Get("q")
	page := getIntParam(r, "page", 1)

	results, err := h.movies.SearchMulti(r.Context(), query, page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if page < 1 {
		page = 1
	}
	respondData(w, tmdbSearchResponse{Query: query, Page: page, Results: results})
}
