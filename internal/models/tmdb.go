// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package models

// Media types returned by TMDB search.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// SearchResult is a TMDB search hit normalized for the client.
type SearchResult struct {
	ID          string   `json:"id"` // "tmdb_<id>_<movie|tv>"
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Poster      *string  `json:"poster"`
	MediaType   string   `json:"mediaType"`
	Rating      float64  `json:"rating"`
	Genres      []string `json:"genres"`
	TMDBID      int64    `json:"tmdbId"`
}
