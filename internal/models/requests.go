// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package models

import "time"

// CreateSuggestionRequest is the body of POST /api/suggestions.
type CreateSuggestionRequest struct {
	MovieID      string   `json:"movieId" validate:"required,entityid"`
	SuggestedTo  []string `json:"suggestedTo" validate:"required,min=1,max=50,unique,dive,entityid"`
	DesireRating int      `json:"desireRating" validate:"min=1,max=10"`
	Comment      string   `json:"comment" validate:"max=500"`
}

// RespondSuggestionRequest is the body of POST /api/suggestions/respond.
type RespondSuggestionRequest struct {
	SuggestionID string `json:"suggestionId" validate:"required,entityid"`
	Rating       int    `json:"rating" validate:"min=1,max=10"`
}

// RecordWatchedRequest is the body of POST /api/watched.
type RecordWatchedRequest struct {
	MovieID       string    `json:"movieId" validate:"required,entityid"`
	WatchedDate   time.Time `json:"watchedDate"`
	WatchedWith   []string  `json:"watchedWith" validate:"max=50,dive,entityid"`
	OriginalScore *int      `json:"originalScore" validate:"omitempty,min=1,max=10"`
	ActualRating  *int      `json:"actualRating" validate:"omitempty,min=1,max=10"`
}

// CreateMovieRequest is the body of POST /api/movies.
type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Year        int      `json:"year" validate:"omitempty,min=1870,max=2200"`
	Genres      []string `json:"genres" validate:"max=20,dive,required"`
	Platform    string   `json:"platform" validate:"max=100"`
	Poster      string   `json:"poster" validate:"omitempty,url"`
	Description string   `json:"description" validate:"max=5000"`
	ReleaseDate string   `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
}

// ImportMovieRequest is the body of POST /api/movies/import.
type ImportMovieRequest struct {
	TMDBID int64 `json:"tmdbId" validate:"required,min=1"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	ID       string `json:"id" validate:"omitempty,entityid"`
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}
