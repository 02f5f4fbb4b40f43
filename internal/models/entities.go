// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SuggestionStatus is the lifecycle state of a Suggestion.
type SuggestionStatus string

// Suggestion statuses.
const (
	StatusPending  SuggestionStatus = "pending"
	StatusAccepted SuggestionStatus = "accepted"
	StatusRejected SuggestionStatus = "rejected"
)

// Rating bounds shared by desire ratings and recipient ratings.
const (
	MinRating = 1
	MaxRating = 10
)

// RejectThreshold is the highest response rating that marks a suggestion rejected.
const RejectThreshold = 3

// StatusForRating maps a recipient's response rating to the suggestion status.
func StatusForRating(rating int) SuggestionStatus {
	if rating <= RejectThreshold {
		return StatusRejected
	}
	return StatusAccepted
}

// User is a MovieNight account profile. Credentials live with the upstream
// identity provider.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Movie is a title users can suggest and watch.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Genres      []string  `json:"genres"`
	Platform    string    `json:"platform,omitempty"`
	Poster      string    `json:"poster,omitempty"`
	Description string    `json:"description"`
	Rating      *float64  `json:"rating,omitempty"`
	TMDBID      *int64    `json:"tmdbId,omitempty"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Suggestion is one user recommending a movie to one or more recipients,
// with the author's predicted desire rating.
type Suggestion struct {
	ID           string           `json:"id"`
	MovieID      string           `json:"movieId"`
	SuggestedBy  string           `json:"suggestedBy"`
	SuggestedTo  []string         `json:"suggestedTo"`
	DesireRating int              `json:"desireRating"`
	Comment      string           `json:"comment,omitempty"`
	Status       SuggestionStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// WatchDesire is a recipient's rating in response to a Suggestion. There is
// at most one per (SuggestionID, UserID).
type WatchDesire struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	MovieID      string    `json:"movieId"`
	SuggestionID string    `json:"suggestionId"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WatchedMovie records that a user watched a movie, possibly with others.
type WatchedMovie struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	MovieID       string    `json:"movieId"`
	WatchedDate   time.Time `json:"watchedDate"`
	WatchedWith   []string  `json:"watchedWith"`
	OriginalScore *int      `json:"originalScore,omitempty"`
	ActualRating  *int      `json:"actualRating,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserSummary is the public slice of a User embedded in other payloads.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ReceivedSuggestion is a suggestion as seen by one of its recipients.
type ReceivedSuggestion struct {
	Suggestion
	Movie           Movie       `json:"movie"`
	SuggestedByUser UserSummary `json:"suggestedByUser"`
	UserRating      *int        `json:"userRating"`
}

// SuggestionResponse is the outcome of a recipient responding to a suggestion.
type SuggestionResponse struct {
	SuggestionID string           `json:"suggestionId"`
	Rating       int              `json:"rating"`
	Status       SuggestionStatus `json:"status"`
}
