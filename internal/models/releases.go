// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package models

import "time"

// Platforms assigned to upcoming releases.
const (
	PlatformTheaters  = "Theaters"
	PlatformStreaming = "Streaming"
	PlatformTV        = "TV"
)

// Release is an upcoming movie or TV premiere for the release calendar.
type Release struct {
	ID          string    `json:"id"` // "tmdb_<id>_<movie|tv>"
	TMDBID      int64     `json:"tmdbId"`
	MediaType   string    `json:"mediaType"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	ReleaseDate string    `json:"releaseDate"` // YYYY-MM-DD
	Year        int       `json:"year"`
	Genres      []string  `json:"genres"`
	Description string    `json:"description"`
	Poster      *string   `json:"poster"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReleaseFilter narrows a release listing. Zero values match everything.
type ReleaseFilter struct {
	From     time.Time
	To       time.Time
	Platform string
}

// ReleaseSyncResult summarizes one release refresh.
type ReleaseSyncResult struct {
	TotalReleases int       `json:"totalReleases"`
	DaysAhead     int       `json:"daysAhead"`
	SyncTime      time.Time `json:"syncTime"`
}
