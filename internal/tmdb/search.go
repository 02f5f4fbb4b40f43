// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/movienight/internal/models"
)

// maxPage is the highest page TMDB serves.
const maxPage = 500

const noDescription = "No description available"

type searchResponse struct {
	Page         int          `json:"page"`
	Results      []searchItem `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// searchItem is a movie, TV show or person from /search/multi. Movies carry
// title/release_date, TV shows name/first_air_date.
type searchItem struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        *string `json:"title"`
	Name         *string `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   *string `json:"poster_path"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Adult        bool    `json:"adult"`
	Popularity   float64 `json:"popularity"`
}

func (it *searchItem) isMovie() bool {
	if it.MediaType != "" {
		return it.MediaType == models.MediaTypeMovie
	}
	return it.Title != nil
}

func (it *searchItem) releaseDate() string {
	if it.isMovie() {
		return it.ReleaseDate
	}
	return it.FirstAirDate
}

// SearchMulti searches movies and TV shows. People, adult titles, obscure
// entries (no votes and popularity <= 1) and entries with implausible
// release years are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var resp searchResponse
	if err := c.get(ctx, "search_multi", "/search/multi", params, &resp); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(resp.Results))
	currentYear := c.now().Year()
	for i := range resp.Results {
		item := &resp.Results[i]
		if !c.keep(item, currentYear) {
			continue
		}
		results = append(results, c.toSearchResult(item))
		if c.maxResults > 0 && len(results) == c.maxResults {
			break
		}
	}
	return results, nil
}

func (c *Client) keep(item *searchItem, currentYear int) bool {
	if item.MediaType == "person" || (item.Title == nil && item.Name == nil) {
		return false
	}
	if item.Adult {
		return false
	}
	if item.VoteCount <= 0 && item.Popularity <= 1 {
		return false
	}

	date := item.releaseDate()
	if date == "" {
		return true
	}
	year, ok := parseYear(date)
	if !ok {
		return false
	}
	slop := c.tvYearSlop
	if item.isMovie() {
		slop = c.movieYearSlop
	}
	return year >= c.minValidYear && year <= currentYear+slop
}

func (c *Client) toSearchResult(item *searchItem) models.SearchResult {
	mediaType := models.MediaTypeTV
	title := deref(item.Name)
	if item.isMovie() {
		mediaType = models.MediaTypeMovie
		title = deref(item.Title)
	}

	year, _ := parseYear(item.releaseDate())

	description := item.Overview
	if description == "" {
		description = noDescription
	}

	return models.SearchResult{
		ID:          "tmdb_" + strconv.FormatInt(item.ID, 10) + "_" + mediaType,
		Title:       title,
		Year:        year,
		Description: description,
		Poster:      c.posterURL(item.PosterPath),
		MediaType:   mediaType,
		Rating:      roundTenths(item.VoteAverage),
		Genres:      GenreNames(item.GenreIDs),
		TMDBID:      item.ID,
	}
}

func (c *Client) posterURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := c.imageBaseURL + *path
	return &u
}

// parseYear reads the year of a "YYYY-MM-DD" date.
func parseYear(date string) (int, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// roundTenths rounds half up to one decimal.
func roundTenths(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
