// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tomtom215/movienight/internal/models"
)

type movieDetails struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// MovieDetails fetches /movie/{id} and maps it to a catalogue Movie
// without an ID or timestamps. ErrNotFound is returned for unknown IDs.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	var d movieDetails
	path := "/movie/" + strconv.FormatInt(tmdbID, 10)
	if err := c.get(ctx, "movie_details", path, url.Values{}, &d); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		name := g.Name
		if name == "" {
			name = genreNames[g.ID]
		}
		if name != "" {
			genres = append(genres, name)
		}
	}

	year, _ := parseYear(d.ReleaseDate)
	rating := roundTenths(d.VoteAverage)
	id := d.ID
	if id == 0 {
		id = tmdbID
	}

	m := &models.Movie{
		Title:       d.Title,
		Year:        year,
		Genres:      genres,
		Description: d.Overview,
		Rating:      &rating,
		TMDBID:      &id,
		ReleaseDate: d.ReleaseDate,
	}
	if p := c.posterURL(d.PosterPath); p != nil {
		m.Poster = *p
	}
	return m, nil
}
