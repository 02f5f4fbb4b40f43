// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/movienight/internal/models"
)

// Bounds for the release lookahead window, in days.
const (
	MinReleaseDays = 1
	MaxReleaseDays = 90
)

// streamingPopularity is the popularity below which a movie release is
// listed as streaming rather than theatrical.
const streamingPopularity = 50

// minReleaseVotes is the vote count a release needs to be listed.
const minReleaseVotes = 3

// discoverQuery is one /discover request for upcoming titles.
type discoverQuery struct {
	byDate   bool
	minVotes int
}

// Each media type is queried twice: the most popular titles, and the
// soonest ones with a lower vote threshold.
var discoverQueries = []discoverQuery{
	{byDate: false, minVotes: 10},
	{byDate: true, minVotes: 5},
}

// UpcomingReleases returns movies and TV shows premiering between today
// and days from now, ordered by release date. Titles without a rating
// or with an implausible date are dropped.
func (c *Client) UpcomingReleases(ctx context.Context, days int) ([]models.Release, error) {
	if days < MinReleaseDays || days > MaxReleaseDays {
		return nil, ErrInvalidDays
	}

	now := c.now()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, days).Format("2006-01-02")

	var movies, shows []searchItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = c.discover(gctx, models.MediaTypeMovie, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		shows, err = c.discover(gctx, models.MediaTypeTV, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	currentYear := now.Year()
	releases := make([]models.Release, 0, len(movies)+len(shows))
	for _, items := range [][]searchItem{movies, shows} {
		for i := range items {
			item := &items[i]
			if !c.keepRelease(item, currentYear) {
				continue
			}
			releases = append(releases, c.toRelease(item, now))
		}
	}

	sort.SliceStable(releases, func(i, j int) bool {
		if releases[i].ReleaseDate != releases[j].ReleaseDate {
			return releases[i].ReleaseDate < releases[j].ReleaseDate
		}
		return releases[i].ID < releases[j].ID
	})
	return releases, nil
}

// discover runs every discoverQuery for mediaType and merges the pages,
// keeping the first occurrence of each title.
func (c *Client) discover(ctx context.Context, mediaType, from, to string) ([]searchItem, error) {
	dateField := "primary_release_date"
	if mediaType == models.MediaTypeTV {
		dateField = "first_air_date"
	}

	seen := make(map[int64]struct{})
	var merged []searchItem
	for _, q := range discoverQueries {
		sortBy := "popularity.desc"
		if q.byDate {
			sortBy = dateField + ".asc"
		}

		params := url.Values{}
		params.Set(dateField+".gte", from)
		params.Set(dateField+".lte", to)
		params.Set("sort_by", sortBy)
		params.Set("page", "1")
		params.Set("include_adult", "false")
		params.Set("vote_count.gte", strconv.Itoa(q.minVotes))

		var resp searchResponse
		if err := c.get(ctx, "discover_"+mediaType, "/discover/"+mediaType, params, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Results {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			item.MediaType = mediaType
			merged = append(merged, item)
		}
	}
	return merged, nil
}

func (c *Client) keepRelease(item *searchItem, currentYear int) bool {
	year, ok := parseYear(item.releaseDate())
	if !ok {
		return false
	}
	slop := c.tvYearSlop
	if item.isMovie() {
		slop = c.movieYearSlop
	}
	if year < c.minValidYear || year > currentYear+slop {
		return false
	}
	return item.VoteAverage > 0 && item.VoteCount >= minReleaseVotes
}

func (c *Client) toRelease(item *searchItem, now time.Time) models.Release {
	mediaType := models.MediaTypeTV
	title := deref(item.Name)
	platform := models.PlatformTV
	if item.isMovie() {
		mediaType = models.MediaTypeMovie
		title = deref(item.Title)
		platform = models.PlatformTheaters
		if item.Popularity < streamingPopularity {
			platform = models.PlatformStreaming
		}
	}

	date := item.releaseDate()
	year, _ := parseYear(date)

	description := item.Overview
	if description == "" {
		description = noDescription
	}

	return models.Release{
		ID:          "tmdb_" + strconv.FormatInt(item.ID, 10) + "_" + mediaType,
		TMDBID:      item.ID,
		MediaType:   mediaType,
		Title:       title,
		Platform:    platform,
		ReleaseDate: date,
		Year:        year,
		Genres:      GenreNames(item.GenreIDs),
		Description: description,
		Poster:      c.posterURL(item.PosterPath),
		Rating:      roundTenths(item.VoteAverage),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
