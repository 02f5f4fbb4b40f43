// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/movienight/internal/models"
)

var discoverFixtures = map[string]string{
	"/discover/movie popularity.desc": `{"page":1,"results":[
 {"id":10,"title":"Big Film","overview":"Explosions","release_date":"2026-06-20","poster_path":"/big.jpg","genre_ids":[28],"vote_average":7.1,"vote_count":40,"popularity":120},
 {"id":11,"title":"Small Film","overview":"Quiet","release_date":"2026-06-05","genre_ids":[18],"vote_average":6.0,"vote_count":5,"popularity":12},
 {"id":12,"title":"Unrated","release_date":"2026-06-10","vote_average":0,"vote_count":0,"popularity":70}
]}`,
	"/discover/movie primary_release_date.asc": `{"page":1,"results":[
 {"id":11,"title":"Small Film","overview":"Quiet","release_date":"2026-06-05","genre_ids":[18],"vote_average":6.0,"vote_count":5,"popularity":12},
 {"id":13,"title":"No Date","release_date":"","vote_average":6,"vote_count":9,"popularity":5},
 {"id":14,"title":"Few Votes","release_date":"2026-06-03","vote_average":5,"vote_count":2,"popularity":5}
]}`,
	"/discover/tv popularity.desc": `{"page":1,"results":[
 {"id":20,"name":"New Show","overview":"Drama","first_air_date":"2026-06-05","genre_ids":[18],"vote_average":8.0,"vote_count":12,"popularity":30}
]}`,
	"/discover/tv first_air_date.asc": `{"page":1,"results":[
 {"id":20,"name":"New Show","overview":"Drama","first_air_date":"2026-06-05","genre_ids":[18],"vote_average":8.0,"vote_count":12,"popularity":30},
 {"id":21,"name":"Pilot","overview":"","first_air_date":"2026-06-02","vote_average":7.04,"vote_count":3,"popularity":4}
]}`,
}

// discoverHandler serves discoverFixtures keyed by path and sort order and
// records the date window of each request.
func discoverHandler(mu *sync.Mutex, windows map[string][2]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		key := r.URL.Path + " " + q.Get("sort_by")
		body, ok := discoverFixtures[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		field := "primary_release_date"
		if r.URL.Path == "/discover/tv" {
			field = "first_air_date"
		}
		mu.Lock()
		windows[key] = [2]string{q.Get(field + ".gte"), q.Get(field + ".lte")}
		mu.Unlock()
		jsonHandler(body)(w, r)
	}
}

func TestUpcomingReleases(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	windows := make(map[string][2]string)
	c, hits := newTestClient(t, discoverHandler(&mu, windows))

	releases, err := c.UpcomingReleases(context.Background(), 30)
	if err != nil {
		t.Fatalf("UpcomingReleases() error = %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 4 {
		t.Errorf("TMDB hits = %d, want 4", got)
	}

	mu.Lock()
	for key, window := range windows {
		if window != [2]string{"2026-06-01", "2026-07-01"} {
			t.Errorf("%s window = %v", key, window)
		}
	}
	mu.Unlock()

	want := []struct {
		id       string
		date     string
		platform string
	}{
		{"tmdb_21_tv", "2026-06-02", models.PlatformTV},
		{"tmdb_11_movie", "2026-06-05", models.PlatformStreaming},
		{"tmdb_20_tv", "2026-06-05", models.PlatformTV},
		{"tmdb_10_movie", "2026-06-20", models.PlatformTheaters},
	}
	if len(releases) != len(want) {
		t.Fatalf("releases = %+v, want %d entries", releases, len(want))
	}
	for i, w := range want {
		r := releases[i]
		if r.ID != w.id || r.ReleaseDate != w.date || r.Platform != w.platform {
			t.Errorf("releases[%d] = %s %s %s, want %s %s %s", i, r.ID, r.ReleaseDate, r.Platform, w.id, w.date, w.platform)
		}
		if r.Year != 2026 || !r.CreatedAt.Equal(fixedNow) {
			t.Errorf("releases[%d] year/createdAt = %d/%v", i, r.Year, r.CreatedAt)
		}
	}

	pilot := releases[0]
	if pilot.Title != "Pilot" || pilot.Description != noDescription || pilot.Rating != 7.0 || pilot.Poster != nil {
		t.Errorf("pilot = %+v", pilot)
	}
	big := releases[3]
	if big.Poster == nil || *big.Poster != "https://img.test/w500/big.jpg" || big.MediaType != models.MediaTypeMovie {
		t.Errorf("big film = %+v", big)
	}
	if len(big.Genres) != 1 || big.Genres[0] != "Action" {
		t.Errorf("big film genres = %v", big.Genres)
	}
}

func TestUpcomingReleasesDaysRange(t *testing.T) {
	t.Parallel()

	c, hits := newTestClient(t, jsonHandler(`{"results":[]}`))
	for _, days := range []int{0, -1, 91} {
		if _, err := c.UpcomingReleases(context.Background(), days); !errors.Is(err, ErrInvalidDays) {
			t.Errorf("UpcomingReleases(%d) error = %v, want ErrInvalidDays", days, err)
		}
	}
	if got := atomic.LoadInt32(hits); got != 0 {
		t.Errorf("TMDB hits = %d, want 0", got)
	}

	releases, err := c.UpcomingReleases(context.Background(), 90)
	if err != nil || releases == nil || len(releases) != 0 {
		t.Errorf("UpcomingReleases(90) = %v, %v; want empty slice", releases, err)
	}
}

func TestUpcomingReleasesPropagatesErrors(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/discover/tv" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		jsonHandler(`{"results":[]}`)(w, r)
	})

	if _, err := c.UpcomingReleases(context.Background(), 7); !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("UpcomingReleases() error = %v, want ErrInvalidAPIKey", err)
	}
}
