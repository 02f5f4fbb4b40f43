// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/movienight/internal/config"
	"github.com/tomtom215/movienight/internal/models"
)

var fixedNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func testConfig(baseURL string) *config.TMDBConfig {
	return &config.TMDBConfig{
		Enabled:       true,
		APIKey:        "test-key",
		BaseURL:       baseURL,
		ImageBaseURL:  "https://img.test/w500",
		Timeout:       5 * time.Second,
		RateRequests:  40,
		RateWindow:    10 * time.Second,
		CacheTTL:      time.Hour,
		MaxResults:    20,
		MinValidYear:  1900,
		MovieYearSlop: 2,
		TVYearSlop:    3,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(testConfig(srv.URL), opts...), &hits
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

const searchFixture = `{"page":1,"total_pages":1,"total_results":9,"results":[
 {"id":1,"media_type":"movie","title":"Arrival","overview":"Linguist meets aliens","release_date":"2016-11-10","poster_path":"/a.jpg","genre_ids":[18,878,99999],"vote_average":7.56,"vote_count":100,"popularity":50},
 {"id":2,"media_type":"tv","name":"Severance","overview":"","first_air_date":"2022-02-18","poster_path":null,"genre_ids":[10765],"vote_average":8.44,"vote_count":10,"popularity":80},
 {"id":3,"media_type":"person","name":"Amy Adams","popularity":20},
 {"id":4,"media_type":"movie","title":"Adult Title","release_date":"2010-01-01","adult":true,"vote_count":5,"popularity":5},
 {"id":5,"media_type":"movie","title":"Obscure","release_date":"2010-01-01","vote_count":0,"popularity":0.5},
 {"id":6,"media_type":"movie","title":"Far Future","release_date":"2030-01-01","vote_count":1,"popularity":2},
 {"id":7,"media_type":"tv","name":"Announced Show","first_air_date":"2029-05-01","vote_count":0,"popularity":3},
 {"id":8,"media_type":"movie","title":"Bad Date","release_date":"someday","vote_count":3,"popularity":3},
 {"id":9,"media_type":"movie","title":"Undated","release_date":"","vote_count":0,"popularity":1.5}
]}`

func TestSearchMultiFiltersAndMaps(t *testing.T) {
	t.Parallel()

	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/search/multi" {
			t.Errorf("path = %s, want /search/multi", r.URL.Path)
		}
		jsonHandler(searchFixture)(w, r)
	})

	results, err := c.SearchMulti(context.Background(), "  arrival ", 0)
	if err != nil {
		t.Fatalf("SearchMulti() error = %v", err)
	}

	for _, want := range []string{"api_key=test-key", "query=arrival", "page=1", "include_adult=false"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	var ids []string
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	want := []string{"tmdb_1_movie", "tmdb_2_tv", "tmdb_7_tv", "tmdb_9_movie"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}

	arrival := results[0]
	if arrival.Title != "Arrival" || arrival.Year != 2016 || arrival.Rating != 7.6 {
		t.Errorf("arrival = %+v", arrival)
	}
	if arrival.Poster == nil || *arrival.Poster != "https://img.test/w500/a.jpg" {
		t.Errorf("poster = %v", arrival.Poster)
	}
	if fmt.Sprint(arrival.Genres) != "[Drama Science Fiction]" {
		t.Errorf("genres = %v", arrival.Genres)
	}
	if arrival.MediaType != models.MediaTypeMovie || arrival.TMDBID != 1 {
		t.Errorf("media = %s / %d", arrival.MediaType, arrival.TMDBID)
	}

	show := results[1]
	if show.Title != "Severance" || show.Description != noDescription || show.Poster != nil {
		t.Errorf("show = %+v", show)
	}
	if show.Rating != 8.4 {
		t.Errorf("show rating = %v, want 8.4", show.Rating)
	}

	if results[3].Year != 0 {
		t.Errorf("undated year = %d, want 0", results[3].Year)
	}
}

func TestSearchMultiCapsResults(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`{"page":1,"results":[`)
	for i := 1; i <= 25; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":%d,"media_type":"movie","title":"M%d","release_date":"2001-01-01","vote_count":1}`, i, i)
	}
	b.WriteString(`]}`)

	c, _ := newTestClient(t, jsonHandler(b.String()))
	results, err := c.SearchMulti(context.Background(), "m", 1)
	if err != nil {
		t.Fatalf("SearchMulti() error = %v", err)
	}
	if len(results) != 20 {
		t.Errorf("len = %d, want 20", len(results))
	}
}

func TestSearchMultiEmptyQuery(t *testing.T) {
	t.Parallel()

	c, hits := newTestClient(t, jsonHandler(`{}`))
	if _, err := c.SearchMulti(context.Background(), "   ", 1); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Error("empty query reached TMDB")
	}
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrInvalidAPIKey},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.SearchMulti(context.Background(), "x", 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.SearchMulti(context.Background(), "x", 1)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Errorf("error = %v, want StatusError 502", err)
	}
}

func TestErrorMessagesAreUserFacing(t *testing.T) {
	t.Parallel()

	if ErrInvalidAPIKey.Error() != "Invalid TMDB API key" {
		t.Errorf("ErrInvalidAPIKey = %q", ErrInvalidAPIKey)
	}
	if ErrRateLimited.Error() != "TMDB rate limit exceeded" {
		t.Errorf("ErrRateLimited = %q", ErrRateLimited)
	}
}

func TestCacheServesRepeatRequests(t *testing.T) {
	t.Parallel()

	cache, err := OpenInMemoryCache()
	if err != nil {
		t.Fatalf("OpenInMemoryCache() error = %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	c, hits := newTestClient(t, jsonHandler(searchFixture), WithCache(cache))
	for i := 0; i < 3; i++ {
		results, err := c.SearchMulti(context.Background(), "arrival", 1)
		if err != nil {
			t.Fatalf("SearchMulti() #%d error = %v", i, err)
		}
		if len(results) != 4 {
			t.Fatalf("SearchMulti() #%d len = %d, want 4", i, len(results))
		}
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("TMDB hits = %d, want 1", got)
	}

	if _, err := c.SearchMulti(context.Background(), "arrival", 2); err != nil {
		t.Fatalf("SearchMulti(page 2) error = %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("TMDB hits after new page = %d, want 2", got)
	}
	if err := cache.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
}

type countingLimiter struct {
	calls int32
	err   error
}

func (l *countingLimiter) Wait(context.Context) error {
	atomic.AddInt32(&l.calls, 1)
	return l.err
}

func TestInjectedLimiter(t *testing.T) {
	t.Parallel()

	lim := &countingLimiter{}
	c, _ := newTestClient(t, jsonHandler(searchFixture), WithLimiter(lim))
	for i := 0; i < 2; i++ {
		if _, err := c.SearchMulti(context.Background(), "arrival", 1); err != nil {
			t.Fatalf("SearchMulti() error = %v", err)
		}
	}
	if got := atomic.LoadInt32(&lim.calls); got != 2 {
		t.Errorf("Wait calls = %d, want 2", got)
	}

	denied := &countingLimiter{err: context.DeadlineExceeded}
	c, hits := newTestClient(t, jsonHandler(searchFixture), WithLimiter(denied))
	_, err := c.SearchMulti(context.Background(), "arrival", 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Error("request sent although limiter refused")
	}
}

func TestNewRateLimiterBurst(t *testing.T) {
	t.Parallel()

	lim := NewRateLimiter(40, 10*time.Second)
	if lim.Burst() != 40 {
		t.Errorf("Burst() = %d, want 40", lim.Burst())
	}
	if got := float64(lim.Limit()); got != 4 {
		t.Errorf("Limit() = %v, want 4/s", got)
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	c, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := c.SearchMulti(context.Background(), "x", 1)
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("call %d error = %v, want StatusError", i, err)
		}
	}

	_, err := c.SearchMulti(context.Background(), "x", 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error after failures = %v, want ErrUnavailable", err)
	}
	if got := atomic.LoadInt32(hits); got != 5 {
		t.Errorf("TMDB hits = %d, want 5", got)
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	t.Parallel()

	c, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	for i := 0; i < 8; i++ {
		if _, err := c.MovieDetails(context.Background(), 42); !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d error = %v, want ErrNotFound", i, err)
		}
	}
	if got := atomic.LoadInt32(hits); got != 8 {
		t.Errorf("TMDB hits = %d, want 8", got)
	}
}

func TestMovieDetails(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("path = %s", r.URL.Path)
		}
		jsonHandler(`{"id":603,"title":"The Matrix","overview":"Neo.","release_date":"1999-03-30",
			"poster_path":"/m.jpg","vote_average":8.216,"genres":[{"id":28,"name":"Action"},{"id":878,"name":""}]}`)(w, r)
	})

	m, err := c.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("MovieDetails() error = %v", err)
	}
	if m.Title != "The Matrix" || m.Year != 1999 || m.ReleaseDate != "1999-03-30" {
		t.Errorf("movie = %+v", m)
	}
	if m.TMDBID == nil || *m.TMDBID != 603 {
		t.Errorf("TMDBID = %v", m.TMDBID)
	}
	if m.Rating == nil || *m.Rating != 8.2 {
		t.Errorf("Rating = %v, want 8.2", m.Rating)
	}
	if fmt.Sprint(m.Genres) != "[Action Science Fiction]" {
		t.Errorf("Genres = %v", m.Genres)
	}
	if m.Poster != "https://img.test/w500/m.jpg" {
		t.Errorf("Poster = %q", m.Poster)
	}
}

func TestNotConfigured(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:0")
	cfg.APIKey = ""
	c := New(cfg)
	if _, err := c.SearchMulti(context.Background(), "x", 1); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestGenreNames(t *testing.T) {
	t.Parallel()

	if got := GenreNames(nil); got == nil || len(got) != 0 {
		t.Errorf("GenreNames(nil) = %#v, want empty slice", got)
	}
	if got := GenreNames([]int{10768, 1}); fmt.Sprint(got) != "[War & Politics]" {
		t.Errorf("GenreNames() = %v", got)
	}
}
