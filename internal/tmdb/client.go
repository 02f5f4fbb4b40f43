// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/movienight/internal/config"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/metrics"
)

// maxResponseBytes bounds how much of a TMDB response is read.
const maxResponseBytes = 5 << 20

// Client talks to the TMDB v3 API.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string

	httpClient *http.Client
	limiter    Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	cache      Cache
	cacheTTL   time.Duration

	maxResults    int
	minValidYear  int
	movieYearSlop int
	tvYearSlop    int

	now func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithLimiter replaces the default token bucket.
func WithLimiter(l Limiter) Option {
	return func(c *Client) {
		if l == nil {
			l = unlimited{}
		}
		c.limiter = l
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithCache enables response caching.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithClock overrides the clock used for release-year validation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client from cfg.
func New(cfg *config.TMDBConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL:  cfg.ImageBaseURL,
		apiKey:        cfg.APIKey,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       NewRateLimiter(cfg.RateRequests, cfg.RateWindow),
		breaker:       newBreaker(),
		cacheTTL:      cfg.CacheTTL,
		maxResults:    cfg.MaxResults,
		minValidYear:  cfg.MinValidYear,
		movieYearSlop: cfg.MovieYearSlop,
		tvYearSlop:    cfg.TVYearSlop,
		now:           time.Now,
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = 10 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches path with params and decodes the JSON body into out.
// endpoint is the metrics label.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	key := path + "?" + params.Encode()
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			metrics.RecordTMDBRequest(endpoint, "cached", 0)
			return decode(body, out)
		}
	}

	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordTMDBRequest(endpoint, "rejected", 0)
		return fmt.Errorf("tmdb rate limiter: %w", err)
	}
	metrics.TMDBRateLimitWait.Observe(time.Since(waitStart).Seconds())

	start := time.Now()
	body, err := c.execute(func() ([]byte, error) {
		return c.do(ctx, path, params)
	})
	switch {
	case errors.Is(err, ErrUnavailable):
		metrics.RecordTMDBRequest(endpoint, "rejected", 0)
		return err
	case err != nil:
		metrics.RecordTMDBRequest(endpoint, "error", time.Since(start))
		logging.Ctx(ctx).Warn().Err(err).Str("endpoint", endpoint).Msg("TMDB request failed")
		return err
	}
	metrics.RecordTMDBRequest(endpoint, "success", time.Since(start))

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(key, body, c.cacheTTL); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to cache TMDB response")
		}
	}
	return decode(body, out)
}

// do performs one HTTP request and maps TMDB status codes to errors.
func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrInvalidAPIKey
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read tmdb response %s: %w", path, err)
	}
	return body, nil
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
