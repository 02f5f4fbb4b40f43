// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates outbound requests. Wait blocks until a request may be sent
// or ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewRateLimiter returns a token bucket allowing requests per window with a
// burst of requests.
func NewRateLimiter(requests int, window time.Duration) *rate.Limiter {
	if requests < 1 {
		requests = 1
	}
	return rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
}

// unlimited never blocks.
type unlimited struct{}

func (unlimited) Wait(ctx context.Context) error { return ctx.Err() }
