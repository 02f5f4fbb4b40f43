// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

/*
Package cache provides a thread-safe in-memory cache with TTL support.

It holds computed analytics (the suggestion leaderboard and per-user
accuracy and impact reports) between writes. Any write that can change a
score clears the cache; the TTL bounds staleness otherwise.

# Usage Example

	c := cache.New(5 * time.Minute)
	defer c.Stop()

	key := cache.GenerateKey("suggestion-accuracy", userID)
	if v, ok := c.Get(key); ok {
	    return v.(*models.UserAccuracyReport), nil
	}
	report, err := engine.UserAccuracy(ctx, userID)
	if err == nil {
	    c.Set(key, report)
	}

# Thread Safety

All methods are safe for concurrent use. Expired entries are removed
lazily on Get and by a background sweep that runs until Stop is called.
*/
package cache
