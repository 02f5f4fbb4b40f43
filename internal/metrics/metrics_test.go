// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "test_table"))

	RecordDBQuery("SELECT", "test_table", 5*time.Millisecond, nil)
	RecordDBQuery("SELECT", "test_table", 5*time.Millisecond, errors.New("boom"))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "test_table"))
	if after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}
}

func TestObserveAccuracyComputationReasons(t *testing.T) {
	tests := []struct {
		err    error
		reason string
	}{
		{context.Canceled, "canceled"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "timeout"},
		{errors.New("disk full"), "storage"},
	}

	for _, tt := range tests {
		c := AccuracyComputationErrors.WithLabelValues("test_op", tt.reason)
		before := testutil.ToFloat64(c)
		ObserveAccuracyComputation("test_op", time.Millisecond, tt.err)
		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("%s counter delta = %v, want 1", tt.reason, got)
		}
	}
}

func TestRecordLeaderboardCache(t *testing.T) {
	hits := testutil.ToFloat64(LeaderboardCacheHits)
	misses := testutil.ToFloat64(LeaderboardCacheMisses)

	RecordLeaderboardCache(true)
	RecordLeaderboardCache(false)
	RecordLeaderboardCache(false)

	if d := testutil.ToFloat64(LeaderboardCacheHits) - hits; d != 1 {
		t.Errorf("hits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(LeaderboardCacheMisses) - misses; d != 2 {
		t.Errorf("misses delta = %v, want 2", d)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if testutil.ToFloat64(APIActiveRequests) != before+1 {
		t.Error("expected gauge to increase")
	}
	TrackActiveRequest(false)
	if testutil.ToFloat64(APIActiveRequests) != before {
		t.Error("expected gauge to return to its starting value")
	}
}

func TestRecordTMDBRequest(t *testing.T) {
	c := TMDBRequestsTotal.WithLabelValues("/search/multi", "cached")
	before := testutil.ToFloat64(c)
	RecordTMDBRequest("/search/multi", "cached", 0)
	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("cached counter delta = %v, want 1", d)
	}
}

func TestObserveAnalyticsCache(t *testing.T) {
	ObserveAnalyticsCache(4, 75)
	if got := testutil.ToFloat64(AnalyticsCacheKeys); got != 4 {
		t.Errorf("keys = %v, want 4", got)
	}
	if got := testutil.ToFloat64(AnalyticsCacheHitRatio); got != 0.75 {
		t.Errorf("hit ratio = %v, want 0.75", got)
	}
}

func TestRecordReleaseSync(t *testing.T) {
	ok := testutil.ToFloat64(ReleaseSyncRuns.WithLabelValues("success"))
	failed := testutil.ToFloat64(ReleaseSyncRuns.WithLabelValues("failure"))

	RecordReleaseSync(12, nil)
	RecordReleaseSync(0, errors.New("tmdb down"))

	if d := testutil.ToFloat64(ReleaseSyncRuns.WithLabelValues("success")) - ok; d != 1 {
		t.Errorf("success delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(ReleaseSyncRuns.WithLabelValues("failure")) - failed; d != 1 {
		t.Errorf("failure delta = %v, want 1", d)
	}
	// A failed run leaves the last calendar size in place.
	if got := testutil.ToFloat64(ReleasesStored); got != 12 {
		t.Errorf("stored = %v, want 12", got)
	}
}
