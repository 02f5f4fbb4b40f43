// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestStatusForRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating int
		want   SuggestionStatus
	}{
		{1, StatusRejected},
		{3, StatusRejected},
		{4, StatusAccepted},
		{10, StatusAccepted},
	}
	for _, tt := range tests {
		if got := StatusForRating(tt.rating); got != tt.want {
			t.Errorf("StatusForRating(%d) = %s, want %s", tt.rating, got, tt.want)
		}
	}
}

func TestImpactNullAverage(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(SuggestionImpact{MovieTitle: "Heat"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"averageDesireRating":null`) {
		t.Errorf("expected explicit null average, got %s", data)
	}
}

func TestBreakdownTotal(t *testing.T) {
	t.Parallel()

	b := AccuracyBreakdown{Excellent: 1, Good: 2, Fair: 3, Poor: 4}
	if b.Total() != 10 {
		t.Errorf("Total() = %d, want 10", b.Total())
	}
}
