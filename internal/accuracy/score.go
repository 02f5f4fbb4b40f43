// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package accuracy

import (
	"math"

	"github.com/tomtom215/movienight/internal/models"
)

// Bucket thresholds, inclusive lower bounds.
const (
	ExcellentThreshold = 90
	GoodThreshold      = 75
	FairThreshold      = 60
)

// Bucket names a breakdown category.
type Bucket string

// Breakdown buckets.
const (
	BucketExcellent Bucket = "excellent"
	BucketGood      Bucket = "good"
	BucketFair      Bucket = "fair"
	BucketPoor      Bucket = "poor"
)

// Score is the derived accuracy of one rated suggestion.
type Score struct {
	Accuracy    int
	MeanRating  float64
	RatingCount int
}

// ScoreSuggestion computes the accuracy of a suggestion from its responses.
// ok is false when there are no responses; the accuracy is then undefined,
// not zero.
func ScoreSuggestion(desireRating int, responses []models.WatchDesire) (score Score, ok bool) {
	if len(responses) == 0 {
		return Score{}, false
	}

	sum := 0
	for _, r := range responses {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(responses))

	return Score{
		Accuracy:    Accuracy(desireRating, mean),
		MeanRating:  mean,
		RatingCount: len(responses),
	}, true
}

// Accuracy is round((1 - |desire - mean| / 10) * 100) clamped to [0, 100].
func Accuracy(desireRating int, meanRating float64) int {
	raw := (1 - math.Abs(float64(desireRating)-meanRating)/10) * 100
	return clamp(Round(raw), 0, 100)
}

// Round rounds to the nearest integer with halves going towards positive
// infinity, so 2.5 becomes 3 and -2.5 becomes -2.
func Round(x float64) int {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return int(f)
}

// RoundTenths rounds x to one decimal place with the same tie rule as Round.
func RoundTenths(x float64) float64 {
	return float64(Round(x*10)) / 10
}

// BucketFor places a single suggestion accuracy into its breakdown bucket.
func BucketFor(accuracy int) Bucket {
	switch {
	case accuracy >= ExcellentThreshold:
		return BucketExcellent
	case accuracy >= GoodThreshold:
		return BucketGood
	case accuracy >= FairThreshold:
		return BucketFair
	default:
		return BucketPoor
	}
}

// Label returns the qualitative label for an overall accuracy. The value is
// rounded before comparison, so 89.5 is an excellent predictor.
func Label(overall float64) string {
	switch r := Round(overall); {
	case r >= ExcellentThreshold:
		return models.LabelExcellent
	case r >= GoodThreshold:
		return models.LabelGood
	case r >= FairThreshold:
		return models.LabelFair
	default:
		return models.LabelDeveloping
	}
}

// add counts one accuracy in the breakdown.
func add(b *models.AccuracyBreakdown, accuracy int) {
	switch BucketFor(accuracy) {
	case BucketExcellent:
		b.Excellent++
	case BucketGood:
		b.Good++
	case BucketFair:
		b.Fair++
	case BucketPoor:
		b.Poor++
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
