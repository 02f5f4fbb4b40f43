// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package models

import "time"

// Accuracy labels.
const (
	LabelNoData         = "No data"
	LabelPendingRatings = "Pending ratings"
	LabelExcellent      = "Excellent Predictor"
	LabelGood           = "Good Predictor"
	LabelFair           = "Fair Predictor"
	LabelDeveloping     = "Developing Taste"
)

// UserAccuracyReport summarizes how well a user's desire ratings predicted
// their recipients' actual ratings.
type UserAccuracyReport struct {
	UserID            string               `json:"userId"`
	TotalSuggestions  int                  `json:"totalSuggestions"`
	RatedSuggestions  int                  `json:"ratedSuggestions"`
	Accuracy          int                  `json:"accuracy"`
	AccuracyScore     string               `json:"accuracyScore"`
	Breakdown         AccuracyBreakdown    `json:"breakdown"`
	RecentSuggestions []SuggestionAccuracy `json:"recentSuggestions"`
}

// AccuracyBreakdown counts rated suggestions per accuracy bucket.
type AccuracyBreakdown struct {
	Excellent int `json:"excellent"` // >= 90
	Good      int `json:"good"`      // 75-89
	Fair      int `json:"fair"`      // 60-74
	Poor      int `json:"poor"`      // < 60
}

// Total is the number of rated suggestions counted in the breakdown.
func (b AccuracyBreakdown) Total() int {
	return b.Excellent + b.Good + b.Fair + b.Poor
}

// SuggestionAccuracy is the accuracy of one rated suggestion.
type SuggestionAccuracy struct {
	SuggestionID  string    `json:"suggestionId"`
	MovieTitle    string    `json:"movieTitle"`
	DesiredRating int       `json:"desiredRating"`
	ActualRating  float64   `json:"actualRating"` // unrounded mean
	Accuracy      int       `json:"accuracy"`
	RatingCount   int       `json:"ratingCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LeaderboardEntry is one ranked user on the suggestion leaderboard.
type LeaderboardEntry struct {
	UserID           string `json:"userId"`
	Name             string `json:"name"`
	Accuracy         int    `json:"accuracy"`
	TotalSuggestions int    `json:"totalSuggestions"`
	RatedSuggestions int    `json:"ratedSuggestions"`
}

// ImpactReport describes how many recipients acted on a user's suggestions.
type ImpactReport struct {
	UserID                 string             `json:"userId"`
	TotalSuggestions       int                `json:"totalSuggestions"`
	TotalPeopleSuggestedTo int                `json:"totalPeopleSuggestedTo"`
	TotalActualWatches     int                `json:"totalActualWatches"`
	ConversionRate         int                `json:"conversionRate"`
	Impact                 []SuggestionImpact `json:"impact"`
}

// SuggestionImpact is the per-suggestion row of an ImpactReport.
type SuggestionImpact struct {
	SuggestionID string `json:"suggestionId"`
	MovieTitle   string `json:"movieTitle"`
	SuggestedTo  int    `json:"suggestedTo"`
	Responded    int    `json:"responded"`
	// ActuallyWatched counts watch records of the movie by recipients.
	ActuallyWatched int `json:"actuallyWatched"`
	// AverageDesireRating is the mean response rating to one decimal, or nil
	// when nobody responded.
	AverageDesireRating *float64  `json:"averageDesireRating"`
	SuggestionDate      time.Time `json:"suggestionDate"`
}
