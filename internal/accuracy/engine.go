// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package accuracy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
)

const (
	// RecentLimit caps UserAccuracyReport.RecentSuggestions.
	RecentLimit = 5

	// LeaderboardSize caps the leaderboard.
	LeaderboardSize = 10

	// UnknownMovieTitle is shown in accuracy reports when a movie is missing.
	UnknownMovieTitle = "Unknown Movie"

	// UnknownImpactTitle is shown in impact reports when a movie is missing.
	UnknownImpactTitle = "Unknown"
)

// ErrNoSnapshotter is returned by NewEngine when no data source is given.
var ErrNoSnapshotter = errors.New("accuracy: snapshotter is required")

// Engine computes accuracy reports. It is stateless and safe for concurrent use.
type Engine struct {
	source Snapshotter
	logger zerolog.Logger
}

// NewEngine returns an Engine reading from source.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(source Snapshotter, logger zerolog.Logger) (*Engine, error) {
	if source == nil {
		return nil, ErrNoSnapshotter
	}
	return &Engine{
		source: source,
		logger: logger.With().Str("component", "accuracy").Logger(),
	}, nil
}

// scored is a rated suggestion with its derived score.
type scored struct {
	suggestion models.Suggestion
	score      Score
}

// userScores is the per-author aggregate shared by the report and the leaderboard.
type userScores struct {
	total   int
	rated   []scored
	overall float64
}

// scoreAll scores suggestions, keeping only the rated ones.
func scoreAll(ctx context.Context, store Store, suggestions []models.Suggestion) (userScores, error) {
	us := userScores{total: len(suggestions)}
	sum := 0
	for i := range suggestions {
		if err := ctx.Err(); err != nil {
			return userScores{}, err
		}
		s := suggestions[i]
		responses, err := store.ResponsesFor(ctx, s.ID)
		if err != nil {
			return userScores{}, fmt.Errorf("read responses for suggestion %s: %w", s.ID, err)
		}
		sc, ok := ScoreSuggestion(s.DesireRating, responses)
		if !ok {
			continue
		}
		us.rated = append(us.rated, scored{suggestion: s, score: sc})
		sum += sc.Accuracy
	}
	if len(us.rated) > 0 {
		us.overall = float64(sum) / float64(len(us.rated))
	}
	return us, nil
}

// UserAccuracy builds the accuracy report for the suggestions userID authored.
// A user without suggestions gets a "No data" report and a user whose
// suggestions are all unanswered gets "Pending ratings"; neither is an error.
func (e *Engine) UserAccuracy(ctx context.Context, userID string) (*models.UserAccuracyReport, error) {
	start := time.Now()
	var report *models.UserAccuracyReport

	err := e.source.ReadSnapshot(ctx, func(store Store) error {
		suggestions, err := store.SuggestionsBy(ctx, userID)
		if err != nil {
			return fmt.Errorf("read suggestions by %s: %w", userID, err)
		}
		report, err = buildUserReport(ctx, store, userID, suggestions)
		return err
	})
	metrics.ObserveAccuracyComputation("user_accuracy", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("total", report.TotalSuggestions).
		Int("rated", report.RatedSuggestions).
		Int("accuracy", report.Accuracy).
		Dur("duration", time.Since(start)).
		Msg("user accuracy computed")
	return report, nil
}

func buildUserReport(ctx context.Context, store Store, userID string, suggestions []models.Suggestion) (*models.UserAccuracyReport, error) {
	report := &models.UserAccuracyReport{
		UserID:            userID,
		TotalSuggestions:  len(suggestions),
		RecentSuggestions: []models.SuggestionAccuracy{},
	}
	if len(suggestions) == 0 {
		report.AccuracyScore = models.LabelNoData
		return report, nil
	}

	us, err := scoreAll(ctx, store, suggestions)
	if err != nil {
		return nil, err
	}
	if len(us.rated) == 0 {
		report.AccuracyScore = models.LabelPendingRatings
		return report, nil
	}

	report.RatedSuggestions = len(us.rated)
	report.Accuracy = Round(us.overall)
	report.AccuracyScore = Label(us.overall)
	for _, r := range us.rated {
		add(&report.Breakdown, r.score.Accuracy)
	}

	recent := mostRecent(us.rated, RecentLimit)
	for _, r := range recent {
		title, found, err := store.MovieTitle(ctx, r.suggestion.MovieID)
		if err != nil {
			return nil, fmt.Errorf("resolve movie %s: %w", r.suggestion.MovieID, err)
		}
		if !found || title == "" {
			title = UnknownMovieTitle
		}
		report.RecentSuggestions = append(report.RecentSuggestions, models.SuggestionAccuracy{
			SuggestionID:  r.suggestion.ID,
			MovieTitle:    title,
			DesiredRating: r.suggestion.DesireRating,
			ActualRating:  r.score.MeanRating,
			Accuracy:      r.score.Accuracy,
			RatingCount:   r.score.RatingCount,
			CreatedAt:     r.suggestion.CreatedAt,
		})
	}
	return report, nil
}

// mostRecent returns up to n entries ordered by creation time, newest first.
// Equal timestamps fall back to suggestion ID so output is deterministic.
func mostRecent(rated []scored, n int) []scored {
	sorted := make([]scored, len(rated))
	copy(sorted, rated)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].suggestion, sorted[j].suggestion
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Leaderboard ranks users by overall suggestion accuracy. Users with no
// suggestions, or with no answered suggestions, are left out. Ties on
// accuracy go to the user with more rated suggestions, then to the lower
// user ID. At most LeaderboardSize entries are returned.
func (e *Engine) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	start := time.Now()
	var entries []models.LeaderboardEntry

	err := e.source.ReadSnapshot(ctx, func(store Store) error {
		users, err := store.Users(ctx)
		if err != nil {
			return fmt.Errorf("read users: %w", err)
		}
		all, err := store.AllSuggestions(ctx)
		if err != nil {
			return fmt.Errorf("read suggestions: %w", err)
		}
		entries, err = rank(ctx, store, users, all)
		return err
	})
	metrics.ObserveAccuracyComputation("leaderboard", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Int("entries", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("leaderboard computed")
	return entries, nil
}

func rank(ctx context.Context, store Store, users []models.User, all []models.Suggestion) ([]models.LeaderboardEntry, error) {
	byAuthor := make(map[string][]models.Suggestion)
	for i := range all {
		byAuthor[all[i].SuggestedBy] = append(byAuthor[all[i].SuggestedBy], all[i])
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i := range users {
		u := users[i]
		suggestions := byAuthor[u.ID]
		if len(suggestions) == 0 {
			continue
		}
		us, err := scoreAll(ctx, store, suggestions)
		if err != nil {
			return nil, err
		}
		if len(us.rated) == 0 {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:           u.ID,
			Name:             displayName(u),
			Accuracy:         Round(us.overall),
			TotalSuggestions: us.total,
			RatedSuggestions: len(us.rated),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if a.RatedSuggestions != b.RatedSuggestions {
			return a.RatedSuggestions > b.RatedSuggestions
		}
		return a.UserID < b.UserID
	})
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	return entries, nil
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// SuggestionImpact reports how many recipients answered and went on to watch
// each movie userID suggested.
func (e *Engine) SuggestionImpact(ctx context.Context, userID string) (*models.ImpactReport, error) {
	start := time.Now()
	var report *models.ImpactReport

	err := e.source.ReadSnapshot(ctx, func(store Store) error {
		suggestions, err := store.SuggestionsBy(ctx, userID)
		if err != nil {
			return fmt.Errorf("read suggestions by %s: %w", userID, err)
		}
		report, err = buildImpact(ctx, store, userID, suggestions)
		return err
	})
	metrics.ObserveAccuracyComputation("impact", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("suggestions", report.TotalSuggestions).
		Int("conversion_rate", report.ConversionRate).
		Msg("suggestion impact computed")
	return report, nil
}

func buildImpact(ctx context.Context, store Store, userID string, suggestions []models.Suggestion) (*models.ImpactReport, error) {
	report := &models.ImpactReport{
		UserID:           userID,
		TotalSuggestions: len(suggestions),
		Impact:           make([]models.SuggestionImpact, 0, len(suggestions)),
	}

	for i := range suggestions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := suggestions[i]

		title, found, err := store.MovieTitle(ctx, s.MovieID)
		if err != nil {
			return nil, fmt.Errorf("resolve movie %s: %w", s.MovieID, err)
		}
		if !found || title == "" {
			title = UnknownImpactTitle
		}

		responses, err := store.ResponsesFor(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("read responses for suggestion %s: %w", s.ID, err)
		}

		watched, err := store.WatchedBy(ctx, s.MovieID)
		if err != nil {
			return nil, fmt.Errorf("read watch history for movie %s: %w", s.MovieID, err)
		}

		row := models.SuggestionImpact{
			SuggestionID:    s.ID,
			MovieTitle:      title,
			SuggestedTo:     len(s.SuggestedTo),
			Responded:       len(responses),
			ActuallyWatched: countRecipientWatches(s.SuggestedTo, watched),
			SuggestionDate:  s.CreatedAt,
		}
		if sc, ok := ScoreSuggestion(s.DesireRating, responses); ok {
			avg := RoundTenths(sc.MeanRating)
			row.AverageDesireRating = &avg
		}

		report.TotalPeopleSuggestedTo += row.SuggestedTo
		report.TotalActualWatches += row.ActuallyWatched
		report.Impact = append(report.Impact, row)
	}

	report.ConversionRate = ConversionRate(report.TotalActualWatches, report.TotalPeopleSuggestedTo)
	return report, nil
}

// countRecipientWatches counts watch records made by one of the recipients.
func countRecipientWatches(recipients []string, watched []models.WatchedMovie) int {
	if len(recipients) == 0 || len(watched) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(recipients))
	for _, r := range recipients {
		set[r] = struct{}{}
	}
	n := 0
	for i := range watched {
		if _, ok := set[watched[i].UserID]; ok {
			n++
		}
	}
	return n
}

// ConversionRate is round(watched / suggestedTo * 100), or 0 when nobody was
// suggested to.
func ConversionRate(watched, suggestedTo int) int {
	if suggestedTo <= 0 {
		return 0
	}
	return Round(float64(watched) / float64(suggestedTo) * 100)
}
