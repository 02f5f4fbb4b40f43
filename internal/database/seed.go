// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/models"
)

// SeedDemoData fills an empty database with a few users, movies,
// suggestions and ratings so the analytics endpoints have something to
// show. It does nothing when any user already exists.
func (db *DB) SeedDemoData(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logging.Debug().Int("users", count).Msg("Database not empty, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo data...")

	users := []models.CreateUserRequest{
		{ID: "demo-alice", Username: "alice", Email: "alice@example.com", Name: "Alice", Role: models.RoleAdmin},
		{ID: "demo-bob", Username: "bob", Email: "bob@example.com", Name: "Bob"},
		{ID: "demo-carol", Username: "carol", Email: "carol@example.com", Name: "Carol"},
		{ID: "demo-dave", Username: "dave", Email: "dave@example.com"},
	}
	for i := range users {
		if _, err := db.CreateUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Username, err)
		}
	}

	movies := []models.CreateMovieRequest{
		{Title: "Arrival", Year: 2016, Genres: []string{"Drama", "Science Fiction"}},
		{Title: "Paddington 2", Year: 2017, Genres: []string{"Comedy", "Family"}},
		{Title: "Heat", Year: 1995, Genres: []string{"Crime", "Thriller"}},
		{Title: "Spirited Away", Year: 2001, Genres: []string{"Animation", "Fantasy"}},
	}
	movieIDs := make([]string, len(movies))
	for i := range movies {
		m, err := db.CreateMovie(ctx, &movies[i])
		if err != nil {
			return fmt.Errorf("seed movie %s: %w", movies[i].Title, err)
		}
		movieIDs[i] = m.ID
	}

	type rating struct {
		user  string
		value int
	}
	suggestions := []struct {
		by      string
		movie   int
		to      []string
		desire  int
		ratings []rating
	}{
		{"demo-alice", 0, []string{"demo-bob", "demo-carol"}, 9, []rating{{"demo-bob", 8}, {"demo-carol", 9}}},
		{"demo-alice", 1, []string{"demo-dave"}, 7, []rating{{"demo-dave", 7}}},
		{"demo-bob", 2, []string{"demo-alice", "demo-carol"}, 10, []rating{{"demo-alice", 6}}},
		{"demo-carol", 3, []string{"demo-bob"}, 8, nil},
	}
	for _, s := range suggestions {
		created, err := db.CreateSuggestion(ctx, s.by, &models.CreateSuggestionRequest{
			MovieID:      movieIDs[s.movie],
			SuggestedTo:  s.to,
			DesireRating: s.desire,
		})
		if err != nil {
			return fmt.Errorf("seed suggestion: %w", err)
		}
		for _, r := range s.ratings {
			_, err := db.RespondToSuggestion(ctx, r.user, &models.RespondSuggestionRequest{
				SuggestionID: created.ID,
				Rating:       r.value,
			})
			if err != nil {
				return fmt.Errorf("seed response: %w", err)
			}
		}
	}

	_, err := db.RecordWatched(ctx, "demo-bob", &models.RecordWatchedRequest{
		MovieID:     movieIDs[0],
		WatchedDate: time.Now().UTC().Add(-48 * time.Hour),
		WatchedWith: []string{"demo-carol"},
	})
	if err != nil {
		return fmt.Errorf("seed watched: %w", err)
	}

	logging.Info().
		Int("users", len(users)).
		Int("movies", len(movies)).
		Int("suggestions", len(suggestions)).
		Msg("Demo data seeded")
	return nil
}
