// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package accuracy

import (
	"context"
	"time"

	"github.com/tomtom215/movienight/internal/models"
)

// memStore is an in-memory Store and Snapshotter for tests.
type memStore struct {
	users       []models.User
	movies      map[string]string
	suggestions []models.Suggestion
	responses   []models.WatchDesire
	watched     []models.WatchedMovie

	// failOn makes the named method return errStore.
	failOn    string
	snapshots int
}

type storeError string

func (e storeError) Error() string { return string(e) }

const errStore = storeError("storage unavailable")

func newMemStore() *memStore {
	return &memStore{movies: map[string]string{}}
}

func (m *memStore) ReadSnapshot(_ context.Context, fn func(Store) error) error {
	m.snapshots++
	return fn(m)
}

func (m *memStore) SuggestionsBy(_ context.Context, authorID string) ([]models.Suggestion, error) {
	if m.failOn == "SuggestionsBy" {
		return nil, errStore
	}
	var out []models.Suggestion
	for _, s := range m.suggestions {
		if s.SuggestedBy == authorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) AllSuggestions(_ context.Context) ([]models.Suggestion, error) {
	if m.failOn == "AllSuggestions" {
		return nil, errStore
	}
	return m.suggestions, nil
}

func (m *memStore) ResponsesFor(_ context.Context, suggestionID string) ([]models.WatchDesire, error) {
	if m.failOn == "ResponsesFor" {
		return nil, errStore
	}
	var out []models.WatchDesire
	for _, r := range m.responses {
		if r.SuggestionID == suggestionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) MovieTitle(_ context.Context, movieID string) (string, bool, error) {
	if m.failOn == "MovieTitle" {
		return "", false, errStore
	}
	t, ok := m.movies[movieID]
	return t, ok, nil
}

func (m *memStore) WatchedBy(_ context.Context, movieID string) ([]models.WatchedMovie, error) {
	if m.failOn == "WatchedBy" {
		return nil, errStore
	}
	var out []models.WatchedMovie
	for _, w := range m.watched {
		if w.MovieID == movieID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) Users(_ context.Context) ([]models.User, error) {
	if m.failOn == "Users" {
		return nil, errStore
	}
	return m.users, nil
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func (m *memStore) addUser(id, name string) {
	m.users = append(m.users, models.User{ID: id, Username: id, Name: name})
}

// suggest adds a suggestion created dayOffset days after baseTime.
func (m *memStore) suggest(id, author, movie string, desire, dayOffset int, to ...string) {
	m.suggestions = append(m.suggestions, models.Suggestion{
		ID:           id,
		MovieID:      movie,
		SuggestedBy:  author,
		SuggestedTo:  to,
		DesireRating: desire,
		Status:       models.StatusPending,
		CreatedAt:    baseTime.AddDate(0, 0, dayOffset),
	})
}

func (m *memStore) respond(suggestionID, user string, rating int) {
	m.responses = append(m.responses, models.WatchDesire{
		ID:           suggestionID + "-" + user,
		UserID:       user,
		SuggestionID: suggestionID,
		Rating:       rating,
	})
}

func (m *memStore) watch(user, movie string) {
	m.watched = append(m.watched, models.WatchedMovie{
		ID:      user + "-" + movie,
		UserID:  user,
		MovieID: movie,
	})
}
