// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movienight/internal/auth"
	"github.com/tomtom215/movienight/internal/models"
)

func TestSuggestionLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.mustCreateUser(t, "alice")
	env.mustCreateUser(t, "bob")
	movieID := env.mustCreateMovie(t, "Arrival")

	alice := env.token(t, "alice", auth.RoleUser)
	bob := env.token(t, "bob", auth.RoleUser)

	var created models.Suggestion
	res := decodeData(t, env.do(t, http.MethodPost, "/api/suggestions", alice, models.CreateSuggestionRequest{
		MovieID: movieID, SuggestedTo: []string{"bob"}, DesireRating: 8, Comment: "watch it",
	}), http.StatusCreated, &created)
	if res.Message != "Suggestion sent successfully" {
		t.Errorf("message = %q", res.Message)
	}
	if created.SuggestedBy != "alice" || created.Status != models.StatusPending {
		t.Errorf("created = %+v", created)
	}

	var received []models.ReceivedSuggestion
	decodeData(t, env.do(t, http.MethodGet, "/api/suggestions", bob, nil), http.StatusOK, &received)
	if len(received) != 1 || received[0].ID != created.ID {
		t.Fatalf("received = %+v", received)
	}
	if received[0].Movie.Title != "Arrival" || received[0].UserRating != nil {
		t.Errorf("received[0] = %+v", received[0])
	}

	var response models.SuggestionResponse
	res = decodeData(t, env.do(t, http.MethodPost, "/api/suggestions/respond", bob, models.RespondSuggestionRequest{
		SuggestionID: created.ID, Rating: 7,
	}), http.StatusOK, &response)
	if res.Message != "Response recorded" || response.Status != models.StatusAccepted {
		t.Errorf("response = %+v (%q)", response, res.Message)
	}

	var report models.UserAccuracyReport
	decodeData(t, env.do(t, http.MethodGet, "/api/analytics/suggestion-accuracy/alice", alice, nil), http.StatusOK, &report)
	if report.RatedSuggestions != 1 || report.Accuracy != 90 || report.AccuracyScore != models.LabelExcellent {
		t.Errorf("report = %+v", report)
	}
}

func TestCreateSuggestionErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.mustCreateUser(t, "alice")
	env.mustCreateUser(t, "bob")
	movieID := env.mustCreateMovie(t, "Arrival")
	alice := env.token(t, "alice", auth.RoleUser)

	tests := []struct {
		name        string
		body        interface{}
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "unknown movie",
			body:        models.CreateSuggestionRequest{MovieID: "missing", SuggestedTo: []string{"bob"}, DesireRating: 5},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeBadRequest,
			wantMessage: "Movie not found",
		},
		{
			name:        "unknown recipients",
			body:        models.CreateSuggestionRequest{MovieID: movieID, SuggestedTo: []string{"ghost", "bob", "phantom"}, DesireRating: 5},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeBadRequest,
			wantMessage: "Invalid user IDs: ghost, phantom",
		},
		{
			name:       "desire out of range",
			body:       models.CreateSuggestionRequest{MovieID: movieID, SuggestedTo: []string{"bob"}, DesireRating: 11},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "no recipients",
			body:       models.CreateSuggestionRequest{MovieID: movieID, DesireRating: 5},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
		{
			name:        "empty body",
			body:        "",
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeBadRequest,
			wantMessage: "Request body is required",
		},
		{
			name:        "malformed json",
			body:        `{"movieId":`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeBadRequest,
			wantMessage: "Invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/suggestions", alice, tt.body)
			expectError(t, rec, tt.wantStatus, tt.wantCode, tt.wantMessage)
		})
	}

	t.Run("invalid ids in details", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/suggestions", alice, models.CreateSuggestionRequest{
			MovieID: movieID, SuggestedTo: []string{"ghost"}, DesireRating: 5,
		})
		res := expectError(t, rec, http.StatusBadRequest, ErrCodeBadRequest, "")
		var details struct {
			InvalidUserIDs []string `json:"invalidUserIds"`
		}
		if err := json.Unmarshal(res.Details, &details); err != nil {
			t.Fatalf("decode details: %v", err)
		}
		if len(details.InvalidUserIDs) != 1 || details.InvalidUserIDs[0] != "ghost" {
			t.Errorf("invalidUserIds = %v", details.InvalidUserIDs)
		}
	})
}

func TestRespondToUnknownSuggestion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.mustCreateUser(t, "bob")

	rec := env.do(t, http.MethodPost, "/api/suggestions/respond", env.token(t, "bob", auth.RoleUser),
		models.RespondSuggestionRequest{SuggestionID: "nope", Rating: 5})
	expectError(t, rec, http.StatusNotFound, ErrCodeNotFound, "Suggestion not found")
}

func TestDeleteSuggestion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	for _, id := range []string{"alice", "bob", "carol", "root"} {
		env.mustCreateUser(t, id)
	}
	movieID := env.mustCreateMovie(t, "Heat")
	alice := env.token(t, "alice", auth.RoleUser)

	create := func() string {
		t.Helper()
		var s models.Suggestion
		decodeData(t, env.do(t, http.MethodPost, "/api/suggestions", alice, models.CreateSuggestionRequest{
			MovieID: movieID, SuggestedTo: []string{"bob"}, DesireRating: 6,
		}), http.StatusCreated, &s)
		return s.ID
	}

	first := create()
	second := create()

	tests := []struct {
		name        string
		id          string
		token       string
		wantStatus  int
		wantMessage string
	}{
		{"other user forbidden", first, env.token(t, "carol", auth.RoleUser), http.StatusForbidden, "Not allowed to modify this suggestion"},
		{"unknown id", "missing", alice, http.StatusNotFound, "Suggestion not found"},
		{"author deletes", first, alice, http.StatusOK, ""},
		{"already deleted", first, alice, http.StatusNotFound, "Suggestion not found"},
		{"admin deletes any", second, env.token(t, "root", auth.RoleAdmin), http.StatusOK, ""},
	}

	for _, tt := range tests {
		rec := env.do(t, http.MethodDelete, "/api/suggestions/"+tt.id, tt.token, nil)
		if tt.wantStatus == http.StatusOK {
			res := decodeData(t, rec, http.StatusOK, nil)
			if res.Message != "Suggestion and related data deleted successfully" {
				t.Errorf("%s: message = %q", tt.name, res.Message)
			}
			continue
		}
		expectError(t, rec, tt.wantStatus, "", tt.wantMessage)
	}

	var received []models.ReceivedSuggestion
	decodeData(t, env.do(t, http.MethodGet, "/api/suggestions", env.token(t, "bob", auth.RoleUser), nil), http.StatusOK, &received)
	if len(received) != 0 {
		t.Errorf("received after delete = %d, want 0", len(received))
	}
}

func TestWatchedEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.mustCreateUser(t, "alice")
	env.mustCreateUser(t, "bob")
	movieID := env.mustCreateMovie(t, "Alien")
	alice := env.token(t, "alice", auth.RoleUser)
	bob := env.token(t, "bob", auth.RoleUser)

	var s models.Suggestion
	decodeData(t, env.do(t, http.MethodPost, "/api/suggestions", alice, models.CreateSuggestionRequest{
		MovieID: movieID, SuggestedTo: []string{"bob"}, DesireRating: 9,
	}), http.StatusCreated, &s)

	var impact models.ImpactReport
	decodeData(t, env.do(t, http.MethodGet, "/api/analytics/suggestion-impact/alice", alice, nil), http.StatusOK, &impact)
	if impact.TotalActualWatches != 0 {
		t.Fatalf("watches before = %d", impact.TotalActualWatches)
	}

	rating := 8
	res := decodeData(t, env.do(t, http.MethodPost, "/api/watched", bob, models.RecordWatchedRequest{
		MovieID: movieID, ActualRating: &rating,
	}), http.StatusCreated, nil)
	if res.Message != "Movie marked as watched" {
		t.Errorf("message = %q", res.Message)
	}

	rec := env.do(t, http.MethodPost, "/api/watched", bob, models.RecordWatchedRequest{MovieID: "missing"})
	expectError(t, rec, http.StatusBadRequest, ErrCodeBadRequest, "Movie not found")

	var history []models.WatchedMovie
	decodeData(t, env.do(t, http.MethodGet, "/api/watched", bob, nil), http.StatusOK, &history)
	if len(history) != 1 || history[0].MovieID != movieID {
		t.Errorf("history = %+v", history)
	}

	// The earlier impact read is cached; the write must invalidate it.
	decodeData(t, env.do(t, http.MethodGet, "/api/analytics/suggestion-impact/alice", alice, nil), http.StatusOK, &impact)
	if impact.TotalActualWatches != 1 || impact.ConversionRate != 100 {
		t.Errorf("impact after watch = %+v", impact)
	}
}

func TestCreateSuggestionRequiresProfile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.mustCreateUser(t, "bob")
	movieID := env.mustCreateMovie(t, "Gattaca")
	ghost := env.token(t, "ghost", auth.RoleUser)
	body := models.CreateSuggestionRequest{MovieID: movieID, SuggestedTo: []string{"bob"}, DesireRating: 9}

	expectError(t, env.do(t, http.MethodPost, "/api/suggestions", ghost, body),
		http.StatusForbidden, ErrCodeForbidden, "User profile not registered")

	var received []models.ReceivedSuggestion
	decodeData(t, env.do(t, http.MethodGet, "/api/suggestions", env.token(t, "bob", auth.RoleUser), nil), http.StatusOK, &received)
	if len(received) != 0 {
		t.Errorf("received = %+v, want none", received)
	}

	admin := env.token(t, "root", auth.RoleAdmin)
	decodeData(t, env.do(t, http.MethodPost, "/api/users", admin, models.CreateUserRequest{
		ID: "ghost", Username: "ghost", Email: "ghost@example.com", Name: "Ghost",
	}), http.StatusCreated, nil)

	decodeData(t, env.do(t, http.MethodPost, "/api/suggestions", ghost, body), http.StatusCreated, nil)
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.token(t, "nobody", auth.RoleUser)

	for _, path := range []string{"/api/suggestions", "/api/watched", "/api/users"} {
		res := decodeData(t, env.do(t, http.MethodGet, path, token, nil), http.StatusOK, nil)
		if string(res.Data) != "[]" {
			t.Errorf("GET %s data = %s, want []", path, res.Data)
		}
	}
}
