// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movienight/internal/accuracy"
	"github.com/tomtom215/movienight/internal/auth"
	"github.com/tomtom215/movienight/internal/config"
	"github.com/tomtom215/movienight/internal/database"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/models"
)

const testJWTSecret = "test-secret-that-is-at-least-32-characters-long"

// testDBSemaphore limits concurrent DuckDB instances across parallel tests.
var testDBSemaphore = make(chan struct{}, 2)

// testEnv is a router backed by an in-memory database and the real
// accuracy engine.
type testEnv struct {
	db      *database.DB
	handler *Handler
	router  http.Handler
	jwt     *auth.JWTManager
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			AuthMode:          auth.AuthModeJWT,
			JWTSecret:         testJWTSecret,
			SessionTimeout:    time.Hour,
			RateLimitDisabled: true,
		},
		Analytics: config.AnalyticsConfig{
			LeaderboardCacheTTL: time.Minute,
			QueryTimeout:        10 * time.Second,
		},
	}
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

// newTestEnv builds the full router. movies may be nil.
func newTestEnv(t *testing.T, movies MovieSource) *testEnv {
	t.Helper()

	db := newTestDB(t)
	engine, err := accuracy.NewEngine(db, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return newTestEnvWith(t, db, engine, movies)
}

func newTestEnvWith(t *testing.T, store Store, analytics Analytics, movies MovieSource) *testEnv {
	t.Helper()

	cfg := testConfig()
	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	handler := NewHandler(store, analytics, movies, cfg)
	t.Cleanup(handler.Close)

	router := NewRouter(handler, auth.NewMiddleware(manager, &cfg.Security), NewChiMiddleware(NewChiMiddlewareConfig(&cfg.Security)))

	env := &testEnv{handler: handler, router: router.SetupChi(), jwt: manager}
	if db, ok := store.(*database.DB); ok {
		env.db = db
	}
	return env
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

func (e *testEnv) mustCreateUser(t *testing.T, id string) {
	t.Helper()
	_, err := e.db.CreateUser(context.Background(), &models.CreateUserRequest{
		ID: id, Username: id, Email: id + "@example.com", Name: id,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) error = %v", id, err)
	}
}

func (e *testEnv) mustCreateMovie(t *testing.T, title string) string {
	t.Helper()
	m, err := e.db.CreateMovie(context.Background(), &models.CreateMovieRequest{Title: title, Year: 2020})
	if err != nil {
		t.Fatalf("CreateMovie(%s) error = %v", title, err)
	}
	return m.ID
}

// do sends a request through the router. body may be nil, a string or a
// value to marshal.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors APIResponse with raw payloads for typed decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

// decodeData checks the status and decodes the data payload into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, dst interface{}) envelope {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, wantStatus, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

// expectError checks status, code and message of an error response.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode, wantMessage string) envelope {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, wantStatus, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Errorf("success = true on error response")
	}
	if wantCode != "" && env.Code != wantCode {
		t.Errorf("code = %q, want %q", env.Code, wantCode)
	}
	if wantMessage != "" && env.Error != wantMessage {
		t.Errorf("error = %q, want %q", env.Error, wantMessage)
	}
	return env
}
