// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	if !ValidLevel("warn") {
		t.Error("expected warn to be valid")
	}
	if ValidLevel("verbose") {
		t.Error("expected verbose to be invalid")
	}
}

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRequestID()
	id2 := GenerateRequestID()
	if len(id1) != 36 {
		t.Errorf("expected 36-character request ID, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique request IDs")
	}
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || UserIDFromContext(ctx) != "" {
		t.Fatal("expected empty values on a bare context")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithUserID(ctx, "user-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Errorf("UserIDFromContext = %q, want user-1", got)
	}
}

func TestCtxAddsFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-42")
	ctx = ContextWithUserID(ctx, "alice")

	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"user_id":"alice"`, `"message":"hello"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestSlogHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := &SlogHandler{logger: NewTestLogger(&buf)}
	logger := slog.New(h).With("service", "warmer").WithGroup("restart")
	logger.Warn("service restarted", "attempt", 3)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"warmer"`, `"restart.attempt":3`, `"message":"service restarted"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}
