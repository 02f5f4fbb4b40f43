// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movienight/internal/config"
	"github.com/tomtom215/movienight/internal/logging"
)

// Authentication modes accepted in SecurityConfig.AuthMode.
const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

var (
	errMissingToken  = errors.New("missing token")
	errInvalidHeader = errors.New("invalid authorization header")
)

// Middleware authenticates requests and enforces roles.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
	devUserID  string
}

// NewMiddleware builds the middleware for cfg.AuthMode. jwtManager may be
// nil only in "none" mode.
func NewMiddleware(jwtManager *JWTManager, cfg *config.SecurityConfig) *Middleware {
	mode := cfg.AuthMode
	if mode == "" {
		mode = AuthModeJWT
	}
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   mode,
		devUserID:  cfg.DevUserID,
	}
}

// Authenticate requires a valid token and stores its claims on the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == AuthModeNone {
			claims := &Claims{UserID: m.devUserID, Role: RoleAdmin}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		if m.jwtManager == nil {
			logging.Ctx(r.Context()).Error().Msg("JWT auth mode without a token manager")
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireAdmin rejects callers without the admin role. It must run after
// Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !claims.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken reads a bearer token from the Authorization header,
// falling back to the "token" cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value == "" {
			return "", errMissingToken
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errInvalidHeader
	}

	return strings.TrimSpace(parts[1]), nil
}

type authError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="movienight"`)
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(authError{Error: message, Code: code}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error")
	}
}
