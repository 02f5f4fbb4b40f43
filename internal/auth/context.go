// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package auth

import (
	"context"

	"github.com/tomtom215/movienight/internal/logging"
)

type contextKey string

// ClaimsContextKey is the context key for the caller's *Claims.
const ClaimsContextKey contextKey = "claims"

// ContextWithClaims stores claims on ctx and tags the request logger
// with the caller's user ID.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, ClaimsContextKey, claims)
	return logging.ContextWithUserID(ctx, claims.UserID)
}

// ClaimsFromContext returns the claims placed by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user's ID, or "".
func UserIDFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return ""
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(ctx context.Context) bool {
	claims, ok := ClaimsFromContext(ctx)
	return ok && claims.IsAdmin()
}
