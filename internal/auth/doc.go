// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

// Package auth resolves the calling user from a bearer token.
//
// Sign-in happens upstream; this package only verifies HS256 tokens that
// carry a userId and role claim and places the claims on the request
// context. Two modes are supported:
//
//   - jwt: an Authorization: Bearer header (or a "token" cookie) is required
//   - none: development only, every request acts as the configured
//     DevUserID with the admin role
//
// Handlers read the caller with UserIDFromContext and check privileges
// with IsAdmin. RequireAdmin rejects non-admin callers with 403.
package auth
