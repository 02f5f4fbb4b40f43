// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

// Package models defines the records MovieNight stores and the report
// shapes its analytics endpoints return.
//
// JSON field names are camelCase to match the web client. Timestamps are
// serialized as RFC 3339 strings.
package models
