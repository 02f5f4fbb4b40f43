// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// IDs are TEXT: user IDs come from the upstream identity provider and
// are not guaranteed to be UUIDs.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			year INTEGER NOT NULL DEFAULT 0,
			genres TEXT NOT NULL DEFAULT '[]',
			platform TEXT NOT NULL DEFAULT '',
			poster TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tmdb_id BIGINT UNIQUE,
			release_date TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS suggestions (
			id TEXT PRIMARY KEY,
			movie_id TEXT NOT NULL,
			suggested_by TEXT NOT NULL,
			desire_rating INTEGER NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS suggestion_recipients (
			suggestion_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (suggestion_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watch_desires (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			suggestion_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (suggestion_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watched_movies (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			watched_date TIMESTAMP NOT NULL,
			watched_with TEXT NOT NULL DEFAULT '[]',
			original_score INTEGER,
			actual_rating INTEGER,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
}

// createIndexes creates indexes for the analytics access paths
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_suggestions_suggested_by ON suggestions(suggested_by)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_created_at ON suggestions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_recipients_user ON suggestion_recipients(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_desires_suggestion ON watch_desires(suggestion_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watched_movie ON watched_movies(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watched_user ON watched_movies(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_releases_date ON releases(release_date)`,
	}

	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", idx, err)
		}
	}
	return nil
}
