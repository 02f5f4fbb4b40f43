// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
)

const watchedColumns = `id, user_id, movie_id, watched_date, watched_with, original_score, actual_rating, created_at, updated_at`

func scanWatched(row rowScanner) (models.WatchedMovie, error) {
	var (
		w        models.WatchedMovie
		with     string
		original sql.NullInt64
		actual   sql.NullInt64
	)
	err := row.Scan(&w.ID, &w.UserID, &w.MovieID, &w.WatchedDate, &with, &original, &actual, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return w, err
	}
	if original.Valid {
		v := int(original.Int64)
		w.OriginalScore = &v
	}
	if actual.Valid {
		v := int(actual.Int64)
		w.ActualRating = &v
	}
	w.WatchedWith, err = decodeStringList(with)
	return w, err
}

// RecordWatched stores that userID watched a movie. A zero WatchedDate is
// recorded as now.
func (db *DB) RecordWatched(ctx context.Context, userID string, req *models.RecordWatchedRequest) (*models.WatchedMovie, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	w, err := db.recordWatched(ctx, userID, req)
	metrics.RecordDBQuery("insert", "watched_movies", time.Since(start), ignoreExpected(err))
	return w, err
}

func (db *DB) recordWatched(ctx context.Context, userID string, req *models.RecordWatchedRequest) (*models.WatchedMovie, error) {
	exists, err := movieExists(ctx, db.conn, req.MovieID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrMovieNotFound
	}

	now := db.now()
	w := models.WatchedMovie{
		ID:            uuid.NewString(),
		UserID:        userID,
		MovieID:       req.MovieID,
		WatchedDate:   req.WatchedDate.UTC(),
		WatchedWith:   append([]string{}, req.WatchedWith...),
		OriginalScore: req.OriginalScore,
		ActualRating:  req.ActualRating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.WatchedDate.IsZero() {
		w.WatchedDate = now
	}

	with, err := json.Marshal(w.WatchedWith)
	if err != nil {
		return nil, wrapQueryErr("encode watched_with", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO watched_movies (`+watchedColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.MovieID, w.WatchedDate, string(with),
		nullInt(w.OriginalScore), nullInt(w.ActualRating), w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return nil, wrapQueryErr("insert watched movie", err)
	}
	return &w, nil
}

// WatchHistory returns userID's watch records, most recent first.
func (db *DB) WatchHistory(ctx context.Context, userID string) ([]models.WatchedMovie, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return watchedWhere(ctx, db.conn, `user_id = ? ORDER BY watched_date DESC, id`, userID)
}

func watchedWhere(ctx context.Context, q querier, where string, args ...any) ([]models.WatchedMovie, error) {
	start := time.Now()
	out, err := queryWatched(ctx, q, where, args...)
	metrics.RecordDBQuery("select", "watched_movies", time.Since(start), err)
	return out, err
}

func queryWatched(ctx context.Context, q querier, where string, args ...any) ([]models.WatchedMovie, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+watchedColumns+` FROM watched_movies WHERE `+where, args...)
	if err != nil {
		return nil, wrapQueryErr("list watched movies", err)
	}
	defer closeQuietly(rows)

	out := make([]models.WatchedMovie, 0)
	for rows.Next() {
		w, err := scanWatched(rows)
		if err != nil {
			return nil, wrapQueryErr("scan watched movie", err)
		}
		out = append(out, w)
	}
	return out, wrapQueryErr("iterate watched movies", rows.Err())
}
