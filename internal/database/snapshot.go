// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/tomtom215/movienight/internal/accuracy"
	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
)

var _ accuracy.Snapshotter = (*DB)(nil)

// ReadSnapshot runs fn against a store bound to one transaction. The
// transaction is always rolled back: snapshots never write.
func (db *DB) ReadSnapshot(ctx context.Context, fn func(accuracy.Store) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return wrapQueryErr("begin snapshot", err)
	}
	defer rollbackQuietly(tx)

	return fn(&snapshotStore{tx: tx})
}

// snapshotStore serves accuracy reads from a single transaction. Responses
// and titles are loaded once per snapshot on first use, since the engine
// asks for them per suggestion.
type snapshotStore struct {
	tx *sql.Tx

	responses map[string][]models.WatchDesire
	titles    map[string]string
}

func (s *snapshotStore) SuggestionsBy(ctx context.Context, authorID string) ([]models.Suggestion, error) {
	return suggestionsWhere(ctx, s.tx, `s.suggested_by = ?`, authorID)
}

func (s *snapshotStore) AllSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	return suggestionsWhere(ctx, s.tx, "")
}

func (s *snapshotStore) ResponsesFor(ctx context.Context, suggestionID string) ([]models.WatchDesire, error) {
	if s.responses == nil {
		all, err := watchDesires(ctx, s.tx)
		if err != nil {
			return nil, err
		}
		s.responses = all
	}
	return s.responses[suggestionID], nil
}

func (s *snapshotStore) MovieTitle(ctx context.Context, movieID string) (string, bool, error) {
	if s.titles == nil {
		titles, err := movieTitles(ctx, s.tx)
		if err != nil {
			return "", false, err
		}
		s.titles = titles
	}
	title, ok := s.titles[movieID]
	return title, ok, nil
}

func (s *snapshotStore) WatchedBy(ctx context.Context, movieID string) ([]models.WatchedMovie, error) {
	return watchedWhere(ctx, s.tx, `movie_id = ? ORDER BY watched_date, id`, movieID)
}

func (s *snapshotStore) Users(ctx context.Context) ([]models.User, error) {
	return listUsers(ctx, s.tx)
}

// watchDesires loads every rating grouped by suggestion.
func watchDesires(ctx context.Context, q querier) (map[string][]models.WatchDesire, error) {
	start := time.Now()
	out, err := queryWatchDesires(ctx, q)
	metrics.RecordDBQuery("select", "watch_desires", time.Since(start), err)
	return out, err
}

func queryWatchDesires(ctx context.Context, q querier) (map[string][]models.WatchDesire, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, movie_id, suggestion_id, rating, created_at, updated_at
		FROM watch_desires
		ORDER BY suggestion_id, created_at, id`)
	if err != nil {
		return nil, wrapQueryErr("list watch desires", err)
	}
	defer closeQuietly(rows)

	out := make(map[string][]models.WatchDesire)
	for rows.Next() {
		var wd models.WatchDesire
		if err := rows.Scan(&wd.ID, &wd.UserID, &wd.MovieID, &wd.SuggestionID, &wd.Rating, &wd.CreatedAt, &wd.UpdatedAt); err != nil {
			return nil, wrapQueryErr("scan watch desire", err)
		}
		out[wd.SuggestionID] = append(out[wd.SuggestionID], wd)
	}
	return out, wrapQueryErr("iterate watch desires", rows.Err())
}
