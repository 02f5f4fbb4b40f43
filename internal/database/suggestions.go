// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
)

const suggestionColumns = `s.id, s.movie_id, s.suggested_by, s.desire_rating, s.comment, s.status, s.created_at, s.updated_at`

func scanSuggestion(row rowScanner, extra ...any) (models.Suggestion, error) {
	var (
		s      models.Suggestion
		status string
	)
	dest := append([]any{&s.ID, &s.MovieID, &s.SuggestedBy, &s.DesireRating, &s.Comment, &status, &s.CreatedAt, &s.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return s, err
	}
	s.Status = models.SuggestionStatus(status)
	s.SuggestedTo = []string{}
	return s, nil
}

// CreateSuggestion validates the movie and recipients and inserts a pending
// suggestion authored by authorID. Recipients keep the order given.
func (db *DB) CreateSuggestion(ctx context.Context, authorID string, req *models.CreateSuggestionRequest) (*models.Suggestion, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	s, err := db.createSuggestion(ctx, authorID, req)
	metrics.RecordDBQuery("insert", "suggestions", time.Since(start), ignoreExpected(err))
	return s, err
}

func (db *DB) createSuggestion(ctx context.Context, authorID string, req *models.CreateSuggestionRequest) (*models.Suggestion, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapQueryErr("begin transaction", err)
	}
	defer rollbackQuietly(tx)

	if missing, err := missingUsers(ctx, tx, []string{authorID}); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, ErrNoProfile
	}

	exists, err := movieExists(ctx, tx, req.MovieID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrMovieNotFound
	}

	missing, err := missingUsers(ctx, tx, req.SuggestedTo)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &InvalidUsersError{IDs: missing}
	}

	now := db.now()
	s := models.Suggestion{
		ID:           uuid.NewString(),
		MovieID:      req.MovieID,
		SuggestedBy:  authorID,
		SuggestedTo:  append([]string(nil), req.SuggestedTo...),
		DesireRating: req.DesireRating,
		Comment:      req.Comment,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO suggestions (id, movie_id, suggested_by, desire_rating, comment, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.MovieID, s.SuggestedBy, s.DesireRating, s.Comment, string(s.Status), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, wrapQueryErr("insert suggestion", err)
	}

	for i, userID := range s.SuggestedTo {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO suggestion_recipients (suggestion_id, user_id, position) VALUES (?, ?, ?)`,
			s.ID, userID, i)
		if err != nil {
			return nil, wrapQueryErr("insert suggestion recipient", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapQueryErr("commit suggestion", err)
	}
	return &s, nil
}

// SuggestionsFor returns the suggestions sent to recipientID, newest first,
// each with its movie, its author and the recipient's own rating if any.
func (db *DB) SuggestionsFor(ctx context.Context, recipientID string) ([]models.ReceivedSuggestion, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := db.suggestionsFor(ctx, recipientID)
	metrics.RecordDBQuery("select", "suggestions", time.Since(start), err)
	return out, err
}

func (db *DB) suggestionsFor(ctx context.Context, recipientID string) ([]models.ReceivedSuggestion, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapQueryErr("begin transaction", err)
	}
	defer rollbackQuietly(tx)

	rows, err := tx.QueryContext(ctx, `
		SELECT `+suggestionColumns+`,
			m.id, m.title, m.year, m.genres, m.poster, m.rating,
			ub.id, ub.username, ub.name,
			wd.rating
		FROM suggestions s
		JOIN suggestion_recipients r ON r.suggestion_id = s.id AND r.user_id = ?
		JOIN movies m ON m.id = s.movie_id
		JOIN users ub ON ub.id = s.suggested_by
		LEFT JOIN watch_desires wd ON wd.suggestion_id = s.id AND wd.user_id = ?
		ORDER BY s.created_at DESC, s.id`,
		recipientID, recipientID)
	if err != nil {
		return nil, wrapQueryErr("list received suggestions", err)
	}

	received := make([]models.ReceivedSuggestion, 0)
	err = func() error {
		defer closeQuietly(rows)
		for rows.Next() {
			var (
				rs         models.ReceivedSuggestion
				genres     string
				rating     sql.NullFloat64
				userRating sql.NullInt64
			)
			s, err := scanSuggestion(rows,
				&rs.Movie.ID, &rs.Movie.Title, &rs.Movie.Year, &genres, &rs.Movie.Poster, &rating,
				&rs.SuggestedByUser.ID, &rs.SuggestedByUser.Username, &rs.SuggestedByUser.Name,
				&userRating)
			if err != nil {
				return wrapQueryErr("scan received suggestion", err)
			}
			rs.Suggestion = s
			if rs.Movie.Genres, err = decodeStringList(genres); err != nil {
				return err
			}
			if rating.Valid {
				rs.Movie.Rating = &rating.Float64
			}
			if userRating.Valid {
				r := int(userRating.Int64)
				rs.UserRating = &r
			}
			received = append(received, rs)
		}
		return wrapQueryErr("iterate received suggestions", rows.Err())
	}()
	if err != nil {
		return nil, err
	}

	recipients, err := recipientsFor(ctx, tx, `
		SELECT r.suggestion_id, r.user_id FROM suggestion_recipients r
		WHERE r.suggestion_id IN (SELECT suggestion_id FROM suggestion_recipients WHERE user_id = ?)
		ORDER BY r.suggestion_id, r.position`, recipientID)
	if err != nil {
		return nil, err
	}
	for i := range received {
		if to, ok := recipients[received[i].ID]; ok {
			received[i].SuggestedTo = to
		}
	}
	return received, nil
}

// RespondToSuggestion records userID's rating for a suggestion (replacing
// any earlier rating) and moves the suggestion to accepted or rejected.
func (db *DB) RespondToSuggestion(ctx context.Context, userID string, req *models.RespondSuggestionRequest) (*models.SuggestionResponse, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	resp, err := db.respondToSuggestion(ctx, userID, req)
	metrics.RecordDBQuery("upsert", "watch_desires", time.Since(start), ignoreExpected(err))
	return resp, err
}

func (db *DB) respondToSuggestion(ctx context.Context, userID string, req *models.RespondSuggestionRequest) (*models.SuggestionResponse, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapQueryErr("begin transaction", err)
	}
	defer rollbackQuietly(tx)

	var movieID string
	err = tx.QueryRowContext(ctx, `SELECT movie_id FROM suggestions WHERE id = ?`, req.SuggestionID).Scan(&movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, wrapQueryErr("find suggestion", err)
	}

	now := db.now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO watch_desires (id, user_id, movie_id, suggestion_id, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (suggestion_id, user_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			updated_at = EXCLUDED.updated_at`,
		uuid.NewString(), userID, movieID, req.SuggestionID, req.Rating, now, now)
	if err != nil {
		return nil, wrapQueryErr("upsert watch desire", err)
	}

	status := models.StatusForRating(req.Rating)
	_, err = tx.ExecContext(ctx,
		`UPDATE suggestions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, req.SuggestionID)
	if err != nil {
		return nil, wrapQueryErr("update suggestion status", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapQueryErr("commit response", err)
	}
	return &models.SuggestionResponse{
		SuggestionID: req.SuggestionID,
		Rating:       req.Rating,
		Status:       status,
	}, nil
}

// DeleteSuggestion removes a suggestion with its recipients and ratings.
// Only the author, or an admin when isAdmin is set, may delete it.
func (db *DB) DeleteSuggestion(ctx context.Context, suggestionID, actorID string, isAdmin bool) (*models.Suggestion, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	s, err := db.deleteSuggestion(ctx, suggestionID, actorID, isAdmin)
	metrics.RecordDBQuery("delete", "suggestions", time.Since(start), ignoreExpected(err))
	return s, err
}

func (db *DB) deleteSuggestion(ctx context.Context, suggestionID, actorID string, isAdmin bool) (*models.Suggestion, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapQueryErr("begin transaction", err)
	}
	defer rollbackQuietly(tx)

	s, err := scanSuggestion(tx.QueryRowContext(ctx,
		`SELECT `+suggestionColumns+` FROM suggestions s WHERE s.id = ?`, suggestionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, wrapQueryErr("find suggestion", err)
	}
	if s.SuggestedBy != actorID && !isAdmin {
		return nil, ErrForbidden
	}

	recipients, err := recipientsFor(ctx, tx,
		`SELECT suggestion_id, user_id FROM suggestion_recipients WHERE suggestion_id = ? ORDER BY position`, suggestionID)
	if err != nil {
		return nil, err
	}
	if to, ok := recipients[suggestionID]; ok {
		s.SuggestedTo = to
	}

	// Ratings go first so none are left pointing at a missing suggestion.
	for _, stmt := range []string{
		`DELETE FROM watch_desires WHERE suggestion_id = ?`,
		`DELETE FROM suggestion_recipients WHERE suggestion_id = ?`,
		`DELETE FROM suggestions WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, suggestionID); err != nil {
			return nil, wrapQueryErr("delete suggestion", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapQueryErr("commit delete", err)
	}
	return &s, nil
}

// suggestionsWhere loads suggestions matching where (a clause on alias s)
// with their ordered recipients.
func suggestionsWhere(ctx context.Context, q querier, where string, args ...any) ([]models.Suggestion, error) {
	start := time.Now()
	out, err := querySuggestions(ctx, q, where, args...)
	metrics.RecordDBQuery("select", "suggestions", time.Since(start), err)
	return out, err
}

func querySuggestions(ctx context.Context, q querier, where string, args ...any) ([]models.Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions s`
	recipientQuery := `SELECT r.suggestion_id, r.user_id FROM suggestion_recipients r`
	if where != "" {
		query += ` WHERE ` + where
		recipientQuery += ` WHERE r.suggestion_id IN (SELECT s.id FROM suggestions s WHERE ` + where + `)`
	}
	query += ` ORDER BY s.created_at, s.id`
	recipientQuery += ` ORDER BY r.suggestion_id, r.position`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr("list suggestions", err)
	}

	suggestions := make([]models.Suggestion, 0)
	err = func() error {
		defer closeQuietly(rows)
		for rows.Next() {
			s, err := scanSuggestion(rows)
			if err != nil {
				return wrapQueryErr("scan suggestion", err)
			}
			suggestions = append(suggestions, s)
		}
		return wrapQueryErr("iterate suggestions", rows.Err())
	}()
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return suggestions, nil
	}

	recipients, err := recipientsFor(ctx, q, recipientQuery, args...)
	if err != nil {
		return nil, err
	}
	for i := range suggestions {
		if to, ok := recipients[suggestions[i].ID]; ok {
			suggestions[i].SuggestedTo = to
		}
	}
	return suggestions, nil
}

// recipientsFor runs a (suggestion_id, user_id) query already ordered by
// position and groups the user IDs per suggestion.
func recipientsFor(ctx context.Context, q querier, query string, args ...any) (map[string][]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr("list suggestion recipients", err)
	}
	defer closeQuietly(rows)

	out := make(map[string][]string)
	for rows.Next() {
		var suggestionID, userID string
		if err := rows.Scan(&suggestionID, &userID); err != nil {
			return nil, wrapQueryErr("scan suggestion recipient", err)
		}
		out[suggestionID] = append(out[suggestionID], userID)
	}
	return out, wrapQueryErr("iterate suggestion recipients", rows.Err())
}
