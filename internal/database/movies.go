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

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
)

const movieColumns = `id, title, year, genres, platform, poster, description, rating, tmdb_id, release_date, created_at, updated_at`

func scanMovie(row rowScanner) (models.Movie, error) {
	var (
		m      models.Movie
		genres string
		rating sql.NullFloat64
		tmdbID sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.Title, &m.Year, &genres, &m.Platform, &m.Poster, &m.Description,
		&rating, &tmdbID, &m.ReleaseDate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	if rating.Valid {
		m.Rating = &rating.Float64
	}
	if tmdbID.Valid {
		m.TMDBID = &tmdbID.Int64
	}
	m.Genres, err = decodeStringList(genres)
	return m, err
}

// GetMovie returns one movie or ErrMovieNotFound.
func (db *DB) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	m, err := scanMovie(db.conn.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "movies", time.Since(start), nil)
		return nil, ErrMovieNotFound
	}
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, wrapQueryErr("get movie", err)
	}
	return &m, nil
}

// CreateMovie inserts a manually entered movie.
func (db *DB) CreateMovie(ctx context.Context, req *models.CreateMovieRequest) (*models.Movie, error) {
	now := db.now()
	m := models.Movie{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Year:        req.Year,
		Genres:      req.Genres,
		Platform:    req.Platform,
		Poster:      req.Poster,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if m.Genres == nil {
		m.Genres = []string{}
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := insertMovie(ctx, db.conn, &m)
	metrics.RecordDBQuery("insert", "movies", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertTMDBMovie stores a movie fetched from TMDB, keyed on its TMDB ID.
// An existing row keeps its ID and creation time and has its metadata
// refreshed. The bool result reports whether a new row was created.
func (db *DB) UpsertTMDBMovie(ctx context.Context, m *models.Movie) (*models.Movie, bool, error) {
	if m.TMDBID == nil {
		return nil, false, errors.New("upsert tmdb movie: missing tmdb id")
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out, created, err := db.upsertTMDBMovie(ctx, m)
	metrics.RecordDBQuery("upsert", "movies", time.Since(start), err)
	return out, created, err
}

func (db *DB) upsertTMDBMovie(ctx context.Context, m *models.Movie) (*models.Movie, bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, wrapQueryErr("begin transaction", err)
	}
	defer rollbackQuietly(tx)

	now := db.now()
	movie := *m
	if movie.Genres == nil {
		movie.Genres = []string{}
	}

	existing, err := scanMovie(tx.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE tmdb_id = ?`, *m.TMDBID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		movie.ID = uuid.NewString()
		movie.CreatedAt = now
		movie.UpdatedAt = now
		if err := insertMovie(ctx, tx, &movie); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, wrapQueryErr("commit movie", err)
		}
		return &movie, true, nil
	case err != nil:
		return nil, false, wrapQueryErr("find movie by tmdb id", err)
	}

	movie.ID = existing.ID
	movie.CreatedAt = existing.CreatedAt
	movie.UpdatedAt = now
	if movie.Platform == "" {
		movie.Platform = existing.Platform
	}

	genres, err := json.Marshal(movie.Genres)
	if err != nil {
		return nil, false, wrapQueryErr("encode genres", err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE movies SET
			title = ?, year = ?, genres = ?, platform = ?, poster = ?, description = ?,
			rating = ?, release_date = ?, updated_at = ?
		WHERE id = ?`,
		movie.Title, movie.Year, string(genres), movie.Platform, movie.Poster, movie.Description,
		nullFloat(movie.Rating), movie.ReleaseDate, movie.UpdatedAt, movie.ID)
	if err != nil {
		return nil, false, wrapQueryErr("update movie", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, wrapQueryErr("commit movie", err)
	}
	return &movie, false, nil
}

func insertMovie(ctx context.Context, q querier, m *models.Movie) error {
	genres, err := json.Marshal(m.Genres)
	if err != nil {
		return wrapQueryErr("encode genres", err)
	}

	var tmdbID any
	if m.TMDBID != nil {
		tmdbID = *m.TMDBID
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO movies (`+movieColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Year, string(genres), m.Platform, m.Poster, m.Description,
		nullFloat(m.Rating), tmdbID, m.ReleaseDate, m.CreatedAt, m.UpdatedAt)
	return wrapQueryErr("insert movie", err)
}

// movieTitles loads every movie title keyed by ID.
func movieTitles(ctx context.Context, q querier) (map[string]string, error) {
	start := time.Now()
	titles, err := queryMovieTitles(ctx, q)
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	return titles, err
}

func queryMovieTitles(ctx context.Context, q querier) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title FROM movies`)
	if err != nil {
		return nil, wrapQueryErr("list movie titles", err)
	}
	defer closeQuietly(rows)

	titles := make(map[string]string)
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, wrapQueryErr("scan movie title", err)
		}
		titles[id] = title
	}
	return titles, wrapQueryErr("iterate movie titles", rows.Err())
}

func movieExists(ctx context.Context, q querier, id string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = ?)`, id).Scan(&exists)
	return exists, wrapQueryErr("check movie", err)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func decodeStringList(raw string) ([]string, error) {
	list := []string{}
	if raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, wrapQueryErr("decode string list", err)
	}
	return list, nil
}
