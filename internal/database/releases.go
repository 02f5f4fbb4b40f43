// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movienight/internal/metrics"
	"github.com/tomtom215/movienight/internal/models"
)

const releaseColumns = `id, tmdb_id, media_type, title, platform, release_date, year, genres, description, poster, rating, created_at, updated_at`

const dateLayout = "2006-01-02"

// ReplaceReleases swaps the stored release calendar for releases in one
// transaction, so readers never see a partial sync.
func (db *DB) ReplaceReleases(ctx context.Context, releases []models.Release) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.replaceReleases(ctx, releases)
	metrics.RecordDBQuery("replace", "releases", time.Since(start), err)
	return err
}

func (db *DB) replaceReleases(ctx context.Context, releases []models.Release) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return wrapQueryErr("begin transaction", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM releases`); err != nil {
		return wrapQueryErr("clear releases", err)
	}

	for i := range releases {
		r := &releases[i]
		if _, err := time.Parse(dateLayout, r.ReleaseDate); err != nil {
			return fmt.Errorf("release %s: invalid date %q: %w", r.ID, r.ReleaseDate, err)
		}
		genres, err := json.Marshal(r.Genres)
		if err != nil {
			return wrapQueryErr("encode genres", err)
		}
		var poster any
		if r.Poster != nil {
			poster = *r.Poster
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO releases (`+releaseColumns+`) VALUES (?, ?, ?, ?, ?, CAST(? AS DATE), ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING`,
			r.ID, r.TMDBID, r.MediaType, r.Title, r.Platform, r.ReleaseDate, r.Year, string(genres),
			r.Description, poster, r.Rating, r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return wrapQueryErr("insert release", err)
		}
	}

	return wrapQueryErr("commit releases", tx.Commit())
}

// Releases lists stored releases matching filter, soonest first. The
// platform match is a case-insensitive substring match.
func (db *DB) Releases(ctx context.Context, filter models.ReleaseFilter) ([]models.Release, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := db.queryReleases(ctx, filter)
	metrics.RecordDBQuery("select", "releases", time.Since(start), err)
	return out, err
}

func (db *DB) queryReleases(ctx context.Context, filter models.ReleaseFilter) ([]models.Release, error) {
	var (
		where []string
		args  []any
	)
	if !filter.From.IsZero() {
		where = append(where, `release_date >= CAST(? AS DATE)`)
		args = append(args, filter.From.Format(dateLayout))
	}
	if !filter.To.IsZero() {
		where = append(where, `release_date <= CAST(? AS DATE)`)
		args = append(args, filter.To.Format(dateLayout))
	}
	if p := strings.TrimSpace(filter.Platform); p != "" {
		where = append(where, `contains(lower(platform), ?)`)
		args = append(args, strings.ToLower(p))
	}

	query := `SELECT ` + releaseColumns + ` FROM releases`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY release_date, id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr("list releases", err)
	}
	defer closeQuietly(rows)

	releases := make([]models.Release, 0)
	for rows.Next() {
		var (
			r      models.Release
			date   time.Time
			genres string
			poster sql.NullString
		)
		err := rows.Scan(&r.ID, &r.TMDBID, &r.MediaType, &r.Title, &r.Platform, &date, &r.Year,
			&genres, &r.Description, &poster, &r.Rating, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, wrapQueryErr("scan release", err)
		}
		r.ReleaseDate = date.Format(dateLayout)
		if poster.Valid {
			r.Poster = &poster.String
		}
		if r.Genres, err = decodeStringList(genres); err != nil {
			return nil, err
		}
		releases = append(releases, r)
	}
	return releases, wrapQueryErr("iterate releases", rows.Err())
}
