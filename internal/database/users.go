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

const userColumns = `id, username, email, name, role, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser registers a user profile. An empty ID gets a generated UUID;
// an empty role defaults to "user".
func (db *DB) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	user, err := db.createUser(ctx, req)
	metrics.RecordDBQuery("insert", "users", time.Since(start), ignoreExpected(err))
	return user, err
}

func (db *DB) createUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = ? OR (? <> '' AND id = ?))`,
		req.Username, req.ID, req.ID).Scan(&exists)
	if err != nil {
		return nil, wrapQueryErr("check existing user", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	now := db.now()
	user := models.User{
		ID:        req.ID,
		Username:  req.Username,
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.Name, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, wrapQueryErr("insert user", err)
	}
	return &user, nil
}

// GetUser returns one user or ErrUserNotFound.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	u, err := scanUser(db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "users", time.Since(start), nil)
		return nil, ErrUserNotFound
	}
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	if err != nil {
		return nil, wrapQueryErr("get user", err)
	}
	return &u, nil
}

// Users returns every user ordered by ID.
func (db *DB) Users(ctx context.Context) ([]models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return listUsers(ctx, db.conn)
}

func listUsers(ctx context.Context, q querier) ([]models.User, error) {
	start := time.Now()
	users, err := queryUsers(ctx, q)
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	return users, err
}

func queryUsers(ctx context.Context, q querier) ([]models.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, wrapQueryErr("list users", err)
	}
	defer closeQuietly(rows)

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapQueryErr("scan user", err)
		}
		users = append(users, u)
	}
	return users, wrapQueryErr("iterate users", rows.Err())
}

// missingUsers returns the IDs in ids that have no users row, preserving
// input order.
func missingUsers(ctx context.Context, q querier, ids []string) ([]string, error) {
	found := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		var exists bool
		if err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists); err != nil {
			return nil, wrapQueryErr("check user", err)
		}
		if exists {
			found[id] = struct{}{}
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// ignoreExpected drops sentinel errors that represent a client mistake so
// they are not counted as query failures.
func ignoreExpected(err error) error {
	var invalid *InvalidUsersError
	switch {
	case err == nil,
		errors.Is(err, ErrMovieNotFound),
		errors.Is(err, ErrSuggestionNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrForbidden),
		errors.As(err, &invalid):
		return nil
	default:
		return err
	}
}
