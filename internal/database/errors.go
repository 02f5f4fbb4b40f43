// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/movienight/internal/logging"
)

// Sentinel errors returned by write and lookup operations.
var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("not allowed to modify this record")
	ErrNoProfile          = errors.New("caller has no user profile")
)

// InvalidUsersError lists referenced user IDs that do not exist, in the
// order they were given.
type InvalidUsersError struct {
	IDs []string
}

func (e *InvalidUsersError) Error() string {
	return "Invalid user IDs: " + strings.Join(e.IDs, ", ")
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // cleanup is best-effort
	}
}

// wrapQueryErr adds the operation name to err.
func wrapQueryErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rollbackQuietly rolls back tx unless it was already committed.
func rollbackQuietly(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("Transaction rollback failed")
	}
}
