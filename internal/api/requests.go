// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movienight/internal/auth"
	"github.com/tomtom215/movienight/internal/logging"
	"github.com/tomtom215/movienight/internal/validation"
)

// maxRequestBodyBytes bounds JSON request bodies.
const maxRequestBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and validates it. On
// failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respondError(w, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
		case errors.Is(err, io.EOF):
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Request body is required")
		default:
			logging.Ctx(r.Context()).Debug().Str("error", sanitizeLogValue(err.Error())).Msg("Invalid JSON body")
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
		}
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// callerID returns the authenticated user's ID, writing a 401 when the
// request carries no identity.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := auth.UserIDFromContext(r.Context())
	if id == "" {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return "", false
	}
	return id, true
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
