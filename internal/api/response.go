// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movienight/internal/logging"
)

// APIResponse is the envelope for every JSON response.
//
// Success responses carry Data (and sometimes Message); failures carry
// Error, a human-readable message, and Code, a machine-readable code.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeUpstream           = "EXTERNAL_SERVICE_FAILED"
	ErrCodeTimeout            = "TIMEOUT"
)

// internalErrorMessage is the only message clients see for unexpected failures.
const internalErrorMessage = "Internal server error"

// respondJSON writes status and the JSON-encoded response.
func respondJSON(w http.ResponseWriter, status int, response *APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData writes a 200 success envelope around data.
func respondData(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, &APIResponse{Success: true, Data: data})
}

// respondCreated writes a 201 success envelope.
func respondCreated(w http.ResponseWriter, data interface{}, message string) {
	respondJSON(w, http.StatusCreated, &APIResponse{Success: true, Data: data, Message: message})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, &APIResponse{Error: message, Code: code})
}

// respondErrorWithDetails writes an error envelope with structured details.
func respondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details interface{}) {
	respondJSON(w, status, &APIResponse{Error: message, Code: code, Details: details})
}
