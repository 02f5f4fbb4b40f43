// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Field names in
// errors are taken from json tags, so a failure on
// CreateSuggestionRequest.DesireRating is reported as "desireRating".
//
// # Quick Start
//
//	var req models.CreateSuggestionRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	    // handle decode error
//	}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
//	    return
//	}
//
// # Custom Tags
//
//   - entityid: non-empty identifier of at most 64 characters without
//     whitespace (user, movie and suggestion ids)
//
// # Error Message Translation
//
//	required   -> "movieId is required"
//	min=1      -> "desireRating must be at least 1"
//	min=1      -> "suggestedTo must be at least 1 items" (slices)
//	max=500    -> "comment must be at most 500 characters"
//	unique     -> "suggestedTo must not contain duplicates"
//	oneof=a b  -> "role must be one of: a b"
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
