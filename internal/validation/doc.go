// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package validation wraps go-playground/validator v10 with the rules the vote
// contract needs.
//
// Custom tags:
//   - featurekeys: a map[string]float64 holding exactly the 15 known feature
//     keys, every value finite and within [0,1]
//   - unitinterval: a float within [0,1], NaN rejected
//
// Field names in messages are the JSON names, so API clients see
// "place_type must be at most 64 characters" rather than Go identifiers.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
