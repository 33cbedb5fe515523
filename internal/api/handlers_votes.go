// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/models"
)

// SubmitVote handles POST /api/v1/votes.
//
// A first vote for (user, place) answers 201 with recorded=true. A repeat
// vote answers 200 with recorded=false and changes nothing.
func (h *Handler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var vote models.VoteSubmission
	if err := decodeJSON(w, r, &vote, false); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&vote); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()
	ctx = logging.ContextWithUserID(ctx, vote.UserID)

	result, err := h.engine.SubmitVote(ctx, &vote)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	status := http.StatusOK
	if result.Recorded {
		status = http.StatusCreated
	}
	respondSuccess(w, status, models.VoteResponse{
		UserID:       vote.UserID,
		PlaceID:      vote.PlaceID,
		Recorded:     result.Recorded,
		Recalculated: result.Recalculated,
	}, start)
}

// Counters handles GET /api/v1/users/{userID}/counters.
// An unknown user reports zero counters.
func (h *Handler) Counters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	unprocessed, total, err := h.engine.Counters(ctx, userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.CountersResponse{
		UserID:      userID,
		Unprocessed: unprocessed,
		Total:       total,
	}, start)
}
