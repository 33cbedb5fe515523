// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/restspot/internal/auth"
	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/models"
)

// TrainModel handles POST /api/v1/admin/train. The body is optional; a
// missing seed uses the configured one. Training runs synchronously and is
// not cancelled if the client disconnects.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TrainRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}
	seed := h.engine.DefaultSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		logging.Ctx(r.Context()).Info().
			Str("admin", claims.Username).
			Int64("seed", seed).
			Msg("Training requested")
	}

	// Detached from the request so a dropped connection does not discard a
	// nearly finished run; the engine applies its own training timeout.
	ctx := context.WithoutCancel(r.Context())
	report, err := h.engine.TrainModel(ctx, seed)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, models.TrainingResponse{
		Version:    report.Version,
		RMSE:       report.RMSE,
		MAE:        report.MAE,
		R2:         report.R2,
		TrainRows:  report.TrainRows,
		TestRows:   report.TestRows,
		DurationMS: report.Duration.Milliseconds(),
	}, start)
}

// RefreshUser handles POST /api/v1/admin/users/{userID}/refresh and rebuilds
// the user's virtual scores regardless of the recalculation trigger.
func (h *Handler) RefreshUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	if err := h.engine.RefreshUser(ctx, userID); err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"refreshed": true,
	}, start)
}

// ModelStatus handles GET /api/v1/admin/model.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	status, err := h.engine.ModelStatus(ctx)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, status, start)
}
