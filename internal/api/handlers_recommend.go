// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/restspot/internal/models"
)

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
//
// Query parameters:
//   - limit: number of places, defaulted and capped by configuration
//   - types, towns: comma-separated allow-lists; empty means any
//   - exclude_voted: drop places the user already voted for (default true)
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if limit < 0 {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "limit must not be negative", nil)
		return
	}
	excludeVoted, err := getBoolParam(r, "exclude_voted", true)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	q := models.NewRecommendationQuery(userID, limit)
	q.ExcludeVoted = excludeVoted
	q.AllowedTypes = parseCommaSeparated(r.URL.Query().Get("types"))
	q.AllowedTowns = parseCommaSeparated(r.URL.Query().Get("towns"))

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	places, err := h.engine.GetRecommendations(ctx, q)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if places == nil {
		places = []models.PlaceMetadata{}
	}
	respondSuccess(w, http.StatusOK, places, start)
}

// PredictScores handles POST /api/v1/predict-scores. The caller describes a
// user by voted places and their scores and gets an estimated score for each
// candidate place, in request order. Until a model is trained or loaded it
// answers 503 MODEL_UNAVAILABLE.
func (h *Handler) PredictScores(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.PredictScoresRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.VotedPlaces) != len(req.PlacesScores) {
		respondEngineError(w, &models.ArityMismatchError{
			What:  "voted_places and places_scores",
			Left:  len(req.VotedPlaces),
			Right: len(req.PlacesScores),
		})
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	history, candidates, err := predictInputs(&req)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	scores, err := h.engine.PredictScores(ctx, history, candidates)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.PredictScoresResponse{EstimatedScores: scores}, start)
}

// predictInputs converts the request into the engine's history and candidate
// types. Feature maps were validated, so conversion only fails on a bug.
func predictInputs(req *models.PredictScoresRequest) ([]models.VotedPlace, []models.Features, error) {
	history := make([]models.VotedPlace, len(req.VotedPlaces))
	for i, p := range req.VotedPlaces {
		f, err := models.FeaturesFromMap(p.Features)
		if err != nil {
			return nil, nil, err
		}
		history[i] = models.VotedPlace{
			Score:    req.PlacesScores[i],
			Type:     models.NormalizeLabel(p.PlaceType),
			Features: f,
		}
	}

	candidates := make([]models.Features, len(req.EstimatedPlaces))
	for i, p := range req.EstimatedPlaces {
		f, err := models.FeaturesFromMap(p.Features)
		if err != nil {
			return nil, nil, err
		}
		candidates[i] = f
	}
	return history, candidates, nil
}

// PredictVectors handles POST /api/v1/model/predict. It scores prebuilt
// feature vectors with this instance's model and is the endpoint remote
// predictors call.
func (h *Handler) PredictVectors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VectorPredictRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	scores, err := h.engine.PredictVectors(ctx, req.Vectors)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.VectorPredictResponse{Scores: scores}, start)
}
