// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

// PlaceFeatures is a place described only by its type and feature values.
type PlaceFeatures struct {
	PlaceType string             `json:"place_type,omitempty" validate:"max=64"`
	Features  map[string]float64 `json:"features" validate:"required,featurekeys"`
}

// PredictScoresRequest is the body of POST /api/v1/predict-scores. The user
// is described by VotedPlaces and PlacesScores, which must align.
type PredictScoresRequest struct {
	VotedPlaces     []PlaceFeatures `json:"voted_places" validate:"dive"`
	PlacesScores    []float64       `json:"places_scores" validate:"dive,unitinterval"`
	EstimatedPlaces []PlaceFeatures `json:"estimated_places" validate:"dive"`
}

// VectorPredictRequest is the body of POST /api/v1/model/predict. Each vector
// follows the model's feature layout.
type VectorPredictRequest struct {
	Vectors [][]float64 `json:"vectors" validate:"required"`
}

// TrainRequest is the optional body of POST /api/v1/admin/train.
type TrainRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}
