// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

import (
	"time"
)

// APIResponse is the envelope every HTTP endpoint returns.
//
//	{
//	  "status": "success",
//	  "data": [{"place_id": 17, "name": "Old Harbour", ...}],
//	  "metadata": {"timestamp": "2026-05-01T12:00:00Z", "query_time_ms": 4}
//	}
//
// On failure Status is "error" and Error is populated.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes used by the API:
//   - VALIDATION_ERROR: malformed or out-of-range input
//   - ARITY_MISMATCH: parallel arrays of different length
//   - INSUFFICIENT_DATA: nothing to train on
//   - SCHEMA_ERROR: corpus is missing required columns
//   - TRAINING_IN_PROGRESS: another training run holds the lock
//   - STORAGE_UNAVAILABLE: transient storage failure, retry later
//   - MODEL_UNAVAILABLE: no scoring model loaded
//   - UNAUTHORIZED: missing or invalid admin token
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// VoteResponse is returned by POST /api/v1/votes.
type VoteResponse struct {
	UserID       string `json:"user_id"`
	PlaceID      int64  `json:"place_id"`
	Recorded     bool   `json:"recorded"`
	Recalculated bool   `json:"recalculated"`
}

// CountersResponse reports a user's ledger counters.
type CountersResponse struct {
	UserID      string `json:"user_id"`
	Unprocessed int64  `json:"unprocessed_votes"`
	Total       int64  `json:"total_votes"`
}

// TrainingResponse reports the outcome of a training run.
type TrainingResponse struct {
	Version    int     `json:"version"`
	RMSE       float64 `json:"rmse"`
	MAE        float64 `json:"mae"`
	R2         float64 `json:"r2"`
	TrainRows  int     `json:"train_rows"`
	TestRows   int     `json:"test_rows"`
	DurationMS int64   `json:"duration_ms"`
}

// PredictScoresResponse answers POST /api/v1/predict-scores.
type PredictScoresResponse struct {
	EstimatedScores []float64 `json:"estimated_scores"`
}

// VectorPredictResponse answers POST /api/v1/model/predict.
type VectorPredictResponse struct {
	Scores []float64 `json:"scores"`
}

// HealthStatus is returned by the readiness probe.
type HealthStatus struct {
	Status         string `json:"status"`
	Database       bool   `json:"database"`
	ModelAvailable bool   `json:"model_available"`
	ModelVersion   int    `json:"model_version,omitempty"`
}
