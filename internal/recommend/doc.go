// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package recommend turns crowd votes into per-user place recommendations.
//
// # Pipeline
//
//	vote ──► ledger + place aggregate (one transaction)
//	     └─► counters ──► ShouldRecalculate ──► refresh chain
//
//	refresh chain:
//	  history ──► BuildProfile ──► FeatureVector per eligible, unvoted place
//	          ──► Predictor ──► SetScores ──► ResetUnprocessed
//
// Recommendations are read back from the stored virtual scores, so serving
// never calls the model.
//
// # Model
//
// The scoring model is a ridge regression over a 33-dimensional vector:
// the 15 place features, their absolute distance from the user's mean
// feature profile, and the user's vote count, mean rating and rating
// standard deviation. FeatureLayout names every dimension. Training reads
// the vote corpus over eligible places in vote_id pages, holds one vote per
// user out for evaluation, fits by closed form and persists a versioned
// artifact through the storage package.
//
// # Predictors
//
// Predictor is the model-serving seam. ModelPredictor serves the latest
// local artifact and is swapped atomically after training; the remote
// package serves the same interface over HTTP.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Only one training run executes at a
// time; concurrent calls get ErrTrainingInProgress.
package recommend
