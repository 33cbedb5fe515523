// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package remote serves the recommend.Predictor interface over HTTP.
//
// A Client posts feature vectors to another restspot instance's
// POST /api/v1/model/predict endpoint. That lets one instance own training
// while others only ingest votes and rank.
//
// Calls pass through a token-bucket limiter (golang.org/x/time/rate) and a
// circuit breaker (sony/gobreaker). While the breaker is open, Available
// reports false and the engine skips score refreshes the same way it does
// when no local model is loaded.
package remote
