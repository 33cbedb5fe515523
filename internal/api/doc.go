// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

/*
Package api provides the HTTP surface of the recommendation service.

Routes are served by a chi router (see SetupChi). Every response uses the
models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 3}}
	{"status": "error", "data": null, "error": {"code": "VALIDATION_ERROR", "message": "..."}, ...}

# Endpoints

	GET  /api/v1/ping
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	POST /api/v1/votes
	GET  /api/v1/users/{userID}/recommendations?limit=&types=&towns=&exclude_voted=
	GET  /api/v1/users/{userID}/counters
	POST /api/v1/predict-scores
	POST /api/v1/model/predict
	POST /api/v1/admin/train                    (admin JWT)
	POST /api/v1/admin/users/{userID}/refresh   (admin JWT)
	GET  /api/v1/admin/model                    (admin JWT)
	GET  /metrics

# Error Mapping

Engine errors are mapped by classifyError: validation and arity errors are
400, a concurrent training run is 409, insufficient data and corpus schema
errors are 422, transient storage failures and a missing or unreachable
model are 503.

# Middleware

Request IDs and Prometheus metrics come from internal/middleware. CORS
uses go-chi/cors and rate limiting uses go-chi/httprate, with separate
budgets for health probes, vote writes and admin operations.
*/
package api
