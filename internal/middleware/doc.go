// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package middleware provides the HTTP middleware shared by the API router.
//
//   - RequestID: X-Request-ID propagation and logging context
//   - PrometheusMetrics: request count, latency and in-flight gauge by route pattern
//
// Both have the func(http.Handler) http.Handler shape used by chi.
package middleware
