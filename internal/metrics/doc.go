// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

/*
Package metrics defines the Prometheus collectors exported on /metrics.

Collectors are package-level and registered with promauto on import. Callers
use the Record* helpers rather than touching collectors directly:

	start := time.Now()
	err := db.upsertPlace(ctx, ...)
	metrics.RecordDBQuery("upsert_vote", "places", time.Since(start), err, classify(err))

Metric families:

  - restspot_db_*: DuckDB latency, errors by class, conflict retries
  - restspot_api_*: request count, latency, in-flight gauge
  - restspot_votes_total, restspot_recalculations_*: the vote pipeline
  - restspot_training_*, restspot_model_*: training runs and serving model quality
  - restspot_predictor_*, restspot_circuit_breaker_*: scoring backends
  - restspot_model_mirror_uploads_total: object store mirror
*/
package metrics
