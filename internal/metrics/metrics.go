// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restspot_db_query_duration_seconds",
			Help:    "Duration of DuckDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_db_query_errors_total",
			Help: "Total number of failed DuckDB operations",
		},
		[]string{"operation", "table", "error_type"}, // error_type: transient, schema, other
	)

	DBConflictRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_db_conflict_retries_total",
			Help: "Write attempts retried after a DuckDB transaction conflict",
		},
		[]string{"operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restspot_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "restspot_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Vote pipeline
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_votes_total",
			Help: "Vote submissions by outcome",
		},
		[]string{"outcome"}, // recorded, duplicate, rejected, failed
	)

	RecalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_recalculations_total",
			Help: "Virtual score refreshes by outcome",
		},
		[]string{"outcome"}, // ok, skipped_no_model, failed
	)

	RecalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "restspot_recalculation_duration_seconds",
			Help:    "Duration of a per-user virtual score refresh",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RecommendationsServed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "restspot_recommendations_returned",
			Help:    "Number of places returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// Training
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_training_runs_total",
			Help: "Model training runs by outcome",
		},
		[]string{"outcome"}, // success, insufficient_data, schema_error, cancelled, failed
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "restspot_training_duration_seconds",
			Help:    "Duration of model training runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	ModelQuality = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "restspot_model_quality",
			Help: "Holdout quality of the serving model",
		},
		[]string{"metric"}, // rmse, mae, r2
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "restspot_model_version",
			Help: "Version of the model currently serving predictions",
		},
	)

	// Predictor
	PredictorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_predictor_requests_total",
			Help: "Scoring requests by predictor backend and result",
		},
		[]string{"backend", "result"},
	)

	PredictorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restspot_predictor_duration_seconds",
			Help:    "Scoring latency by predictor backend",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"backend"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "restspot_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Artifact mirror
	MirrorUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restspot_model_mirror_uploads_total",
			Help: "Model artifact uploads to the object store mirror",
		},
		[]string{"result"},
	)
)

// RecordDBQuery records the duration and, on failure, the class of a storage operation.
func RecordDBQuery(operation, table string, duration time.Duration, err error, errorType string) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		if errorType == "" {
			errorType = "other"
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordVote counts a vote submission outcome.
func RecordVote(outcome string) {
	VotesTotal.WithLabelValues(outcome).Inc()
}

// RecordRecalculation counts a refresh outcome; duration is observed only for completed refreshes.
func RecordRecalculation(outcome string, duration time.Duration) {
	RecalculationsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		RecalculationDuration.Observe(duration.Seconds())
	}
}

// RecordTraining counts a training run and, on success, publishes its holdout quality.
func RecordTraining(outcome string, duration time.Duration, version int, rmse, mae, r2 float64) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	TrainingDuration.Observe(duration.Seconds())
	if outcome != "success" {
		return
	}
	ModelVersion.Set(float64(version))
	ModelQuality.WithLabelValues("rmse").Set(rmse)
	ModelQuality.WithLabelValues("mae").Set(mae)
	ModelQuality.WithLabelValues("r2").Set(r2)
}

// RecordPrediction records one scoring call.
func RecordPrediction(backend string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	PredictorRequests.WithLabelValues(backend, result).Inc()
	PredictorDuration.WithLabelValues(backend).Observe(duration.Seconds())
}
