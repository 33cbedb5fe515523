// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/restspot/internal/models"
)

// readyTimeout bounds the database ping in the readiness probe.
const readyTimeout = 2 * time.Second

// Ping answers GET /api/v1/ping with a fixed string.
func (h *Handler) Ping(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, "pong", time.Now())
}

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles readiness probe requests.
// The service is ready when the database answers a ping. A missing model
// is reported but does not fail readiness: votes are still accepted and
// refreshes resume once a model is trained.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	dbConnected := h.db != nil && h.db.Ping(ctx) == nil

	health := models.HealthStatus{
		Status:         "ready",
		Database:       dbConnected,
		ModelAvailable: h.engine.ModelAvailable(),
		ModelVersion:   h.engine.ModelVersion(),
	}

	statusCode := http.StatusOK
	if !dbConnected {
		health.Status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	respondSuccess(w, statusCode, health, start)
}
