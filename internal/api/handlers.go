// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package api

import (
	"context"
	"time"

	"github.com/tomtom215/restspot/internal/config"
	"github.com/tomtom215/restspot/internal/models"
	"github.com/tomtom215/restspot/internal/recommend"
)

// Recommender is the engine surface the handlers use. *recommend.Engine
// satisfies it.
type Recommender interface {
	SubmitVote(ctx context.Context, vote *models.VoteSubmission) (models.SubmitResult, error)
	GetRecommendations(ctx context.Context, q models.RecommendationQuery) ([]models.PlaceMetadata, error)
	Counters(ctx context.Context, userID string) (unprocessed, total int64, err error)
	PredictScores(ctx context.Context, history []models.VotedPlace, candidates []models.Features) ([]float64, error)
	PredictVectors(ctx context.Context, vectors [][]float64) ([]float64, error)
	TrainModel(ctx context.Context, seed int64) (*recommend.TrainingReport, error)
	RefreshUser(ctx context.Context, userID string) error
	ModelStatus(ctx context.Context) (*recommend.ModelStatus, error)
	ModelAvailable() bool
	ModelVersion() int
	DefaultSeed() int64
}

// Pinger reports storage reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: ping, liveness, readiness
//   - handlers_votes.go: vote ingestion and ledger counters
//   - handlers_recommend.go: recommendations and scoring
//   - handlers_admin.go: training, forced refresh, model status
type Handler struct {
	engine    Recommender
	db        Pinger
	config    *config.Config
	startTime time.Time

	// requestTimeout bounds engine calls from request handlers.
	requestTimeout time.Duration
}

// NewHandler creates a new API handler. db may be nil, in which case the
// readiness probe reports the database as down.
func NewHandler(engine Recommender, db Pinger, cfg *config.Config) *Handler {
	timeout := 30 * time.Second
	if cfg != nil && cfg.Server.Timeout > 0 {
		timeout = cfg.Server.Timeout
	}
	return &Handler{
		engine:         engine,
		db:             db,
		config:         cfg,
		startTime:      time.Now(),
		requestTimeout: timeout,
	}
}

// requestContext derives the bounded context for an engine call.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.requestTimeout)
}
