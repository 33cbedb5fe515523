// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/metrics"
	"github.com/tomtom215/restspot/internal/models"
	"github.com/tomtom215/restspot/internal/recommend/storage"
	"github.com/tomtom215/restspot/internal/validation"
)

// VoteStore is the vote ledger.
type VoteStore interface {
	SubmitVote(ctx context.Context, vote *models.VoteSubmission) (bool, error)
	Counters(ctx context.Context, userID string) (unprocessed, total int64, err error)
	ResetUnprocessed(ctx context.Context, userID string) error
	VotedPlaceIDs(ctx context.Context, userID string) ([]int64, error)
	VotedPlacesWithScores(ctx context.Context, userID string) ([]models.VotedPlace, error)
}

// PlaceStore lists recommendable places.
type PlaceStore interface {
	AllEligiblePlaces(ctx context.Context) ([]models.EligiblePlace, error)
}

// ScoreStore persists and ranks per-user virtual scores.
type ScoreStore interface {
	SetScores(ctx context.Context, userID string, placeIDs []int64, scores []float64) error
	BestPredicts(ctx context.Context, userID string, limit int, exclude []int64, allowedTypes, allowedTowns []string) ([]models.PlaceMetadata, error)
}

// Store is everything the engine needs from persistence. *database.DB satisfies it.
type Store interface {
	VoteStore
	PlaceStore
	ScoreStore
	CorpusSource
}

// ModelStatus describes the serving model and the stored artifact history.
type ModelStatus struct {
	Available bool                    `json:"available"`
	Serving   *storage.ModelMetadata  `json:"serving,omitempty"`
	Versions  []storage.ModelMetadata `json:"versions"`
}

// Engine coordinates vote ingestion, score refreshes, training and serving.
// It is safe for concurrent use.
type Engine struct {
	cfg    *Config
	store  Store
	models *storage.Store
	logger zerolog.Logger

	// local always serves the newest trained artifact; predictor is what
	// refreshes use and may point at a remote instance.
	local     *ModelPredictor
	predictor Predictor

	trainer *Trainer
	trainMu sync.Mutex
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store Store, modelStore *storage.Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil || modelStore == nil {
		return nil, fmt.Errorf("store and model store are required")
	}

	local := NewModelPredictor()
	return &Engine{
		cfg:       cfg,
		store:     store,
		models:    modelStore,
		logger:    logger.With().Str("component", "recommend").Logger(),
		local:     local,
		predictor: local,
		trainer:   NewTrainer(cfg, store, modelStore, logger),
	}, nil
}

// SetPredictor replaces the predictor used for score refreshes. Call it
// before the engine serves traffic.
func (e *Engine) SetPredictor(p Predictor) {
	e.predictor = p
}

// DefaultSeed returns the configured holdout split seed.
func (e *Engine) DefaultSeed() int64 {
	return e.cfg.Seed
}

// LoadLatestModel loads the newest stored artifact into the local predictor.
// An empty model store is not an error: the engine starts without a model
// and skips refreshes until one is trained.
func (e *Engine) LoadLatestModel(ctx context.Context) error {
	meta, err := e.local.LoadLatest(ctx, e.models)
	if errors.Is(err, storage.ErrNoModel) {
		e.logger.Warn().Msg("No model artifact found; score refreshes are skipped until a model is trained")
		return nil
	}
	if err != nil {
		return err
	}

	metrics.ModelVersion.Set(float64(meta.Version))
	e.logger.Info().
		Int("version", meta.Version).
		Float64("rmse", meta.RMSE).
		Time("trained_at", meta.TrainedAt).
		Msg("Loaded scoring model")
	return nil
}

// ModelAvailable reports whether refreshes can score candidates.
func (e *Engine) ModelAvailable() bool {
	if a, ok := e.predictor.(availability); ok {
		return a.Available()
	}
	return true
}

// ModelVersion returns the version served locally, 0 when none.
func (e *Engine) ModelVersion() int {
	return e.local.Version()
}

// ModelStatus returns the serving model metadata and all stored versions.
func (e *Engine) ModelStatus(ctx context.Context) (*ModelStatus, error) {
	versions, err := e.models.ListVersions(ctx, storage.RidgeModelName)
	if err != nil {
		return nil, fmt.Errorf("list model versions: %w", err)
	}
	status := &ModelStatus{Available: e.ModelAvailable(), Versions: versions}
	if meta, ok := e.local.Metadata(); ok {
		status.Serving = &meta
	}
	return status, nil
}

// SubmitVote records a vote and, when the user's unprocessed share crosses
// the threshold, refreshes their virtual scores. A duplicate vote is not an
// error: it returns Recorded=false and changes nothing. A refresh failure
// after the vote committed is logged and reported as Recalculated=false;
// the unprocessed counter is kept so a later vote retries.
func (e *Engine) SubmitVote(ctx context.Context, vote *models.VoteSubmission) (models.SubmitResult, error) {
	var res models.SubmitResult
	if vote == nil {
		metrics.RecordVote("rejected")
		return res, &models.ValidationError{Reason: "vote is required"}
	}
	if err := validation.ValidateVote(vote); err != nil {
		metrics.RecordVote("rejected")
		return res, err
	}

	recorded, err := e.store.SubmitVote(ctx, vote)
	if err != nil {
		metrics.RecordVote("failed")
		return res, fmt.Errorf("submit vote: %w", err)
	}
	if !recorded {
		metrics.RecordVote("duplicate")
		logging.Ctx(ctx).Debug().Str("user_id", vote.UserID).Int64("place_id", vote.PlaceID).Msg("Duplicate vote ignored")
		return res, nil
	}
	metrics.RecordVote("recorded")
	res.Recorded = true

	logger := e.logger.With().Str("user_id", vote.UserID).Logger()

	unprocessed, total, err := e.store.Counters(ctx, vote.UserID)
	if err != nil {
		logger.Warn().Err(err).Msg("Counter read failed after vote; refresh deferred")
		return res, nil
	}
	if !ShouldRecalculate(unprocessed, total, e.cfg.RecalcThreshold) {
		return res, nil
	}
	if !e.ModelAvailable() {
		metrics.RecordRecalculation("skipped_no_model", 0)
		logger.Debug().Msg("Refresh skipped: no model loaded")
		return res, nil
	}

	if err := e.refresh(ctx, vote.UserID); err != nil {
		logger.Warn().Err(err).Int64("unprocessed", unprocessed).Msg("Score refresh failed; will retry on next vote")
		return res, nil
	}
	res.Recalculated = true
	return res, nil
}

// RefreshUser rebuilds a user's virtual scores regardless of the trigger.
func (e *Engine) RefreshUser(ctx context.Context, userID string) error {
	if userID == "" {
		return &models.ValidationError{Field: "user_id", Reason: "is required"}
	}
	if !e.ModelAvailable() {
		metrics.RecordRecalculation("skipped_no_model", 0)
		return ErrModelUnavailable
	}
	return e.refresh(ctx, userID)
}

// refresh runs the chain profile, predict, SetScores, ResetUnprocessed.
func (e *Engine) refresh(ctx context.Context, userID string) (err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			metrics.RecordRecalculation("failed", 0)
			return
		}
		metrics.RecordRecalculation("ok", time.Since(start))
	}()

	history, err := e.store.VotedPlacesWithScores(ctx, userID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	eligible, err := e.store.AllEligiblePlaces(ctx)
	if err != nil {
		return fmt.Errorf("load eligible places: %w", err)
	}

	voted := make(map[int64]struct{}, len(history))
	for i := range history {
		voted[history[i].PlaceID] = struct{}{}
	}
	ids := make([]int64, 0, len(eligible))
	features := make([]models.Features, 0, len(eligible))
	for i := range eligible {
		if _, ok := voted[eligible[i].PlaceID]; ok {
			continue
		}
		ids = append(ids, eligible[i].PlaceID)
		features = append(features, eligible[i].Features)
	}

	scores, err := ScoreCandidates(ctx, e.predictor, history, features)
	if err != nil {
		return fmt.Errorf("score candidates: %w", err)
	}
	if err := e.store.SetScores(ctx, userID, ids, scores); err != nil {
		return fmt.Errorf("store scores: %w", err)
	}
	if err := e.store.ResetUnprocessed(ctx, userID); err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("history", len(history)).
		Int("scored", len(ids)).
		Dur("duration", time.Since(start)).
		Msg("Refreshed virtual scores")
	return nil
}

// GetRecommendations returns the user's top places by stored virtual score.
// On error the result is nil.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) GetRecommendations(ctx context.Context, q models.RecommendationQuery) ([]models.PlaceMetadata, error) {
	if q.UserID == "" {
		return nil, &models.ValidationError{Field: "user_id", Reason: "is required"}
	}
	limit := e.cfg.clampLimit(q.Limit)

	var exclude []int64
	if q.ExcludeVoted {
		ids, err := e.store.VotedPlaceIDs(ctx, q.UserID)
		if err != nil {
			return nil, fmt.Errorf("load voted places: %w", err)
		}
		exclude = ids
	}

	places, err := e.store.BestPredicts(ctx, q.UserID, limit, exclude,
		models.NormalizeLabels(q.AllowedTypes), models.NormalizeLabels(q.AllowedTowns))
	if err != nil {
		return nil, fmt.Errorf("rank places: %w", err)
	}
	metrics.RecommendationsServed.Observe(float64(len(places)))
	return places, nil
}

// Counters returns the user's ledger counters.
func (e *Engine) Counters(ctx context.Context, userID string) (unprocessed, total int64, err error) {
	return e.store.Counters(ctx, userID)
}

// PredictScores scores candidates for a user described only by history.
func (e *Engine) PredictScores(ctx context.Context, history []models.VotedPlace, candidates []models.Features) ([]float64, error) {
	return ScoreCandidates(ctx, e.predictor, history, candidates)
}

// PredictVectors scores prebuilt vectors with the locally served model.
// It never forwards to a remote predictor, so instances cannot loop.
func (e *Engine) PredictVectors(ctx context.Context, vectors [][]float64) ([]float64, error) {
	return e.local.Predict(ctx, vectors)
}

// TrainModel trains, persists and swaps in a new model. Only one run
// executes at a time; a concurrent call returns ErrTrainingInProgress.
func (e *Engine) TrainModel(ctx context.Context, seed int64) (*TrainingReport, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	e.logger.Info().Int64("seed", seed).Msg("Starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.cfg.TrainTimeout)
	defer cancel()

	report, model, meta, err := e.trainer.Train(trainCtx, seed)
	if err != nil {
		outcome := trainingOutcome(err)
		metrics.RecordTraining(outcome, time.Since(start), 0, 0, 0, 0)
		e.logger.Warn().Err(err).Str("outcome", outcome).Msg("Model training failed")
		return nil, err
	}

	e.local.Swap(model, *meta)
	metrics.RecordTraining("success", report.Duration, report.Version, report.RMSE, report.MAE, report.R2)
	e.logger.Info().
		Int("version", report.Version).
		Int("train_rows", report.TrainRows).
		Int("test_rows", report.TestRows).
		Float64("rmse", report.RMSE).
		Float64("mae", report.MAE).
		Float64("r2", report.R2).
		Dur("duration", report.Duration).
		Msg("Model training complete")
	return report, nil
}

// trainingOutcome maps a training error to its metric label.
func trainingOutcome(err error) string {
	var (
		insufficient *models.InsufficientDataError
		schema       *models.SchemaError
	)
	switch {
	case errors.As(err, &insufficient):
		return "insufficient_data"
	case errors.As(err, &schema):
		return "schema_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "failed"
	}
}
