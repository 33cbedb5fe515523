// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/restspot/internal/models"
	"github.com/tomtom215/restspot/internal/recommend/storage"
)

// CorpusSource provides the training corpus.
type CorpusSource interface {
	// VerifyCorpusSchema returns a *models.SchemaError when required columns are absent.
	VerifyCorpusSchema(ctx context.Context) error

	// TrainingRows returns up to limit rows with vote_id > afterVoteID, ordered by vote_id.
	TrainingRows(ctx context.Context, afterVoteID int64, limit int) ([]models.TrainingRow, error)
}

// TrainingReport summarizes one completed training run.
type TrainingReport struct {
	RMSE      float64       `json:"rmse"`
	MAE       float64       `json:"mae"`
	R2        float64       `json:"r2"`
	TrainRows int           `json:"train_rows"`
	TestRows  int           `json:"test_rows"`
	Version   int           `json:"version"`
	Duration  time.Duration `json:"duration"`
}

// Trainer fits, evaluates and persists the scoring model.
type Trainer struct {
	corpus   CorpusSource
	store    *storage.Store
	lambda   float64
	pageSize int
	keep     int
	logger   zerolog.Logger
}

// NewTrainer creates a trainer that reads from corpus and writes to store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainer(cfg *Config, corpus CorpusSource, store *storage.Store, logger zerolog.Logger) *Trainer {
	return &Trainer{
		corpus:   corpus,
		store:    store,
		lambda:   cfg.RidgeLambda,
		pageSize: cfg.CorpusPageSize,
		keep:     cfg.ModelsToKeep,
		logger:   logger.With().Str("component", "trainer").Logger(),
	}
}

// Train runs one full training pass with the given split seed. On success
// the new artifact is on disk and the returned model is ready to serve.
func (t *Trainer) Train(ctx context.Context, seed int64) (*TrainingReport, *RidgeModel, *storage.ModelMetadata, error) {
	start := time.Now()

	if err := t.corpus.VerifyCorpusSchema(ctx); err != nil {
		return nil, nil, nil, err
	}

	rows, err := t.loadCorpus(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil, &models.InsufficientDataError{Reason: "training corpus is empty"}
	}

	train, test := splitLeaveOneOut(rows, seed)
	if len(train) == 0 {
		return nil, nil, nil, &models.InsufficientDataError{Reason: "no training rows after holdout split"}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	profiles := userProfiles(train)
	xTrain, yTrain := augment(train, profiles)
	model, err := fitRidge(xTrain, yTrain, t.lambda)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fit model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	var quality Quality
	if len(test) > 0 {
		xTest, yTest := augment(test, profiles)
		preds := make([]float64, len(xTest))
		for i := range xTest {
			preds[i] = model.Predict(xTest[i])
		}
		quality = evaluate(yTest, preds)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	meta, err := t.store.Save(ctx, storage.RidgeModelName, t.store.NextVersion(storage.RidgeModelName), stateFromModel(model), storage.ModelMetadata{
		TrainedAt:          time.Now().UTC(),
		Seed:               seed,
		TrainRows:          len(train),
		TestRows:           len(test),
		UserCount:          len(profiles),
		RMSE:               quality.RMSE,
		MAE:                quality.MAE,
		R2:                 quality.R2,
		TrainingDurationMS: time.Since(start).Milliseconds(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("save model: %w", err)
	}

	if removed, err := t.store.Prune(ctx, storage.RidgeModelName, t.keep); err != nil {
		t.logger.Warn().Err(err).Msg("Model pruning failed")
	} else if removed > 0 {
		t.logger.Debug().Int("removed", removed).Msg("Pruned old model versions")
	}

	report := &TrainingReport{
		RMSE:      quality.RMSE,
		MAE:       quality.MAE,
		R2:        quality.R2,
		TrainRows: len(train),
		TestRows:  len(test),
		Version:   meta.Version,
		Duration:  time.Since(start),
	}
	return report, model, meta, nil
}

// loadCorpus reads the corpus in vote_id pages. Each page is its own query,
// and cancellation is checked between pages.
func (t *Trainer) loadCorpus(ctx context.Context) ([]models.TrainingRow, error) {
	var (
		rows  []models.TrainingRow
		after int64
		pages int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := t.corpus.TrainingRows(ctx, after, t.pageSize)
		if err != nil {
			return nil, fmt.Errorf("read corpus page %d: %w", pages, err)
		}
		pages++
		rows = append(rows, page...)
		if len(page) < t.pageSize {
			break
		}
		after = page[len(page)-1].VoteID
	}

	t.logger.Debug().Int("rows", len(rows)).Int("pages", pages).Msg("Loaded training corpus")
	return rows, nil
}
