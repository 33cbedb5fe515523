// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tomtom215/restspot/internal/metrics"
	"github.com/tomtom215/restspot/internal/models"
	"github.com/tomtom215/restspot/internal/recommend/storage"
)

// Predictor scores feature vectors laid out as FeatureLayout.
type Predictor interface {
	Predict(ctx context.Context, vectors [][]float64) ([]float64, error)
}

// availability is implemented by predictors that can be without a model.
type availability interface {
	Available() bool
}

// servingModel pairs a fitted model with the metadata of its artifact.
type servingModel struct {
	model *RidgeModel
	meta  storage.ModelMetadata
}

// ModelPredictor serves the most recently loaded model. Swaps are atomic;
// in-flight predictions finish on the model they started with.
type ModelPredictor struct {
	current atomic.Pointer[servingModel]
}

// NewModelPredictor returns a predictor with no model loaded.
func NewModelPredictor() *ModelPredictor {
	return &ModelPredictor{}
}

// Swap installs model as the serving model.
//
//nolint:gocritic // meta passed by value; it is copied into the serving snapshot
func (p *ModelPredictor) Swap(model *RidgeModel, meta storage.ModelMetadata) {
	p.current.Store(&servingModel{model: model, meta: meta})
}

// LoadLatest loads the newest ridge artifact from store and swaps it in.
// It returns storage.ErrNoModel (wrapped) when the store is empty.
func (p *ModelPredictor) LoadLatest(ctx context.Context, store *storage.Store) (*storage.ModelMetadata, error) {
	var state storage.RidgeModelState
	meta, err := store.Load(ctx, storage.RidgeModelName, 0, &state)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	model, err := modelFromState(&state)
	if err != nil {
		return nil, fmt.Errorf("model v%d: %w", meta.Version, err)
	}
	p.Swap(model, *meta)
	return meta, nil
}

// modelFromState rebuilds a model, rejecting artifacts trained on another layout.
func modelFromState(state *storage.RidgeModelState) (*RidgeModel, error) {
	if !sameLayout(state.FeatureNames) {
		return nil, fmt.Errorf("artifact feature layout does not match (%d names, want %d)", len(state.FeatureNames), VectorSize)
	}
	if len(state.Weights) != VectorSize {
		return nil, &models.ArityMismatchError{What: "model weights", Left: len(state.Weights), Right: VectorSize}
	}
	return &RidgeModel{Weights: state.Weights, Intercept: state.Intercept, Lambda: state.Lambda}, nil
}

// stateFromModel is the inverse of modelFromState.
func stateFromModel(m *RidgeModel) storage.RidgeModelState {
	return storage.RidgeModelState{
		FeatureNames: FeatureLayout(),
		Weights:      m.Weights,
		Intercept:    m.Intercept,
		Lambda:       m.Lambda,
	}
}

// Available reports whether a model is loaded.
func (p *ModelPredictor) Available() bool {
	return p.current.Load() != nil
}

// Version returns the serving model version, or 0 when none is loaded.
func (p *ModelPredictor) Version() int {
	if sm := p.current.Load(); sm != nil {
		return sm.meta.Version
	}
	return 0
}

// Metadata returns the serving model's artifact metadata.
func (p *ModelPredictor) Metadata() (storage.ModelMetadata, bool) {
	sm := p.current.Load()
	if sm == nil {
		return storage.ModelMetadata{}, false
	}
	return sm.meta, true
}

// Predict scores each vector with the serving model.
func (p *ModelPredictor) Predict(ctx context.Context, vectors [][]float64) (scores []float64, err error) {
	start := time.Now()
	defer func() { metrics.RecordPrediction("local", time.Since(start), err) }()

	sm := p.current.Load()
	if sm == nil {
		return nil, ErrModelUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores = make([]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != len(sm.model.Weights) {
			return nil, &models.ArityMismatchError{What: fmt.Sprintf("feature vector %d", i), Left: len(v), Right: len(sm.model.Weights)}
		}
		scores[i] = sm.model.Predict(v)
	}
	return scores, nil
}
