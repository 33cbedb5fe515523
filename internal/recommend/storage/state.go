// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package storage

import "encoding/gob"

// RidgeModelName is the file family of the scoring model.
const RidgeModelName = "ridge"

// RidgeModelState is the serializable state of the ridge scoring model.
type RidgeModelState struct {
	// FeatureNames names each weight; loaders compare it with their own layout.
	FeatureNames []string

	Weights   []float64
	Intercept float64
	Lambda    float64
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(RidgeModelState{})
	gob.Register(ModelMetadata{})
	gob.Register(storedFile{})
}
