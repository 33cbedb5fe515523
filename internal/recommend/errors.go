// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import "errors"

var (
	// ErrTrainingInProgress is returned when a training run is already executing.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrModelUnavailable is returned by predictors that have no model loaded.
	ErrModelUnavailable = errors.New("no scoring model loaded")
)
