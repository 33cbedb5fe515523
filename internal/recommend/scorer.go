// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"context"

	"github.com/tomtom215/restspot/internal/models"
)

// ScoreCandidates estimates the user's score for each candidate, in input
// order. The user is described by history; an empty history scores against
// the neutral profile.
func ScoreCandidates(ctx context.Context, predictor Predictor, history []models.VotedPlace, candidates []models.Features) ([]float64, error) {
	if len(candidates) == 0 {
		return []float64{}, nil
	}

	profile := BuildProfile(history)
	vectors := make([][]float64, len(candidates))
	for i := range candidates {
		vectors[i] = FeatureVector(&candidates[i], &profile)
	}

	scores, err := predictor.Predict(ctx, vectors)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, &models.ArityMismatchError{What: "predictor output", Left: len(scores), Right: len(candidates)}
	}
	return scores, nil
}
