// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"math"

	"github.com/tomtom215/restspot/internal/models"
)

// VectorSize is the dimension of a model input vector.
const VectorSize = 2*models.NumFeatures + 3

// Offsets of the user profile block.
const (
	idxVoteCount  = 2 * models.NumFeatures
	idxMeanRating = idxVoteCount + 1
	idxStdRating  = idxVoteCount + 2
)

var featureLayout = func() []string {
	names := make([]string, 0, VectorSize)
	names = append(names, models.FeatureNames[:]...)
	for _, f := range models.FeatureNames {
		names = append(names, "diff_"+f)
	}
	return append(names, "user_vote_count", "user_mean_rating", "user_std_rating")
}()

// FeatureLayout returns the canonical name of every model input dimension, in order.
func FeatureLayout() []string {
	out := make([]string, len(featureLayout))
	copy(out, featureLayout)
	return out
}

// FeatureVector builds the model input for one place as seen by one user:
// raw features, |feature - profile mean feature|, then the profile summary.
func FeatureVector(features *models.Features, p *Profile) []float64 {
	v := make([]float64, VectorSize)
	for i := 0; i < models.NumFeatures; i++ {
		v[i] = features[i]
		v[models.NumFeatures+i] = math.Abs(features[i] - p.MeanFeatures[i])
	}
	v[idxVoteCount] = float64(p.VoteCount)
	v[idxMeanRating] = p.MeanRating
	v[idxStdRating] = p.StdRating
	return v
}

// sameLayout reports whether names equals FeatureLayout.
func sameLayout(names []string) bool {
	if len(names) != len(featureLayout) {
		return false
	}
	for i := range names {
		if names[i] != featureLayout[i] {
			return false
		}
	}
	return true
}
