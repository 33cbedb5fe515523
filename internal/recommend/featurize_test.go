// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"testing"

	"github.com/tomtom215/restspot/internal/models"
)

func TestFeatureLayout(t *testing.T) {
	t.Parallel()

	layout := FeatureLayout()
	if len(layout) != VectorSize || VectorSize != 33 {
		t.Fatalf("layout has %d names, VectorSize = %d; want 33", len(layout), VectorSize)
	}
	if layout[0] != models.FeatureNames[0] {
		t.Errorf("layout[0] = %q, want %q", layout[0], models.FeatureNames[0])
	}
	if layout[models.NumFeatures] != "diff_"+models.FeatureNames[0] {
		t.Errorf("layout[%d] = %q", models.NumFeatures, layout[models.NumFeatures])
	}
	tail := layout[idxVoteCount:]
	want := []string{"user_vote_count", "user_mean_rating", "user_std_rating"}
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("layout tail[%d] = %q, want %q", i, tail[i], want[i])
		}
	}

	// Returned slice is a copy.
	layout[0] = "mutated"
	if FeatureLayout()[0] == "mutated" {
		t.Error("FeatureLayout exposes internal state")
	}
}

func TestFeatureVector(t *testing.T) {
	t.Parallel()

	features := uniform(0.8)
	features[2] = 0.1
	profile := Profile{MeanRating: 0.6, StdRating: 0.2, VoteCount: 4, MeanFeatures: uniform(0.5)}

	v := FeatureVector(&features, &profile)
	if len(v) != VectorSize {
		t.Fatalf("len = %d, want %d", len(v), VectorSize)
	}
	if v[0] != 0.8 || v[2] != 0.1 {
		t.Errorf("raw part = %v", v[:models.NumFeatures])
	}
	if !approxEqual(v[models.NumFeatures], 0.3, 1e-12) {
		t.Errorf("diff[0] = %v, want 0.3", v[models.NumFeatures])
	}
	if !approxEqual(v[models.NumFeatures+2], 0.4, 1e-12) {
		t.Errorf("diff[2] = %v, want 0.4 (absolute distance)", v[models.NumFeatures+2])
	}
	if v[idxVoteCount] != 4 || v[idxMeanRating] != 0.6 || v[idxStdRating] != 0.2 {
		t.Errorf("user part = %v", v[idxVoteCount:])
	}
}

func TestSameLayout(t *testing.T) {
	t.Parallel()

	if !sameLayout(FeatureLayout()) {
		t.Error("canonical layout rejected")
	}
	if sameLayout(FeatureLayout()[:10]) {
		t.Error("short layout accepted")
	}
	swapped := FeatureLayout()
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if sameLayout(swapped) {
		t.Error("reordered layout accepted")
	}
}
