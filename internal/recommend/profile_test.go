// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/restspot/internal/models"
)

func uniform(v float64) models.Features {
	var f models.Features
	for i := range f {
		f[i] = v
	}
	return f
}

func TestBuildProfile(t *testing.T) {
	t.Parallel()

	t.Run("empty history is neutral", func(t *testing.T) {
		p := BuildProfile(nil)
		if p != NeutralProfile() {
			t.Errorf("BuildProfile(nil) = %+v, want neutral", p)
		}
		if p.MeanRating != 0.5 || p.VoteCount != 0 || p.StdRating != 0 {
			t.Errorf("neutral profile = %+v", p)
		}
	})

	t.Run("single vote has zero std", func(t *testing.T) {
		p := BuildProfile([]models.VotedPlace{{PlaceID: 1, Score: 0.8, Features: uniform(0.4)}})
		if p.VoteCount != 1 || p.MeanRating != 0.8 || p.StdRating != 0 {
			t.Errorf("profile = %+v", p)
		}
		if p.MeanFeatures[3] != 0.4 {
			t.Errorf("MeanFeatures[3] = %v, want 0.4", p.MeanFeatures[3])
		}
	})

	t.Run("sample standard deviation", func(t *testing.T) {
		history := []models.VotedPlace{
			{PlaceID: 1, Score: 0.2, Features: uniform(0.0)},
			{PlaceID: 2, Score: 0.4, Features: uniform(0.5)},
			{PlaceID: 3, Score: 0.9, Features: uniform(1.0)},
		}
		p := BuildProfile(history)

		mean := (0.2 + 0.4 + 0.9) / 3
		ss := math.Pow(0.2-mean, 2) + math.Pow(0.4-mean, 2) + math.Pow(0.9-mean, 2)
		wantStd := math.Sqrt(ss / 2)

		if p.VoteCount != 3 {
			t.Errorf("VoteCount = %d, want 3", p.VoteCount)
		}
		if !approxEqual(p.MeanRating, mean, 1e-12) {
			t.Errorf("MeanRating = %v, want %v", p.MeanRating, mean)
		}
		if !approxEqual(p.StdRating, wantStd, 1e-12) {
			t.Errorf("StdRating = %v, want %v", p.StdRating, wantStd)
		}
		for i, v := range p.MeanFeatures {
			if !approxEqual(v, 0.5, 1e-12) {
				t.Errorf("MeanFeatures[%d] = %v, want 0.5", i, v)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		history := []models.VotedPlace{
			{PlaceID: 1, Score: 0.3, Features: uniform(0.1)},
			{PlaceID: 2, Score: 0.7, Features: uniform(0.9)},
		}
		if BuildProfile(history) != BuildProfile(history) {
			t.Error("BuildProfile is not deterministic")
		}
	})
}
