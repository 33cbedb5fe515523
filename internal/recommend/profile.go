// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"math"

	"github.com/tomtom215/restspot/internal/models"
)

// neutralMeanRating is the rating assumed for a user with no history.
const neutralMeanRating = 0.5

// Profile summarizes a user's voting history.
type Profile struct {
	MeanRating   float64         `json:"mean_rating"`
	StdRating    float64         `json:"std_rating"` // sample std (n-1); 0 for fewer than two votes
	VoteCount    int             `json:"vote_count"`
	MeanFeatures models.Features `json:"mean_features"`
}

// NeutralProfile is the profile of a user who has not voted.
func NeutralProfile() Profile {
	return Profile{MeanRating: neutralMeanRating}
}

// BuildProfile summarizes history. It never fails; an empty history yields NeutralProfile.
func BuildProfile(history []models.VotedPlace) Profile {
	var acc profileAccumulator
	for i := range history {
		acc.add(history[i].Score, &history[i].Features)
	}
	return acc.profile()
}

// profileAccumulator collects scores and feature sums for one user.
type profileAccumulator struct {
	scores []float64
	sums   models.Features
}

func (a *profileAccumulator) add(score float64, f *models.Features) {
	a.scores = append(a.scores, score)
	for i := range f {
		a.sums[i] += f[i]
	}
}

func (a *profileAccumulator) profile() Profile {
	n := len(a.scores)
	if n == 0 {
		return NeutralProfile()
	}

	p := Profile{VoteCount: n}
	var sum float64
	for _, s := range a.scores {
		sum += s
	}
	p.MeanRating = sum / float64(n)

	if n > 1 {
		var ss float64
		for _, s := range a.scores {
			d := s - p.MeanRating
			ss += d * d
		}
		p.StdRating = math.Sqrt(ss / float64(n-1))
	}

	for i := range a.sums {
		p.MeanFeatures[i] = a.sums[i] / float64(n)
	}
	return p
}
