// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"math/rand"

	"github.com/tomtom215/restspot/internal/models"
)

// splitLeaveOneOut holds out one random vote per user with at least two votes.
// rows must be in vote_id order. Users are visited in order of their first
// vote, so the same rows and seed always produce the same split. Both
// partitions keep the input order.
func splitLeaveOneOut(rows []models.TrainingRow, seed int64) (train, test []models.TrainingRow) {
	byUser := make(map[string][]int)
	var order []string
	for i := range rows {
		uid := rows[i].UserID
		if _, seen := byUser[uid]; !seen {
			order = append(order, uid)
		}
		byUser[uid] = append(byUser[uid], i)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible holdout, not security sensitive
	heldOut := make(map[int]bool, len(order))
	for _, uid := range order {
		idx := byUser[uid]
		if len(idx) < 2 {
			continue
		}
		heldOut[idx[rng.Intn(len(idx))]] = true
	}

	train = make([]models.TrainingRow, 0, len(rows)-len(heldOut))
	test = make([]models.TrainingRow, 0, len(heldOut))
	for i := range rows {
		if heldOut[i] {
			test = append(test, rows[i])
		} else {
			train = append(train, rows[i])
		}
	}
	return train, test
}

// userProfiles builds one profile per user from rows.
func userProfiles(rows []models.TrainingRow) map[string]Profile {
	accs := make(map[string]*profileAccumulator)
	for i := range rows {
		acc, ok := accs[rows[i].UserID]
		if !ok {
			acc = &profileAccumulator{}
			accs[rows[i].UserID] = acc
		}
		acc.add(rows[i].Score, &rows[i].Features)
	}
	out := make(map[string]Profile, len(accs))
	for uid, acc := range accs {
		out[uid] = acc.profile()
	}
	return out
}

// coldStartProfile is used for users absent from the profile set: no votes,
// the partition's mean score and its column means.
func coldStartProfile(rows []models.TrainingRow) Profile {
	p := Profile{}
	if len(rows) == 0 {
		return p
	}
	n := float64(len(rows))
	for i := range rows {
		p.MeanRating += rows[i].Score
		for f := range rows[i].Features {
			p.MeanFeatures[f] += rows[i].Features[f]
		}
	}
	p.MeanRating /= n
	for f := range p.MeanFeatures {
		p.MeanFeatures[f] /= n
	}
	return p
}

// augment turns rows into a design matrix and target vector using profiles.
func augment(rows []models.TrainingRow, profiles map[string]Profile) (x [][]float64, y []float64) {
	fallback := coldStartProfile(rows)
	x = make([][]float64, len(rows))
	y = make([]float64, len(rows))
	for i := range rows {
		p, ok := profiles[rows[i].UserID]
		if !ok {
			p = fallback
		}
		x[i] = FeatureVector(&rows[i].Features, &p)
		y[i] = rows[i].Score
	}
	return x, y
}
