// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import "math"

// Quality holds holdout regression metrics.
type Quality struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// evaluate compares predictions against targets. An empty set scores zero
// everywhere, as does R² when the targets have no variance.
func evaluate(yTrue, yPred []float64) Quality {
	n := len(yTrue)
	if n == 0 || len(yPred) != n {
		return Quality{}
	}

	var mean float64
	for _, y := range yTrue {
		mean += y
	}
	mean /= float64(n)

	var sse, sae, sst float64
	for i := range yTrue {
		e := yTrue[i] - yPred[i]
		sse += e * e
		sae += math.Abs(e)
		d := yTrue[i] - mean
		sst += d * d
	}

	q := Quality{
		RMSE: math.Sqrt(sse / float64(n)),
		MAE:  sae / float64(n),
	}
	if sst > 0 {
		q.R2 = 1 - sse/sst
	}
	return q
}
