// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"fmt"
	"math"

	"github.com/tomtom215/restspot/internal/models"
)

// RidgeModel is a linear model with an unpenalized intercept.
type RidgeModel struct {
	Weights   []float64
	Intercept float64
	Lambda    float64
}

// Predict returns the model output for one input vector.
func (m *RidgeModel) Predict(x []float64) float64 {
	out := m.Intercept
	for j, w := range m.Weights {
		out += w * x[j]
	}
	return out
}

// fitRidge solves (XcᵀXc + λI)w = Xcᵀyc on mean-centered data, then
// recovers the intercept as ȳ - x̄·w.
func fitRidge(x [][]float64, y []float64, lambda float64) (*RidgeModel, error) {
	n := len(x)
	if n == 0 {
		return nil, &models.InsufficientDataError{Reason: "no training rows"}
	}
	if len(y) != n {
		return nil, &models.ArityMismatchError{What: "ridge design matrix", Left: n, Right: len(y)}
	}
	if lambda <= 0 {
		return nil, fmt.Errorf("ridge lambda must be positive, got %f", lambda)
	}
	d := len(x[0])

	xMean := make([]float64, d)
	var yMean float64
	for i := 0; i < n; i++ {
		if len(x[i]) != d {
			return nil, &models.ArityMismatchError{What: "ridge row width", Left: d, Right: len(x[i])}
		}
		for j := 0; j < d; j++ {
			xMean[j] += x[i][j]
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	// Gram matrix and right-hand side on centered data.
	gram := make([][]float64, d)
	for j := range gram {
		gram[j] = make([]float64, d)
	}
	rhs := make([]float64, d)
	xc := make([]float64, d)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			xc[j] = x[i][j] - xMean[j]
		}
		yc := y[i] - yMean
		for j := 0; j < d; j++ {
			rhs[j] += xc[j] * yc
			for k := 0; k <= j; k++ {
				gram[j][k] += xc[j] * xc[k]
			}
		}
	}
	for j := 0; j < d; j++ {
		gram[j][j] += lambda
		for k := 0; k < j; k++ {
			gram[k][j] = gram[j][k]
		}
	}

	L, err := choleskyDecomposition(gram)
	if err != nil {
		return nil, fmt.Errorf("ridge solve: %w", err)
	}
	w := choleskySolve(L, rhs)

	intercept := yMean
	for j := range w {
		intercept -= xMean[j] * w[j]
	}
	return &RidgeModel{Weights: w, Intercept: intercept, Lambda: lambda}, nil
}

// choleskyDecomposition computes the lower triangular L with A = L·Lᵀ.
//
//nolint:gocritic // L follows standard linear algebra notation
func choleskyDecomposition(A [][]float64) ([][]float64, error) {
	n := len(A)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}

			if i == j {
				if sum <= 0 {
					return nil, fmt.Errorf("matrix is not positive definite")
				}
				L[i][j] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}
	return L, nil
}

// choleskySolve solves L·Lᵀ·x = b by forward then back substitution.
//
//nolint:gocritic // L follows standard linear algebra notation
func choleskySolve(L [][]float64, b []float64) []float64 {
	n := len(L)
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= L[i][k] * z[k]
		}
		z[i] = sum / L[i][i]
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for k := i + 1; k < n; k++ {
			sum -= L[k][i] * x[k]
		}
		x[i] = sum / L[i][i]
	}
	return x
}
