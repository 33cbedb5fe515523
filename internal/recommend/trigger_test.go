// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import "testing"

func TestShouldRecalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		unprocessed int64
		total       int64
		threshold   float64
		want        bool
	}{
		{"no votes", 0, 0, DefaultRecalcThreshold, false},
		{"first vote", 1, 1, DefaultRecalcThreshold, true},
		{"exactly at threshold", 1, 10, DefaultRecalcThreshold, true},
		{"below threshold", 1, 11, DefaultRecalcThreshold, false},
		{"nothing unprocessed", 0, 50, DefaultRecalcThreshold, false},
		{"zero threshold always fires", 0, 50, 0, true},
		{"custom threshold", 5, 10, 0.5, true},
		{"custom threshold below", 4, 10, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRecalculate(tt.unprocessed, tt.total, tt.threshold); got != tt.want {
				t.Errorf("ShouldRecalculate(%d, %d, %v) = %v, want %v",
					tt.unprocessed, tt.total, tt.threshold, got, tt.want)
			}
		})
	}
}
