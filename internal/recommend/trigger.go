// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

// DefaultRecalcThreshold is the unprocessed share of a user's votes that triggers a refresh.
const DefaultRecalcThreshold = 0.10

// ShouldRecalculate reports whether a user's virtual scores are stale enough to rebuild.
// A user with no votes never triggers.
func ShouldRecalculate(unprocessed, total int64, threshold float64) bool {
	if total == 0 {
		return false
	}
	return float64(unprocessed) >= threshold*float64(total)
}
