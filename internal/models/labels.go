// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel trims and NFC-normalizes a town or type label. Allow-list
// filters match exactly, so both stored labels and filter values go through
// this; "Café" typed as e+U+0301 and as U+00E9 then compare equal.
func NormalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeLabels applies NormalizeLabel and drops empty entries.
func NormalizeLabels(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = NormalizeLabel(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
