// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

import (
	"fmt"
	"sort"
)

// NumFeatures is the number of per-place feature dimensions.
const NumFeatures = 15

// FeatureNames is the canonical feature order. Storage columns, model inputs
// and API payloads all follow it; reordering it invalidates trained models.
var FeatureNames = [NumFeatures]string{
	"natural_scenery",
	"cultural_richness",
	"adventure_level",
	"family_friendliness",
	"beach_quality",
	"mountain_terrain",
	"urban_vibrancy",
	"food_variety",
	"accommodation_quality",
	"transportation_accessibility",
	"cost_level",
	"safety",
	"relaxation_level",
	"nightlife_intensity",
	"historical_significance",
}

var featureIndex = func() map[string]int {
	m := make(map[string]int, NumFeatures)
	for i, name := range FeatureNames {
		m[name] = i
	}
	return m
}()

// Features holds one value per feature, in FeatureNames order.
type Features [NumFeatures]float64

// FeatureIndex returns the position of name, or -1.
func FeatureIndex(name string) int {
	if i, ok := featureIndex[name]; ok {
		return i
	}
	return -1
}

// IsFeatureName reports whether name is one of the known feature keys.
func IsFeatureName(name string) bool {
	_, ok := featureIndex[name]
	return ok
}

// FeaturesFromMap converts a keyed feature record. Missing keys default to 0;
// unknown keys are rejected.
func FeaturesFromMap(m map[string]float64) (Features, error) {
	var f Features
	var unknown []string
	for k, v := range m {
		i, ok := featureIndex[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		f[i] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Features{}, &ValidationError{Field: "features", Reason: fmt.Sprintf("unknown feature keys %v", unknown)}
	}
	return f, nil
}

// Map returns the features keyed by name.
func (f Features) Map() map[string]float64 {
	m := make(map[string]float64, NumFeatures)
	for i, name := range FeatureNames {
		m[name] = f[i]
	}
	return m
}
