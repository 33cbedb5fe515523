// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestFeatureNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool, NumFeatures)
	for i, name := range FeatureNames {
		if seen[name] {
			t.Errorf("duplicate feature name %q", name)
		}
		seen[name] = true
		if FeatureIndex(name) != i {
			t.Errorf("FeatureIndex(%q) = %d, want %d", name, FeatureIndex(name), i)
		}
	}
	if FeatureIndex("nope") != -1 {
		t.Error("FeatureIndex of unknown name should be -1")
	}
}

func TestFeaturesFromMap(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]float64
		wantErr bool
		check   func(t *testing.T, f Features)
	}{
		{
			name: "missing keys default to zero",
			in:   map[string]float64{"safety": 0.9},
			check: func(t *testing.T, f Features) {
				if f[FeatureIndex("safety")] != 0.9 {
					t.Errorf("safety = %v", f[FeatureIndex("safety")])
				}
				if f[0] != 0 {
					t.Errorf("natural_scenery = %v, want 0", f[0])
				}
			},
		},
		{
			name:    "unknown key rejected",
			in:      map[string]float64{"safety": 0.9, "wifi": 1},
			wantErr: true,
		},
		{
			name:  "empty map",
			in:    map[string]float64{},
			check: func(t *testing.T, f Features) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FeaturesFromMap(tt.in)
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, f)
		})
	}
}

func TestFeaturesMapRoundTrip(t *testing.T) {
	var f Features
	for i := range f {
		f[i] = float64(i) / 100
	}
	back, err := FeaturesFromMap(f.Map())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != f {
		t.Errorf("round trip mismatch: %v vs %v", back, f)
	}
}

func TestNormalizeLabel(t *testing.T) {
	decomposed := "Cafe\u0301"
	composed := "Caf\u00e9"
	if NormalizeLabel("  "+decomposed+" ") != composed {
		t.Errorf("expected NFC-normalized, trimmed label")
	}
	got := NormalizeLabels([]string{" beach ", "", "  "})
	if len(got) != 1 || got[0] != "beach" {
		t.Errorf("NormalizeLabels = %v", got)
	}
	if NormalizeLabels(nil) != nil {
		t.Error("NormalizeLabels(nil) should be nil")
	}
}

func TestVoteSubmissionMetadata(t *testing.T) {
	v := VoteSubmission{
		UserID:  "tg1",
		PlaceID: 9,
		ExtractedPlace: ExtractedPlace{
			Name:      " Old Harbour ",
			Town:      " Porto ",
			PlaceType: "beach ",
		},
	}
	m := v.Metadata()
	if m.PlaceID != 9 || m.Name != "Old Harbour" || m.Town != "Porto" || m.Type != "beach" {
		t.Errorf("unexpected metadata %+v", m)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("upsert place: %w", &TransientStorageError{Op: "upsert", Err: cause})

	if !IsTransient(wrapped) {
		t.Error("expected wrapped transient error to be detected")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected TransientStorageError to unwrap to its cause")
	}
	if IsTransient(&SchemaError{Missing: []string{"score"}}) {
		t.Error("schema error is not transient")
	}

	msgs := []string{
		(&SchemaError{Missing: []string{"score", "safety"}}).Error(),
		(&InsufficientDataError{Reason: "empty corpus"}).Error(),
		(&ArityMismatchError{What: "scores", Left: 2, Right: 3}).Error(),
		(&ValidationError{Field: "score", Reason: "out of range"}).Error(),
	}
	for _, m := range msgs {
		if m == "" {
			t.Error("empty error message")
		}
	}
}
