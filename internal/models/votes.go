// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

// ExtractedPlace is the structured record produced from a conversation by the
// feature-extraction service. Features must carry exactly the known keys.
type ExtractedPlace struct {
	Name        string             `json:"name" validate:"required,max=256"`
	Description string             `json:"description" validate:"max=4096"`
	Town        string             `json:"town" validate:"max=128"`
	PlaceType   string             `json:"place_type" validate:"required,max=64"`
	Score       float64            `json:"score" validate:"unitinterval"`
	Features    map[string]float64 `json:"features" validate:"required,featurekeys"`
}

// VoteSubmission is one user's rating of one place, with the extraction
// record describing the place.
type VoteSubmission struct {
	UserID  string `json:"user_id" validate:"required,max=128"`
	PlaceID int64  `json:"place_id" validate:"required,gt=0"`
	ExtractedPlace
}

// Metadata returns the descriptive fields destined for the place row.
func (v *VoteSubmission) Metadata() PlaceMetadata {
	return PlaceMetadata{
		PlaceID:     v.PlaceID,
		Name:        NormalizeLabel(v.Name),
		Description: v.Description,
		Town:        NormalizeLabel(v.Town),
		Type:        NormalizeLabel(v.PlaceType),
	}
}

// SubmitResult reports what a vote submission did. Recorded is false for a
// duplicate (user, place) vote, which is ignored without error.
type SubmitResult struct {
	Recorded     bool
	Recalculated bool
}

// RecommendationQuery selects recommendations for one user. Empty AllowedTypes
// or AllowedTowns mean no restriction.
type RecommendationQuery struct {
	UserID       string
	Limit        int
	ExcludeVoted bool
	AllowedTypes []string
	AllowedTowns []string
}

// NewRecommendationQuery returns a query with ExcludeVoted set.
func NewRecommendationQuery(userID string, limit int) RecommendationQuery {
	return RecommendationQuery{UserID: userID, Limit: limit, ExcludeVoted: true}
}
