// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

// PlaceMetadata is the descriptive part of a place. It is overwritten by every
// vote (last writer wins) and returned to clients by the recommendation API.
type PlaceMetadata struct {
	PlaceID     int64  `json:"place_id" db:"place_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Town        string `json:"town" db:"town"`
	Type        string `json:"type" db:"place_type"`
}

// EligiblePlace is a recommendable place with its current feature means.
type EligiblePlace struct {
	PlaceID  int64
	Type     string
	Town     string
	Features Features
}

// VotedPlace is one entry of a user's history: the score they gave and the
// place's features as they are now, not as they were when the vote was cast.
type VotedPlace struct {
	PlaceID  int64
	Score    float64
	Type     string
	Features Features
}

// TrainingRow is one (vote, place) pair of the training corpus.
type TrainingRow struct {
	VoteID   int64
	UserID   string
	PlaceID  int64
	Score    float64
	Features Features
}
