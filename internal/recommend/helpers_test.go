// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tomtom215/restspot/internal/models"
)

// memStore is an in-memory Store used by engine and trainer tests.
type memStore struct {
	mu       sync.Mutex
	minVotes int

	nextVoteID int64
	votes      []memVote
	voted      map[string]map[int64]bool
	places     map[int64]*memPlace
	unproc     map[string]int64
	total      map[string]int64
	scores     map[string]map[int64]float64

	schemaErr   error
	setScoreErr error
	countersErr error
	corpusErr   error
	pageCalls   int
}

type memVote struct {
	id      int64
	userID  string
	placeID int64
	score   float64
}

type memPlace struct {
	meta     models.PlaceMetadata
	count    int
	eligible bool
	features models.Features
}

func newMemStore(minVotes int) *memStore {
	return &memStore{
		minVotes: minVotes,
		voted:    make(map[string]map[int64]bool),
		places:   make(map[int64]*memPlace),
		unproc:   make(map[string]int64),
		total:    make(map[string]int64),
		scores:   make(map[string]map[int64]float64),
	}
}

func (s *memStore) SubmitVote(_ context.Context, v *models.VoteSubmission) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.voted[v.UserID][v.PlaceID] {
		return false, nil
	}
	features, err := models.FeaturesFromMap(v.Features)
	if err != nil {
		return false, err
	}
	if s.voted[v.UserID] == nil {
		s.voted[v.UserID] = make(map[int64]bool)
	}
	s.voted[v.UserID][v.PlaceID] = true
	s.nextVoteID++
	s.votes = append(s.votes, memVote{id: s.nextVoteID, userID: v.UserID, placeID: v.PlaceID, score: v.Score})
	s.unproc[v.UserID]++
	s.total[v.UserID]++

	p, ok := s.places[v.PlaceID]
	if !ok {
		p = &memPlace{}
		s.places[v.PlaceID] = p
	}
	p.meta = v.Metadata()
	n := float64(p.count)
	for i := range features {
		p.features[i] = (p.features[i]*n + features[i]) / (n + 1)
	}
	p.count++
	if p.count >= s.minVotes {
		p.eligible = true
	}
	return true, nil
}

func (s *memStore) Counters(_ context.Context, userID string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countersErr != nil {
		return 0, 0, s.countersErr
	}
	return s.unproc[userID], s.total[userID], nil
}

func (s *memStore) ResetUnprocessed(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unproc[userID] = 0
	return nil
}

func (s *memStore) VotedPlaceIDs(_ context.Context, userID string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, v := range s.votes {
		if v.userID == userID {
			ids = append(ids, v.placeID)
		}
	}
	return ids, nil
}

func (s *memStore) VotedPlacesWithScores(_ context.Context, userID string) ([]models.VotedPlace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.VotedPlace
	for _, v := range s.votes {
		if v.userID != userID {
			continue
		}
		p := s.places[v.placeID]
		out = append(out, models.VotedPlace{PlaceID: v.placeID, Score: v.score, Type: p.meta.Type, Features: p.features})
	}
	return out, nil
}

func (s *memStore) AllEligiblePlaces(_ context.Context) ([]models.EligiblePlace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EligiblePlace
	for id, p := range s.places {
		if p.eligible {
			out = append(out, models.EligiblePlace{PlaceID: id, Type: p.meta.Type, Town: p.meta.Town, Features: p.features})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlaceID < out[j].PlaceID })
	return out, nil
}

func (s *memStore) SetScores(_ context.Context, userID string, placeIDs []int64, scores []float64) error {
	if len(placeIDs) != len(scores) {
		return &models.ArityMismatchError{What: "scores", Left: len(placeIDs), Right: len(scores)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setScoreErr != nil {
		return s.setScoreErr
	}
	if s.scores[userID] == nil {
		s.scores[userID] = make(map[int64]float64)
	}
	for i, id := range placeIDs {
		s.scores[userID][id] = scores[i]
	}
	return nil
}

func (s *memStore) BestPredicts(_ context.Context, userID string, limit int, exclude []int64, types, towns []string) ([]models.PlaceMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	skip := make(map[int64]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	type scored struct {
		meta  models.PlaceMetadata
		score float64
	}
	var all []scored
	for id, sc := range s.scores[userID] {
		p := s.places[id]
		if skip[id] || (len(types) > 0 && !contains(types, p.meta.Type)) || (len(towns) > 0 && !contains(towns, p.meta.Town)) {
			continue
		}
		all = append(all, scored{meta: p.meta, score: sc})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].meta.PlaceID < all[j].meta.PlaceID
	})
	out := make([]models.PlaceMetadata, 0, limit)
	for i := 0; i < len(all) && i < limit; i++ {
		out = append(out, all[i].meta)
	}
	return out, nil
}

func (s *memStore) VerifyCorpusSchema(context.Context) error {
	return s.schemaErr
}

func (s *memStore) TrainingRows(_ context.Context, after int64, limit int) ([]models.TrainingRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageCalls++
	if s.corpusErr != nil {
		return nil, s.corpusErr
	}
	var out []models.TrainingRow
	for _, v := range s.votes {
		p := s.places[v.placeID]
		if v.id <= after || !p.eligible {
			continue
		}
		out = append(out, models.TrainingRow{VoteID: v.id, UserID: v.userID, PlaceID: v.placeID, Score: v.score, Features: p.features})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// featureMap builds a complete feature map with every value set to base,
// then shifted per index by step.
func featureMap(base, step float64) map[string]float64 {
	m := make(map[string]float64, models.NumFeatures)
	for i, name := range models.FeatureNames {
		v := base + step*float64(i)
		m[name] = math.Max(0, math.Min(1, v))
	}
	return m
}

func testVote(userID string, placeID int64, score float64) *models.VoteSubmission {
	return &models.VoteSubmission{
		UserID:  userID,
		PlaceID: placeID,
		ExtractedPlace: models.ExtractedPlace{
			Name:      fmt.Sprintf("Place %d", placeID),
			Town:      "Lisbon",
			PlaceType: "cafe",
			Score:     score,
			Features:  featureMap(float64(placeID%10)/10, 0.01),
		},
	}
}

// seedCorpus gives nUsers users a vote on every one of nPlaces places.
func seedCorpus(s *memStore, nUsers, nPlaces int) {
	ctx := context.Background()
	for u := 0; u < nUsers; u++ {
		for p := 1; p <= nPlaces; p++ {
			score := math.Mod(float64(u*7+p*3), 10) / 10
			_, _ = s.SubmitVote(ctx, testVote(fmt.Sprintf("u%d", u), int64(p), score))
		}
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// stubPredictor returns a fixed function of each vector.
type stubPredictor struct {
	fn    func(v []float64) float64
	err   error
	calls int
	avail bool
}

func (p *stubPredictor) Predict(_ context.Context, vectors [][]float64) ([]float64, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		out[i] = p.fn(v)
	}
	return out, nil
}

func (p *stubPredictor) Available() bool { return p.avail }
