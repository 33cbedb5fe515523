// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package database

import (
	"context"
	"testing"
)

func TestTrainingRows_PagesEligibleVotes(t *testing.T) {
	db := setupTestDB(t, 2)
	ctx := context.Background()

	// Places 1 and 2 become eligible; place 3 keeps a single vote.
	mustSubmit(t, db, testVote("tg1", 1, 0.1, uniformFeatures(0.1)))
	mustSubmit(t, db, testVote("tg1", 3, 0.3, uniformFeatures(0.3)))
	mustSubmit(t, db, testVote("tg2", 1, 0.2, uniformFeatures(0.2)))
	mustSubmit(t, db, testVote("tg2", 2, 0.4, uniformFeatures(0.4)))
	mustSubmit(t, db, testVote("tg3", 2, 0.6, uniformFeatures(0.6)))

	var all []int64
	var after int64
	pages := 0
	for {
		rows, err := db.TrainingRows(ctx, after, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) == 0 {
			break
		}
		pages++
		for _, r := range rows {
			if r.PlaceID == 3 {
				t.Errorf("ineligible place 3 in corpus: %+v", r)
			}
			if r.VoteID <= after {
				t.Errorf("vote_id %d not increasing past %d", r.VoteID, after)
			}
			all = append(all, r.PlaceID)
			after = r.VoteID
		}
	}

	if pages != 2 {
		t.Errorf("pages = %d, want 2", pages)
	}
	if want := []int64{1, 1, 2, 2}; !equalIDs(all, want) {
		t.Errorf("corpus places = %v, want %v", all, want)
	}
}

func TestVerifyCorpusSchema(t *testing.T) {
	db := setupTestDB(t, 1)
	if err := db.VerifyCorpusSchema(context.Background()); err != nil {
		t.Fatalf("fresh schema should verify: %v", err)
	}
}

func TestMissingCorpusColumns(t *testing.T) {
	present := make(map[string]bool)
	for table, cols := range corpusColumns() {
		for _, c := range cols {
			present[table+"."+c] = true
		}
	}
	if got := missingCorpusColumns(present); len(got) != 0 {
		t.Fatalf("complete schema reported missing %v", got)
	}

	delete(present, "places.safety")
	delete(present, "votes.score")
	got := missingCorpusColumns(present)
	if len(got) != 2 || got[0] != "places.safety" || got[1] != "votes.score" {
		t.Errorf("missing = %v, want [places.safety votes.score]", got)
	}
}
