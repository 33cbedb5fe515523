// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package database

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/restspot/internal/models"
)

// corpusColumns lists, per table, the columns the training corpus reads.
func corpusColumns() map[string][]string {
	places := append([]string{"place_id", "eligible"}, models.FeatureNames[:]...)
	return map[string][]string{
		"votes":  {"vote_id", "user_id", "place_id", "score"},
		"places": places,
	}
}

// VerifyCorpusSchema checks that every column the training corpus needs exists.
// Missing columns are reported together as a SchemaError.
func (db *DB) VerifyCorpusSchema(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var rows []struct {
		Table  string `db:"table_name"`
		Column string `db:"column_name"`
	}
	start := time.Now()
	err := db.x.SelectContext(ctx, &rows,
		`SELECT table_name, column_name FROM information_schema.columns
		 WHERE table_name IN ('votes', 'places')`)
	err = classify("verify_corpus_schema", err)
	observe("verify_corpus_schema", "information_schema", start, err)
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.Table+"."+r.Column] = true
	}
	if missing := missingCorpusColumns(present); len(missing) > 0 {
		return &models.SchemaError{Missing: missing}
	}
	return nil
}

// missingCorpusColumns returns the sorted "table.column" names absent from present.
func missingCorpusColumns(present map[string]bool) []string {
	var missing []string
	for table, cols := range corpusColumns() {
		for _, col := range cols {
			if !present[table+"."+col] {
				missing = append(missing, table+"."+col)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

// TrainingRows returns up to limit votes on eligible places with vote_id > afterVoteID,
// ordered by vote_id. Callers page by passing the last VoteID they saw.
func (db *DB) TrainingRows(ctx context.Context, afterVoteID int64, limit int) ([]models.TrainingRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := db.trainingRows(ctx, afterVoteID, limit)
	observe("training_rows", "votes", start, err)
	return out, err
}

func (db *DB) trainingRows(ctx context.Context, afterVoteID int64, limit int) ([]models.TrainingRow, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT v.vote_id, v.user_id, v.place_id, v.score, `+prefixedFeatureColumns("p")+`
		 FROM votes v
		 JOIN places p ON p.place_id = v.place_id
		 WHERE p.eligible AND v.vote_id > ?
		 ORDER BY v.vote_id
		 LIMIT ?`, afterVoteID, limit)
	if err != nil {
		return nil, classify("training_rows", err)
	}
	defer closeRows(rows, "training_rows")

	out := make([]models.TrainingRow, 0, limit)
	for rows.Next() {
		var r models.TrainingRow
		dest := make([]any, 0, 4+models.NumFeatures)
		dest = append(dest, &r.VoteID, &r.UserID, &r.PlaceID, &r.Score)
		for i := range r.Features {
			dest = append(dest, &r.Features[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, classify("training_rows", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("training_rows", err)
	}
	return out, nil
}
