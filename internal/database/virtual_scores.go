// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/restspot/internal/models"
)

const upsertScoreSQL = `INSERT INTO virtual_scores (user_id, place_id, score, updated_at)
	VALUES (?, ?, ?, now())
	ON CONFLICT (user_id, place_id) DO UPDATE SET
		score = EXCLUDED.score,
		updated_at = now()`

// SetScores upserts the user's predicted score for every place in one transaction.
// placeIDs and scores must have equal length; nothing is written otherwise.
func (db *DB) SetScores(ctx context.Context, userID string, placeIDs []int64, scores []float64) error {
	if len(placeIDs) != len(scores) {
		return &models.ArityMismatchError{What: "virtual scores", Left: len(placeIDs), Right: len(scores)}
	}
	if len(placeIDs) == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	start := time.Now()
	err := db.withRetry(ctx, "set_scores", func(ctx context.Context) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer rollback(tx)

		stmt, err := tx.PrepareContext(ctx, upsertScoreSQL)
		if err != nil {
			return err
		}
		defer closeQuietly(stmt)

		for i, placeID := range placeIDs {
			if _, err := stmt.ExecContext(ctx, userID, placeID, scores[i]); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	observe("set_scores", "virtual_scores", start, err)
	return err
}

// BestPredicts returns up to limit places ranked by the user's virtual score,
// highest first, ties broken by ascending place_id. Places in exclude are
// skipped; empty allow-lists do not restrict.
func (db *DB) BestPredicts(ctx context.Context, userID string, limit int, exclude []int64, allowedTypes, allowedTowns []string) ([]models.PlaceMetadata, error) {
	if limit <= 0 {
		return []models.PlaceMetadata{}, nil
	}

	query, args, err := buildBestPredictsQuery(userID, limit, exclude, allowedTypes, allowedTowns)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out := []models.PlaceMetadata{}
	err = db.x.SelectContext(ctx, &out, query, args...)
	err = classify("best_predicts", err)
	observe("best_predicts", "virtual_scores", start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildBestPredictsQuery assembles the ranking query, expanding list filters with sqlx.In.
func buildBestPredictsQuery(userID string, limit int, exclude []int64, allowedTypes, allowedTowns []string) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.place_id, p.name, p.description, p.town, p.place_type
	FROM virtual_scores vs
	JOIN places p ON p.place_id = vs.place_id
	WHERE vs.user_id = ?`)
	args := []interface{}{userID}

	if len(exclude) > 0 {
		sb.WriteString(" AND vs.place_id NOT IN (?)")
		args = append(args, exclude)
	}
	if len(allowedTypes) > 0 {
		sb.WriteString(" AND p.place_type IN (?)")
		args = append(args, allowedTypes)
	}
	if len(allowedTowns) > 0 {
		sb.WriteString(" AND p.town IN (?)")
		args = append(args, allowedTowns)
	}
	sb.WriteString(" ORDER BY vs.score DESC, vs.place_id ASC LIMIT ?")
	args = append(args, limit)

	query, expanded, err := sqlx.In(sb.String(), args...)
	if err != nil {
		return "", nil, fmt.Errorf("build best predicts query: %w", err)
	}
	return query, expanded, nil
}

// ScoreCount returns how many virtual scores are stored for the user.
func (db *DB) ScoreCount(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	err := db.x.GetContext(ctx, &n, `SELECT COUNT(*) FROM virtual_scores WHERE user_id = ?`, userID)
	return n, classify("score_count", err)
}
