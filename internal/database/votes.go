// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/models"
)

const (
	ensureUserSQL = `INSERT INTO users (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING`

	insertVoteSQL = `INSERT INTO votes (user_id, place_id, score) VALUES (?, ?, ?)
		ON CONFLICT (user_id, place_id) DO NOTHING`

	bumpCountersSQL = `UPDATE users
		SET total_votes = total_votes + 1, unprocessed_votes = unprocessed_votes + 1
		WHERE user_id = ?`
)

// insertVote adds the ledger row and bumps the user's counters when the row is new.
// It reports false for an existing (user, place) pair and changes nothing.
func insertVote(ctx context.Context, ext sqlx.ExtContext, userID string, placeID int64, score float64) (bool, error) {
	if _, err := ext.ExecContext(ctx, ensureUserSQL, userID); err != nil {
		return false, err
	}
	res, err := ext.ExecContext(ctx, insertVoteSQL, userID, placeID, score)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if _, err := ext.ExecContext(ctx, bumpCountersSQL, userID); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureUser creates the user row if it does not exist.
func (db *DB) EnsureUser(ctx context.Context, userID string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	start := time.Now()
	err := db.withRetry(ctx, "ensure_user", func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, ensureUserSQL, userID)
		return err
	})
	observe("ensure_user", "users", start, err)
	return err
}

// RecordVote appends a vote to the ledger and increments the user's counters.
// It returns false, with no side effects, when the user already voted for the place.
func (db *DB) RecordVote(ctx context.Context, userID string, placeID int64, score float64) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	var recorded bool
	start := time.Now()
	err := db.withRetry(ctx, "record_vote", func(ctx context.Context) error {
		tx, err := db.x.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer rollback(tx.Tx)

		recorded, err = insertVote(ctx, tx, userID, placeID, score)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	observe("record_vote", "votes", start, err)
	if err != nil {
		return false, err
	}
	return recorded, nil
}

// SubmitVote records the vote and folds its features into the place aggregate
// in a single transaction. A duplicate (user, place) vote returns false and
// leaves both the counters and the aggregate untouched.
func (db *DB) SubmitVote(ctx context.Context, vote *models.VoteSubmission) (bool, error) {
	features, err := models.FeaturesFromMap(vote.Features)
	if err != nil {
		return false, err
	}
	meta := vote.Metadata()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// Always user before place.
	userMu := db.acquireUserLock(vote.UserID)
	defer userMu.Unlock()
	placeMu := db.acquirePlaceLock(vote.PlaceID)
	defer placeMu.Unlock()

	var recorded bool
	start := time.Now()
	err = db.withRetry(ctx, "submit_vote", func(ctx context.Context) error {
		tx, err := db.x.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer rollback(tx.Tx)

		recorded, err = insertVote(ctx, tx, vote.UserID, vote.PlaceID, vote.Score)
		if err != nil {
			return err
		}
		if !recorded {
			return nil
		}
		if err := db.upsertPlace(ctx, tx, meta, features); err != nil {
			return err
		}
		return tx.Commit()
	})
	observe("submit_vote", "votes", start, err)
	if err != nil {
		return false, err
	}

	logging.Debug().
		Str("user_id", vote.UserID).
		Int64("place_id", vote.PlaceID).
		Bool("recorded", recorded).
		Msg("Vote submitted")
	return recorded, nil
}

// Counters returns the user's unprocessed and total vote counts; (0, 0) for unknown users.
func (db *DB) Counters(ctx context.Context, userID string) (unprocessed, total int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var row struct {
		Unprocessed int64 `db:"unprocessed_votes"`
		Total       int64 `db:"total_votes"`
	}
	start := time.Now()
	err = db.x.GetContext(ctx, &row,
		`SELECT unprocessed_votes, total_votes FROM users WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	err = classify("counters", err)
	observe("counters", "users", start, err)
	if err != nil {
		return 0, 0, err
	}
	return row.Unprocessed, row.Total, nil
}

// ResetUnprocessed zeroes the user's unprocessed vote counter.
func (db *DB) ResetUnprocessed(ctx context.Context, userID string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	start := time.Now()
	err := db.withRetry(ctx, "reset_unprocessed", func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx,
			`UPDATE users SET unprocessed_votes = 0 WHERE user_id = ?`, userID)
		return err
	})
	observe("reset_unprocessed", "users", start, err)
	return err
}

// VotedPlaceIDs returns the places the user voted for, in vote order.
func (db *DB) VotedPlaceIDs(ctx context.Context, userID string) ([]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var ids []int64
	err := db.x.SelectContext(ctx, &ids,
		`SELECT place_id FROM votes WHERE user_id = ? ORDER BY vote_id`, userID)
	err = classify("voted_place_ids", err)
	observe("voted_place_ids", "votes", start, err)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// VotedPlacesWithScores returns the user's votes, in vote order, joined with
// each place's current type and aggregated features.
func (db *DB) VotedPlacesWithScores(ctx context.Context, userID string) ([]models.VotedPlace, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	history, err := db.votedPlacesWithScores(ctx, userID)
	observe("voted_places_with_scores", "votes", start, err)
	return history, err
}

func (db *DB) votedPlacesWithScores(ctx context.Context, userID string) ([]models.VotedPlace, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT v.place_id, v.score, p.place_type, `+prefixedFeatureColumns("p")+`
		 FROM votes v
		 JOIN places p ON p.place_id = v.place_id
		 WHERE v.user_id = ?
		 ORDER BY v.vote_id`, userID)
	if err != nil {
		return nil, classify("voted_places_with_scores", err)
	}
	defer closeRows(rows, "voted_places_with_scores")

	var history []models.VotedPlace
	for rows.Next() {
		var vp models.VotedPlace
		dest := make([]any, 0, 3+models.NumFeatures)
		dest = append(dest, &vp.PlaceID, &vp.Score, &vp.Type)
		for i := range vp.Features {
			dest = append(dest, &vp.Features[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, classify("voted_places_with_scores", err)
		}
		history = append(history, vp)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("voted_places_with_scores", err)
	}
	return history, nil
}
