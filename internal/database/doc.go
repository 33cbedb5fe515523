// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package database is the DuckDB-backed storage layer for Restspot.
//
// # Overview
//
// Three stores share one embedded DuckDB file:
//
//   - places: per-place running mean of the 15 feature scores, vote count
//     and an eligibility flag that flips once vote_count reaches MinVotes
//   - users and votes: the vote ledger, one row per (user, place), plus the
//     per-user total and unprocessed counters
//   - virtual_scores: the latest predicted score of every eligible place for
//     every user whose profile has been refreshed
//
// # Files
//
//   - database.go: lifecycle (open, initialize, ping, checkpoint, close)
//   - database_connection.go: pool settings, error detection, conflict retries
//   - database_schema.go, migrations.go: tables, indexes, versioned migrations
//   - places.go: aggregate upsert and eligible place reads
//   - votes.go: ledger writes, counters and per-user histories
//   - virtual_scores.go: SetScores and BestPredicts
//   - corpus.go: paginated training corpus and schema verification
//   - errors.go: error classification and cleanup helpers
//
// # Concurrency
//
// Writers serialize on an in-process mutex per user and per place, always
// taking the user lock first. SubmitVote inserts the vote, bumps the user's
// counters and updates the place aggregate in one transaction, so a duplicate
// vote or a failure leaves every table untouched.
//
// # Errors
//
// Timeouts and connection loss surface as *models.TransientStorageError,
// unknown columns as *models.SchemaError. Each operation is timed and counted
// through the metrics package.
//
// # Usage
//
//	db, err := database.New(&cfg.Database, cfg.Recommend.MinVotes)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	recorded, err := db.SubmitVote(ctx, &vote)
package database
