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

	"github.com/tomtom215/restspot/internal/models"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// featureColumns is the comma separated feature column list in canonical order.
var featureColumns = strings.Join(models.FeatureNames[:], ", ")

// prefixedFeatureColumns qualifies every feature column with alias.
func prefixedFeatureColumns(alias string) string {
	cols := make([]string, models.NumFeatures)
	for i, name := range models.FeatureNames {
		cols[i] = alias + "." + name
	}
	return strings.Join(cols, ", ")
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	var featureDefs strings.Builder
	for _, name := range models.FeatureNames {
		featureDefs.WriteString(",\n\t\t")
		featureDefs.WriteString(name)
		featureDefs.WriteString(" DOUBLE NOT NULL DEFAULT 0")
	}

	return []string{
		// Aggregated place features: running mean over every vote the place received.
		`CREATE TABLE IF NOT EXISTS places (
		place_id BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		town TEXT NOT NULL DEFAULT '',
		place_type TEXT NOT NULL DEFAULT '',
		vote_count INTEGER NOT NULL DEFAULT 0,
		eligible BOOLEAN NOT NULL DEFAULT false,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp` + featureDefs.String() + `
	);`,

		`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		total_votes BIGINT NOT NULL DEFAULT 0,
		unprocessed_votes BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	);`,

		`CREATE SEQUENCE IF NOT EXISTS votes_id_seq START 1;`,

		// One vote per (user, place); vote_id orders the ledger.
		`CREATE TABLE IF NOT EXISTS votes (
		vote_id BIGINT PRIMARY KEY DEFAULT nextval('votes_id_seq'),
		user_id TEXT NOT NULL,
		place_id BIGINT NOT NULL,
		score DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		UNIQUE (user_id, place_id)
	);`,

		`CREATE TABLE IF NOT EXISTS virtual_scores (
		user_id TEXT NOT NULL,
		place_id BIGINT NOT NULL,
		score DOUBLE NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (user_id, place_id)
	);`,
	}
}

// createIndexes creates the secondary indexes used by the read paths.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_votes_user ON votes(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_places_eligible ON places(eligible);`,
		`CREATE INDEX IF NOT EXISTS idx_virtual_scores_user ON virtual_scores(user_id);`,
	}
	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
