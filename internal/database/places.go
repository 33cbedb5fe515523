// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/restspot/internal/models"
)

// PlaceAggregate is the stored state of one place row.
type PlaceAggregate struct {
	models.PlaceMetadata
	VoteCount int
	Eligible  bool
	Features  models.Features
}

// upsertPlaceSQL folds one vote into the running mean of every feature.
// Every SET expression reads the pre-update row, so vote_count below is n.
var upsertPlaceSQL = func() string {
	var insertCols, insertVals, updates strings.Builder
	for _, name := range models.FeatureNames {
		insertCols.WriteString(", " + name)
		insertVals.WriteString(", :" + name)
		fmt.Fprintf(&updates, ",\n\t\t%[1]s = CASE WHEN vote_count > 0 THEN (%[1]s * vote_count + EXCLUDED.%[1]s) / (vote_count + 1) ELSE EXCLUDED.%[1]s END", name)
	}
	return `INSERT INTO places (place_id, name, description, town, place_type, vote_count, eligible, updated_at` + insertCols.String() + `)
	VALUES (:place_id, :name, :description, :town, :place_type, 1, :first_eligible, now()` + insertVals.String() + `)
	ON CONFLICT (place_id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		town = EXCLUDED.town,
		place_type = EXCLUDED.place_type,
		eligible = eligible OR (vote_count + 1) >= :min_votes,
		updated_at = now(),
		vote_count = vote_count + 1` + updates.String()
}()

// placeArgs builds the named parameters for upsertPlaceSQL.
func (db *DB) placeArgs(meta models.PlaceMetadata, features models.Features) map[string]interface{} {
	args := map[string]interface{}{
		"place_id":       meta.PlaceID,
		"name":           meta.Name,
		"description":    meta.Description,
		"town":           meta.Town,
		"place_type":     meta.Type,
		"first_eligible": db.minVotes <= 1,
		"min_votes":      db.minVotes,
	}
	for i, name := range models.FeatureNames {
		args[name] = features[i]
	}
	return args
}

// upsertPlace executes the aggregate upsert on ext (a *sqlx.DB or *sqlx.Tx).
func (db *DB) upsertPlace(ctx context.Context, ext sqlx.ExtContext, meta models.PlaceMetadata, features models.Features) error {
	query, args, err := ext.BindNamed(upsertPlaceSQL, db.placeArgs(meta, features))
	if err != nil {
		return fmt.Errorf("bind place upsert: %w", err)
	}
	_, err = ext.ExecContext(ctx, query, args...)
	return err
}

// UpsertPlaceVote folds one vote's features into the place aggregate.
// The row is created on the first vote; metadata is last-writer-wins.
func (db *DB) UpsertPlaceVote(ctx context.Context, placeID int64, meta models.PlaceMetadata, features models.Features) error {
	if placeID <= 0 {
		return &models.ValidationError{Field: "place_id", Reason: "must be positive"}
	}
	meta.PlaceID = placeID

	mu := db.acquirePlaceLock(placeID)
	defer mu.Unlock()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.withRetry(ctx, "upsert_place_vote", func(ctx context.Context) error {
		return db.upsertPlace(ctx, db.x, meta, features)
	})
	observe("upsert_place_vote", "places", start, err)
	return err
}

// scanEligiblePlace reads place_id, place_type, town and the feature columns.
func scanEligiblePlace(rows *sql.Rows) (models.EligiblePlace, error) {
	var p models.EligiblePlace
	dest := make([]any, 0, 3+models.NumFeatures)
	dest = append(dest, &p.PlaceID, &p.Type, &p.Town)
	for i := range p.Features {
		dest = append(dest, &p.Features[i])
	}
	err := rows.Scan(dest...)
	return p, err
}

// AllEligiblePlaces returns every eligible place ordered by place_id.
func (db *DB) AllEligiblePlaces(ctx context.Context) ([]models.EligiblePlace, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	places, err := db.allEligiblePlaces(ctx)
	observe("all_eligible_places", "places", start, err)
	return places, err
}

func (db *DB) allEligiblePlaces(ctx context.Context) ([]models.EligiblePlace, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT place_id, place_type, town, `+featureColumns+`
		 FROM places WHERE eligible ORDER BY place_id`)
	if err != nil {
		return nil, classify("all_eligible_places", err)
	}
	defer closeRows(rows, "all_eligible_places")

	var places []models.EligiblePlace
	for rows.Next() {
		p, err := scanEligiblePlace(rows)
		if err != nil {
			return nil, classify("all_eligible_places", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("all_eligible_places", err)
	}
	return places, nil
}

// PlaceMetadata returns the descriptive fields of the given places ordered by place_id.
// Unknown ids are skipped.
func (db *DB) PlaceMetadata(ctx context.Context, ids []int64) ([]models.PlaceMetadata, error) {
	if len(ids) == 0 {
		return []models.PlaceMetadata{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query, args, err := sqlx.In(
		`SELECT place_id, name, description, town, place_type
		 FROM places WHERE place_id IN (?) ORDER BY place_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("build place metadata query: %w", err)
	}

	start := time.Now()
	var out []models.PlaceMetadata
	err = db.x.SelectContext(ctx, &out, db.x.Rebind(query), args...)
	err = classify("place_metadata", err)
	observe("place_metadata", "places", start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetPlace returns the full aggregate row for placeID, or nil when the place is unknown.
func (db *DB) GetPlace(ctx context.Context, placeID int64) (*PlaceAggregate, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var p PlaceAggregate
	dest := make([]any, 0, 7+models.NumFeatures)
	dest = append(dest, &p.PlaceID, &p.Name, &p.Description, &p.Town, &p.Type, &p.VoteCount, &p.Eligible)
	for i := range p.Features {
		dest = append(dest, &p.Features[i])
	}

	err := db.conn.QueryRowContext(ctx,
		`SELECT place_id, name, description, town, place_type, vote_count, eligible, `+featureColumns+`
		 FROM places WHERE place_id = ?`, placeID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get_place", err)
	}
	return &p, nil
}
