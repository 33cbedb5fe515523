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
	"io"
	"regexp"
	"time"

	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/metrics"
	"github.com/tomtom215/restspot/internal/models"
)

// missingColumnPattern matches DuckDB binder errors for unknown columns.
var missingColumnPattern = regexp.MustCompile(`(?i)column "?([A-Za-z0-9_.]+)"? not found`)

// closeQuietly closes a resource and explicitly ignores any error.
// Use this for cleanup operations in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeRows closes a result set, logging failures.
func closeRows(rows io.Closer, op string) {
	if err := rows.Close(); err != nil {
		logging.Warn().Str("operation", op).Err(err).Msg("Failed to close rows")
	}
}

// rollback aborts tx unless it already committed.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("Failed to roll back transaction")
	}
}

// classify maps a driver error onto the storage error taxonomy.
// Timeouts and connection loss become TransientStorageError, unknown
// columns become SchemaError, everything else is wrapped with op.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var transient *models.TransientStorageError
	var schema *models.SchemaError
	var arity *models.ArityMismatchError
	if errors.As(err, &transient) || errors.As(err, &schema) || errors.As(err, &arity) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrConnDone),
		isConnectionError(err):
		return &models.TransientStorageError{Op: op, Err: err}
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	}

	if m := missingColumnPattern.FindStringSubmatch(err.Error()); m != nil {
		return &models.SchemaError{Missing: []string{m[1]}}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// errorType returns the metrics label for a classified error.
func errorType(err error) string {
	var transient *models.TransientStorageError
	var schema *models.SchemaError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &transient):
		return "transient"
	case errors.As(err, &schema):
		return "schema"
	case isTransactionConflict(err):
		return "conflict"
	default:
		return "other"
	}
}

// observe records latency and outcome of one storage operation.
func observe(op, table string, start time.Time, err error) {
	metrics.RecordDBQuery(op, table, time.Since(start), err, errorType(err))
}
