// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

/*
database_connection.go - Pool configuration, error detection and write retries

Connection Pool Configuration:
  - MaxOpenConns: Based on CPU count for parallelism
  - MaxIdleConns: 2 for efficient connection reuse
  - ConnMaxLifetime: 1 hour to prevent stale connections
  - ConnMaxIdleTime: 5 minutes for idle connection cleanup

Write Concurrency:
DuckDB uses optimistic concurrency, so two transactions touching the same row
abort one of them with a "Transaction conflict". Writers take an in-process
per-row mutex (one per place, one per user) and retry the remaining
conflicts with exponential backoff. INTERNAL errors are never retried.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/restspot/internal/metrics"
)

const maxRetries = 3

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isConnectionError checks if an error indicates database connection loss
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"database is closed",
	} {
		if strings.Contains(errMsg, marker) {
			return true
		}
	}
	return false
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "cannot update a table that has been altered")
}

// isInternalError checks if an error is a DuckDB INTERNAL error
func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "INTERNAL Error")
}

// withRetry runs fn, retrying transaction conflicts with 1ms, 2ms, 4ms backoff.
func (db *DB) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return classify(op, ctx.Err())
		}
		if isInternalError(err) {
			return fmt.Errorf("%s: DuckDB internal error: %w", op, err)
		}
		if !isTransactionConflict(err) {
			return classify(op, err)
		}
		if attempt < maxRetries-1 {
			metrics.DBConflictRetries.WithLabelValues(op).Inc()
			backoff := time.Millisecond * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return classify(op, ctx.Err())
			}
		}
	}
	return fmt.Errorf("%s: max retries exceeded: %w", op, lastErr)
}

// lockKey returns the locked mutex for key in m.
func lockKey(m *sync.Map, key any) *sync.Mutex {
	muInterface, _ := m.LoadOrStore(key, &sync.Mutex{})
	mu, ok := muInterface.(*sync.Mutex)
	if !ok {
		mu = &sync.Mutex{}
		m.Store(key, mu)
	}
	mu.Lock()
	return mu
}

// acquirePlaceLock acquires a per-place mutex lock
func (db *DB) acquirePlaceLock(placeID int64) *sync.Mutex {
	return lockKey(&db.placeLocks, placeID)
}

// acquireUserLock acquires a per-user mutex lock
func (db *DB) acquireUserLock(userID string) *sync.Mutex {
	return lockKey(&db.userLocks, userID)
}
