// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package models

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError rejects malformed input before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// TransientStorageError marks a storage failure that is safe to retry:
// timeouts, closed connections, unresolved write conflicts.
type TransientStorageError struct {
	Op  string
	Err error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("transient storage error during %s: %v", e.Op, e.Err)
}

func (e *TransientStorageError) Unwrap() error { return e.Err }

// SchemaError reports corpus columns required for training that are absent.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "training corpus is missing required columns: " + strings.Join(e.Missing, ", ")
}

// InsufficientDataError reports a corpus (or partition) too small to train on.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

// ArityMismatchError reports parallel sequences of different length.
type ArityMismatchError struct {
	What  string
	Left  int
	Right int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("arity mismatch in %s: %d vs %d", e.What, e.Left, e.Right)
}

// IsTransient reports whether err is (or wraps) a TransientStorageError.
func IsTransient(err error) bool {
	var t *TransientStorageError
	return errors.As(err, &t)
}
