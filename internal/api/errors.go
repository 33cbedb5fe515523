// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/restspot/internal/models"
	"github.com/tomtom215/restspot/internal/recommend"
	"github.com/tomtom215/restspot/internal/recommend/remote"
)

// Error codes for API responses
const (
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeArityMismatch        = "ARITY_MISMATCH"
	ErrCodeInsufficientData     = "INSUFFICIENT_DATA"
	ErrCodeSchema               = "SCHEMA_ERROR"
	ErrCodeTrainingInProgress   = "TRAINING_IN_PROGRESS"
	ErrCodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
	ErrCodeModelUnavailable     = "MODEL_UNAVAILABLE"
	ErrCodePredictorUnavailable = "PREDICTOR_UNAVAILABLE"
	ErrCodeTimeout              = "TIMEOUT"
	ErrCodeTooManyRequests      = "TOO_MANY_REQUESTS"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// classifyError maps an engine error to an HTTP status and error code.
//
//	400 validation or arity
//	409 training already running
//	422 insufficient data or corpus schema
//	503 transient storage, missing model, or remote predictor down
//	504 deadline exceeded
//	500 anything else
func classifyError(err error) (status int, code string) {
	var (
		verr         *models.ValidationError
		arity        *models.ArityMismatchError
		insufficient *models.InsufficientDataError
		schema       *models.SchemaError
		remoteStatus *remote.StatusError
	)

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.As(err, &arity):
		return http.StatusBadRequest, ErrCodeArityMismatch
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, ErrCodeTrainingInProgress
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity, ErrCodeInsufficientData
	case errors.As(err, &schema):
		return http.StatusUnprocessableEntity, ErrCodeSchema
	case models.IsTransient(err):
		return http.StatusServiceUnavailable, ErrCodeStorageUnavailable
	case errors.Is(err, recommend.ErrModelUnavailable):
		return http.StatusServiceUnavailable, ErrCodeModelUnavailable
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests), errors.As(err, &remoteStatus):
		return http.StatusServiceUnavailable, ErrCodePredictorUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// respondEngineError writes err using classifyError. Server-side failures
// get a generic message; client errors echo the cause.
func respondEngineError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	apiErr := &models.APIError{Code: code, Message: message}
	var verr *models.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		apiErr.Details = map[string]interface{}{"field": verr.Field}
	}

	var logged error
	if status >= http.StatusInternalServerError {
		logged = err
	}
	respondErrorDetails(w, status, apiErr, logged)
}
