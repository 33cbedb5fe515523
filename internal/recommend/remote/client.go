// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/restspot/internal/config"
	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/metrics"
	"github.com/tomtom215/restspot/internal/models"
)

// PredictPath is the model endpoint served by every restspot instance.
const PredictPath = "/api/v1/model/predict"

const breakerName = "remote-predictor"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// StatusError is a non-200 answer from the remote model endpoint.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote predictor returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote predictor returned %d", e.StatusCode)
}

// envelope is the response shape of the model endpoint.
type envelope struct {
	Status string                        `json:"status"`
	Data   *models.VectorPredictResponse `json:"data"`
	Error  *models.APIError              `json:"error,omitempty"`
}

// Client scores vectors on another restspot instance.
//
// Circuit breaker configuration:
// - Max 3 requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
//
// Client errors (4xx) and caller cancellation do not count as failures.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]float64]
}

// NewClient builds a client from cfg. RateLimit 0 disables client-side limiting.
func NewClient(cfg *config.PredictorConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("predictor url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	c := &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	c.cb = gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return c, nil
}

// isSuccessful decides which errors count against the breaker.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode < 500
	}
	var arity *models.ArityMismatchError
	return errors.As(err, &arity)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Available reports whether the breaker is letting requests through.
func (c *Client) Available() bool {
	return c.cb.State() != gobreaker.StateOpen
}

// Predict implements recommend.Predictor.
func (c *Client) Predict(ctx context.Context, vectors [][]float64) (scores []float64, err error) {
	start := time.Now()
	defer func() { metrics.RecordPrediction("remote", time.Since(start), err) }()

	if len(vectors) == 0 {
		return []float64{}, nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	scores, err = c.cb.Execute(func() ([]float64, error) {
		return c.doPredict(ctx, vectors)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (c *Client) doPredict(ctx context.Context, vectors [][]float64) ([]float64, error) {
	body, err := json.Marshal(models.VectorPredictRequest{Vectors: vectors})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PredictPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote predictor request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env)

	if resp.StatusCode != http.StatusOK {
		se := &StatusError{StatusCode: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			se.Code = env.Error.Code
			se.Message = env.Error.Message
		}
		return nil, se
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("remote predictor response has no data")
	}
	if len(env.Data.Scores) != len(vectors) {
		return nil, &models.ArityMismatchError{What: "remote scores", Left: len(env.Data.Scores), Right: len(vectors)}
	}
	return env.Data.Scores, nil
}
