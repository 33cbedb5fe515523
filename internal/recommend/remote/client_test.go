// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/restspot/internal/config"
	"github.com/tomtom215/restspot/internal/models"
)

func writeEnvelope(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// sumServer answers each vector with the sum of its elements.
func sumServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.Method != http.MethodPost || r.URL.Path != PredictPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req models.VectorPredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeEnvelope(w, http.StatusBadRequest, models.APIResponse{Status: "error", Error: &models.APIError{Code: "VALIDATION_ERROR", Message: err.Error()}})
			return
		}
		scores := make([]float64, len(req.Vectors))
		for i, v := range req.Vectors {
			for _, x := range v {
				scores[i] += x
			}
		}
		writeEnvelope(w, http.StatusOK, models.APIResponse{Status: "success", Data: models.VectorPredictResponse{Scores: scores}})
	}))
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(&config.PredictorConfig{Mode: "remote", URL: url + "/", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient_RequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(&config.PredictorConfig{Mode: "remote"}); err == nil {
		t.Error("expected error without url")
	}
}

func TestClient_Predict(t *testing.T) {
	t.Parallel()

	srv := sumServer(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	scores, err := c.Predict(context.Background(), [][]float64{{1, 2}, {0.5, 0.25}})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(scores) != 2 || scores[0] != 3 || scores[1] != 0.75 {
		t.Errorf("scores = %v, want [3 0.75]", scores)
	}
	if !c.Available() {
		t.Error("client unavailable after success")
	}
}

func TestClient_EmptyInputSkipsRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := sumServer(t, &hits)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	scores, err := c.Predict(context.Background(), nil)
	if err != nil || len(scores) != 0 {
		t.Errorf("Predict(nil) = %v, %v", scores, err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times for empty input", hits.Load())
	}
}

func TestClient_ErrorResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "model unavailable",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeEnvelope(w, http.StatusServiceUnavailable, models.APIResponse{Status: "error", Error: &models.APIError{Code: "MODEL_UNAVAILABLE", Message: "no model"}})
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable || se.Code != "MODEL_UNAVAILABLE" {
					t.Errorf("error = %v, want 503 MODEL_UNAVAILABLE", err)
				}
			},
		},
		{
			name: "wrong number of scores",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeEnvelope(w, http.StatusOK, models.APIResponse{Status: "success", Data: models.VectorPredictResponse{Scores: []float64{1}}})
			},
			check: func(t *testing.T, err error) {
				var arity *models.ArityMismatchError
				if !errors.As(err, &arity) {
					t.Errorf("error = %v, want ArityMismatchError", err)
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("not json"))
			},
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Error("expected decode error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			c := newTestClient(t, srv.URL)
			_, err := c.Predict(context.Background(), [][]float64{{1}, {2}})
			tt.check(t, err)
		})
	}
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	for i := 0; i < 10; i++ {
		if _, err := c.Predict(context.Background(), [][]float64{{1}}); err == nil {
			t.Fatal("expected error from failing server")
		}
	}
	if c.Available() {
		t.Fatal("breaker still closed after 10 consecutive failures")
	}

	_, err := c.Predict(context.Background(), [][]float64{{1}})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if hits.Load() != 10 {
		t.Errorf("server hit %d times, want 10 (open breaker must not call out)", hits.Load())
	}
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, models.APIResponse{Status: "error", Error: &models.APIError{Code: "ARITY_MISMATCH"}})
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	for i := 0; i < 12; i++ {
		_, _ = c.Predict(context.Background(), [][]float64{{1}})
	}
	if !c.Available() {
		t.Error("4xx responses opened the breaker")
	}
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	srv := sumServer(t, nil)
	defer srv.Close()
	c, err := NewClient(&config.PredictorConfig{URL: srv.URL, Timeout: time.Second, RateLimit: 0.001})
	if err != nil {
		t.Fatal(err)
	}

	// The first call spends the single token; the next must wait far longer
	// than the context allows.
	if _, err := c.Predict(context.Background(), [][]float64{{1}}); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Predict(ctx, [][]float64{{1}}); err == nil {
		t.Error("expected rate limit error")
	}
}

func TestIsSuccessful(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"cancelled", context.Canceled, true},
		{"client error", &StatusError{StatusCode: 400}, true},
		{"server error", &StatusError{StatusCode: 502}, false},
		{"arity", &models.ArityMismatchError{What: "x"}, true},
		{"transport", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSuccessful(tt.err); got != tt.want {
				t.Errorf("isSuccessful(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
