// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/tomtom215/restspot/internal/config"
)

func TestNewS3Mirror_RequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := NewS3Mirror(&config.MirrorConfig{Region: "us-east-1"}); err == nil {
		t.Error("expected error without bucket")
	}
}

func TestS3Mirror_Upload(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		method string
		path   string
		body   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		method = r.Method
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mirror, err := NewS3Mirror(&config.MirrorConfig{
		Enabled:         true,
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "models",
		Prefix:          "restspot",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3Mirror failed: %v", err)
	}

	if err := mirror.Upload(context.Background(), "ridge_v1.gob.gz", []byte("payload")); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Errorf("method = %s, want PUT", method)
	}
	if path != "/models/restspot/ridge_v1.gob.gz" {
		t.Errorf("path = %s, want /models/restspot/ridge_v1.gob.gz", path)
	}
	if string(body) != "payload" {
		t.Errorf("body = %q, want payload", body)
	}
}

func TestS3Mirror_UploadError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	}))
	defer srv.Close()

	mirror, err := NewS3Mirror(&config.MirrorConfig{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "models",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3Mirror failed: %v", err)
	}
	if err := mirror.Upload(context.Background(), "ridge_v1.gob.gz", []byte("payload")); err == nil {
		t.Error("expected error from forbidden upload")
	}
}
