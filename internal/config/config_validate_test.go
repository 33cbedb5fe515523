// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults with secret", mutate: func(*Config) {}},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "DUCKDB_PATH",
		},
		{
			name:    "zero query timeout",
			mutate:  func(c *Config) { c.Database.QueryTimeout = 0 },
			wantErr: "DUCKDB_QUERY_TIMEOUT",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Security.AuthMode = "basic" },
			wantErr: "AUTH_MODE",
		},
		{
			name: "auth none in production",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Server.Environment = "production"
			},
			wantErr: "AUTH_MODE=none",
		},
		{
			name:    "wildcard cors in production",
			mutate:  func(c *Config) { c.Server.Environment = "prod" },
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "rate limit window too small",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = time.Millisecond },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit ignored when disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name:    "min votes zero",
			mutate:  func(c *Config) { c.Recommend.MinVotes = 0 },
			wantErr: "MIN_VOTES",
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.Recommend.RecalcThreshold = 1.5 },
			wantErr: "RECALC_THRESHOLD",
		},
		{
			name:    "threshold zero",
			mutate:  func(c *Config) { c.Recommend.RecalcThreshold = 0 },
			wantErr: "RECALC_THRESHOLD",
		},
		{
			name:    "non-positive lambda",
			mutate:  func(c *Config) { c.Recommend.RidgeLambda = 0 },
			wantErr: "RIDGE_LAMBDA",
		},
		{
			name:    "max limit below default",
			mutate:  func(c *Config) { c.Recommend.MaxLimit = 1 },
			wantErr: "limits",
		},
		{
			name:    "remote predictor without url",
			mutate:  func(c *Config) { c.Recommend.Predictor.Mode = "remote" },
			wantErr: "PREDICTOR_URL",
		},
		{
			name: "remote predictor with url",
			mutate: func(c *Config) {
				c.Recommend.Predictor.Mode = "remote"
				c.Recommend.Predictor.URL = "http://model.internal:8080"
			},
		},
		{
			name:    "mirror without bucket",
			mutate:  func(c *Config) { c.Recommend.Mirror.Enabled = true },
			wantErr: "MODEL_MIRROR_BUCKET",
		},
		{
			name: "mirror complete",
			mutate: func(c *Config) {
				c.Recommend.Mirror = MirrorConfig{
					Enabled:         true,
					Endpoint:        "https://s3.example.com",
					Bucket:          "models",
					AccessKeyID:     "id",
					SecretAccessKey: "secret",
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:8080", false},
		{"https://model.example.com/", false},
		{"ftp://model.example.com", true},
		{"http://", true},
		{"http://host/path", true},
		{"http://host?x=1", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateHTTPURL(tt.url, "FIELD")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := s.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", got)
	}
}
