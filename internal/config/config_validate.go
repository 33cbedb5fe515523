// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive, got %v", c.Database.QueryTimeout)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
		}
		if c.Security.SessionTimeout <= 0 {
			return fmt.Errorf("SESSION_TIMEOUT must be positive")
		}
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed in production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: jwt, none (got %q)", c.Security.AuthMode)
	}

	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production with authentication enabled; " +
			"set explicit origins, e.g. CORS_ORIGINS=https://app.example.com")
	}

	return c.validateRateLimits()
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second || c.Security.RateLimitWindow > time.Hour {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between 1s and 1h, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.MinVotes < 1 {
		return fmt.Errorf("MIN_VOTES must be >= 1, got %d", r.MinVotes)
	}
	if r.RecalcThreshold <= 0 || r.RecalcThreshold > 1 {
		return fmt.Errorf("RECALC_THRESHOLD must be in (0, 1], got %v", r.RecalcThreshold)
	}
	if r.RidgeLambda <= 0 {
		return fmt.Errorf("RECOMMEND_RIDGE_LAMBDA must be positive, got %v", r.RidgeLambda)
	}
	if r.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if r.ModelsToKeep < 1 {
		return fmt.Errorf("MODELS_TO_KEEP must be >= 1, got %d", r.ModelsToKeep)
	}
	if r.CorpusPageSize < 1 {
		return fmt.Errorf("RECOMMEND_CORPUS_PAGE_SIZE must be >= 1, got %d", r.CorpusPageSize)
	}
	if r.DefaultLimit < 1 || r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommendation limits invalid: default=%d max=%d", r.DefaultLimit, r.MaxLimit)
	}
	if r.TrainInterval < 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_INTERVAL must be >= 0, got %v", r.TrainInterval)
	}
	if r.TrainTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_TIMEOUT must be positive, got %v", r.TrainTimeout)
	}
	if err := r.validatePredictor(); err != nil {
		return err
	}
	return r.validateMirror()
}

func (r *RecommendConfig) validatePredictor() error {
	switch r.Predictor.Mode {
	case "local":
		return nil
	case "remote":
		if err := validateHTTPURL(r.Predictor.URL, "PREDICTOR_URL"); err != nil {
			return err
		}
		if r.Predictor.Timeout <= 0 {
			return fmt.Errorf("PREDICTOR_TIMEOUT must be positive when PREDICTOR_MODE=remote")
		}
		if r.Predictor.RateLimit < 0 {
			return fmt.Errorf("PREDICTOR_RATE_LIMIT must be >= 0")
		}
		return nil
	default:
		return fmt.Errorf("PREDICTOR_MODE must be local or remote, got %q", r.Predictor.Mode)
	}
}

func (r *RecommendConfig) validateMirror() error {
	m := r.Mirror
	if !m.Enabled {
		return nil
	}
	if m.Bucket == "" {
		return fmt.Errorf("MODEL_MIRROR_BUCKET is required when MODEL_MIRROR_ENABLED=true")
	}
	if m.AccessKeyID == "" || m.SecretAccessKey == "" {
		return fmt.Errorf("MODEL_MIRROR_KEY_ID and MODEL_MIRROR_SECRET are required when MODEL_MIRROR_ENABLED=true")
	}
	if m.Endpoint != "" {
		if err := validateHTTPURL(m.Endpoint, "MODEL_MIRROR_ENDPOINT"); err != nil {
			return err
		}
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production or prod.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}
