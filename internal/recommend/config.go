// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/restspot/internal/config"
)

// Config contains the engine's tuning parameters.
type Config struct {
	// RecalcThreshold is the unprocessed/total vote ratio that triggers a refresh.
	RecalcThreshold float64 `json:"recalc_threshold"`

	// Seed is the holdout split seed used when a caller does not pick one.
	Seed int64 `json:"seed"`

	// RidgeLambda is the L2 penalty of the scoring model.
	RidgeLambda float64 `json:"ridge_lambda"`

	// CorpusPageSize is the number of votes read per corpus page.
	CorpusPageSize int `json:"corpus_page_size"`

	// ModelsToKeep is how many artifact versions survive pruning.
	ModelsToKeep int `json:"models_to_keep"`

	// DefaultLimit applies when a query asks for no limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any query limit.
	MaxLimit int `json:"max_limit"`

	// TrainTimeout bounds a single training run.
	TrainTimeout time.Duration `json:"train_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RecalcThreshold: DefaultRecalcThreshold,
		Seed:            228,
		RidgeLambda:     1.0,
		CorpusPageSize:  5000,
		ModelsToKeep:    5,
		DefaultLimit:    10,
		MaxLimit:        100,
		TrainTimeout:    30 * time.Minute,
	}
}

// ConfigFrom maps the application's recommend section onto an engine Config.
func ConfigFrom(rc *config.RecommendConfig) *Config {
	return &Config{
		RecalcThreshold: rc.RecalcThreshold,
		Seed:            rc.Seed,
		RidgeLambda:     rc.RidgeLambda,
		CorpusPageSize:  rc.CorpusPageSize,
		ModelsToKeep:    rc.ModelsToKeep,
		DefaultLimit:    rc.DefaultLimit,
		MaxLimit:        rc.MaxLimit,
		TrainTimeout:    rc.TrainTimeout,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.RecalcThreshold < 0 {
		return fmt.Errorf("recalc_threshold must be non-negative, got %f", c.RecalcThreshold)
	}
	if c.RidgeLambda <= 0 {
		return fmt.Errorf("ridge_lambda must be positive, got %f", c.RidgeLambda)
	}
	if c.CorpusPageSize < 1 {
		return fmt.Errorf("corpus_page_size must be positive, got %d", c.CorpusPageSize)
	}
	if c.ModelsToKeep < 1 {
		return fmt.Errorf("models_to_keep must be positive, got %d", c.ModelsToKeep)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %v", c.TrainTimeout)
	}
	return nil
}

// clampLimit applies the default and the cap to a requested limit.
func (c *Config) clampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}
