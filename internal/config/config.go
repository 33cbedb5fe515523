// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// DatabaseConfig configures the embedded DuckDB store.
type DatabaseConfig struct {
	Path                   string        `koanf:"path"`       // ":memory:" for an ephemeral store
	MaxMemory              string        `koanf:"max_memory"` // DuckDB memory limit, e.g. "1GB"
	Threads                int           `koanf:"threads"`    // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool          `koanf:"preserve_insertion_order"`
	QueryTimeout           time.Duration `koanf:"query_timeout"` // upper bound for a single storage operation
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// SecurityConfig configures admin authentication, rate limiting and CORS.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"` // jwt or none
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig configures aggregation, recalculation and the scoring model.
type RecommendConfig struct {
	// MinVotes is the vote count at which a place becomes eligible for
	// recommendation. Eligibility never reverts.
	MinVotes int `koanf:"min_votes"`

	// RecalcThreshold triggers a refresh once unprocessed >= threshold * total.
	RecalcThreshold float64 `koanf:"recalc_threshold"`

	Seed           int64   `koanf:"seed"`
	RidgeLambda    float64 `koanf:"ridge_lambda"`
	ModelPath      string  `koanf:"model_path"`
	ModelsToKeep   int     `koanf:"models_to_keep"`
	CorpusPageSize int     `koanf:"corpus_page_size"`

	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	TrainOnStartup bool          `koanf:"train_on_startup"`
	TrainInterval  time.Duration `koanf:"train_interval"` // 0 disables scheduled retraining
	TrainTimeout   time.Duration `koanf:"train_timeout"`

	Predictor PredictorConfig `koanf:"predictor"`
	Mirror    MirrorConfig    `koanf:"mirror"`
}

// PredictorConfig selects where scoring runs.
type PredictorConfig struct {
	Mode      string        `koanf:"mode"` // local or remote
	URL       string        `koanf:"url"`  // base URL of a remote restspot model endpoint
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second, 0 = unlimited
}

// MirrorConfig configures the optional S3-compatible copy of model artifacts.
type MirrorConfig struct {
	Enabled         bool   `koanf:"enabled"`
	Endpoint        string `koanf:"endpoint"`
	Region          string `koanf:"region"`
	Bucket          string `koanf:"bucket"`
	Prefix          string `koanf:"prefix"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
