// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package config loads and validates Restspot configuration.
//
// Configuration is layered with koanf v2:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: $CONFIG_PATH, ./config.yaml or /etc/restspot/config.yaml
//  3. Environment variables, through an explicit name mapping
//
// Only mapped environment variables are read, so unrelated variables in the
// process environment cannot leak into the configuration.
//
// # Key Variables
//
//	DUCKDB_PATH             database file (":memory:" for tests)
//	HTTP_PORT               listener port (default 8080)
//	AUTH_MODE               jwt or none
//	JWT_SECRET              HS256 secret for admin tokens, 32+ characters
//	MIN_VOTES               votes needed before a place is recommendable (default 3)
//	RECALC_THRESHOLD        unprocessed/total ratio that triggers a refresh (default 0.10)
//	MODEL_PATH              directory for versioned model artifacts
//	PREDICTOR_MODE          local or remote
//	MODEL_MIRROR_ENABLED    copy artifacts to an S3-compatible bucket
//
// Load returns a validated *Config or an error naming the offending variable.
package config
