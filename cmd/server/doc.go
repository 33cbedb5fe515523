// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

/*
Package main is the entry point for the Restspot server.

Restspot collects crowd ratings of rest spots (benches, shelters, viewpoints,
picnic areas) and turns them into per-user recommendations. Users vote on
places; a ridge regression model trained on the vote corpus estimates how
each user would rate the places they have not visited yet.

# Application Architecture

	RootSupervisor ("restspot")
	├── DataSupervisor ("data-layer")
	│   └── TrainingService (startup and scheduled training)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API under /api/v1)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, an optional YAML file and
    environment variables (a .env file is read first when present)
 2. Logging: zerolog, JSON or console
 3. Database: embedded DuckDB holding votes, places, counters and scores
 4. Model store: gzip-compressed gob artifacts on disk, optionally
    mirrored to an S3-compatible bucket
 5. Engine: loads the latest model; scoring runs in process or against a
    remote predictor guarded by a circuit breaker
 6. HTTP server: chi router with CORS, rate limiting, Prometheus metrics
    and JWT-protected admin routes

# Admin Tokens

Admin routes (training, forced refresh, model status) require a bearer
token signed with JWT_SECRET. Issue one with:

	./restspot -issue-admin-token ops

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
up to 10 seconds, a running training job is abandoned at its next
cancellation check, and the database is checkpointed and closed.

# Example Usage

Development, no admin auth, console logs:

	export AUTH_MODE=none
	export LOG_FORMAT=console
	export DUCKDB_PATH=./data/restspot.duckdb
	export MODEL_PATH=./data/models
	./restspot

Production with nightly retraining:

	export JWT_SECRET=$(openssl rand -base64 32)
	export RECOMMEND_TRAIN_INTERVAL=24h
	export RECOMMEND_TRAIN_ON_STARTUP=true
	./restspot
*/
package main
