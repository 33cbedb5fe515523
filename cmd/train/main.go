// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package main trains the scoring model once against the configured database
// and exits. It is meant for cron jobs and first-time setup, when no server is
// running.
//
// The training report is written to stdout as JSON:
//
//	./restspot-train -seed 42 > report.json
//
// Configuration is read the same way the server reads it (defaults, optional
// CONFIG_PATH YAML file, environment). The server must not hold the DuckDB
// file open at the same time.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/tomtom215/restspot/internal/config"
	"github.com/tomtom215/restspot/internal/database"
	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/models"
	"github.com/tomtom215/restspot/internal/recommend"
	"github.com/tomtom215/restspot/internal/recommend/storage"
)

func main() {
	seed := flag.Int64("seed", 0, "holdout split seed (0 uses RECOMMEND_SEED)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *seed, os.Stdout); err != nil {
		logging.Error().Err(err).Msg("Training failed")
		stop()
		os.Exit(1)
	}
}

// run trains one model version and writes the report to out.
func run(ctx context.Context, cfg *config.Config, seed int64, out io.Writer) (err error) {
	db, err := database.New(&cfg.Database, cfg.Recommend.MinVotes)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, db.Close())
	}()

	modelStore, err := storage.NewStore(cfg.Recommend.ModelPath)
	if err != nil {
		return fmt.Errorf("model store: %w", err)
	}
	if cfg.Recommend.Mirror.Enabled {
		mirror, err := storage.NewS3Mirror(&cfg.Recommend.Mirror)
		if err != nil {
			return fmt.Errorf("model mirror: %w", err)
		}
		modelStore.SetMirror(mirror)
	}

	engine, err := recommend.NewEngine(recommend.ConfigFrom(&cfg.Recommend), db, modelStore, logging.Logger())
	if err != nil {
		return fmt.Errorf("recommend engine: %w", err)
	}

	if seed == 0 {
		seed = engine.DefaultSeed()
	}
	report, err := engine.TrainModel(ctx, seed)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(models.TrainingResponse{
		Version:    report.Version,
		RMSE:       report.RMSE,
		MAE:        report.MAE,
		R2:         report.R2,
		TrainRows:  report.TrainRows,
		TestRows:   report.TestRows,
		DurationMS: report.Duration.Milliseconds(),
	})
}
