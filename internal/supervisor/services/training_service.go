// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/restspot/internal/recommend"
)

// Trainer is the part of the recommendation engine the service drives.
// *recommend.Engine satisfies it.
type Trainer interface {
	TrainModel(ctx context.Context, seed int64) (*recommend.TrainingReport, error)
	DefaultSeed() int64
}

// TrainingServiceConfig holds configuration for the training service.
type TrainingServiceConfig struct {
	// TrainOnStartup trains once when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Zero disables scheduled runs.
	TrainInterval time.Duration
}

// TrainingService runs model training under supervision: optionally once at
// startup, then on a fixed schedule.
//
// Training failures are logged and never returned, so a bad corpus does not
// make suture restart the service in a loop. A run that collides with an
// admin-triggered one is skipped.
type TrainingService struct {
	engine Trainer
	config TrainingServiceConfig
	logger zerolog.Logger
	name   string
}

// NewTrainingService creates a new training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(engine Trainer, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	return &TrainingService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "training").Logger(),
		name:   "training-service",
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("training service starting")

	if s.config.TrainOnStartup {
		s.train(ctx, "startup")
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		s.logger.Info().Msg("training service shutting down")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.train(ctx, "schedule")
		}
	}
}

// train performs one run and logs the outcome.
func (s *TrainingService) train(ctx context.Context, trigger string) {
	report, err := s.engine.TrainModel(ctx, s.engine.DefaultSeed())
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Info().Str("trigger", trigger).Msg("training already running, skipping")
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("training failed")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int("version", report.Version).
			Float64("rmse", report.RMSE).
			Dur("duration", report.Duration).
			Msg("training complete")
	}
}

// String returns the service name for logging.
func (s *TrainingService) String() string {
	return s.name
}
