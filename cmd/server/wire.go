// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/tomtom215/restspot/internal/api"
	"github.com/tomtom215/restspot/internal/auth"
	"github.com/tomtom215/restspot/internal/config"
	"github.com/tomtom215/restspot/internal/database"
	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/recommend"
	"github.com/tomtom215/restspot/internal/recommend/remote"
	"github.com/tomtom215/restspot/internal/recommend/storage"
	"github.com/tomtom215/restspot/internal/supervisor/services"
)

// modelLoadTimeout bounds reading the latest artifact at startup.
const modelLoadTimeout = 30 * time.Second

var (
	_ recommend.Store     = (*database.DB)(nil)
	_ api.Recommender     = (*recommend.Engine)(nil)
	_ api.Pinger          = (*database.DB)(nil)
	_ services.Trainer    = (*recommend.Engine)(nil)
	_ recommend.Predictor = (*remote.Client)(nil)
	_ storage.Mirror      = (*storage.S3Mirror)(nil)
	_ services.HTTPServer = (*http.Server)(nil)
)

// app holds the long-lived components main wires together.
type app struct {
	db      *database.DB
	engine  *recommend.Engine
	handler http.Handler
}

// Close releases the database. It checkpoints the WAL first.
func (a *app) Close() error {
	var errs error
	if a.db != nil {
		errs = multierr.Append(errs, a.db.Close())
	}
	return errs
}

// newApp builds the storage, engine and HTTP layers from cfg. The caller owns
// the returned app and must Close it.
func newApp(cfg *config.Config) (a *app, err error) {
	db, err := database.New(&cfg.Database, cfg.Recommend.MinVotes)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a = &app{db: db}
	defer func() {
		if err != nil {
			err = multierr.Append(err, a.Close())
			a = nil
		}
	}()
	logging.Info().Str("db_path", cfg.Database.Path).Msg("Database initialized")

	engine, err := newEngine(cfg, db)
	if err != nil {
		return a, err
	}
	a.engine = engine

	authMW, err := newAuthMiddleware(&cfg.Security)
	if err != nil {
		return a, err
	}

	handler := api.NewHandler(engine, db, cfg)
	router := api.NewRouter(handler, authMW, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))
	a.handler = router.SetupChi()

	return a, nil
}

// newEngine creates the model store, the optional S3 mirror and remote
// predictor, and loads the latest model artifact if one exists.
func newEngine(cfg *config.Config, store recommend.Store) (*recommend.Engine, error) {
	rc := &cfg.Recommend

	modelStore, err := storage.NewStore(rc.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("model store: %w", err)
	}

	if rc.Mirror.Enabled {
		mirror, err := storage.NewS3Mirror(&rc.Mirror)
		if err != nil {
			return nil, fmt.Errorf("model mirror: %w", err)
		}
		modelStore.SetMirror(mirror)
		logging.Info().
			Str("bucket", rc.Mirror.Bucket).
			Str("prefix", rc.Mirror.Prefix).
			Msg("Model artifacts mirrored to object storage")
	}

	engine, err := recommend.NewEngine(recommend.ConfigFrom(rc), store, modelStore, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("recommend engine: %w", err)
	}

	if rc.Predictor.Mode == "remote" {
		client, err := remote.NewClient(&rc.Predictor)
		if err != nil {
			return nil, fmt.Errorf("remote predictor: %w", err)
		}
		engine.SetPredictor(client)
		logging.Info().Str("url", rc.Predictor.URL).Msg("Score refreshes use the remote predictor")
	}

	ctx, cancel := context.WithTimeout(context.Background(), modelLoadTimeout)
	defer cancel()
	if err := engine.LoadLatestModel(ctx); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	return engine, nil
}

// newAuthMiddleware returns the admin auth middleware for the configured mode.
func newAuthMiddleware(sec *config.SecurityConfig) (*auth.Middleware, error) {
	if sec.AuthMode == auth.ModeNone {
		logging.Warn().Msg("AUTH_MODE=none: admin endpoints are unauthenticated")
		return auth.NewMiddleware(nil, auth.ModeNone), nil
	}

	jwtManager, err := auth.NewJWTManager(sec)
	if err != nil {
		return nil, fmt.Errorf("jwt manager: %w", err)
	}
	return auth.NewMiddleware(jwtManager, auth.ModeJWT), nil
}

// issueAdminToken writes a signed admin token for name to w.
func issueAdminToken(sec *config.SecurityConfig, name string, w io.Writer) error {
	if sec.AuthMode == auth.ModeNone {
		return fmt.Errorf("admin tokens are not used when AUTH_MODE=none")
	}
	if name == "" {
		return fmt.Errorf("admin token name must not be empty")
	}

	jwtManager, err := auth.NewJWTManager(sec)
	if err != nil {
		return fmt.Errorf("jwt manager: %w", err)
	}
	token, err := jwtManager.GenerateToken(name, auth.RoleAdmin)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
