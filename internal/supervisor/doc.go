// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

/*
Package supervisor provides process supervision using suture v4.

# Overview

Long-running services are organized into two layers for failure isolation:

	RootSupervisor ("restspot")
	├── DataSupervisor ("data-layer")
	│   └── TrainingService (startup and scheduled training)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in training restarts only the data layer. The HTTP server keeps
serving with the model that is already loaded.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewTrainingService(engine, trainCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Configuration

TreeConfig controls restart behavior. Zero fields take suture's defaults:

  - FailureThreshold: 5 failures before backoff
  - FailureDecay: 30 seconds for the failure count to decay
  - FailureBackoff: 15 seconds of backoff
  - ShutdownTimeout: 10 seconds per service

# Logging

Supervisor events (service failures, restarts, backoff) are emitted
through sutureslog to the slog logger passed to NewSupervisorTree. The
server passes logging.NewSlogLogger so these events land in the zerolog
output.
*/
package supervisor
