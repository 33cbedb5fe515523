// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package services provides suture.Service wrappers for long-running
// components:
//
//   - HTTPServerService: the API server, with graceful shutdown
//   - TrainingService: startup and scheduled model training
package services
