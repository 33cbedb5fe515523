// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package logging provides the zerolog-based structured logger shared by every
// Restspot component.
//
// The logger is global and configured once at startup:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("place_id", id).Msg("Aggregate updated")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Refresh failed")
//
// Request-scoped loggers carry request_id, correlation_id and, once known,
// user_id. They are attached by the HTTP middleware and read back with Ctx.
//
// NewSlogLogger adapts the zerolog backend to log/slog so that the suture
// supervisor tree (through sutureslog) writes into the same stream.
//
// Always terminate log chains with Msg or Send; an event that is never sent is
// never written.
package logging
