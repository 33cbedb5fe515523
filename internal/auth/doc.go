// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

/*
Package auth guards the administrative API with JWT bearer tokens.

Key Components:

  - JWTManager: Token generation and validation using HMAC-SHA256
  - Middleware: Authenticate and RequireAdmin HTTP middleware

Authentication Modes (AUTH_MODE):

 1. jwt (default): tokens are read from the Authorization: Bearer header or
    the "token" cookie. Admin routes additionally require Role == "admin".
 2. none: every request passes. Intended for local development only.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)
	r.With(mw.RequireAdmin).Post("/api/v1/admin/train", h.TrainModel)

Admin tokens are issued out of band with `restspot-server -issue-admin-token <name>`.
*/
package auth
