// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollgate API.

# Route Registration

NewRouter creates the full handler chain:

	handler := router.NewRouter(db, cfg, client)

Every route except /health and voting runs inside the session
middleware: health probes must never redirect, and votes are accepted
from anonymous callers.

# Endpoints

Health:

	GET /health

Authentication (allow-listed):

	POST /login
	POST /register
	POST /auth/logout
	GET  /auth/me
	GET  /auth/session
	POST /auth/refresh
	GET  /auth/callback      - email verification landing
	GET  /auth/verify-email  - waiting page for unverified users

Polls (behind the session gate):

	POST   /polls            - Create poll
	GET    /polls            - List own polls
	GET    /polls/{id}       - Get poll
	PUT    /polls/{id}       - Update poll (owner only)
	DELETE /polls/{id}       - Delete poll (owner only)

Voting (public, anonymous allowed):

	POST   /polls/{id}/vote

# Handler Initialization

The router creates handler instances with dependency injection:

	acts := actions.New(client, db, cfg.SiteURL)
	authHandler := handlers.NewAuthHandler(acts)
	callbackHandler := handlers.NewCallbackHandler(client)
	pollHandler := handlers.NewPollHandler(acts)
*/
package router
