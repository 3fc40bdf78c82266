// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Session Gate

Session wraps the whole application and decides, per request, whether the
caller may proceed:

	outer.Handle("/", middleware.Session(client, mux))

Paths starting with /login, /auth or /register pass without a session.
Everything else requires a valid, unexpired session for a verified user:

  - no session → redirect to /login
  - expired session → cookies cleared, redirect to /login
  - unverified email → redirect to /auth/verify-email
  - backend failure → treated as no session

Rotated tokens coming back from validation are written to the response
cookies. The authenticated user is attached to the request context:

	user := middleware.UserFromContext(r.Context())

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	middleware.CORS(mux)

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
