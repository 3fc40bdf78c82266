// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package authclient talks to the identity backend and owns the session
cookies.

# Client

Client is the interface the rest of the server depends on; HTTPClient is
the production implementation for a GoTrue-compatible API:

	client := authclient.NewHTTPClient(cfg.AuthBackendURL, cfg.AuthBackendKey)
	session, err := client.SignInWithPassword(ctx, email, password)

# Error Sentinels

Every failure maps to one of three sentinels so callers can tell a
rejected user from a dead backend:

  - ErrInvalidCredentials: the backend rejected the request (4xx)
  - ErrNotAuthenticated: missing, expired, or revoked tokens (401)
  - ErrBackendUnavailable: network failure or 5xx

Match with errors.Is; the wrapped error carries the backend's message.

# Session Cookies

The token pair travels in two HttpOnly cookies:

	authclient.WriteSessionCookies(w, session)
	access, refresh := authclient.TokensFromRequest(r)
	authclient.ClearSessionCookies(w)

The access cookie expires with the token; the refresh cookie is a
session cookie.

# Auth State Changes

Sign-in, sign-out and refresh emit events through a synchronous
Broadcaster:

	unsubscribe := client.OnAuthStateChange(func(event authclient.Event, s *models.Session) {
		// EventSignedIn, EventSignedOut, EventTokenRefreshed
	})
	defer unsubscribe()
*/
package authclient
