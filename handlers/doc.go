// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollgate API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - AuthHandler: login, registration, logout, session inspection, refresh
  - CallbackHandler: email verification landing and the waiting page
  - PollHandler: poll CRUD and voting

	authHandler := handlers.NewAuthHandler(acts)
	callbackHandler := handlers.NewCallbackHandler(client)
	pollHandler := handlers.NewPollHandler(acts)

# Auth Flow

	POST /login         → Login (sets session cookies, gate on verification)
	POST /register      → Register (sends verification email)
	POST /auth/logout   → Logout (clears cookies)
	GET  /auth/me       → Me
	GET  /auth/session  → Session (forwards rotated tokens)
	POST /auth/refresh  → Refresh

Login sets cookies even when the verification gate rejects, so the
session middleware can route the user to the verification page on the
next request.

# Verification Callback

GET /auth/callback is the one-shot landing point of the verification
email. It carries either a token pair or an error in the query string.
On success the response tells the client where to go next:

	{"status":"success","message":"...","redirect":"/polls","redirect_delay_ms":2000}

GET /auth/verify-email is the page unverified users are parked on.

# Poll Handlers

Create, List, Update and Delete run behind RequireAuth and redirect on
denial. Get performs no check of its own. Vote is mounted outside the
session gate: it records the user when a session is present and a NULL
user otherwise.

Expected action failures become 400s with the action's message, a
missing poll is a 404, and everything else is a generic 500.
*/
package handlers
