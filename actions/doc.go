// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package actions implements the auth and poll operations behind the HTTP
handlers.

# Construction

Actions bundles the identity client, the database, and the public site
URL:

	acts := actions.New(client, db, cfg.SiteURL)

# Auth Actions

Login enforces the email-verification gate on top of the backend's
credential check. A session is returned even when the gate rejects, so
the caller can set cookies and let the middleware park the user on the
verification page:

	result, session := acts.Login(ctx, email, password)

Register sends the verification email with a redirect back to
/auth/callback. RequireAuth is the per-operation guard; it returns the
user or the path to redirect to:

	az := acts.RequireAuth(ctx, accessToken)
	if !az.Authorized() {
		http.Redirect(w, r, az.Redirect, http.StatusSeeOther)
		return
	}

# Poll Actions

CreatePoll, UserPolls, PollByID, UpdatePoll, DeletePoll and SubmitVote
cover the poll lifecycle. Update and delete verify ownership; voting is
open to anonymous callers.

Expected failures carry a user-facing message, extracted with:

	if msg, ok := actions.UserMessage(err); ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
	}

Anything else is an internal error.

# Validation Limits

  - Question: 500 characters
  - Option: 200 characters, at least two non-blank options
  - Poll ID: 50 characters
  - Option index: 0 to 10, and within the poll's option count
*/
package actions
