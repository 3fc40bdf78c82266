// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package authstate maintains a long-lived mirror of the current identity
for clients that hold a session open, such as a desktop shell or a CLI
session.

# Lifecycle

	m := authstate.New(client, nav)
	m.Start(ctx, accessToken, refreshToken)
	defer m.Close()

Start loads the user and session concurrently, then flips Loading off.
State returns a snapshot at any time; Subscribe delivers every change:

	unsub := m.Subscribe(func(s models.AuthState) { ... })

# Token Refresh

The manager refreshes proactively rather than polling: a single timer is
armed at session expiry minus five minutes and re-armed after every
successful refresh. A failed refresh, or a session found already
expired, signs the user out and navigates to /login.

# Navigation

Auth transitions drive the Navigator:

  - signed out → /login
  - signed in, unverified → /auth/verify-email
  - signed in, verified → /polls

NavigatorFunc adapts a plain function.
*/
package authstate
