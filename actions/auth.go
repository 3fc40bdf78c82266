// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/models"
)

// Actions bundles the server-side procedures behind the HTTP surface.
// Auth actions delegate to the identity backend; poll actions talk to the
// database and are gated on RequireAuth.
type Actions struct {
	client  authclient.Client
	db      *sql.DB
	siteURL string
}

func New(client authclient.Client, db *sql.DB, siteURL string) *Actions {
	return &Actions{client: client, db: db, siteURL: siteURL}
}

func errString(err error) *string {
	msg := err.Error()
	return &msg
}

// Login checks credentials against the backend. Valid credentials with an
// unverified email still fail: verification is an application-level gate on
// top of backend authentication. The session is returned so the transport
// layer can establish cookies; the middleware handles the unverified case.
func (a *Actions) Login(ctx context.Context, email, password string) (models.AuthResult, *models.Session) {
	session, err := a.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return models.AuthResult{Error: errString(err)}, nil
	}

	if session.User != nil && !session.User.Verified() {
		msg := "Please verify your email before logging in."
		return models.AuthResult{Error: &msg}, session
	}

	return models.AuthResult{Error: nil}, session
}

// Register signs the user up, attaching the display name and the
// verification callback URL. A fresh unverified account is a success with
// guidance, not an error.
func (a *Actions) Register(ctx context.Context, name, email, password string) models.AuthResult {
	user, err := a.client.SignUp(ctx, authclient.SignUpParams{
		Email:      email,
		Password:   password,
		Name:       name,
		RedirectTo: a.siteURL + "/auth/callback",
	})
	if err != nil {
		return models.AuthResult{Error: errString(err)}
	}

	if user != nil && !user.Verified() {
		return models.AuthResult{
			Error:   nil,
			Message: "Registration successful! Please check your email to verify your account.",
		}
	}

	return models.AuthResult{Error: nil}
}

func (a *Actions) Logout(ctx context.Context, accessToken string) models.AuthResult {
	if err := a.client.SignOut(ctx, accessToken); err != nil {
		return models.AuthResult{Error: errString(err)}
	}
	return models.AuthResult{Error: nil}
}

// CurrentUser returns the user for the given access token. The error is one
// of the authclient sentinels so callers can tell "not logged in" from
// "backend failure".
func (a *Actions) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	return a.client.GetUser(ctx, accessToken)
}

// Session returns the current session for the token pair.
func (a *Actions) Session(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	return a.client.GetSession(ctx, accessToken, refreshToken)
}

// RefreshSession exchanges the refresh token for a new session, or returns
// nil on failure.
func (a *Actions) RefreshSession(ctx context.Context, refreshToken string) *models.Session {
	session, err := a.client.RefreshSession(ctx, refreshToken)
	if err != nil {
		slog.Warn("session refresh failed", "error", err)
		return nil
	}
	return session
}

// Authz is the result of an authorization check. Callers must branch on it
// explicitly: a denied result carries the redirect target and no user.
type Authz struct {
	User     *models.User
	Redirect string
}

// Authorized reports whether the check passed.
func (az Authz) Authorized() bool {
	return az.User != nil
}

// RequireAuth is the gate in front of every state-mutating poll operation.
// No user redirects to /login; an unverified user redirects to the
// verification page; a verified user is returned unchanged.
func (a *Actions) RequireAuth(ctx context.Context, accessToken string) Authz {
	user, err := a.client.GetUser(ctx, accessToken)
	if err != nil || user == nil {
		return Authz{Redirect: "/login"}
	}
	if !user.Verified() {
		return Authz{Redirect: "/auth/verify-email"}
	}
	return Authz{User: user}
}
