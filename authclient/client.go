// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authclient

import (
	"context"
	"errors"

	"github.com/danielhkuo/pollgate/models"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects an
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated is returned when no valid token accompanies a
	// read request. Distinct from ErrBackendUnavailable so callers can
	// redirect on one and retry on the other.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrBackendUnavailable is returned on transport failures and backend
	// 5xx responses.
	ErrBackendUnavailable = errors.New("auth backend unavailable")
)

// Event identifies an auth-state-change notification.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// ChangeFunc receives auth-state-change notifications. The session is nil
// for EventSignedOut.
type ChangeFunc func(event Event, session *models.Session)

// Client is the contract with the managed identity backend. All session and
// user state is owned by the backend; the application only reads and
// refreshes it.
type Client interface {
	SignUp(ctx context.Context, params SignUpParams) (*models.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	GetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error)
	SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)

	// OnAuthStateChange registers fn for sign-in, sign-out and token-refresh
	// notifications. The returned function unsubscribes it.
	OnAuthStateChange(fn ChangeFunc) (unsubscribe func())
}

// SignUpParams carries the sign-up payload. RedirectTo is the callback URL
// embedded in the verification email.
type SignUpParams struct {
	Email      string
	Password   string
	Name       string
	RedirectTo string
}
