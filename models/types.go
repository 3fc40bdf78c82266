package models

import "time"

// Auth types

// User is the identity record owned by the auth backend. The application
// never mutates it directly; sign-up, verification-link clicks and sign-in
// all go through the backend.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name,omitempty"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Verified reports whether the user's email confirmation timestamp is set.
func (u *User) Verified() bool {
	return u != nil && u.EmailConfirmedAt != nil
}

// Session is the backend-issued token pair plus absolute expiry.
// The refresh token is never exposed in JSON responses.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
	ExpiresAt    int64  `json:"expires_at"` // epoch seconds
	User         *User  `json:"user,omitempty"`
}

// Expired reports whether the session's expiry is strictly in the past.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && s.ExpiresAt > 0 && time.Unix(s.ExpiresAt, 0).Before(now)
}

// AuthState is the process-wide mirror of the current identity.
type AuthState struct {
	Session *Session
	User    *User
	Loading bool
}

// Poll domain types

type Poll struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	UserID      *string   `json:"user_id,omitempty"`
	OptionIndex int       `json:"option_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// Request types

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type UpdatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type SubmitVoteRequest struct {
	OptionIndex int `json:"option_index"`
}

// Response types

// AuthResult is the discriminated result every auth action returns.
// Error is null on success; expected failures never surface as panics.
type AuthResult struct {
	Error   *string `json:"error"`
	Message string  `json:"message,omitempty"`
}

// CallbackResponse describes the outcome of the email verification callback.
type CallbackResponse struct {
	Status          string `json:"status"` // "success" or "error"
	Message         string `json:"message"`
	Redirect        string `json:"redirect,omitempty"`
	RedirectDelayMS int    `json:"redirect_delay_ms,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
