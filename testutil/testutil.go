// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/cliparse"
	"github.com/danielhkuo/pollgate/db"
	"github.com/danielhkuo/pollgate/models"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each test gets its own database; nothing survives the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// An in-memory database exists per connection; the pool must not open
	// a second one.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    ":memory:",
		DatabaseType:   "sqlite",
		AuthBackendURL: "http://localhost:9999/auth/v1",
		AuthBackendKey: "test-api-key",
		SiteURL:        "http://localhost:3318",
	}
}

// CreateTestPoll inserts a poll and returns its ID
func CreateTestPoll(t *testing.T, db *sql.DB, userID, question string, options []string) string {
	t.Helper()

	pollID := uuid.NewString()
	optionsJSON, _ := json.Marshal(options)
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO poll (id, user_id, question, options, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, pollID, userID, question, string(optionsJSON), now, now)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// VerifiedUser returns a user whose email confirmation timestamp is set
func VerifiedUser(email string) *models.User {
	confirmed := time.Now().Add(-time.Hour)
	return &models.User{
		ID:               uuid.NewString(),
		Email:            email,
		EmailConfirmedAt: &confirmed,
		CreatedAt:        time.Now().Add(-24 * time.Hour),
	}
}

// UnverifiedUser returns a user who has not clicked the verification link
func UnverifiedUser(email string) *models.User {
	return &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}
}

// SessionFor builds a session for the user expiring after ttl
func SessionFor(user *models.User, ttl time.Duration) *models.Session {
	return &models.Session{
		AccessToken:  "access-" + uuid.NewString(),
		RefreshToken: "refresh-" + uuid.NewString(),
		ExpiresAt:    time.Now().Add(ttl).Unix(),
		User:         user,
	}
}

// FakeAuth is an in-memory stand-in for the identity backend. Behavior is
// configured per test via function fields; unset fields report
// "not authenticated". Call counts are recorded per method.
type FakeAuth struct {
	SignUpFn     func(ctx context.Context, params authclient.SignUpParams) (*models.User, error)
	SignInFn     func(ctx context.Context, email, password string) (*models.Session, error)
	SignOutFn    func(ctx context.Context, accessToken string) error
	GetUserFn    func(ctx context.Context, accessToken string) (*models.User, error)
	GetSessionFn func(ctx context.Context, accessToken, refreshToken string) (*models.Session, error)
	SetSessionFn func(ctx context.Context, accessToken, refreshToken string) (*models.Session, error)
	RefreshFn    func(ctx context.Context, refreshToken string) (*models.Session, error)

	mu     sync.Mutex
	calls  map[string]int
	events *authclient.Broadcaster
}

func NewFakeAuth() *FakeAuth {
	return &FakeAuth{
		calls:  make(map[string]int),
		events: authclient.NewBroadcaster(),
	}
}

func (f *FakeAuth) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

// CallCount returns how many times the named method was invoked
func (f *FakeAuth) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// Emit delivers an auth-state-change notification to subscribers
func (f *FakeAuth) Emit(event authclient.Event, session *models.Session) {
	f.events.Emit(event, session)
}

func (f *FakeAuth) SignUp(ctx context.Context, params authclient.SignUpParams) (*models.User, error) {
	f.record("SignUp")
	if f.SignUpFn != nil {
		return f.SignUpFn(ctx, params)
	}
	return nil, authclient.ErrBackendUnavailable
}

func (f *FakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	f.record("SignInWithPassword")
	if f.SignInFn != nil {
		return f.SignInFn(ctx, email, password)
	}
	return nil, authclient.ErrInvalidCredentials
}

func (f *FakeAuth) SignOut(ctx context.Context, accessToken string) error {
	f.record("SignOut")
	if f.SignOutFn != nil {
		return f.SignOutFn(ctx, accessToken)
	}
	return nil
}

func (f *FakeAuth) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	f.record("GetUser")
	if f.GetUserFn != nil {
		return f.GetUserFn(ctx, accessToken)
	}
	return nil, authclient.ErrNotAuthenticated
}

func (f *FakeAuth) GetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	f.record("GetSession")
	if f.GetSessionFn != nil {
		return f.GetSessionFn(ctx, accessToken, refreshToken)
	}
	return nil, authclient.ErrNotAuthenticated
}

func (f *FakeAuth) SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	f.record("SetSession")
	if f.SetSessionFn != nil {
		return f.SetSessionFn(ctx, accessToken, refreshToken)
	}
	return nil, authclient.ErrNotAuthenticated
}

func (f *FakeAuth) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	f.record("RefreshSession")
	if f.RefreshFn != nil {
		return f.RefreshFn(ctx, refreshToken)
	}
	return nil, authclient.ErrNotAuthenticated
}

func (f *FakeAuth) OnAuthStateChange(fn authclient.ChangeFunc) func() {
	return f.events.Subscribe(fn)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithSessionCookies attaches the session's token pair as auth cookies
func WithSessionCookies(req *http.Request, session *models.Session) *http.Request {
	if session == nil {
		return req
	}
	req.AddCookie(&http.Cookie{Name: authclient.CookieAccessToken, Value: session.AccessToken})
	req.AddCookie(&http.Cookie{Name: authclient.CookieRefreshToken, Value: session.RefreshToken})
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertRedirect checks for a redirect to the expected location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusFound && w.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect, got status %d. Body: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %s, got %s", location, got)
	}
}
