// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authstate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/models"
)

// refreshMargin is how long before expiry a session is proactively refreshed.
const refreshMargin = 5 * time.Minute

// backendTimeout bounds backend calls made from timer callbacks, which have
// no request context to inherit.
const backendTimeout = 10 * time.Second

// Navigator receives navigation requests triggered by auth transitions.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Manager is the single source of truth for the current identity. It mirrors
// the backend's user/session, reacting to three event sources: the initial
// load, auth-state-change notifications, and a refresh timer scheduled at
// session expiry minus refreshMargin.
//
// All state mutations from asynchronous callbacks are guarded by a liveness
// check so nothing fires after Close.
type Manager struct {
	client authclient.Client
	nav    Navigator

	mu          sync.Mutex
	state       models.AuthState
	subs        map[int]func(models.AuthState)
	nextSubID   int
	timer       *time.Timer
	unsubscribe func()
	closed      bool

	nowFunc func() time.Time
}

func New(client authclient.Client, nav Navigator) *Manager {
	return &Manager{
		client:  client,
		nav:     nav,
		state:   models.AuthState{Loading: true},
		subs:    make(map[int]func(models.AuthState)),
		nowFunc: time.Now,
	}
}

// Start subscribes to auth-state-change notifications and performs the
// initial load using the given token pair. User and session are fetched
// concurrently; Loading flips to false once both settle.
func (m *Manager) Start(ctx context.Context, accessToken, refreshToken string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.unsubscribe = m.client.OnAuthStateChange(m.handleEvent)
	m.mu.Unlock()

	var (
		user    *models.User
		session *models.Session
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := m.client.GetUser(gctx, accessToken)
		if err != nil {
			slog.Debug("initial user load failed", "error", err)
			return nil
		}
		user = u
		return nil
	})
	g.Go(func() error {
		s, err := m.client.GetSession(gctx, accessToken, refreshToken)
		if err != nil {
			slog.Debug("initial session load failed", "error", err)
			return nil
		}
		session = s
		return nil
	})
	_ = g.Wait()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.User = user
	m.state.Session = session
	if session != nil && session.User != nil {
		m.state.User = session.User
	}
	m.state.Loading = false
	m.mu.Unlock()

	if session.Expired(m.nowFunc()) {
		slog.Info("session expired on load, signing out")
		m.forceSignOut(context.Background())
		return
	}

	m.scheduleRefresh(session)
	m.notify()
}

// State returns a snapshot of the current auth state.
func (m *Manager) State() models.AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(models.AuthState)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SignOut signs out with the backend, clears local state, and navigates to
// the login page.
func (m *Manager) SignOut(ctx context.Context) {
	m.forceSignOut(ctx)
}

// Close tears the manager down: the event subscription is cancelled, the
// refresh timer stopped, and no further state mutation may occur.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	unsub := m.unsubscribe
	m.unsubscribe = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// handleEvent reacts to an auth-state-change notification. Every event
// overwrites the in-memory user/session; sign-in and sign-out additionally
// navigate.
func (m *Manager) handleEvent(event authclient.Event, session *models.Session) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.Session = session
	if session != nil {
		m.state.User = session.User
	} else {
		m.state.User = nil
	}
	m.mu.Unlock()

	switch event {
	case authclient.EventSignedOut:
		m.nav.Navigate("/login")
	case authclient.EventSignedIn:
		if session != nil && session.User != nil {
			if !session.User.Verified() {
				m.nav.Navigate("/auth/verify-email")
			} else {
				m.nav.Navigate("/polls")
			}
		}
	}

	m.scheduleRefresh(session)
	m.notify()
}

// scheduleRefresh arms the refresh timer at expiry minus refreshMargin,
// replacing any previously armed timer. Recomputed after every successful
// refresh so the manager wakes exactly once per token lifetime.
func (m *Manager) scheduleRefresh(session *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.closed || session == nil || session.ExpiresAt == 0 {
		return
	}

	d := time.Unix(session.ExpiresAt, 0).Sub(m.nowFunc()) - refreshMargin
	if d < 0 {
		d = 0
	}
	m.timer = time.AfterFunc(d, m.refreshNow)
}

// refreshNow runs when the refresh timer fires. A session already past its
// expiry, or a failed refresh, forces sign-out.
func (m *Manager) refreshNow() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	session := m.state.Session
	m.mu.Unlock()

	if session == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	defer cancel()

	if session.Expired(m.nowFunc()) {
		slog.Info("session expired before refresh, signing out")
		m.forceSignOut(ctx)
		return
	}

	refreshed, err := m.client.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		slog.Warn("token refresh failed, signing out", "error", err)
		m.forceSignOut(ctx)
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.Session = refreshed
	if refreshed.User != nil {
		m.state.User = refreshed.User
	}
	m.mu.Unlock()

	m.scheduleRefresh(refreshed)
	m.notify()
}

func (m *Manager) forceSignOut(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	session := m.state.Session
	m.mu.Unlock()

	accessToken := ""
	if session != nil {
		accessToken = session.AccessToken
	}
	if err := m.client.SignOut(ctx, accessToken); err != nil {
		slog.Warn("sign out failed", "error", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.Session = nil
	m.state.User = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	m.nav.Navigate("/login")
	m.notify()
}

func (m *Manager) notify() {
	m.mu.Lock()
	state := m.state
	fns := make([]func(models.AuthState), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
