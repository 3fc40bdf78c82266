// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/models"
	"github.com/danielhkuo/pollgate/testutil"
)

func TestCallback_ErrorParameter(t *testing.T) {
	fake := testutil.NewFakeAuth()
	h := NewCallbackHandler(fake)

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"described error", "?error=access_denied&error_description=Link+expired", "Link expired"},
		{"bare error", "?error=access_denied", "Authentication failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/auth/callback"+tt.query, nil, nil)
			w := httptest.NewRecorder()
			h.Callback(w, req)

			testutil.AssertStatus(t, w, 400)
			var resp models.CallbackResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Status != "error" || resp.Message != tt.message {
				t.Errorf("Callback() = %+v", resp)
			}
		})
	}

	// Error parameters must short-circuit before any backend call
	if fake.CallCount("SetSession") != 0 || fake.CallCount("GetUser") != 0 {
		t.Error("Callback() should not contact the backend when the link carries an error")
	}
}

func TestCallback_MissingTokens(t *testing.T) {
	fake := testutil.NewFakeAuth()
	h := NewCallbackHandler(fake)

	for _, query := range []string{"", "?access_token=a", "?refresh_token=r"} {
		req := testutil.MakeRequest("GET", "/auth/callback"+query, nil, nil)
		w := httptest.NewRecorder()
		h.Callback(w, req)

		testutil.AssertStatus(t, w, 400)
		var resp models.CallbackResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "Invalid authentication parameters" {
			t.Errorf("Callback(%q) message = %q", query, resp.Message)
		}
	}
}

func TestCallback_Success(t *testing.T) {
	user := testutil.VerifiedUser("a@x.com")
	session := testutil.SessionFor(user, time.Hour)

	fake := testutil.NewFakeAuth()
	fake.SetSessionFn = func(ctx context.Context, access, refresh string) (*models.Session, error) {
		return session, nil
	}
	fake.GetUserFn = func(ctx context.Context, token string) (*models.User, error) {
		return user, nil
	}
	h := NewCallbackHandler(fake)

	req := testutil.MakeRequest("GET", "/auth/callback?access_token=at&refresh_token=rt", nil, nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	testutil.AssertStatus(t, w, 200)
	var resp models.CallbackResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "success" {
		t.Errorf("Callback() status = %q", resp.Status)
	}
	if resp.Redirect != "/polls" || resp.RedirectDelayMS != 2000 {
		t.Errorf("Callback() redirect = %q delay = %d", resp.Redirect, resp.RedirectDelayMS)
	}

	var gotAccess string
	for _, c := range w.Result().Cookies() {
		if c.Name == authclient.CookieAccessToken {
			gotAccess = c.Value
		}
	}
	if gotAccess != session.AccessToken {
		t.Errorf("Callback() should set the session cookies, got access %q", gotAccess)
	}
}

func TestCallback_StillUnverified(t *testing.T) {
	user := testutil.UnverifiedUser("a@x.com")
	session := testutil.SessionFor(user, time.Hour)

	fake := testutil.NewFakeAuth()
	fake.SetSessionFn = func(ctx context.Context, access, refresh string) (*models.Session, error) {
		return session, nil
	}
	fake.GetUserFn = func(ctx context.Context, token string) (*models.User, error) {
		return user, nil
	}
	h := NewCallbackHandler(fake)

	req := testutil.MakeRequest("GET", "/auth/callback?access_token=at&refresh_token=rt", nil, nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	testutil.AssertStatus(t, w, 400)
	var resp models.CallbackResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Email verification failed. Please try again." {
		t.Errorf("Callback() message = %q", resp.Message)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("Callback() should not set cookies on verification failure")
	}
}

func TestVerifyEmail(t *testing.T) {
	user := testutil.UnverifiedUser("a@x.com")
	session := testutil.SessionFor(user, time.Hour)

	fake := testutil.NewFakeAuth()
	fake.GetUserFn = func(ctx context.Context, token string) (*models.User, error) {
		return user, nil
	}
	h := NewCallbackHandler(fake)

	req := testutil.MakeRequest("GET", "/auth/verify-email", nil, nil)
	testutil.WithSessionCookies(req, session)
	w := httptest.NewRecorder()
	h.VerifyEmail(w, req)

	testutil.AssertStatus(t, w, 200)
	var resp map[string]string
	testutil.AssertJSON(t, w, &resp)
	if resp["email"] != "a@x.com" {
		t.Errorf("VerifyEmail() email = %q", resp["email"])
	}
	if resp["message"] != "Please check your email for a verification link." {
		t.Errorf("VerifyEmail() message = %q", resp["message"])
	}
}
