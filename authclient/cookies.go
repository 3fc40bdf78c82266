// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authclient

import (
	"net/http"
	"time"

	"github.com/danielhkuo/pollgate/models"
)

// Auth cookie names. The token pair is the only session state the server
// hands to the browser; everything else lives in the backend.
const (
	CookieAccessToken  = "pg-access-token"
	CookieRefreshToken = "pg-refresh-token"
)

// TokensFromRequest reads the auth token pair from request cookies.
// Missing cookies yield empty strings.
func TokensFromRequest(r *http.Request) (accessToken, refreshToken string) {
	if c, err := r.Cookie(CookieAccessToken); err == nil {
		accessToken = c.Value
	}
	if c, err := r.Cookie(CookieRefreshToken); err == nil {
		refreshToken = c.Value
	}
	return accessToken, refreshToken
}

// WriteSessionCookies sets the auth cookies for the given session.
func WriteSessionCookies(w http.ResponseWriter, session *models.Session) {
	if session == nil {
		return
	}

	maxAge := 0
	if session.ExpiresAt > 0 {
		maxAge = int(time.Until(time.Unix(session.ExpiresAt, 0)).Seconds())
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieAccessToken,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// The refresh token outlives the access token so the session can be
	// re-established after expiry.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieRefreshToken,
		Value:    session.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookies deletes both auth cookies.
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{CookieAccessToken, CookieRefreshToken} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
