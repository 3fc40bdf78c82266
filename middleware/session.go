// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/models"
)

// Route prefixes exempt from the authentication gate.
var allowedPrefixes = []string{"/login", "/auth", "/register"}

type contextKey int

const userKey contextKey = iota

// UserFromContext returns the authenticated user attached by the Session
// middleware, or nil on allow-listed routes with no session.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func allowListed(path string) bool {
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Session gates every request on the current auth state. Requests outside
// the allow-list require a present user and a non-expired session, plus a
// verified email unless the target is the verification page itself.
//
// Cookie mutations flow both ways: tokens are read from the request and any
// tokens the backend rotates during validation are written to the response.
func Session(client authclient.Client, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, refreshToken := authclient.TokensFromRequest(r)

		var (
			user    *models.User
			session *models.Session
		)

		// Both fetches must resolve before the redirect decision is made.
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			u, err := client.GetUser(ctx, accessToken)
			if err != nil {
				// Fail closed: a backend failure is treated as no user.
				return nil
			}
			user = u
			return nil
		})
		g.Go(func() error {
			s, err := client.GetSession(ctx, accessToken, refreshToken)
			if err != nil {
				return nil
			}
			session = s
			return nil
		})
		_ = g.Wait()

		if user == nil || session == nil {
			if !allowListed(r.URL.Path) {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if session.Expired(time.Now()) {
			slog.Info("session expired", "user_id", user.ID, "path", r.URL.Path)
			authclient.ClearSessionCookies(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		if !allowListed(r.URL.Path) && !user.Verified() {
			http.Redirect(w, r, "/auth/verify-email", http.StatusFound)
			return
		}

		// Forward rotated tokens to the browser.
		if session.AccessToken != accessToken || session.RefreshToken != refreshToken {
			authclient.WriteSessionCookies(w, session)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}
