// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/pollgate/actions"
	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/cliparse"
	"github.com/danielhkuo/pollgate/handlers"
	"github.com/danielhkuo/pollgate/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, client authclient.Client) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	acts := actions.New(client, db, cfg.SiteURL)
	authHandler := handlers.NewAuthHandler(acts)
	callbackHandler := handlers.NewCallbackHandler(client)
	pollHandler := handlers.NewPollHandler(acts)

	// Authentication (allow-listed paths)
	mux.HandleFunc("POST /login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(authHandler.Me))
	mux.HandleFunc("GET /auth/session", middleware.WithLogging(authHandler.Session))
	mux.HandleFunc("POST /auth/refresh", middleware.WithLogging(authHandler.Refresh))
	mux.HandleFunc("GET /auth/callback", middleware.WithLogging(callbackHandler.Callback))
	mux.HandleFunc("GET /auth/verify-email", middleware.WithLogging(callbackHandler.VerifyEmail))

	// Polls (behind the session gate)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.Create))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.List))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.Get))
	mux.HandleFunc("PUT /polls/{id}", middleware.WithLogging(pollHandler.Update))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollgate API v1"))
	})

	// Health check and voting stay outside the session gate: probes must
	// never redirect, and votes are accepted from anonymous callers.
	outer := http.NewServeMux()
	outer.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	// Registered method-less so OPTIONS preflights reach the CORS
	// middleware instead of the session gate.
	vote := middleware.WithLogging(pollHandler.Vote)
	outer.Handle("/polls/{id}/vote", middleware.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		vote(w, r)
	})))
	outer.Handle("/", middleware.Session(client, middleware.CORS(mux)))

	return outer
}
