// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollgate/actions"
	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/models"
)

type AuthHandler struct {
	actions *actions.Actions
}

func NewAuthHandler(acts *actions.Actions) *AuthHandler {
	return &AuthHandler{actions: acts}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, session := h.actions.Login(r.Context(), req.Email, req.Password)

	// The backend establishes a session even when the verification gate
	// rejects the login; the cookies let the middleware route the user to
	// the verification page.
	if session != nil {
		authclient.WriteSessionCookies(w, session)
	}

	if result.Error != nil {
		slog.Info("login rejected", "email", req.Email)
		middleware.JSONResponse(w, http.StatusUnauthorized, result)
		return
	}

	slog.Info("login succeeded", "email", req.Email)
	middleware.JSONResponse(w, http.StatusOK, result)
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result := h.actions.Register(r.Context(), req.Name, req.Email, req.Password)
	if result.Error != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, result)
		return
	}

	slog.Info("registration submitted", "email", req.Email)
	middleware.JSONResponse(w, http.StatusCreated, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken, _ := authclient.TokensFromRequest(r)

	result := h.actions.Logout(r.Context(), accessToken)
	authclient.ClearSessionCookies(w)

	if result.Error != nil {
		middleware.JSONResponse(w, http.StatusBadGateway, result)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accessToken, _ := authclient.TokensFromRequest(r)

	user, err := h.actions.CurrentUser(r.Context(), accessToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	accessToken, refreshToken := authclient.TokensFromRequest(r)

	session, err := h.actions.Session(r.Context(), accessToken, refreshToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	// The backend may have rotated tokens while validating.
	if session.AccessToken != accessToken || session.RefreshToken != refreshToken {
		authclient.WriteSessionCookies(w, session)
	}
	middleware.JSONResponse(w, http.StatusOK, session)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	_, refreshToken := authclient.TokensFromRequest(r)

	session := h.actions.RefreshSession(r.Context(), refreshToken)
	if session == nil {
		authclient.ClearSessionCookies(w)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session refresh failed")
		return
	}

	authclient.WriteSessionCookies(w, session)
	middleware.JSONResponse(w, http.StatusOK, session)
}

// writeAuthError maps the read-path sentinels: absence is 401, a backend
// outage is 503 so clients can retry instead of redirecting.
func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, authclient.ErrBackendUnavailable) {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Auth backend unavailable")
		return
	}
	middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
}
