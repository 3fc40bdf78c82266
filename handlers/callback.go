// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/models"
)

// redirectDelayMS is how long the client should display the success message
// before navigating to the polls listing.
const redirectDelayMS = 2000

type CallbackHandler struct {
	client authclient.Client
}

func NewCallbackHandler(client authclient.Client) *CallbackHandler {
	return &CallbackHandler{client: client}
}

func callbackError(w http.ResponseWriter, message string) {
	middleware.JSONResponse(w, http.StatusBadRequest, models.CallbackResponse{
		Status:  "error",
		Message: message,
	})
}

// Callback handles GET /auth/callback. This is the landing point of the
// verification email: it carries either a token pair or an error code in the
// query string. One-shot; nothing here is retried.
func (h *CallbackHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// An error parameter short-circuits everything: no session calls.
	if q.Get("error") != "" {
		message := q.Get("error_description")
		if message == "" {
			message = "Authentication failed"
		}
		callbackError(w, message)
		return
	}

	accessToken := q.Get("access_token")
	refreshToken := q.Get("refresh_token")
	if accessToken == "" || refreshToken == "" {
		callbackError(w, "Invalid authentication parameters")
		return
	}

	session, err := h.client.SetSession(r.Context(), accessToken, refreshToken)
	if err != nil {
		callbackError(w, err.Error())
		return
	}

	user, err := h.client.GetUser(r.Context(), session.AccessToken)
	if err != nil || user == nil {
		callbackError(w, "Failed to get user information")
		return
	}

	if !user.Verified() {
		callbackError(w, "Email verification failed. Please try again.")
		return
	}

	slog.Info("email verified", "user_id", user.ID)
	authclient.WriteSessionCookies(w, session)
	middleware.JSONResponse(w, http.StatusOK, models.CallbackResponse{
		Status:          "success",
		Message:         "Email verified successfully! Redirecting to dashboard...",
		Redirect:        "/polls",
		RedirectDelayMS: redirectDelayMS,
	})
}

// VerifyEmail handles GET /auth/verify-email, the page unverified users are
// parked on until they click the link in their inbox.
func (h *CallbackHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	accessToken, _ := authclient.TokensFromRequest(r)

	response := map[string]string{
		"message": "Please check your email for a verification link.",
	}
	if user, err := h.client.GetUser(r.Context(), accessToken); err == nil && user != nil {
		response["email"] = user.Email
		if user.Verified() {
			response["message"] = "Your email is already verified."
		}
	}
	middleware.JSONResponse(w, http.StatusOK, response)
}
