// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollgate/actions"
	"github.com/danielhkuo/pollgate/authclient"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/models"
)

type PollHandler struct {
	actions *actions.Actions
}

func NewPollHandler(acts *actions.Actions) *PollHandler {
	return &PollHandler{actions: acts}
}

// requireAuth runs the authorization gate and handles the denied branch.
// Returns nil after writing the redirect when the caller must stop.
func (h *PollHandler) requireAuth(w http.ResponseWriter, r *http.Request) *models.User {
	accessToken, _ := authclient.TokensFromRequest(r)
	az := h.actions.RequireAuth(r.Context(), accessToken)
	if !az.Authorized() {
		http.Redirect(w, r, az.Redirect, http.StatusSeeOther)
		return nil
	}
	return az.User
}

// writeActionError maps expected failures to 400s with their user-facing
// message and everything else to a generic 500.
func writeActionError(w http.ResponseWriter, err error) {
	if msg, ok := actions.UserMessage(err); ok {
		status := http.StatusBadRequest
		if err == actions.ErrPollNotFound {
			status = http.StatusNotFound
		}
		middleware.ErrorResponse(w, status, msg)
		return
	}
	slog.Error("poll action failed", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

// Create handles POST /polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := h.requireAuth(w, r)
	if user == nil {
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.actions.CreatePoll(r.Context(), user, req.Question, req.Options)
	if err != nil {
		writeActionError(w, err)
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// List handles GET /polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	user := h.requireAuth(w, r)
	if user == nil {
		return
	}

	polls, err := h.actions.UserPolls(r.Context(), user)
	if err != nil {
		writeActionError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, polls)
}

// Get handles GET /polls/{id}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	poll, err := h.actions.PollByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeActionError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// Update handles PUT /polls/{id}
func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := h.requireAuth(w, r)
	if user == nil {
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	pollID := r.PathValue("id")
	if err := h.actions.UpdatePoll(r.Context(), user, pollID, req.Question, req.Options); err != nil {
		writeActionError(w, err)
		return
	}

	slog.Info("poll updated", "poll_id", pollID, "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusOK, models.AuthResult{Error: nil})
}

// Delete handles DELETE /polls/{id}
func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := h.requireAuth(w, r)
	if user == nil {
		return
	}

	pollID := r.PathValue("id")
	if err := h.actions.DeletePoll(r.Context(), user, pollID); err != nil {
		writeActionError(w, err)
		return
	}

	slog.Info("poll deleted", "poll_id", pollID, "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusOK, models.AuthResult{Error: nil})
}

// Vote handles POST /polls/{id}/vote. Authentication is optional here:
// a signed-in voter is recorded, an anonymous one gets a NULL user_id.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		accessToken, _ := authclient.TokensFromRequest(r)
		// Best effort; voting proceeds anonymously on any failure.
		user, _ = h.actions.CurrentUser(r.Context(), accessToken)
	}

	pollID := r.PathValue("id")
	if err := h.actions.SubmitVote(r.Context(), user, pollID, req.OptionIndex); err != nil {
		writeActionError(w, err)
		return
	}

	slog.Info("vote submitted", "poll_id", pollID, "authenticated", user != nil)
	middleware.JSONResponse(w, http.StatusCreated, models.AuthResult{Error: nil})
}
