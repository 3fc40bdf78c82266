// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollgate/models"
)

const (
	maxQuestionLen = 500
	maxOptionLen   = 200
	maxPollIDLen   = 50
	maxOptionIndex = 10
)

// userError is an expected failure with a user-facing message. Anything else
// returned by a poll action is an internal error.
type userError string

func (e userError) Error() string { return string(e) }

const (
	ErrQuestionAndOptions = userError("Please provide a question and at least two options.")
	ErrQuestionTooLong    = userError("Question is too long. Maximum 500 characters allowed.")
	ErrOptionsTooLong     = userError("Options are too long. Maximum 200 characters per option allowed.")
	ErrInvalidPollID      = userError("Invalid poll ID")
	ErrPollNotFound       = userError("Poll not found")
	ErrInvalidOptionIndex = userError("Invalid option index")
	ErrInvalidOption      = userError("Invalid option selected")
	ErrNotPollOwnerDelete = userError("You can only delete your own polls")
	ErrNotPollOwnerUpdate = userError("You can only update your own polls")
)

// UserMessage extracts the user-facing message from an expected failure.
func UserMessage(err error) (string, bool) {
	var ue userError
	if errors.As(err, &ue) {
		return string(ue), true
	}
	return "", false
}

func validatePollInput(question string, options []string) error {
	if question == "" || len(options) < 2 {
		return ErrQuestionAndOptions
	}
	if len(question) > maxQuestionLen {
		return ErrQuestionTooLong
	}
	for _, opt := range options {
		if len(opt) > maxOptionLen {
			return ErrOptionsTooLong
		}
	}
	return nil
}

func trimmed(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if t := strings.TrimSpace(opt); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CreatePoll inserts a poll owned by user. The caller must have passed the
// user through RequireAuth first.
func (a *Actions) CreatePoll(ctx context.Context, user *models.User, question string, options []string) (*models.Poll, error) {
	options = trimmed(options)
	if err := validatePollInput(question, options); err != nil {
		return nil, err
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	now := time.Now()
	poll := &models.Poll{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Question:  strings.TrimSpace(question),
		Options:   options,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO poll (id, user_id, question, options, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, poll.ID, poll.UserID, poll.Question, string(optionsJSON), poll.CreatedAt, poll.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert poll: %w", err)
	}

	return poll, nil
}

func scanPoll(row interface{ Scan(...interface{}) error }) (*models.Poll, error) {
	var poll models.Poll
	var optionsJSON string
	err := row.Scan(&poll.ID, &poll.UserID, &poll.Question, &optionsJSON, &poll.CreatedAt, &poll.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &poll.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return &poll, nil
}

// UserPolls returns the polls owned by user, newest first.
func (a *Actions) UserPolls(ctx context.Context, user *models.User) ([]models.Poll, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user_id, question, options, created_at, updated_at
		FROM poll
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		polls = append(polls, *poll)
	}
	return polls, rows.Err()
}

// PollByID fetches a single poll. No authentication required.
func (a *Actions) PollByID(ctx context.Context, id string) (*models.Poll, error) {
	if id == "" || len(id) > maxPollIDLen {
		return nil, ErrInvalidPollID
	}

	poll, err := scanPoll(a.db.QueryRowContext(ctx, `
		SELECT id, user_id, question, options, created_at, updated_at
		FROM poll
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query poll: %w", err)
	}
	return poll, nil
}

// UpdatePoll rewrites the question and options of a poll the user owns.
func (a *Actions) UpdatePoll(ctx context.Context, user *models.User, pollID, question string, options []string) error {
	options = trimmed(options)
	if err := validatePollInput(question, options); err != nil {
		return err
	}
	if pollID == "" || len(pollID) > maxPollIDLen {
		return ErrInvalidPollID
	}

	var ownerID string
	err := a.db.QueryRowContext(ctx, `SELECT user_id FROM poll WHERE id = $1`, pollID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("query poll owner: %w", err)
	}
	if ownerID != user.ID {
		return ErrNotPollOwnerUpdate
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		UPDATE poll
		SET question = $1, options = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, strings.TrimSpace(question), string(optionsJSON), time.Now(), pollID, user.ID)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	return nil
}

// DeletePoll removes a poll the user owns. Votes cascade.
func (a *Actions) DeletePoll(ctx context.Context, user *models.User, pollID string) error {
	if pollID == "" || len(pollID) > maxPollIDLen {
		return ErrInvalidPollID
	}

	var ownerID string
	err := a.db.QueryRowContext(ctx, `SELECT user_id FROM poll WHERE id = $1`, pollID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("query poll owner: %w", err)
	}
	if ownerID != user.ID {
		return ErrNotPollOwnerDelete
	}

	_, err = a.db.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	return nil
}

// SubmitVote records a vote. The user is optional: anonymous votes carry a
// NULL user_id.
func (a *Actions) SubmitVote(ctx context.Context, user *models.User, pollID string, optionIndex int) error {
	if pollID == "" || len(pollID) > maxPollIDLen {
		return ErrInvalidPollID
	}
	if optionIndex < 0 || optionIndex > maxOptionIndex {
		return ErrInvalidOptionIndex
	}

	var optionsJSON string
	err := a.db.QueryRowContext(ctx, `SELECT options FROM poll WHERE id = $1`, pollID).Scan(&optionsJSON)
	if err == sql.ErrNoRows {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("query poll: %w", err)
	}

	var options []string
	if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	if optionIndex >= len(options) {
		return ErrInvalidOption
	}

	var userID *string
	if user != nil {
		userID = &user.ID
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, user_id, option_index, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), pollID, userID, optionIndex, time.Now())
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}
