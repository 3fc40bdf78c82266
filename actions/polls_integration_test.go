// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"testing"

	"github.com/danielhkuo/pollgate/testutil"
)

// TestPollLifecycle runs the full poll workflow against a real database:
// 1. Create poll
// 2. List and fetch it back
// 3. Update it
// 4. Vote on it (signed-in and anonymous)
// 5. Delete it
func TestPollLifecycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	acts := New(testutil.NewFakeAuth(), conn, "http://localhost:3318")
	user := testutil.VerifiedUser("a@x.com")
	ctx := context.Background()

	// Step 1: Create
	poll, err := acts.CreatePoll(ctx, user, "Best language?", []string{"go", "rust", "zig"})
	if err != nil {
		t.Fatalf("Step 1 - CreatePoll failed: %v", err)
	}

	// Step 2: List and fetch
	polls, err := acts.UserPolls(ctx, user)
	if err != nil {
		t.Fatalf("Step 2 - UserPolls failed: %v", err)
	}
	if len(polls) != 1 || polls[0].ID != poll.ID {
		t.Fatalf("Step 2 - expected the created poll back, got %+v", polls)
	}

	fetched, err := acts.PollByID(ctx, poll.ID)
	if err != nil {
		t.Fatalf("Step 2 - PollByID failed: %v", err)
	}
	if fetched.Question != "Best language?" || len(fetched.Options) != 3 {
		t.Fatalf("Step 2 - round-trip mismatch: %+v", fetched)
	}

	// Step 3: Update
	if err := acts.UpdatePoll(ctx, user, poll.ID, "Best language in 2026?", []string{"go", "rust"}); err != nil {
		t.Fatalf("Step 3 - UpdatePoll failed: %v", err)
	}
	fetched, err = acts.PollByID(ctx, poll.ID)
	if err != nil {
		t.Fatalf("Step 3 - PollByID after update failed: %v", err)
	}
	if fetched.Question != "Best language in 2026?" || len(fetched.Options) != 2 {
		t.Fatalf("Step 3 - update not persisted: %+v", fetched)
	}
	if fetched.UpdatedAt.Before(fetched.CreatedAt) {
		t.Error("Step 3 - updated_at should not precede created_at after an update")
	}

	// Step 4: Vote, signed-in and anonymous
	if err := acts.SubmitVote(ctx, user, poll.ID, 0); err != nil {
		t.Fatalf("Step 4 - authenticated vote failed: %v", err)
	}
	if err := acts.SubmitVote(ctx, nil, poll.ID, 1); err != nil {
		t.Fatalf("Step 4 - anonymous vote failed: %v", err)
	}

	var votes, anonymous int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, poll.ID).Scan(&votes); err != nil {
		t.Fatalf("Step 4 - counting votes: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1 AND user_id IS NULL`, poll.ID).Scan(&anonymous); err != nil {
		t.Fatalf("Step 4 - counting anonymous votes: %v", err)
	}
	if votes != 2 || anonymous != 1 {
		t.Errorf("Step 4 - expected 2 votes (1 anonymous), got %d (%d anonymous)", votes, anonymous)
	}

	// Step 5: Delete
	if err := acts.DeletePoll(ctx, user, poll.ID); err != nil {
		t.Fatalf("Step 5 - DeletePoll failed: %v", err)
	}
	if _, err := acts.PollByID(ctx, poll.ID); err != ErrPollNotFound {
		t.Errorf("Step 5 - expected %v after delete, got %v", ErrPollNotFound, err)
	}
}

func TestPollOwnership_SeparateUsers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	acts := New(testutil.NewFakeAuth(), conn, "http://localhost:3318")
	owner := testutil.VerifiedUser("owner@x.com")
	other := testutil.VerifiedUser("other@x.com")
	ctx := context.Background()

	pollID := testutil.CreateTestPoll(t, conn, owner.ID, "Owned?", []string{"yes", "no"})

	if err := acts.DeletePoll(ctx, other, pollID); err != ErrNotPollOwnerDelete {
		t.Errorf("DeletePoll by non-owner = %v, want %v", err, ErrNotPollOwnerDelete)
	}
	if err := acts.UpdatePoll(ctx, other, pollID, "Hijacked?", []string{"a", "b"}); err != ErrNotPollOwnerUpdate {
		t.Errorf("UpdatePoll by non-owner = %v, want %v", err, ErrNotPollOwnerUpdate)
	}

	// The owner's listing is unaffected by the other user's attempts
	polls, err := acts.UserPolls(ctx, owner)
	if err != nil {
		t.Fatalf("UserPolls failed: %v", err)
	}
	if len(polls) != 1 || polls[0].Question != "Owned?" {
		t.Errorf("owner polls = %+v", polls)
	}
}
