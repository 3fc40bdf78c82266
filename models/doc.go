// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - User: backend identity; Verified() reports email confirmation
  - Session: token pair plus expiry; Expired() checks the clock
  - AuthState: the triple (session, user, loading) mirrored by authstate
  - Poll: question with 2+ options, owned by a user
  - Vote: one selected option, user optional

The refresh token is tagged json:"-" and never serializes.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: email, password
  - RegisterRequest: name, email, password
  - CreatePollRequest / UpdatePollRequest: question, options
  - SubmitVoteRequest: option_index

# Response Types

  - AuthResult: error (null on success) and an optional message
  - CallbackResponse: status, message, redirect, redirect_delay_ms
  - ErrorResponse: error, message
*/
package models
