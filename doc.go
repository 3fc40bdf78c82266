// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollgate API server.

Pollgate is a polling service where every page except login, registration
and email verification sits behind a session gate. Identity is delegated
to a GoTrue-compatible backend; Pollgate validates sessions, enforces
email verification, and owns the poll data.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... AUTH_BACKEND_URL=... AUTH_BACKEND_KEY=... go run main.go

Or with flags:

	go run main.go -p 3318 -d "postgres://..." -auth-url "..." -auth-key "..."

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string
  - AUTH_BACKEND_URL (-auth-url): identity backend base URL
  - AUTH_BACKEND_KEY (-auth-key): identity backend API key

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - SITE_URL (-site-url): public URL used in verification links

# Architecture

The server uses a handler-based architecture with dependency injection:

  - authclient: HTTP client for the identity backend, cookies, events
  - middleware: session gate, CORS, logging, JSON helpers
  - actions: auth and poll operations shared by all handlers
  - authstate: long-lived session mirror with proactive token refresh
  - handlers: HTTP request handlers (auth, callback, polls)
  - router: route definitions using Go 1.22+ routing
  - models: request/response and domain types
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
