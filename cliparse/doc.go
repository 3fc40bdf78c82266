// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before flags are read.

# Config Fields

  - Port: server listen port (default: 3318)
  - DatabaseURL: database connection string (required)
  - DatabaseType: postgres or sqlite (default: postgres)
  - AuthBackendURL: identity backend base URL (required)
  - AuthBackendKey: identity backend API key (required)
  - SiteURL: public URL used in verification links

# CLI Flags

	-p         Server port
	-d         Database URL
	-t         Database type
	-auth-url  Auth backend URL
	-auth-key  Auth backend API key
	-site-url  Public site URL

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	AUTH_BACKEND_URL → -auth-url
	AUTH_BACKEND_KEY → -auth-key
	SITE_URL         → -site-url

CLI flags take precedence over environment variables. SITE_URL defaults
to http://localhost:PORT.

# Validation

ParseFlags returns an error if required values are missing or
DATABASE_TYPE names an unknown driver.
*/
package cliparse
