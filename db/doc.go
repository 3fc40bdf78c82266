// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL is portable across PostgreSQL and SQLite; which driver
is in use is decided by configuration at startup.

# Tables

  - poll: question, JSON-encoded options, owner
  - vote: selected option per poll, user optional

# Relationships

	poll 1──* vote

Votes cascade on poll deletion.

# Indexes

  - poll.user_id
  - poll.created_at
  - vote.poll_id
  - vote.user_id
*/
package db
