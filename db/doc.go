// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the relational store and creates its schema.

# Dialects

Two backends are supported through database/sql:

  - Postgres via github.com/lib/pq
  - SQLite via modernc.org/sqlite (pure Go, also used by tests)

Queries are written with '?' placeholders and passed through Rebind, which
rewrites them to $1, $2, ... on Postgres. ForUpdate returns the row-lock
suffix used to serialize writers of one session.

	conn, err := db.Open(ctx, db.Postgres, cfg.DatabaseURL)
	rows, err := conn.QueryContext(ctx, conn.Rebind("SELECT ... WHERE id = ?"), id)

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - sessions: title, required name count, focus, lifecycle and tie-break state
  - members: (session, user) with role; one owner per session (partial unique index)
  - list_states: draft/submitted state per member
  - list_items: ranked names per member; names unique per member ignoring case
  - scores: one row per (list owner, rater, name); values unique per (list owner, rater)
  - tiebreak_votes: one rank per (rater, name); ranks unique per rater
  - invites: invite tokens and delivery outcome

# Relationships

	sessions 1──* members
	sessions 1──* list_states
	sessions 1──* list_items
	sessions 1──* scores
	sessions 1──* tiebreak_votes
	sessions 1──* invites

All foreign keys use ON DELETE CASCADE. Unique constraint failures from
either driver are recognized by IsUniqueViolation.
*/
package db
