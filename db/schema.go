// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, d *DB) error {
	// Postgres accepts a multi-statement Exec, modernc sqlite does too,
	// but running them one by one gives a usable error location.
	for i, stmt := range schema {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema (statement %d): %w", i+1, err)
		}
	}
	return nil
}

var schema = []string{
	// Sessions
	`CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    created_by TEXT NOT NULL,
    required_names INTEGER NOT NULL DEFAULT 0,
    name_focus TEXT NOT NULL DEFAULT 'mix' CHECK (name_focus IN ('mix', 'girl', 'boy')),
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'archived')),
    invites_locked BOOLEAN NOT NULL DEFAULT FALSE,
    tiebreak_active BOOLEAN NOT NULL DEFAULT FALSE,
    tiebreak_names TEXT,
    final_winners TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,

	// Members; exactly one owner per session
	`CREATE TABLE IF NOT EXISTS members (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('owner', 'participant')),
    joined_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, user_id)
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_members_one_owner ON members(session_id) WHERE role = 'owner'`,
	`CREATE INDEX IF NOT EXISTS idx_members_user ON members(user_id)`,

	// List submission state
	`CREATE TABLE IF NOT EXISTS list_states (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('draft', 'submitted')),
    updated_at TIMESTAMP NOT NULL,
    submitted_at TIMESTAMP,
    PRIMARY KEY (session_id, user_id)
)`,

	// List items
	`CREATE TABLE IF NOT EXISTS list_items (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    owner_uid TEXT NOT NULL,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    self_rank INTEGER NOT NULL CHECK (self_rank >= 1),
    PRIMARY KEY (session_id, owner_uid, name),
    UNIQUE (session_id, owner_uid, name_key)
)`,

	// Scores; one value per rater per list
	`CREATE TABLE IF NOT EXISTS scores (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    list_owner_uid TEXT NOT NULL,
    rater_uid TEXT NOT NULL,
    name TEXT NOT NULL,
    score_value INTEGER NOT NULL CHECK (score_value >= 1),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, list_owner_uid, rater_uid, name),
    UNIQUE (session_id, list_owner_uid, rater_uid, score_value),
    CHECK (list_owner_uid <> rater_uid)
)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_session_name ON scores(session_id, name)`,

	// Tie-break ballots
	`CREATE TABLE IF NOT EXISTS tiebreak_votes (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    rater_uid TEXT NOT NULL,
    name TEXT NOT NULL,
    rank INTEGER NOT NULL CHECK (rank >= 1),
    PRIMARY KEY (session_id, rater_uid, name),
    UNIQUE (session_id, rater_uid, rank)
)`,

	// Invites
	`CREATE TABLE IF NOT EXISTS invites (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    delivered BOOLEAN NOT NULL DEFAULT FALSE,
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    accepted_by TEXT,
    accepted_at TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_invites_session ON invites(session_id)`,
}
