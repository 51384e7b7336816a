// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/babyname-duel/models"
)

func (t *Tx) InsertMember(ctx context.Context, m models.Member) error {
	_, err := t.exec(ctx, `
		INSERT INTO members (session_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`, m.SessionID, m.UserID, string(m.Role), m.JoinedAt)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (t *Tx) GetMember(ctx context.Context, sessionID, uid string) (models.Member, error) {
	var m models.Member
	var role string
	err := t.queryRow(ctx, `
		SELECT session_id, user_id, role, joined_at
		FROM members
		WHERE session_id = ? AND user_id = ?
	`, sessionID, uid).Scan(&m.SessionID, &m.UserID, &role, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("query member: %w", err)
	}

	if m.Role, err = models.ParseRole(role); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

func (t *Tx) ListMembers(ctx context.Context, sessionID string) ([]models.Member, error) {
	rows, err := t.query(ctx, `
		SELECT session_id, user_id, role, joined_at
		FROM members
		WHERE session_id = ?
		ORDER BY joined_at, user_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		var role string
		if err := rows.Scan(&m.SessionID, &m.UserID, &role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if m.Role, err = models.ParseRole(role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// RemoveMember deletes a member together with everything they own or
// cast inside the session.
func (t *Tx) RemoveMember(ctx context.Context, sessionID, uid string) error {
	steps := []struct {
		what  string
		query string
		args  []any
	}{
		{"list items", `DELETE FROM list_items WHERE session_id = ? AND owner_uid = ?`, []any{sessionID, uid}},
		{"list state", `DELETE FROM list_states WHERE session_id = ? AND user_id = ?`, []any{sessionID, uid}},
		{"scores", `DELETE FROM scores WHERE session_id = ? AND (list_owner_uid = ? OR rater_uid = ?)`, []any{sessionID, uid, uid}},
		{"tie-break votes", `DELETE FROM tiebreak_votes WHERE session_id = ? AND rater_uid = ?`, []any{sessionID, uid}},
		{"member", `DELETE FROM members WHERE session_id = ? AND user_id = ?`, []any{sessionID, uid}},
	}

	for _, step := range steps {
		if _, err := t.exec(ctx, step.query, step.args...); err != nil {
			return fmt.Errorf("delete %s: %w", step.what, err)
		}
	}
	return nil
}
