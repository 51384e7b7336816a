// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/babyname-duel/models"
)

const sessionColumns = `id, title, created_by, required_names, name_focus, status,
       invites_locked, tiebreak_active, tiebreak_names, final_winners, created_at, updated_at`

func (t *Tx) InsertSession(ctx context.Context, s models.Session) error {
	names, err := encodeNames(s.TieBreakNames)
	if err != nil {
		return fmt.Errorf("encode tie-break names: %w", err)
	}
	winners, err := encodeNames(s.FinalWinners)
	if err != nil {
		return fmt.Errorf("encode winners: %w", err)
	}

	_, err = t.exec(ctx, `
		INSERT INTO sessions (id, title, created_by, required_names, name_focus, status,
		                      invites_locked, tiebreak_active, tiebreak_names, final_winners, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Title, s.CreatedBy, s.RequiredNames, string(s.NameFocus), string(s.Status),
		s.InvitesLocked, s.TieBreakActive, names, winners, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession reads a session without locking it.
func (t *Tx) GetSession(ctx context.Context, id string) (models.Session, error) {
	return t.getSession(ctx, id, "")
}

// LockSession reads a session and holds its row until the transaction
// ends, serializing concurrent writers of the same session.
func (t *Tx) LockSession(ctx context.Context, id string) (models.Session, error) {
	return t.getSession(ctx, id, t.dialect.ForUpdate())
}

func (t *Tx) getSession(ctx context.Context, id, suffix string) (models.Session, error) {
	row := t.queryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`+suffix, id)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("query session: %w", err)
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (models.Session, error) {
	var s models.Session
	var focus, status string
	var names, winners sql.NullString

	err := row.Scan(&s.ID, &s.Title, &s.CreatedBy, &s.RequiredNames, &focus, &status,
		&s.InvitesLocked, &s.TieBreakActive, &names, &winners, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}

	if s.NameFocus, err = models.ParseNameFocus(focus); err != nil {
		return s, err
	}
	if s.Status, err = models.ParseSessionStatus(status); err != nil {
		return s, err
	}
	if s.TieBreakNames, err = decodeNames(names); err != nil {
		return s, fmt.Errorf("decode tie-break names: %w", err)
	}
	if s.FinalWinners, err = decodeNames(winners); err != nil {
		return s, fmt.Errorf("decode winners: %w", err)
	}
	return s, nil
}

func (t *Tx) UpdateSessionStatus(ctx context.Context, id string, status models.SessionStatus, now time.Time) error {
	_, err := t.exec(ctx, `UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`, string(status), now, id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

func (t *Tx) SetRequiredNames(ctx context.Context, id string, n int, now time.Time) error {
	_, err := t.exec(ctx, `UPDATE sessions SET required_names = ?, updated_at = ? WHERE id = ?`, n, now, id)
	if err != nil {
		return fmt.Errorf("set required names: %w", err)
	}
	return nil
}

func (t *Tx) SetInvitesLocked(ctx context.Context, id string, locked bool, now time.Time) error {
	_, err := t.exec(ctx, `UPDATE sessions SET invites_locked = ?, updated_at = ? WHERE id = ?`, locked, now, id)
	if err != nil {
		return fmt.Errorf("set invites locked: %w", err)
	}
	return nil
}

// SetTieBreak writes the tie-break columns in one statement. nil slices
// are stored as NULL.
func (t *Tx) SetTieBreak(ctx context.Context, id string, active bool, candidates, winners []string, now time.Time) error {
	names, err := encodeNames(candidates)
	if err != nil {
		return fmt.Errorf("encode tie-break names: %w", err)
	}
	final, err := encodeNames(winners)
	if err != nil {
		return fmt.Errorf("encode winners: %w", err)
	}

	_, err = t.exec(ctx, `
		UPDATE sessions
		SET tiebreak_active = ?, tiebreak_names = ?, final_winners = ?, updated_at = ?
		WHERE id = ?
	`, active, names, final, now, id)
	if err != nil {
		return fmt.Errorf("update tie-break: %w", err)
	}
	return nil
}

func (t *Tx) DeleteSession(ctx context.Context, id string) error {
	// Children first so the delete does not depend on the foreign key pragma.
	for _, table := range []string{"tiebreak_votes", "scores", "list_items", "list_states", "invites", "members"} {
		if _, err := t.exec(ctx, `DELETE FROM `+table+` WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if _, err := t.exec(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SessionsForUser lists the sessions a user belongs to, newest first.
func (t *Tx) SessionsForUser(ctx context.Context, uid string) ([]models.SessionSummary, error) {
	rows, err := t.query(ctx, `
		SELECT s.id, s.title, s.status, m.role, m.joined_at
		FROM members m
		JOIN sessions s ON s.id = m.session_id
		WHERE m.user_id = ?
		ORDER BY m.joined_at DESC, s.id
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("query sessions for user: %w", err)
	}
	defer rows.Close()

	out := []models.SessionSummary{}
	for rows.Next() {
		var sum models.SessionSummary
		var status, role string
		if err := rows.Scan(&sum.SessionID, &sum.Title, &status, &role, &sum.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		if sum.Status, err = models.ParseSessionStatus(status); err != nil {
			return nil, err
		}
		if sum.Role, err = models.ParseRole(role); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
