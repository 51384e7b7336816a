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

// ItemRow is one list item as written; Key is the case-folded name.
type ItemRow struct {
	Name     string
	Key      string
	SelfRank int
}

// GetListState returns the list state, or ok=false when the member has
// never saved a list.
func (t *Tx) GetListState(ctx context.Context, sessionID, uid string) (state models.ListState, ok bool, err error) {
	var status string
	var submittedAt sql.NullTime
	err = t.queryRow(ctx, `
		SELECT session_id, user_id, status, updated_at, submitted_at
		FROM list_states
		WHERE session_id = ? AND user_id = ?
	`, sessionID, uid).Scan(&state.SessionID, &state.UserID, &status, &state.UpdatedAt, &submittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ListState{}, false, nil
	}
	if err != nil {
		return models.ListState{}, false, fmt.Errorf("query list state: %w", err)
	}

	if state.Status, err = models.ParseListStatus(status); err != nil {
		return models.ListState{}, false, err
	}
	if submittedAt.Valid {
		state.SubmittedAt = &submittedAt.Time
	}
	return state, true, nil
}

func (t *Tx) ListStates(ctx context.Context, sessionID string) ([]models.ListState, error) {
	rows, err := t.query(ctx, `
		SELECT session_id, user_id, status, updated_at, submitted_at
		FROM list_states
		WHERE session_id = ?
		ORDER BY user_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query list states: %w", err)
	}
	defer rows.Close()

	states := []models.ListState{}
	for rows.Next() {
		var s models.ListState
		var status string
		var submittedAt sql.NullTime
		if err := rows.Scan(&s.SessionID, &s.UserID, &status, &s.UpdatedAt, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan list state: %w", err)
		}
		if s.Status, err = models.ParseListStatus(status); err != nil {
			return nil, err
		}
		if submittedAt.Valid {
			at := submittedAt.Time
			s.SubmittedAt = &at
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

func (t *Tx) UpsertListState(ctx context.Context, s models.ListState) error {
	var submittedAt sql.NullTime
	if s.SubmittedAt != nil {
		submittedAt = sql.NullTime{Time: *s.SubmittedAt, Valid: true}
	}

	_, err := t.exec(ctx, `
		INSERT INTO list_states (session_id, user_id, status, updated_at, submitted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, user_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			submitted_at = excluded.submitted_at
	`, s.SessionID, s.UserID, string(s.Status), s.UpdatedAt, submittedAt)
	if err != nil {
		return fmt.Errorf("upsert list state: %w", err)
	}
	return nil
}

// ReplaceListItems deletes the owner's previous items and writes the new set.
func (t *Tx) ReplaceListItems(ctx context.Context, sessionID, owner string, items []ItemRow) error {
	if _, err := t.exec(ctx, `DELETE FROM list_items WHERE session_id = ? AND owner_uid = ?`, sessionID, owner); err != nil {
		return fmt.Errorf("delete list items: %w", err)
	}

	for _, it := range items {
		_, err := t.exec(ctx, `
			INSERT INTO list_items (session_id, owner_uid, name, name_key, self_rank)
			VALUES (?, ?, ?, ?, ?)
		`, sessionID, owner, it.Name, it.Key, it.SelfRank)
		if err != nil {
			return fmt.Errorf("insert list item: %w", err)
		}
	}
	return nil
}

// ListItems returns one owner's list ordered by self rank.
func (t *Tx) ListItems(ctx context.Context, sessionID, owner string) ([]models.ListItem, error) {
	return t.listItems(ctx, `
		SELECT owner_uid, name, self_rank
		FROM list_items
		WHERE session_id = ? AND owner_uid = ?
		ORDER BY self_rank, name
	`, sessionID, owner)
}

// AllListItems returns every list in the session.
func (t *Tx) AllListItems(ctx context.Context, sessionID string) ([]models.ListItem, error) {
	return t.listItems(ctx, `
		SELECT owner_uid, name, self_rank
		FROM list_items
		WHERE session_id = ?
		ORDER BY owner_uid, self_rank, name
	`, sessionID)
}

func (t *Tx) listItems(ctx context.Context, query string, args ...any) ([]models.ListItem, error) {
	rows, err := t.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query list items: %w", err)
	}
	defer rows.Close()

	items := []models.ListItem{}
	for rows.Next() {
		var it models.ListItem
		if err := rows.Scan(&it.OwnerUID, &it.Name, &it.SelfRank); err != nil {
			return nil, fmt.Errorf("scan list item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
