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

func (t *Tx) InsertInvite(ctx context.Context, inv models.Invite) error {
	_, err := t.exec(ctx, `
		INSERT INTO invites (id, session_id, email, token, delivered, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.SessionID, inv.Email, inv.Token, inv.Delivered, inv.CreatedBy, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

func (t *Tx) GetInviteByToken(ctx context.Context, token string) (models.Invite, error) {
	var inv models.Invite
	var acceptedBy sql.NullString
	var acceptedAt sql.NullTime

	err := t.queryRow(ctx, `
		SELECT id, session_id, email, token, delivered, created_by, created_at, accepted_by, accepted_at
		FROM invites
		WHERE token = ?
	`, token).Scan(&inv.ID, &inv.SessionID, &inv.Email, &inv.Token, &inv.Delivered,
		&inv.CreatedBy, &inv.CreatedAt, &acceptedBy, &acceptedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invite{}, ErrNotFound
	}
	if err != nil {
		return models.Invite{}, fmt.Errorf("query invite: %w", err)
	}

	if acceptedBy.Valid {
		inv.AcceptedBy = &acceptedBy.String
	}
	if acceptedAt.Valid {
		inv.AcceptedAt = &acceptedAt.Time
	}
	return inv, nil
}

func (t *Tx) MarkInviteAccepted(ctx context.Context, id, uid string, now time.Time) error {
	_, err := t.exec(ctx, `
		UPDATE invites SET accepted_by = ?, accepted_at = ?
		WHERE id = ? AND accepted_by IS NULL
	`, uid, now, id)
	if err != nil {
		return fmt.Errorf("mark invite accepted: %w", err)
	}
	return nil
}

func (t *Tx) MarkInviteDelivered(ctx context.Context, id string, delivered bool) error {
	_, err := t.exec(ctx, `UPDATE invites SET delivered = ? WHERE id = ?`, delivered, id)
	if err != nil {
		return fmt.Errorf("mark invite delivered: %w", err)
	}
	return nil
}
