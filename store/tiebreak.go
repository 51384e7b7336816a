// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/babyname-duel/models"
)

// ReplaceVotes swaps a rater's whole tie-break ballot.
func (t *Tx) ReplaceVotes(ctx context.Context, sessionID, rater string, votes []models.TieBreakVote) error {
	if _, err := t.exec(ctx, `DELETE FROM tiebreak_votes WHERE session_id = ? AND rater_uid = ?`, sessionID, rater); err != nil {
		return fmt.Errorf("delete tie-break votes: %w", err)
	}

	for _, v := range votes {
		_, err := t.exec(ctx, `
			INSERT INTO tiebreak_votes (session_id, rater_uid, name, rank)
			VALUES (?, ?, ?, ?)
		`, sessionID, rater, v.Name, v.Rank)
		if err != nil {
			return fmt.Errorf("insert tie-break vote: %w", err)
		}
	}
	return nil
}

func (t *Tx) ClearVotes(ctx context.Context, sessionID string) error {
	if _, err := t.exec(ctx, `DELETE FROM tiebreak_votes WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear tie-break votes: %w", err)
	}
	return nil
}

func (t *Tx) AllVotes(ctx context.Context, sessionID string) ([]models.TieBreakVote, error) {
	rows, err := t.query(ctx, `
		SELECT rater_uid, name, rank
		FROM tiebreak_votes
		WHERE session_id = ?
		ORDER BY rater_uid, rank
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query tie-break votes: %w", err)
	}
	defer rows.Close()

	votes := []models.TieBreakVote{}
	for rows.Next() {
		var v models.TieBreakVote
		if err := rows.Scan(&v.RaterUID, &v.Name, &v.Rank); err != nil {
			return nil, fmt.Errorf("scan tie-break vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
