// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/babyname-duel/models"
)

// UpsertScore writes a score keyed by (session, list owner, rater, name).
// Reusing a value held by another name fails on the unique constraint.
func (t *Tx) UpsertScore(ctx context.Context, sessionID string, s models.Score, now time.Time) error {
	_, err := t.exec(ctx, `
		INSERT INTO scores (session_id, list_owner_uid, rater_uid, name, score_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, list_owner_uid, rater_uid, name) DO UPDATE SET
			score_value = excluded.score_value,
			updated_at = excluded.updated_at
	`, sessionID, s.ListOwnerUID, s.RaterUID, s.Name, s.ScoreValue, now, now)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// ScoresFor returns the scores one rater gave to one list.
func (t *Tx) ScoresFor(ctx context.Context, sessionID, listOwner, rater string) ([]models.Score, error) {
	return t.scores(ctx, `
		SELECT list_owner_uid, rater_uid, name, score_value, created_at
		FROM scores
		WHERE session_id = ? AND list_owner_uid = ? AND rater_uid = ?
		ORDER BY score_value
	`, sessionID, listOwner, rater)
}

func (t *Tx) AllScores(ctx context.Context, sessionID string) ([]models.Score, error) {
	return t.scores(ctx, `
		SELECT list_owner_uid, rater_uid, name, score_value, created_at
		FROM scores
		WHERE session_id = ?
		ORDER BY list_owner_uid, rater_uid, score_value
	`, sessionID)
}

func (t *Tx) scores(ctx context.Context, query string, args ...any) ([]models.Score, error) {
	rows, err := t.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	out := []models.Score{}
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.ListOwnerUID, &s.RaterUID, &s.Name, &s.ScoreValue, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// NameTotals sums score values per literal name across every list and
// rater in the session, best (lowest) first.
func (t *Tx) NameTotals(ctx context.Context, sessionID string) ([]models.NameTotal, error) {
	rows, err := t.query(ctx, `
		SELECT name, SUM(score_value) AS total
		FROM scores
		WHERE session_id = ?
		GROUP BY name
		ORDER BY total, name
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query name totals: %w", err)
	}
	defer rows.Close()

	totals := []models.NameTotal{}
	for rows.Next() {
		var nt models.NameTotal
		if err := rows.Scan(&nt.Name, &nt.Total); err != nil {
			return nil, fmt.Errorf("scan name total: %w", err)
		}
		totals = append(totals, nt)
	}
	return totals, rows.Err()
}
