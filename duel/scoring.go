// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/auth"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/store"
)

type ScoreInput struct {
	ListOwner string
	Name      string
	Value     int
}

// SubmitScore records the rater's score for one name on another member's
// list. Scoring the same name again overwrites its value; a value already
// given to a different name on that list is rejected.
func (s *Service) SubmitScore(ctx context.Context, sid, rater string, in ScoreInput) (models.Score, error) {
	owner := auth.NormalizeIdentity(in.ListOwner)
	var saved models.Score

	_, err := s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		if _, err := requireMember(ctx, tx, sid, rater); err != nil {
			return change{}, err
		}
		if err := requireActive(sess); err != nil {
			return change{}, err
		}
		if sess.TieBreakActive {
			return change{}, apperrors.Conflict(apperrors.CodeTieBreakActive, "scoring is closed during a tie-break")
		}

		if _, err := tx.GetMember(ctx, sid, owner); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return change{}, apperrors.NotFound(apperrors.CodeMemberNotFound, "list owner is not a member of this session")
			}
			return change{}, err
		}
		if submitted, err := isSubmitted(ctx, tx, sid, owner); err != nil {
			return change{}, err
		} else if !submitted {
			return change{}, apperrors.Conflict(apperrors.CodeListNotSubmitted, "that list has not been submitted yet")
		}

		if rater == owner {
			return change{}, apperrors.Validation(apperrors.CodeScoreSelf, "you cannot score your own list")
		}

		if submitted, err := isSubmitted(ctx, tx, sid, rater); err != nil {
			return change{}, err
		} else if !submitted {
			return change{}, apperrors.Conflict(apperrors.CodeRaterNotSubmitted, "submit your own list before scoring others")
		}

		items, err := tx.ListItems(ctx, sid, owner)
		if err != nil {
			return change{}, err
		}
		name, ok := findName(items, in.Name)
		if !ok {
			return change{}, apperrors.NotFound(apperrors.CodeListNameNotFound, fmt.Sprintf("%q is not on that list", in.Name))
		}

		if in.Value < 1 || in.Value > sess.RequiredNames {
			return change{}, apperrors.Validation(apperrors.CodeScoreOutOfRange,
				fmt.Sprintf("score must be between 1 and %d", sess.RequiredNames))
		}

		existing, err := tx.ScoresFor(ctx, sid, owner, rater)
		if err != nil {
			return change{}, err
		}
		rescore := false
		for _, e := range existing {
			if e.Name == name {
				rescore = true
				continue
			}
			if e.ScoreValue == in.Value {
				return change{}, apperrors.Conflict(apperrors.CodeScoreValueTaken,
					fmt.Sprintf("you already gave %d to %q", in.Value, e.Name))
			}
		}

		now := s.now()
		saved = models.Score{
			ListOwnerUID: owner,
			RaterUID:     rater,
			Name:         name,
			ScoreValue:   in.Value,
			CreatedAt:    now,
		}
		if err := tx.UpsertScore(ctx, sid, saved, now); err != nil {
			return change{}, err
		}

		ch := change{recompute: true}
		if !rescore && len(existing)+1 == len(items) {
			ch.events = append(ch.events, s.event(notify.EventListScored, sess, rater, []string{owner}))
		}
		return ch, nil
	})
	if err != nil {
		return models.Score{}, err
	}
	return saved, nil
}

func isSubmitted(ctx context.Context, tx *store.Tx, sid, uid string) (bool, error) {
	state, ok, err := tx.GetListState(ctx, sid, uid)
	if err != nil {
		return false, err
	}
	return ok && state.Status == models.ListSubmitted, nil
}

// findName matches name against a list ignoring case and returns the
// spelling stored on the list.
func findName(items []models.ListItem, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, it := range items {
		if it.Name == name {
			return it.Name, true
		}
	}
	fold := cases.Fold()
	key := fold.String(name)
	for _, it := range items {
		if fold.String(it.Name) == key {
			return it.Name, true
		}
	}
	return "", false
}
