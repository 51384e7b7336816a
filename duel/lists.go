// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/store"
)

type SaveListInput struct {
	Names     []string
	SelfRanks map[string]int // name -> rank; missing names use their position
	Finalize  bool
	// RequiredNames lets the owner fix the session's name count on their
	// first save. Zero leaves it unchanged.
	RequiredNames int
}

// SaveList replaces the actor's list. A draft accepts up to the required
// count with ranks clamped into range; a finalized list must hold exactly
// the required count ranked 1..N and can never change again.
func (s *Service) SaveList(ctx context.Context, sid, actor string, in SaveListInput) (models.ListState, error) {
	var saved models.ListState

	_, err := s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		member, err := requireMember(ctx, tx, sid, actor)
		if err != nil {
			return change{}, err
		}
		if err := requireActive(sess); err != nil {
			return change{}, err
		}
		if sess.TieBreakActive {
			return change{}, apperrors.Conflict(apperrors.CodeTieBreakActive, "lists are frozen during a tie-break")
		}

		state, ok, err := tx.GetListState(ctx, sid, actor)
		if err != nil {
			return change{}, err
		}
		if ok && state.Status == models.ListSubmitted {
			return change{}, apperrors.Conflict(apperrors.CodeListAlreadySubmit, "your list is already submitted")
		}

		required, err := s.applyTemplate(ctx, tx, sess, member, in.RequiredNames)
		if err != nil {
			return change{}, err
		}

		items, err := buildItems(in, required)
		if err != nil {
			return change{}, err
		}
		if err := tx.ReplaceListItems(ctx, sid, actor, items); err != nil {
			return change{}, err
		}

		now := s.now()
		saved = models.ListState{
			SessionID: sid,
			UserID:    actor,
			Status:    models.ListDraft,
			UpdatedAt: now,
		}
		if in.Finalize {
			saved.Status = models.ListSubmitted
			saved.SubmittedAt = &now
		}
		if err := tx.UpsertListState(ctx, saved); err != nil {
			return change{}, err
		}

		ch := change{recompute: true}
		if in.Finalize {
			members, err := tx.ListMembers(ctx, sid)
			if err != nil {
				return change{}, err
			}
			ch.events = append(ch.events, s.event(notify.EventListSubmitted, sess, actor, othersOf(members, actor)))
		}
		return ch, nil
	})
	if err != nil {
		return models.ListState{}, err
	}
	return saved, nil
}

// applyTemplate returns the required name count for this save, fixing it
// on the session when the owner supplies it for the first time. Zero means
// still unset.
func (s *Service) applyTemplate(ctx context.Context, tx *store.Tx, sess models.Session, member models.Member, requested int) (int, error) {
	if requested == 0 || requested == sess.RequiredNames {
		return sess.RequiredNames, nil
	}

	switch member.Role {
	case models.RoleOwner:
	case models.RoleParticipant:
		return 0, apperrors.Forbidden(apperrors.CodeOwnerOnly, "only the session owner can set the name count")
	default:
		return 0, apperrors.Forbidden(apperrors.CodeOwnerOnly, "unknown role")
	}

	if sess.RequiredNames != 0 {
		return 0, apperrors.Conflict(apperrors.CodeRequiredNamesFixed,
			fmt.Sprintf("name count is already fixed at %d", sess.RequiredNames))
	}
	if err := sess.NameFocus.ValidateRequired(requested); err != nil {
		return 0, apperrors.Validation(apperrors.CodeInvalidRequiredNames, err.Error())
	}
	if err := tx.SetRequiredNames(ctx, sess.ID, requested, s.now()); err != nil {
		return 0, err
	}
	return requested, nil
}

// buildItems validates names and resolves their ranks. required is zero
// while the session has no name count yet.
func buildItems(in SaveListInput, required int) ([]store.ItemRow, error) {
	fold := cases.Fold()
	seen := make(map[string]bool, len(in.Names))
	items := make([]store.ItemRow, 0, len(in.Names))

	for i, raw := range in.Names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, apperrors.Validation(apperrors.CodeListEmptyName, fmt.Sprintf("name %d is empty", i+1))
		}
		key := fold.String(name)
		if seen[key] {
			return nil, apperrors.Validation(apperrors.CodeListDuplicateName, fmt.Sprintf("%q appears more than once", name))
		}
		seen[key] = true

		rank, ok := in.SelfRanks[name]
		if !ok {
			rank, ok = in.SelfRanks[raw]
		}
		if !ok {
			rank = i + 1
		}
		items = append(items, store.ItemRow{Name: name, Key: key, SelfRank: rank})
	}

	if in.Finalize {
		if required == 0 {
			return nil, apperrors.Conflict(apperrors.CodeRequiredNamesUnset, "the owner has not set the name count yet")
		}
		if len(items) != required {
			return nil, apperrors.Validation(apperrors.CodeListWrongCount,
				fmt.Sprintf("a submitted list needs exactly %d names, got %d", required, len(items)))
		}
		ranks := make([]int, len(items))
		for i, it := range items {
			ranks[i] = it.SelfRank
		}
		if !isPermutation(ranks, required) {
			return nil, apperrors.Validation(apperrors.CodeListRanksInvalid,
				fmt.Sprintf("ranks must use each of 1..%d exactly once", required))
		}
		return items, nil
	}

	limit := required
	if limit == 0 {
		limit = len(items)
	} else if len(items) > limit {
		return nil, apperrors.Validation(apperrors.CodeListTooManyNames,
			fmt.Sprintf("a list holds at most %d names", limit))
	}
	for i := range items {
		items[i].SelfRank = clamp(items[i].SelfRank, 1, max(limit, 1))
	}
	return items, nil
}

// isPermutation reports whether values are exactly 1..n, each once.
func isPermutation(values []int, n int) bool {
	if len(values) != n {
		return false
	}
	seen := make([]bool, n+1)
	for _, v := range values {
		if v < 1 || v > n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
