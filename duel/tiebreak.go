// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/store"
)

// StartTieBreak opens a tie-break over the names sharing the best (lowest)
// total score. Totals are summed per name across every list.
func (s *Service) StartTieBreak(ctx context.Context, sid, actor string) (models.TieBreakResponse, error) {
	sess, err := s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		if _, err := requireOwner(ctx, tx, sid, actor); err != nil {
			return change{}, err
		}
		if err := requireNotArchived(sess); err != nil {
			return change{}, err
		}
		if !sess.InvitesLocked {
			return change{}, apperrors.Conflict(apperrors.CodeInvitesNotLocked, "lock invites before starting a tie-break")
		}
		if sess.TieBreakActive {
			return change{}, apperrors.Conflict(apperrors.CodeTieBreakActive, "a tie-break is already running")
		}
		if sess.IsClosedOut() {
			return change{}, apperrors.Conflict(apperrors.CodeTieBreakClosedOut, "the winners are already decided")
		}

		totals, err := tx.NameTotals(ctx, sid)
		if err != nil {
			return change{}, err
		}
		tied := Leaders(totals)
		if len(tied) < 2 {
			return change{}, apperrors.Conflict(apperrors.CodeTieBreakNoTie, "there is no tie to resolve")
		}

		if err := tx.SetTieBreak(ctx, sid, true, tied, nil, s.now()); err != nil {
			return change{}, err
		}
		if err := tx.ClearVotes(ctx, sid); err != nil {
			return change{}, err
		}

		members, err := tx.ListMembers(ctx, sid)
		if err != nil {
			return change{}, err
		}
		ev := s.event(notify.EventTieBreakStarted, sess, actor, othersOf(members, actor))
		ev.Data = map[string]string{"candidates": strings.Join(tied, ", ")}
		return change{events: []notify.Event{ev}}, nil
	})
	if err != nil {
		return models.TieBreakResponse{}, err
	}
	return tieBreakResponse(sess), nil
}

// VoteTieBreak replaces the actor's ballot. ranks must rank every
// candidate 1..K, each rank once.
func (s *Service) VoteTieBreak(ctx context.Context, sid, actor string, ranks map[string]int) (models.TieBreakResponse, error) {
	sess, err := s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		if _, err := requireMember(ctx, tx, sid, actor); err != nil {
			return change{}, err
		}
		if err := requireNotArchived(sess); err != nil {
			return change{}, err
		}
		if !sess.TieBreakActive {
			return change{}, apperrors.Conflict(apperrors.CodeTieBreakNotActive, "no tie-break is running")
		}

		votes, err := ballot(sess.TieBreakNames, ranks)
		if err != nil {
			return change{}, err
		}
		if err := tx.ReplaceVotes(ctx, sid, actor, votes); err != nil {
			return change{}, err
		}
		return change{}, nil
	})
	if err != nil {
		return models.TieBreakResponse{}, err
	}
	return tieBreakResponse(sess), nil
}

// CloseTieBreak picks the candidates with the lowest rank sum and
// completes the session. With no tie-break running it returns the
// recorded winners unchanged.
func (s *Service) CloseTieBreak(ctx context.Context, sid, actor string) (models.TieBreakResponse, error) {
	sess, err := s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		if _, err := requireOwner(ctx, tx, sid, actor); err != nil {
			return change{}, err
		}
		if err := requireNotArchived(sess); err != nil {
			return change{}, err
		}
		if !sess.TieBreakActive {
			return change{}, nil
		}

		votes, err := tx.AllVotes(ctx, sid)
		if err != nil {
			return change{}, err
		}
		winners := TallyWinners(sess.TieBreakNames, votes)

		now := s.now()
		if err := tx.SetTieBreak(ctx, sid, false, nil, winners, now); err != nil {
			return change{}, err
		}
		// The tie-break decides the outcome, so the resolver is bypassed.
		if err := tx.UpdateSessionStatus(ctx, sid, models.StatusCompleted, now); err != nil {
			return change{}, err
		}

		members, err := tx.ListMembers(ctx, sid)
		if err != nil {
			return change{}, err
		}
		ev := s.event(notify.EventTieBreakClosed, sess, actor, othersOf(members, actor))
		ev.Data = map[string]string{"winners": strings.Join(winners, ", ")}
		return change{events: []notify.Event{ev}}, nil
	})
	if err != nil {
		return models.TieBreakResponse{}, err
	}
	return tieBreakResponse(sess), nil
}

// Leaders returns the names sharing the lowest total, sorted.
func Leaders(totals []models.NameTotal) []string {
	if len(totals) == 0 {
		return nil
	}
	best := totals[0].Total
	for _, t := range totals[1:] {
		best = min(best, t.Total)
	}

	var names []string
	for _, t := range totals {
		if t.Total == best {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

// TallyWinners sums each candidate's ranks across ballots and returns the
// candidates with the lowest sum. Without any ballots every candidate
// wins. Votes for names outside the candidate set are ignored.
func TallyWinners(candidates []string, votes []models.TieBreakVote) []string {
	sums := make(map[string]int, len(candidates))
	for _, c := range candidates {
		sums[c] = 0
	}

	counted := 0
	for _, v := range votes {
		if _, ok := sums[v.Name]; ok {
			sums[v.Name] += v.Rank
			counted++
		}
	}
	if counted == 0 {
		return append([]string{}, candidates...)
	}

	best := -1
	for _, c := range candidates {
		if best < 0 || sums[c] < best {
			best = sums[c]
		}
	}

	var winners []string
	for _, c := range candidates {
		if sums[c] == best {
			winners = append(winners, c)
		}
	}
	return winners
}

// ballot checks ranks covers exactly the candidates with ranks 1..K.
func ballot(candidates []string, ranks map[string]int) ([]models.TieBreakVote, error) {
	if len(ranks) != len(candidates) {
		return nil, apperrors.Validation(apperrors.CodeTieBreakBallotShape,
			fmt.Sprintf("rank all %d tied names", len(candidates)))
	}

	votes := make([]models.TieBreakVote, 0, len(candidates))
	values := make([]int, 0, len(candidates))
	for _, name := range candidates {
		rank, ok := ranks[name]
		if !ok {
			return nil, apperrors.Validation(apperrors.CodeTieBreakBallotShape,
				fmt.Sprintf("%q is missing from the ballot", name))
		}
		votes = append(votes, models.TieBreakVote{Name: name, Rank: rank})
		values = append(values, rank)
	}

	if !isPermutation(values, len(candidates)) {
		return nil, apperrors.Validation(apperrors.CodeTieBreakBallotShape,
			fmt.Sprintf("ranks must use each of 1..%d exactly once", len(candidates)))
	}
	return votes, nil
}

func tieBreakResponse(sess models.Session) models.TieBreakResponse {
	return models.TieBreakResponse{
		Active:     sess.TieBreakActive,
		Candidates: sess.TieBreakNames,
		Winners:    sess.FinalWinners,
		Status:     sess.Status,
	}
}
