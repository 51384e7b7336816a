// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"context"

	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/store"
)

// Pair is an ordered (rater, list owner) pair.
type Pair struct {
	Rater string
	Owner string
}

// Inputs is everything the status resolver looks at.
type Inputs struct {
	RequiredNames int
	InvitesLocked bool
	Members       []models.Member
	Submitted     map[string]bool // uid -> list submitted
	ListSizes     map[string]int  // uid -> list item count
	Scored        map[Pair]int    // scores a rater has given on an owner's list
}

// ResolveStatus computes whether a session is active or completed. The
// checks run in order and the first failure keeps the session active:
//
//  1. there is at least one member
//  2. every member has submitted
//  3. every list has exactly RequiredNames items
//  4. every member has scored every name on every other member's list
//  5. invites are locked
func ResolveStatus(in Inputs) models.SessionStatus {
	var people []string
	for _, m := range in.Members {
		switch m.Role {
		case models.RoleOwner, models.RoleParticipant:
			people = append(people, m.UserID)
		}
	}
	if len(people) == 0 {
		return models.StatusActive
	}

	for _, uid := range people {
		if !in.Submitted[uid] {
			return models.StatusActive
		}
	}

	if in.RequiredNames <= 0 {
		return models.StatusActive
	}
	for _, uid := range people {
		if in.ListSizes[uid] != in.RequiredNames {
			return models.StatusActive
		}
	}

	for _, rater := range people {
		for _, owner := range people {
			if rater == owner {
				continue
			}
			if in.Scored[Pair{Rater: rater, Owner: owner}] < in.ListSizes[owner] {
				return models.StatusActive
			}
		}
	}

	if !in.InvitesLocked {
		return models.StatusActive
	}
	return models.StatusCompleted
}

// loadInputs reads the resolver inputs of one session from tx.
func loadInputs(ctx context.Context, tx *store.Tx, sess models.Session) (Inputs, error) {
	in := Inputs{
		RequiredNames: sess.RequiredNames,
		InvitesLocked: sess.InvitesLocked,
		Submitted:     make(map[string]bool),
		ListSizes:     make(map[string]int),
		Scored:        make(map[Pair]int),
	}

	var err error
	if in.Members, err = tx.ListMembers(ctx, sess.ID); err != nil {
		return in, err
	}

	states, err := tx.ListStates(ctx, sess.ID)
	if err != nil {
		return in, err
	}
	for _, st := range states {
		in.Submitted[st.UserID] = st.Status == models.ListSubmitted
	}

	items, err := tx.AllListItems(ctx, sess.ID)
	if err != nil {
		return in, err
	}
	for _, it := range items {
		in.ListSizes[it.OwnerUID]++
	}

	scores, err := tx.AllScores(ctx, sess.ID)
	if err != nil {
		return in, err
	}
	for _, sc := range scores {
		in.Scored[Pair{Rater: sc.RaterUID, Owner: sc.ListOwnerUID}]++
	}
	return in, nil
}
