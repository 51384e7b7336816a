// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/babyname-duel/models"
)

func completeInputs() Inputs {
	return Inputs{
		RequiredNames: 4,
		InvitesLocked: true,
		Members: []models.Member{
			{UserID: alice, Role: models.RoleOwner},
			{UserID: bob, Role: models.RoleParticipant},
		},
		Submitted: map[string]bool{alice: true, bob: true},
		ListSizes: map[string]int{alice: 4, bob: 4},
		Scored: map[Pair]int{
			{Rater: alice, Owner: bob}: 4,
			{Rater: bob, Owner: alice}: 4,
		},
	}
}

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Inputs)
		want   models.SessionStatus
	}{
		{"everything done", func(in *Inputs) {}, models.StatusCompleted},
		{"no members", func(in *Inputs) { in.Members = nil }, models.StatusActive},
		{"unknown role is not a member", func(in *Inputs) {
			in.Members = []models.Member{{UserID: alice, Role: "guest"}}
		}, models.StatusActive},
		{"one member has not submitted", func(in *Inputs) { in.Submitted[bob] = false }, models.StatusActive},
		{"list state missing", func(in *Inputs) { delete(in.Submitted, bob) }, models.StatusActive},
		{"list too short", func(in *Inputs) { in.ListSizes[bob] = 3 }, models.StatusActive},
		{"name count unset", func(in *Inputs) { in.RequiredNames = 0 }, models.StatusActive},
		{"one pair partly scored", func(in *Inputs) { in.Scored[Pair{Rater: alice, Owner: bob}] = 3 }, models.StatusActive},
		{"one pair not scored", func(in *Inputs) { delete(in.Scored, Pair{Rater: bob, Owner: alice}) }, models.StatusActive},
		{"invites open", func(in *Inputs) { in.InvitesLocked = false }, models.StatusActive},
		{"lone owner with a full list", func(in *Inputs) {
			in.Members = in.Members[:1]
		}, models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := completeInputs()
			tt.mutate(&in)
			require.Equal(t, tt.want, ResolveStatus(in))
		})
	}
}

func TestResolveStatus_Idempotent(t *testing.T) {
	for _, in := range []Inputs{completeInputs(), {}} {
		first := ResolveStatus(in)
		require.Equal(t, first, ResolveStatus(in))
	}
}

func TestResolveStatus_CompletionGateNeedsEveryCrossPair(t *testing.T) {
	in := completeInputs()
	in.Members = append(in.Members, models.Member{UserID: cara, Role: models.RoleParticipant})
	in.Submitted[cara] = true
	in.ListSizes[cara] = 4
	in.Scored[Pair{Rater: alice, Owner: cara}] = 4
	in.Scored[Pair{Rater: cara, Owner: alice}] = 4
	in.Scored[Pair{Rater: cara, Owner: bob}] = 4
	require.Equal(t, models.StatusActive, ResolveStatus(in), "bob has not scored cara")

	in.Scored[Pair{Rater: bob, Owner: cara}] = 4
	require.Equal(t, models.StatusCompleted, ResolveStatus(in))
}
