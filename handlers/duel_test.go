// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/testutil"
)

var (
	ownerNames = []string{"Ada", "Bea", "Eli", "Finn"}
	guestNames = []string{"Cleo", "Dora", "Gus", "Hugo"}
)

func TestSaveList(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(owner, 4)
	env.invite(sid, guest)
	path := map[string]string{"sid": sid}

	testCases := []struct {
		name           string
		uid            string
		body           models.SaveListRequest
		expectedStatus int
		expectedCode   apperrors.Code
	}{
		{
			name:           "draft with fewer names",
			uid:            guest,
			body:           models.SaveListRequest{Names: []string{"Cleo", "Dora"}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "finalize with too few names",
			uid:            guest,
			body:           models.SaveListRequest{Names: []string{"Cleo", "Dora", "Gus"}, Finalize: true},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apperrors.CodeListWrongCount,
		},
		{
			name:           "duplicate names",
			uid:            guest,
			body:           models.SaveListRequest{Names: []string{"Cleo", "cleo", "Gus", "Hugo"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apperrors.CodeListDuplicateName,
		},
		{
			name: "ranks not a permutation",
			uid:  guest,
			body: models.SaveListRequest{
				Names:     guestNames,
				SelfRanks: map[string]int{"Cleo": 1, "Dora": 1, "Gus": 3, "Hugo": 4},
				Finalize:  true,
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apperrors.CodeListRanksInvalid,
		},
		{
			name:           "not a member",
			uid:            nobody,
			body:           models.SaveListRequest{Names: guestNames},
			expectedStatus: http.StatusForbidden,
			expectedCode:   apperrors.CodeNotMember,
		},
		{
			name:           "finalize",
			uid:            guest,
			body:           models.SaveListRequest{Names: guestNames, Finalize: true},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "submitted list is final",
			uid:            guest,
			body:           models.SaveListRequest{Names: guestNames, Finalize: true},
			expectedStatus: http.StatusConflict,
			expectedCode:   apperrors.CodeListAlreadySubmit,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.call(env.lists.SaveList, "PUT", "/api/sessions/"+sid+"/lists", tc.uid, tc.body, path)
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedCode != "" {
				if code := decodeError(t, w).Code; code != string(tc.expectedCode) {
					t.Errorf("Expected code %s, got %s", tc.expectedCode, code)
				}
				return
			}

			var state models.ListState
			testutil.AssertJSON(t, w, &state)
			if state.UserID != tc.uid {
				t.Errorf("Expected list of %s, got %s", tc.uid, state.UserID)
			}
			if tc.body.Finalize && state.Status != models.ListSubmitted {
				t.Errorf("Expected submitted list, got %s", state.Status)
			}
		})
	}
}

func TestSubmitScore(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(owner, 4)
	env.invite(sid, guest)
	env.submitList(sid, owner, ownerNames)
	env.submitList(sid, guest, guestNames)

	testCases := []struct {
		name           string
		rater          string
		listOwner      string
		scoreName      string
		value          int
		expectedStatus int
		expectedCode   apperrors.Code
	}{
		{"valid score", guest, owner, "Ada", 1, http.StatusOK, ""},
		{"same value on another name", guest, owner, "Bea", 1, http.StatusConflict, apperrors.CodeScoreValueTaken},
		{"rescore same name", guest, owner, "Ada", 2, http.StatusOK, ""},
		{"value out of range", guest, owner, "Bea", 5, http.StatusBadRequest, apperrors.CodeScoreOutOfRange},
		{"own list", guest, guest, "Cleo", 1, http.StatusBadRequest, apperrors.CodeScoreSelf},
		{"name not on list", guest, owner, "Zed", 1, http.StatusNotFound, apperrors.CodeListNameNotFound},
		{"not a member", nobody, owner, "Ada", 3, http.StatusForbidden, apperrors.CodeNotMember},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.score(sid, tc.rater, tc.listOwner, tc.scoreName, tc.value)
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedCode != "" {
				if code := decodeError(t, w).Code; code != string(tc.expectedCode) {
					t.Errorf("Expected code %s, got %s", tc.expectedCode, code)
				}
				return
			}

			var score models.Score
			testutil.AssertJSON(t, w, &score)
			if score.ScoreValue != tc.value || score.RaterUID != tc.rater {
				t.Errorf("Unexpected score %+v", score)
			}
		})
	}

	scores := env.snapshot(sid, owner).Scores
	if len(scores) != 1 || scores[0].ScoreValue != 2 {
		t.Errorf("Expected a single overwritten score of 2, got %+v", scores)
	}
}

// TestFullDuelWorkflow drives a two-member session from creation through
// a tie-break that ends in a single winner.
func TestFullDuelWorkflow(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(owner, 4)
	env.invite(sid, guest)
	path := map[string]string{"sid": sid}

	env.submitList(sid, owner, ownerNames)
	env.submitList(sid, guest, guestNames)

	for i, name := range guestNames {
		testutil.AssertStatus(t, env.score(sid, owner, guest, name, i+1), http.StatusOK)
	}
	for i, name := range ownerNames {
		testutil.AssertStatus(t, env.score(sid, guest, owner, name, i+1), http.StatusOK)
	}

	// Scoring is done but invites are still open
	if status := env.snapshot(sid, owner).Session.Status; status != models.StatusActive {
		t.Fatalf("Expected active before lock, got %s", status)
	}

	// Tie-break needs locked invites
	w := env.call(env.tiebreak.Start, "POST", "/api/sessions/"+sid+"/tiebreak/start", owner, nil, path)
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = env.call(env.sessions.SetInviteLock, "PUT", "/api/sessions/"+sid+"/invite-lock", owner,
		models.InviteLockRequest{Locked: true}, path)
	testutil.AssertStatus(t, w, http.StatusOK)
	var lock models.StatusResponse
	testutil.AssertJSON(t, w, &lock)
	if lock.Status != models.StatusCompleted {
		t.Fatalf("Expected completed after lock, got %s", lock.Status)
	}

	snap := env.snapshot(sid, guest)
	if len(snap.Leaders) != 2 || snap.Leaders[0] != "Ada" || snap.Leaders[1] != "Cleo" {
		t.Fatalf("Expected Ada and Cleo tied, got %v", snap.Leaders)
	}

	w = env.call(env.tiebreak.Start, "POST", "/api/sessions/"+sid+"/tiebreak/start", guest, nil, path)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = env.call(env.tiebreak.Start, "POST", "/api/sessions/"+sid+"/tiebreak/start", owner, nil, path)
	testutil.AssertStatus(t, w, http.StatusOK)
	var started models.TieBreakResponse
	testutil.AssertJSON(t, w, &started)
	if !started.Active || len(started.Candidates) != 2 {
		t.Fatalf("Expected an active tie-break over 2 names, got %+v", started)
	}

	for _, uid := range []string{owner, guest} {
		w = env.call(env.tiebreak.Vote, "PUT", "/api/sessions/"+sid+"/tiebreak/vote", uid,
			models.TieBreakVoteRequest{Ranks: map[string]int{"Ada": 1, "Cleo": 2}}, path)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	w = env.call(env.tiebreak.Vote, "PUT", "/api/sessions/"+sid+"/tiebreak/vote", guest,
		models.TieBreakVoteRequest{Ranks: map[string]int{"Ada": 1}}, path)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	if n := env.snapshot(sid, owner).TieBreak.VoteCount; n != 2 {
		t.Errorf("Expected 2 ballots, got %d", n)
	}

	w = env.call(env.tiebreak.Close, "POST", "/api/sessions/"+sid+"/tiebreak/close", owner, nil, path)
	testutil.AssertStatus(t, w, http.StatusOK)
	var closed models.TieBreakResponse
	testutil.AssertJSON(t, w, &closed)
	if closed.Active || len(closed.Winners) != 1 || closed.Winners[0] != "Ada" {
		t.Errorf("Expected Ada as the only winner, got %+v", closed)
	}
	if closed.Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %s", closed.Status)
	}

	final := env.snapshot(sid, guest)
	if len(final.Session.FinalWinners) != 1 || final.Session.FinalWinners[0] != "Ada" {
		t.Errorf("Expected final winners [Ada], got %v", final.Session.FinalWinners)
	}
}

// TestConcurrentScores fires every score for a list at once. The session
// lock serializes them, so each value lands exactly once.
func TestConcurrentScores(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(owner, 4)
	env.invite(sid, guest)
	env.submitList(sid, owner, ownerNames)
	env.submitList(sid, guest, guestNames)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i, name := range ownerNames {
		wg.Add(1)
		go func(name string, value int) {
			defer wg.Done()
			if w := env.score(sid, guest, owner, name, value); w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(name, i+1)
	}
	wg.Wait()

	if int(successCount.Load()) != len(ownerNames) {
		t.Errorf("Expected %d successful scores, got %d", len(ownerNames), successCount.Load())
	}

	seen := map[int]bool{}
	for _, s := range env.snapshot(sid, owner).Scores {
		if seen[s.ScoreValue] {
			t.Errorf("Value %d stored twice", s.ScoreValue)
		}
		seen[s.ScoreValue] = true
	}
	if len(seen) != len(ownerNames) {
		t.Errorf("Expected %d distinct values, got %d", len(ownerNames), len(seen))
	}
}

// TestConcurrentInviteAccepts lets several invitees join at the same time.
func TestConcurrentInviteAccepts(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(owner, 4)

	invitees := []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com", "e@example.com"}
	tokens := make([]string, len(invitees))
	for i, uid := range invitees {
		w := env.call(env.invites.CreateInvite, "POST", "/api/sessions/"+sid+"/invites", owner,
			models.CreateInviteRequest{Email: uid}, map[string]string{"sid": sid})
		testutil.AssertStatus(t, w, http.StatusCreated)
		var inv models.CreateInviteResponse
		testutil.AssertJSON(t, w, &inv)
		tokens[i] = inv.Token
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i, uid := range invitees {
		wg.Add(1)
		go func(token, uid string) {
			defer wg.Done()
			w := env.call(env.invites.AcceptInvite, "POST", "/api/invites/"+token+"/accept", uid, nil,
				map[string]string{"token": token})
			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(tokens[i], uid)
	}
	wg.Wait()

	if int(successCount.Load()) != len(invitees) {
		t.Errorf("Expected %d accepts, got %d", len(invitees), successCount.Load())
	}
	if n := len(env.snapshot(sid, owner).Members); n != len(invitees)+1 {
		t.Errorf("Expected %d members, got %d", len(invitees)+1, n)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.call(env.health.Health, "GET", "/api/health", "", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = env.call(env.health.DBCheck, "GET", "/api/dbcheck", "", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
}
