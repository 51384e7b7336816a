// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/babyname-duel/cliparse"
	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/kv"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/store"
	"github.com/danielhkuo/babyname-duel/testutil"
)

const (
	owner  = "owner@example.com"
	guest  = "guest@example.com"
	guest2 = "guest2@example.com"
	nobody = "nobody@example.com"
)

type testEnv struct {
	t        *testing.T
	cfg      cliparse.Config
	store    *store.Store
	events   *notify.Recorder
	sessions *SessionHandler
	invites  *InviteHandler
	lists    *ListHandler
	scores   *ScoreHandler
	tiebreak *TieBreakHandler
	health   *HealthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testutil.GetTestConfig()
	st := store.New(testutil.SetupTestDB(t))
	events := &notify.Recorder{}
	svc := duel.NewService(st, duel.WithSink(events), duel.WithBaseURL(cfg.PublicBaseURL))
	limiter := &kv.Limiter{}

	return &testEnv{
		t:        t,
		cfg:      cfg,
		store:    st,
		events:   events,
		sessions: NewSessionHandler(svc, cfg),
		invites:  NewInviteHandler(svc, limiter, cfg),
		lists:    NewListHandler(svc),
		scores:   NewScoreHandler(svc),
		tiebreak: NewTieBreakHandler(svc),
		health:   NewHealthHandler(st, limiter),
	}
}

// call runs h as uid with the given path values. An empty uid sends the
// request without an identity.
func (e *testEnv) call(h http.HandlerFunc, method, path, uid string, body interface{}, pathValues map[string]string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if uid != "" {
		req = testutil.AsUser(req, uid)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func (e *testEnv) createSession(uid string, required int) string {
	e.t.Helper()

	w := e.call(e.sessions.CreateSession, "POST", "/api/sessions", uid,
		models.CreateSessionRequest{Title: "Names", RequiredNames: required, NameFocus: "mix"}, nil)
	testutil.AssertStatus(e.t, w, http.StatusCreated)

	var resp models.CreateSessionResponse
	testutil.AssertJSON(e.t, w, &resp)
	return resp.SessionID
}

func (e *testEnv) invite(sid, uid string) {
	e.t.Helper()

	w := e.call(e.invites.CreateInvite, "POST", "/api/sessions/"+sid+"/invites", owner,
		models.CreateInviteRequest{Email: uid}, map[string]string{"sid": sid})
	testutil.AssertStatus(e.t, w, http.StatusCreated)

	var inv models.CreateInviteResponse
	testutil.AssertJSON(e.t, w, &inv)

	w = e.call(e.invites.AcceptInvite, "POST", "/api/invites/"+inv.Token+"/accept", uid, nil,
		map[string]string{"token": inv.Token})
	testutil.AssertStatus(e.t, w, http.StatusOK)
}

func (e *testEnv) submitList(sid, uid string, names []string) {
	e.t.Helper()

	w := e.call(e.lists.SaveList, "PUT", "/api/sessions/"+sid+"/lists", uid,
		models.SaveListRequest{Names: names, Finalize: true}, map[string]string{"sid": sid})
	testutil.AssertStatus(e.t, w, http.StatusOK)
}

func (e *testEnv) score(sid, rater, listOwner, name string, value int) *httptest.ResponseRecorder {
	return e.call(e.scores.SubmitScore, "POST", "/api/sessions/"+sid+"/scores", rater,
		models.SubmitScoreRequest{ListOwnerUID: listOwner, Name: name, ScoreValue: value},
		map[string]string{"sid": sid})
}

func (e *testEnv) snapshot(sid, uid string) models.Snapshot {
	e.t.Helper()

	w := e.call(e.sessions.GetSession, "GET", "/api/sessions/"+sid, uid, nil, map[string]string{"sid": sid})
	testutil.AssertStatus(e.t, w, http.StatusOK)

	var snap models.Snapshot
	testutil.AssertJSON(e.t, w, &snap)
	return snap
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}
