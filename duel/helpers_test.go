// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/mailer"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/store"
	"github.com/danielhkuo/babyname-duel/testutil"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
	cara  = "cara@example.com"
	dan   = "dan@example.com"
)

var (
	aliceFour = []string{"Ada", "Bea", "Cleo", "Dora"}
	bobFour   = []string{"Eve", "Fay", "Gia", "Hana"}
	caraFour  = []string{"Iris", "June", "Kira", "Lena"}

	aliceEight = []string{"Ada", "Bea", "Cleo", "Dora", "Eli", "Finn", "Gus", "Hugo"}
	bobEight   = []string{"Ivy", "Jade", "Kate", "Lily", "Milo", "Noah", "Otto", "Paul"}
)

type stubMailer struct {
	mu   sync.Mutex
	ok   bool
	sent []mailer.Message
}

func (m *stubMailer) Deliver(_ context.Context, msg mailer.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.ok
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	svc    *Service
	store  *store.Store
	events *notify.Recorder
	mail   *stubMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.New(testutil.SetupTestDB(t))
	events := &notify.Recorder{}
	mail := &stubMailer{ok: true}

	return &fixture{
		t:      t,
		ctx:    context.Background(),
		svc:    NewService(st, WithSink(events), WithMailer(mail), WithBaseURL("http://duel.test/")),
		store:  st,
		events: events,
		mail:   mail,
	}
}

// session creates a mix session owned by alice and invites members into it.
func (f *fixture) session(required int, members ...string) string {
	f.t.Helper()

	sess, err := f.svc.CreateSession(f.ctx, alice, CreateSessionInput{
		Title:         "Baby names",
		RequiredNames: required,
		NameFocus:     "mix",
	})
	require.NoError(f.t, err)

	for _, m := range members {
		f.join(sess.ID, m)
	}
	return sess.ID
}

func (f *fixture) join(sid, uid string) {
	f.t.Helper()

	inv, err := f.svc.CreateInvite(f.ctx, sid, alice, uid)
	require.NoError(f.t, err)
	resp, err := f.svc.AcceptInvite(f.ctx, inv.Token, uid)
	require.NoError(f.t, err)
	require.Equal(f.t, models.RoleParticipant, resp.Role)
}

func (f *fixture) submit(sid, uid string, names []string) {
	f.t.Helper()

	_, err := f.svc.SaveList(f.ctx, sid, uid, SaveListInput{Names: names, Finalize: true})
	require.NoError(f.t, err)
}

// scoreInOrder gives the i-th name of owner's list the value i+1.
func (f *fixture) scoreInOrder(sid, rater, owner string, names []string) {
	f.t.Helper()

	for i, name := range names {
		_, err := f.svc.SubmitScore(f.ctx, sid, rater, ScoreInput{ListOwner: owner, Name: name, Value: i + 1})
		require.NoError(f.t, err)
	}
}

func (f *fixture) lock(sid string) models.Session {
	f.t.Helper()

	sess, err := f.svc.SetInviteLock(f.ctx, sid, alice, true)
	require.NoError(f.t, err)
	return sess
}

func (f *fixture) snapshot(sid string) models.Snapshot {
	f.t.Helper()

	snap, err := f.svc.Snapshot(f.ctx, sid, alice)
	require.NoError(f.t, err)
	return snap
}

func (f *fixture) status(sid string) models.SessionStatus {
	f.t.Helper()
	return f.snapshot(sid).Session.Status
}

// resolveTwice runs the resolver over committed state twice in a row.
func (f *fixture) resolveTwice(sid string) (models.SessionStatus, models.SessionStatus) {
	f.t.Helper()

	var first, second models.SessionStatus
	err := f.store.Read(f.ctx, func(tx *store.Tx) error {
		sess, err := tx.GetSession(f.ctx, sid)
		if err != nil {
			return err
		}
		in, err := loadInputs(f.ctx, tx, sess)
		if err != nil {
			return err
		}
		first = ResolveStatus(in)
		second = ResolveStatus(in)
		return nil
	})
	require.NoError(f.t, err)
	return first, second
}

func requireCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code, appErr.Message)
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperrors.KindOf(err), err.Error())
}
