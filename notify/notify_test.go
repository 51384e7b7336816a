// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/babyname-duel/mailer"
)

type failingSink struct{ err error }

func (f failingSink) Publish(context.Context, Event) error { return f.err }

type fakeMailer struct {
	mu   sync.Mutex
	ok   bool
	sent []mailer.Message
}

func (f *fakeMailer) Deliver(_ context.Context, msg mailer.Message) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.ok
}

func TestFanout(t *testing.T) {
	rec := &Recorder{}
	boom := errors.New("boom")
	f := Fanout{LogSink{}, failingSink{err: boom}, rec}

	err := f.Publish(context.Background(), Event{Type: EventListSubmitted, SessionID: "s1"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, []EventType{EventListSubmitted}, rec.Types())
}

func TestRecorder_Concurrent(t *testing.T) {
	rec := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Publish(context.Background(), Event{Type: EventListScored})
		}()
	}
	wg.Wait()
	require.Len(t, rec.Events(), 20)
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name        string
		ev          Event
		wantOK      bool
		wantTo      []string
		wantSubject string
		wantBody    string
	}{
		{
			name: "list submitted",
			ev: Event{Type: EventListSubmitted, SessionID: "abc", Title: "Baby #2", Actor: "a@example.com",
				Recipients: []string{"b@example.com", "dev-user"}},
			wantOK:      true,
			wantTo:      []string{"b@example.com"},
			wantSubject: `A new list is ready to score in "Baby #2"`,
			wantBody:    "https://duel.example.com/s/abc",
		},
		{
			name: "invite uses link from data",
			ev: Event{Type: EventInvite, SessionID: "abc", Actor: "a@example.com",
				Recipients: []string{"c@example.com"}, Data: map[string]string{"link": "https://x/invite/tok"}},
			wantOK:      true,
			wantTo:      []string{"c@example.com"},
			wantSubject: `You're invited to "your name duel"`,
			wantBody:    "https://x/invite/tok",
		},
		{
			name: "tie-break closed lists winners",
			ev: Event{Type: EventTieBreakClosed, SessionID: "abc", Title: "t",
				Recipients: []string{"b@example.com"}, Data: map[string]string{"winners": "Ada, Iris"}},
			wantOK:      true,
			wantTo:      []string{"b@example.com"},
			wantSubject: `Winner picked in "t"`,
			wantBody:    "Ada, Iris",
		},
		{
			name:   "no e-mail recipients",
			ev:     Event{Type: EventListScored, SessionID: "abc", Recipients: []string{"dev-user"}},
			wantOK: false,
		},
		{
			name:   "unknown type",
			ev:     Event{Type: "other", Recipients: []string{"b@example.com"}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := Compose(tt.ev, "https://duel.example.com/")
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			require.Equal(t, tt.wantTo, msg.To)
			require.Equal(t, tt.wantSubject, msg.Subject)
			require.True(t, strings.Contains(msg.Body, tt.wantBody), "body %q missing %q", msg.Body, tt.wantBody)
		})
	}
}

func TestWorker_HandleTask(t *testing.T) {
	ev := Event{Type: EventListScored, SessionID: "abc", Actor: "b@example.com", Recipients: []string{"a@example.com"}}
	task, err := NewTask(ev)
	require.NoError(t, err)
	require.Equal(t, TaskType, task.Type())

	t.Run("delivered", func(t *testing.T) {
		m := &fakeMailer{ok: true}
		w := &Worker{mailer: m, baseURL: "http://localhost"}
		require.NoError(t, w.HandleTask(context.Background(), task))
		require.Len(t, m.sent, 1)
		require.Equal(t, []string{"a@example.com"}, m.sent[0].To)
	})

	t.Run("delivery failure is retried", func(t *testing.T) {
		w := &Worker{mailer: &fakeMailer{ok: false}}
		require.Error(t, w.HandleTask(context.Background(), task))
	})

	t.Run("nobody to mail", func(t *testing.T) {
		m := &fakeMailer{ok: true}
		w := &Worker{mailer: m}
		quiet, err := NewTask(Event{Type: EventListScored, Recipients: []string{"dev-user"}})
		require.NoError(t, err)
		require.NoError(t, w.HandleTask(context.Background(), quiet))
		require.Empty(t, m.sent)
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		w := &Worker{mailer: &fakeMailer{ok: true}}
		err := w.HandleTask(context.Background(), asynq.NewTask(TaskType, []byte("{")))
		require.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestNewQueueSink_RequiresURL(t *testing.T) {
	_, err := NewQueueSink("", "")
	require.Error(t, err)
}
