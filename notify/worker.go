// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/danielhkuo/babyname-duel/mailer"
)

// Worker consumes queued events and e-mails their recipients.
type Worker struct {
	server  *asynq.Server
	mailer  mailer.Mailer
	baseURL string
}

func NewWorker(redisURL, queue string, concurrency int, m mailer.Mailer, baseURL string) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis url: %w", err)
	}
	if queue == "" {
		queue = DefaultQueue
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			slog.Error("notification task failed", "type", task.Type(), "error", err)
		}),
	})
	return &Worker{server: srv, mailer: m, baseURL: baseURL}, nil
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskType, w.HandleTask)

	if err := w.server.Start(mux); err != nil {
		return fmt.Errorf("start notification worker: %w", err)
	}
	slog.Info("notification worker started")

	<-ctx.Done()
	w.server.Shutdown()
	slog.Info("notification worker stopped")
	return nil
}

// HandleTask decodes one event and mails every e-mail recipient. A failed
// delivery returns an error so asynq retries the task.
func (w *Worker) HandleTask(ctx context.Context, t *asynq.Task) error {
	var ev Event
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		return fmt.Errorf("decode event: %v: %w", err, asynq.SkipRetry)
	}

	msg, ok := Compose(ev, w.baseURL)
	if !ok {
		slog.Debug("event has nobody to mail", "type", ev.Type, "session_id", ev.SessionID)
		return nil
	}

	if !w.mailer.Deliver(ctx, msg) {
		return errors.New("notification mail not delivered")
	}
	return nil
}

// Compose renders the e-mail for an event. It reports false when no
// recipient looks like an e-mail address.
func Compose(ev Event, baseURL string) (mailer.Message, bool) {
	var to []string
	for _, r := range ev.Recipients {
		if strings.Contains(r, "@") {
			to = append(to, r)
		}
	}
	if len(to) == 0 {
		return mailer.Message{}, false
	}

	title := ev.Title
	if title == "" {
		title = "your name duel"
	}
	link := strings.TrimRight(baseURL, "/") + "/s/" + ev.SessionID

	var subject, body string
	switch ev.Type {
	case EventInvite:
		subject = fmt.Sprintf("You're invited to %q", title)
		body = fmt.Sprintf("%s invited you to pick baby names together.\n\nJoin here: %s\n", ev.Actor, ev.Data["link"])
	case EventListSubmitted:
		subject = fmt.Sprintf("A new list is ready to score in %q", title)
		body = fmt.Sprintf("%s submitted their names. Score them here: %s\n", ev.Actor, link)
	case EventListScored:
		subject = fmt.Sprintf("Your list was scored in %q", title)
		body = fmt.Sprintf("%s finished scoring your names. See results: %s\n", ev.Actor, link)
	case EventTieBreakStarted:
		subject = fmt.Sprintf("Tie-break started in %q", title)
		body = fmt.Sprintf("These names are tied: %s\n\nCast your ranking: %s\n", ev.Data["candidates"], link)
	case EventTieBreakClosed:
		subject = fmt.Sprintf("Winner picked in %q", title)
		body = fmt.Sprintf("Final winners: %s\n\n%s\n", ev.Data["winners"], link)
	case EventMemberRemoved:
		subject = fmt.Sprintf("You left %q", title)
		body = fmt.Sprintf("You are no longer a member of %q.\n", title)
	default:
		return mailer.Message{}, false
	}

	return mailer.Message{To: to, Subject: subject, Body: body}, true
}
