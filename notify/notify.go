// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

type EventType string

const (
	EventInvite          EventType = "session.invite"
	EventListSubmitted   EventType = "list.submitted"
	EventListScored      EventType = "list.scored"
	EventTieBreakStarted EventType = "tiebreak.started"
	EventTieBreakClosed  EventType = "tiebreak.closed"
	EventMemberRemoved   EventType = "member.removed"
)

// Event is a fire-and-forget record of something that happened in a
// session. Recipients are identities to tell about it.
type Event struct {
	Type       EventType         `json:"type"`
	SessionID  string            `json:"sessionId"`
	Title      string            `json:"title,omitempty"`
	Actor      string            `json:"actor"`
	Recipients []string          `json:"recipients,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	At         time.Time         `json:"at"`
}

// Sink receives events after the change they describe has committed.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// LogSink writes events to the structured log.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, ev Event) error {
	slog.Info("event",
		"type", ev.Type,
		"session_id", ev.SessionID,
		"actor", ev.Actor,
		"recipients", len(ev.Recipients),
	)
	return nil
}

// Fanout publishes to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}
