// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/auth"
	"github.com/danielhkuo/babyname-duel/db"
	"github.com/danielhkuo/babyname-duel/mailer"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/store"
)

// Service runs every session operation. Each mutation is one transaction
// that ends in the same post-mutation hook (see finish).
type Service struct {
	store    *store.Store
	sink     notify.Sink
	mailer   mailer.Mailer
	baseURL  string
	now      func() time.Time
	newID    func() string
	newToken func() (string, error)
}

type Option func(*Service)

// WithSink sets where events go after commit. Defaults to notify.LogSink.
func WithSink(sink notify.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithMailer sets the invite mailer. Defaults to mailer.LogMailer.
func WithMailer(m mailer.Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

// WithBaseURL sets the public URL invite links point at.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(u, "/") }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		sink:     notify.LogSink{},
		mailer:   mailer.LogMailer{},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newID,
		newToken: auth.GenerateInviteToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// change describes what an operation did, for the post-mutation hook.
type change struct {
	recompute bool // inputs of the status resolver changed
	events    []notify.Event
}

// mutate locks the session, runs op, and finishes the transaction through
// the post-mutation hook. It returns the session as committed.
func (s *Service) mutate(ctx context.Context, sid string, op func(tx *store.Tx, sess models.Session) (change, error)) (models.Session, error) {
	var result models.Session
	var events []notify.Event

	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		sess, err := lockSession(ctx, tx, sid)
		if err != nil {
			return err
		}

		ch, err := op(tx, sess)
		if err != nil {
			return err
		}

		result, err = s.finish(ctx, tx, sid, ch)
		events = ch.events
		return err
	})
	if err != nil {
		return models.Session{}, translate(err)
	}

	s.publish(ctx, events)
	return result, nil
}

// finish re-resolves the session status when the change asks for it and
// returns the session as it will be committed.
func (s *Service) finish(ctx context.Context, tx *store.Tx, sid string, ch change) (models.Session, error) {
	if ch.recompute {
		if err := s.resolve(ctx, tx, sid); err != nil {
			return models.Session{}, err
		}
	}
	return tx.GetSession(ctx, sid)
}

// resolve recomputes and persists the status of sid. Archived and
// closed-out sessions keep their status.
func (s *Service) resolve(ctx context.Context, tx *store.Tx, sid string) error {
	sess, err := tx.GetSession(ctx, sid)
	if err != nil {
		return err
	}
	if sess.IsArchived() || sess.IsClosedOut() {
		return nil
	}

	in, err := loadInputs(ctx, tx, sess)
	if err != nil {
		return err
	}

	status := ResolveStatus(in)
	if status == sess.Status {
		return nil
	}
	if err := tx.UpdateSessionStatus(ctx, sid, status, s.now()); err != nil {
		return err
	}
	slog.Info("session status changed", "session_id", sid, "from", sess.Status, "to", status)
	return nil
}

func (s *Service) publish(ctx context.Context, events []notify.Event) {
	for _, ev := range events {
		if err := s.sink.Publish(ctx, ev); err != nil {
			slog.Error("failed to publish event",
				"type", ev.Type,
				"session_id", ev.SessionID,
				"error", err,
			)
		}
	}
}

func (s *Service) event(typ notify.EventType, sess models.Session, actor string, recipients []string) notify.Event {
	return notify.Event{
		Type:       typ,
		SessionID:  sess.ID,
		Title:      sess.Title,
		Actor:      actor,
		Recipients: recipients,
		At:         s.now(),
	}
}

// translate turns storage failures into the error taxonomy. Domain errors
// pass through unchanged.
func translate(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if db.IsUniqueViolation(err) {
		return apperrors.Conflict(apperrors.CodeConflict, "a concurrent change conflicted with this one, please retry")
	}
	return apperrors.Internal(err)
}

func lockSession(ctx context.Context, tx *store.Tx, sid string) (models.Session, error) {
	sess, err := tx.LockSession(ctx, sid)
	if errors.Is(err, store.ErrNotFound) {
		return models.Session{}, apperrors.NotFound(apperrors.CodeSessionNotFound, "session not found")
	}
	return sess, err
}

func requireMember(ctx context.Context, tx *store.Tx, sid, uid string) (models.Member, error) {
	m, err := tx.GetMember(ctx, sid, uid)
	if errors.Is(err, store.ErrNotFound) {
		return models.Member{}, apperrors.Forbidden(apperrors.CodeNotMember, "you are not a member of this session")
	}
	return m, err
}

func requireOwner(ctx context.Context, tx *store.Tx, sid, uid string) (models.Member, error) {
	m, err := requireMember(ctx, tx, sid, uid)
	if err != nil {
		return m, err
	}
	switch m.Role {
	case models.RoleOwner:
		return m, nil
	case models.RoleParticipant:
		return m, apperrors.Forbidden(apperrors.CodeOwnerOnly, "only the session owner can do this")
	}
	return m, apperrors.Forbidden(apperrors.CodeOwnerOnly, "unknown role")
}

// requireActive rejects changes to completed and archived sessions.
func requireActive(sess models.Session) error {
	if sess.AcceptsChanges() {
		return nil
	}
	switch sess.Status {
	case models.StatusCompleted:
		return apperrors.Conflict(apperrors.CodeSessionNotActive, "session is completed")
	case models.StatusArchived:
		return apperrors.Conflict(apperrors.CodeSessionArchived, "session is archived")
	}
	return apperrors.Conflict(apperrors.CodeSessionNotActive, "session is not active")
}

// requireNoTieBreak freezes membership and the invite lock while a
// tie-break runs.
func requireNoTieBreak(sess models.Session, msg string) error {
	if sess.TieBreakActive {
		return apperrors.Conflict(apperrors.CodeTieBreakActive, msg)
	}
	return nil
}

func requireNotArchived(sess models.Session) error {
	if sess.IsArchived() {
		return apperrors.Conflict(apperrors.CodeSessionArchived, "session is archived")
	}
	return nil
}

// RequireOwner checks that uid owns sid without locking it. Callers use
// it to authorize before spending a quota; the operation checks again.
func (s *Service) RequireOwner(ctx context.Context, sid, uid string) error {
	err := s.store.Read(ctx, func(tx *store.Tx) error {
		if _, err := tx.GetSession(ctx, sid); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.NotFound(apperrors.CodeSessionNotFound, "session not found")
			}
			return err
		}
		_, err := requireOwner(ctx, tx, sid, uid)
		return err
	})
	if err != nil {
		return translate(err)
	}
	return nil
}

// othersOf returns every member identity except uid.
func othersOf(members []models.Member, uid string) []string {
	var out []string
	for _, m := range members {
		if m.UserID != uid {
			out = append(out, m.UserID)
		}
	}
	return out
}
