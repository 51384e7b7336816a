// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package duel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/auth"
	"github.com/danielhkuo/babyname-duel/models"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/store"
)

const (
	defaultTitle   = "Untitled"
	maxTitleLength = 120
)

type CreateSessionInput struct {
	Title         string
	RequiredNames int // 0 leaves the count for the owner's first save
	NameFocus     string
}

// CreateSession creates a session owned by actor.
func (s *Service) CreateSession(ctx context.Context, actor string, in CreateSessionInput) (models.Session, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return models.Session{}, apperrors.Validation(apperrors.CodeInvalidTitle,
			fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	focus := models.FocusMix
	if in.NameFocus != "" {
		f, err := models.ParseNameFocus(strings.ToLower(strings.TrimSpace(in.NameFocus)))
		if err != nil {
			return models.Session{}, apperrors.Validation(apperrors.CodeInvalidNameFocus, "name focus must be mix, girl or boy")
		}
		focus = f
	}

	if in.RequiredNames != 0 {
		if err := focus.ValidateRequired(in.RequiredNames); err != nil {
			return models.Session{}, apperrors.Validation(apperrors.CodeInvalidRequiredNames, err.Error())
		}
	}

	now := s.now()
	sess := models.Session{
		ID:            s.newID(),
		Title:         title,
		CreatedBy:     actor,
		RequiredNames: in.RequiredNames,
		NameFocus:     focus,
		Status:        models.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertSession(ctx, sess); err != nil {
			return err
		}
		return tx.InsertMember(ctx, models.Member{
			SessionID: sess.ID,
			UserID:    actor,
			Role:      models.RoleOwner,
			JoinedAt:  now,
		})
	})
	if err != nil {
		return models.Session{}, translate(err)
	}

	slog.Info("session created", "session_id", sess.ID, "owner", actor, "required_names", sess.RequiredNames)
	return sess, nil
}

// Snapshot is the polling view of a session for one member. Other
// members' lists are only visible once submitted.
func (s *Service) Snapshot(ctx context.Context, sid, actor string) (models.Snapshot, error) {
	var snap models.Snapshot

	err := s.store.Read(ctx, func(tx *store.Tx) error {
		sess, err := tx.GetSession(ctx, sid)
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound(apperrors.CodeSessionNotFound, "session not found")
		}
		if err != nil {
			return err
		}
		if _, err := requireMember(ctx, tx, sid, actor); err != nil {
			return err
		}
		snap.Session = sess

		if snap.Members, err = tx.ListMembers(ctx, sid); err != nil {
			return err
		}
		if snap.ListStates, err = tx.ListStates(ctx, sid); err != nil {
			return err
		}
		visible := map[string]bool{actor: true}
		for _, st := range snap.ListStates {
			if st.Status == models.ListSubmitted {
				visible[st.UserID] = true
			}
		}

		items, err := tx.AllListItems(ctx, sid)
		if err != nil {
			return err
		}
		snap.Lists = make(map[string]models.ListView)
		for _, it := range items {
			if !visible[it.OwnerUID] {
				continue
			}
			view, ok := snap.Lists[it.OwnerUID]
			if !ok {
				view = models.ListView{Names: []string{}, SelfRanks: map[string]int{}}
			}
			view.Names = append(view.Names, it.Name)
			view.SelfRanks[it.Name] = it.SelfRank
			snap.Lists[it.OwnerUID] = view
		}

		if snap.Scores, err = tx.AllScores(ctx, sid); err != nil {
			return err
		}
		if snap.Totals, err = tx.NameTotals(ctx, sid); err != nil {
			return err
		}
		snap.Leaders = Leaders(snap.Totals)
		if snap.Leaders == nil {
			snap.Leaders = []string{}
		}

		snap.TieBreak = models.TieBreakState{
			Active:     sess.TieBreakActive,
			Candidates: sess.TieBreakNames,
		}
		if sess.TieBreakActive {
			votes, err := tx.AllVotes(ctx, sid)
			if err != nil {
				return err
			}
			raters := make(map[string]bool)
			for _, v := range votes {
				raters[v.RaterUID] = true
			}
			snap.TieBreak.VoteCount = len(raters)
		}
		return nil
	})
	if err != nil {
		return models.Snapshot{}, translate(err)
	}
	return snap, nil
}

// MySessions lists the sessions actor belongs to.
func (s *Service) MySessions(ctx context.Context, actor string) ([]models.SessionSummary, error) {
	var out []models.SessionSummary
	err := s.store.Read(ctx, func(tx *store.Tx) error {
		var err error
		out, err = tx.SessionsForUser(ctx, actor)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// SetInviteLock opens or closes the session to new members. Locking is
// the last gate before a session can complete.
func (s *Service) SetInviteLock(ctx context.Context, sid, actor string, locked bool) (models.Session, error) {
	return s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		if _, err := requireOwner(ctx, tx, sid, actor); err != nil {
			return change{}, err
		}
		if err := requireActive(sess); err != nil {
			return change{}, err
		}
		if err := requireNoTieBreak(sess, "the invite lock is fixed during a tie-break"); err != nil {
			return change{}, err
		}
		if err := tx.SetInvitesLocked(ctx, sid, locked, s.now()); err != nil {
			return change{}, err
		}
		return change{recompute: true}, nil
	})
}

// CreateInvite stores an invite and then tries to e-mail its link. The
// invite is kept whether or not the e-mail goes out.
func (s *Service) CreateInvite(ctx context.Context, sid, actor, email string) (models.CreateInviteResponse, error) {
	token, err := s.newToken()
	if err != nil {
		return models.CreateInviteResponse{}, apperrors.Internal(err)
	}

	inv := models.Invite{
		ID:        s.newID(),
		SessionID: sid,
		Token:     token,
		CreatedBy: actor,
	}
	link := s.baseURL + "/invite/" + token

	sess, err := s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		if _, err := requireOwner(ctx, tx, sid, actor); err != nil {
			return change{}, err
		}
		addr, err := mail.ParseAddress(strings.TrimSpace(email))
		if err != nil {
			return change{}, apperrors.Validation(apperrors.CodeInvalidEmail, "enter a valid e-mail address")
		}
		inv.Email = auth.NormalizeIdentity(addr.Address)

		if err := requireActive(sess); err != nil {
			return change{}, err
		}
		if err := requireNoTieBreak(sess, "no new invites during a tie-break"); err != nil {
			return change{}, err
		}
		if sess.InvitesLocked {
			return change{}, apperrors.Conflict(apperrors.CodeInvitesLocked, "invites are locked for this session")
		}

		inv.CreatedAt = s.now()
		return change{}, tx.InsertInvite(ctx, inv)
	})
	if err != nil {
		return models.CreateInviteResponse{}, err
	}

	recipient := inv.Email
	ev := s.event(notify.EventInvite, sess, actor, []string{recipient})
	ev.Data = map[string]string{"link": link}

	delivered := false
	if msg, ok := notify.Compose(ev, s.baseURL); ok {
		delivered = s.mailer.Deliver(ctx, msg)
	}
	if err := s.store.InTx(ctx, func(tx *store.Tx) error {
		return tx.MarkInviteDelivered(ctx, inv.ID, delivered)
	}); err != nil {
		slog.Error("failed to record invite delivery", "invite_id", inv.ID, "error", err)
	}

	// The invite mail already went out; the event is only a record.
	ev.Recipients = nil
	ev.Data["invite_id"] = inv.ID
	ev.Data["email"] = recipient
	ev.Data["delivered"] = fmt.Sprint(delivered)
	s.publish(ctx, []notify.Event{ev})

	return models.CreateInviteResponse{
		InviteID:  inv.ID,
		Token:     token,
		Link:      link,
		Delivered: delivered,
	}, nil
}

// AcceptInvite adds actor to the invite's session as a participant.
// Accepting again, or as an existing member, changes nothing.
func (s *Service) AcceptInvite(ctx context.Context, token, actor string) (models.AcceptInviteResponse, error) {
	var resp models.AcceptInviteResponse

	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		inv, err := tx.GetInviteByToken(ctx, token)
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound(apperrors.CodeInviteNotFound, "invite not found")
		}
		if err != nil {
			return err
		}

		sess, err := lockSession(ctx, tx, inv.SessionID)
		if err != nil {
			return err
		}
		resp.SessionID = sess.ID

		existing, err := tx.GetMember(ctx, sess.ID, actor)
		if err == nil {
			resp.Role = existing.Role
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := requireActive(sess); err != nil {
			return err
		}
		if err := requireNoTieBreak(sess, "no one can join during a tie-break"); err != nil {
			return err
		}
		if sess.InvitesLocked {
			return apperrors.Conflict(apperrors.CodeInvitesLocked, "this session is no longer accepting members")
		}

		now := s.now()
		if err := tx.InsertMember(ctx, models.Member{
			SessionID: sess.ID,
			UserID:    actor,
			Role:      models.RoleParticipant,
			JoinedAt:  now,
		}); err != nil {
			return err
		}
		if err := tx.MarkInviteAccepted(ctx, inv.ID, actor, now); err != nil {
			return err
		}
		resp.Role = models.RoleParticipant

		_, err = s.finish(ctx, tx, sess.ID, change{recompute: true})
		return err
	})
	if err != nil {
		return models.AcceptInviteResponse{}, translate(err)
	}

	slog.Info("invite accepted", "session_id", resp.SessionID, "uid", actor, "role", resp.Role)
	return resp, nil
}

// RemoveMember removes target from the session with their list, their
// scores given and received, and their tie-break ballot. The owner may
// remove anyone but themself; a participant may only leave.
func (s *Service) RemoveMember(ctx context.Context, sid, actor, target string) (models.Session, error) {
	target = auth.NormalizeIdentity(target)

	return s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		me, err := requireMember(ctx, tx, sid, actor)
		if err != nil {
			return change{}, err
		}
		if actor != target && me.Role != models.RoleOwner {
			return change{}, apperrors.Forbidden(apperrors.CodeOwnerOnly, "only the session owner can remove other members")
		}
		if err := requireActive(sess); err != nil {
			return change{}, err
		}
		if err := requireNoTieBreak(sess, "members cannot leave during a tie-break"); err != nil {
			return change{}, err
		}

		victim, err := tx.GetMember(ctx, sid, target)
		if errors.Is(err, store.ErrNotFound) {
			return change{}, apperrors.NotFound(apperrors.CodeMemberNotFound, "member not found")
		}
		if err != nil {
			return change{}, err
		}
		switch victim.Role {
		case models.RoleOwner:
			return change{}, apperrors.Conflict(apperrors.CodeCannotRemoveOwn, "the session owner cannot be removed")
		case models.RoleParticipant:
		}

		if err := tx.RemoveMember(ctx, sid, target); err != nil {
			return change{}, err
		}

		ch := change{recompute: true}
		if actor != target {
			ch.events = append(ch.events, s.event(notify.EventMemberRemoved, sess, actor, []string{target}))
		}
		return ch, nil
	})
}

// Archive freezes the session for good. Archiving twice is a no-op.
func (s *Service) Archive(ctx context.Context, sid, actor string) (models.Session, error) {
	return s.mutate(ctx, sid, func(tx *store.Tx, sess models.Session) (change, error) {
		if _, err := requireOwner(ctx, tx, sid, actor); err != nil {
			return change{}, err
		}
		if sess.IsArchived() {
			return change{}, nil
		}
		return change{}, tx.UpdateSessionStatus(ctx, sid, models.StatusArchived, s.now())
	})
}

// Delete removes the session and everything in it, in any status.
func (s *Service) Delete(ctx context.Context, sid, actor string) error {
	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		if _, err := lockSession(ctx, tx, sid); err != nil {
			return err
		}
		if _, err := requireOwner(ctx, tx, sid, actor); err != nil {
			return err
		}
		return tx.DeleteSession(ctx, sid)
	})
	if err != nil {
		return translate(err)
	}

	slog.Info("session deleted", "session_id", sid, "by", actor)
	return nil
}
