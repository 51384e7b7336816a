// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/cliparse"
	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/models"
)

type SessionHandler struct {
	svc *duel.Service
	cfg cliparse.Config
}

func NewSessionHandler(svc *duel.Service, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{svc: svc, cfg: cfg}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sess, err := h.svc.CreateSession(r.Context(), uid, duel.CreateSessionInput{
		Title:         req.Title,
		RequiredNames: req.RequiredNames,
		NameFocus:     req.NameFocus,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		Session:   sess,
	})
}

// MySessions handles GET /api/sessions
func (h *SessionHandler) MySessions(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}

	sessions, err := h.svc.MySessions(r.Context(), uid)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MySessionsResponse{Sessions: sessions})
}

// GetSession handles GET /api/sessions/{sid}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(r.Context(), sid, uid)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /api/sessions/{sid}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), sid, uid); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

// ArchiveSession handles POST /api/sessions/{sid}/archive
func (h *SessionHandler) ArchiveSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	sess, err := h.svc.Archive(r.Context(), sid, uid)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{OK: true, Status: sess.Status})
}

// SetInviteLock handles PUT /api/sessions/{sid}/invite-lock
func (h *SessionHandler) SetInviteLock(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	var req models.InviteLockRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sess, err := h.svc.SetInviteLock(r.Context(), sid, uid, req.Locked)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("invite lock changed", "session_id", sid, "locked", req.Locked, "status", sess.Status)
	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{OK: true, Status: sess.Status})
}

// RemoveMember handles DELETE /api/sessions/{sid}/members/{uid}
func (h *SessionHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}
	target, ok := pathValue(w, r, "uid")
	if !ok {
		return
	}

	sess, err := h.svc.RemoveMember(r.Context(), sid, actor, target)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{OK: true, Status: sess.Status})
}

// identity returns the caller set by middleware.RequireIdentity, writing
// 401 when there is none.
func identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.Identity(r)
	if !ok {
		middleware.WriteError(w, apperrors.New(apperrors.KindUnauthenticated, apperrors.CodeUnauthenticated, "sign in to continue"))
		return "", false
	}
	return uid, true
}

func pathValue(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return v, true
}
