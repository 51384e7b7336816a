// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/babyname-duel/apperrors"
	"github.com/danielhkuo/babyname-duel/cliparse"
	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/kv"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/models"
)

type InviteHandler struct {
	svc     *duel.Service
	limiter *kv.Limiter
	cfg     cliparse.Config
}

func NewInviteHandler(svc *duel.Service, limiter *kv.Limiter, cfg cliparse.Config) *InviteHandler {
	return &InviteHandler{svc: svc, limiter: limiter, cfg: cfg}
}

// CreateInvite handles POST /api/sessions/{sid}/invites
func (h *InviteHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	var req models.CreateInviteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.RequireOwner(r.Context(), sid, uid); err != nil {
		middleware.WriteError(w, err)
		return
	}

	allowed, count, err := h.limiter.Allow(r.Context(), "invite:"+uid, int64(h.cfg.InviteRateLimit), h.cfg.InviteRateWindow)
	if err != nil {
		slog.Warn("rate limiter unavailable", "error", err)
	}
	if !allowed {
		slog.Warn("invite rate limit hit", "uid", uid, "count", count, "ip", middleware.GetClientIP(r))
		middleware.WriteError(w, apperrors.New(apperrors.KindRateLimited, apperrors.CodeRateLimited,
			"too many invites sent, try again later"))
		return
	}

	resp, err := h.svc.CreateInvite(r.Context(), sid, uid, req.Email)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// AcceptInvite handles POST /api/invites/{token}/accept
func (h *InviteHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	token, ok := pathValue(w, r, "token")
	if !ok {
		return
	}

	resp, err := h.svc.AcceptInvite(r.Context(), token, uid)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
