// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/models"
)

type TieBreakHandler struct {
	svc *duel.Service
}

func NewTieBreakHandler(svc *duel.Service) *TieBreakHandler {
	return &TieBreakHandler{svc: svc}
}

// Start handles POST /api/sessions/{sid}/tiebreak/start
func (h *TieBreakHandler) Start(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	resp, err := h.svc.StartTieBreak(r.Context(), sid, uid)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Vote handles PUT /api/sessions/{sid}/tiebreak/vote
func (h *TieBreakHandler) Vote(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	var req models.TieBreakVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.VoteTieBreak(r.Context(), sid, uid, req.Ranks)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Close handles POST /api/sessions/{sid}/tiebreak/close
func (h *TieBreakHandler) Close(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	resp, err := h.svc.CloseTieBreak(r.Context(), sid, uid)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
