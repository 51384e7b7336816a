// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/models"
)

type ListHandler struct {
	svc *duel.Service
}

func NewListHandler(svc *duel.Service) *ListHandler {
	return &ListHandler{svc: svc}
}

// SaveList handles PUT /api/sessions/{sid}/lists
func (h *ListHandler) SaveList(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	var req models.SaveListRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	state, err := h.svc.SaveList(r.Context(), sid, uid, duel.SaveListInput{
		Names:         req.Names,
		SelfRanks:     req.SelfRanks,
		Finalize:      req.Finalize,
		RequiredNames: req.RequiredNames,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}
