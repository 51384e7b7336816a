// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/models"
)

type ScoreHandler struct {
	svc *duel.Service
}

func NewScoreHandler(svc *duel.Service) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

// SubmitScore handles POST /api/sessions/{sid}/scores
func (h *ScoreHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	uid, ok := identity(w, r)
	if !ok {
		return
	}
	sid, ok := pathValue(w, r, "sid")
	if !ok {
		return
	}

	var req models.SubmitScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	score, err := h.svc.SubmitScore(r.Context(), sid, uid, duel.ScoreInput{
		ListOwner: req.ListOwnerUID,
		Name:      req.Name,
		Value:     req.ScoreValue,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, score)
}
