// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/babyname-duel/kv"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/store"
)

type HealthHandler struct {
	store   *store.Store
	limiter *kv.Limiter
}

func NewHealthHandler(st *store.Store, limiter *kv.Limiter) *HealthHandler {
	return &HealthHandler{store: st, limiter: limiter}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"ok":    true,
		"redis": h.limiter.Available(),
	})
}

// DBCheck handles GET /api/dbcheck
func (h *HealthHandler) DBCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		slog.Error("database check failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
}
