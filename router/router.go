// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/babyname-duel/auth"
	"github.com/danielhkuo/babyname-duel/cliparse"
	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/handlers"
	"github.com/danielhkuo/babyname-duel/kv"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/store"
)

func NewRouter(svc *duel.Service, st *store.Store, limiter *kv.Limiter, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(svc, cfg)
	inviteHandler := handlers.NewInviteHandler(svc, limiter, cfg)
	listHandler := handlers.NewListHandler(svc)
	scoreHandler := handlers.NewScoreHandler(svc)
	tieBreakHandler := handlers.NewTieBreakHandler(svc)
	healthHandler := handlers.NewHealthHandler(st, limiter)

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.DevIdentity)
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireIdentity(verifier)(h))
	}

	// Health checks
	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.HandleFunc("GET /api/dbcheck", middleware.WithLogging(healthHandler.DBCheck))

	// Sessions
	mux.HandleFunc("POST /api/sessions", authed(sessionHandler.CreateSession))
	mux.HandleFunc("GET /api/sessions", authed(sessionHandler.MySessions))
	mux.HandleFunc("GET /api/sessions/{sid}", authed(sessionHandler.GetSession))
	mux.HandleFunc("DELETE /api/sessions/{sid}", authed(sessionHandler.DeleteSession))
	mux.HandleFunc("POST /api/sessions/{sid}/archive", authed(sessionHandler.ArchiveSession))
	mux.HandleFunc("PUT /api/sessions/{sid}/invite-lock", authed(sessionHandler.SetInviteLock))
	mux.HandleFunc("DELETE /api/sessions/{sid}/members/{uid}", authed(sessionHandler.RemoveMember))

	// Invites
	mux.HandleFunc("POST /api/sessions/{sid}/invites", authed(inviteHandler.CreateInvite))
	mux.HandleFunc("POST /api/invites/{token}/accept", authed(inviteHandler.AcceptInvite))

	// Lists and scores
	mux.HandleFunc("PUT /api/sessions/{sid}/lists", authed(listHandler.SaveList))
	mux.HandleFunc("POST /api/sessions/{sid}/scores", authed(scoreHandler.SubmitScore))

	// Tie-break
	mux.HandleFunc("POST /api/sessions/{sid}/tiebreak/start", authed(tieBreakHandler.Start))
	mux.HandleFunc("PUT /api/sessions/{sid}/tiebreak/vote", authed(tieBreakHandler.Vote))
	mux.HandleFunc("POST /api/sessions/{sid}/tiebreak/close", authed(tieBreakHandler.Close))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("babyname-duel API v1"))
	})

	return mux
}
