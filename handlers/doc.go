// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the BabyName Duel API.

# Handler Types

Each handler is a struct around the duel.Service:

  - SessionHandler: Session lifecycle and membership
  - InviteHandler: Invite creation (rate limited) and acceptance
  - ListHandler: Saving and submitting a member's list
  - ScoreHandler: Scoring names on other members' lists
  - TieBreakHandler: Starting, voting on and closing a tie-break
  - HealthHandler: Liveness and database checks

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(svc, cfg)

# Identity

Every session handler reads the caller from the request context, where
middleware.RequireIdentity put it. A request without one gets 401.

# Errors

Domain errors are written with middleware.WriteError, which maps the
error kind to the status code and includes the machine-readable code:

	{"error": "Conflict", "message": "...", "code": "SCORE_VALUE_TAKEN"}
*/
package handlers
