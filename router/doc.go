// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the BabyName Duel API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, st, limiter, cfg)

# Endpoints

Health (public):

	GET /api/health  - Liveness
	GET /api/dbcheck - Database round trip

Sessions:

	POST   /api/sessions                     - Create session
	GET    /api/sessions                     - Sessions of the caller
	GET    /api/sessions/{sid}               - Snapshot
	DELETE /api/sessions/{sid}               - Delete (owner)
	POST   /api/sessions/{sid}/archive       - Archive (owner)
	PUT    /api/sessions/{sid}/invite-lock   - Lock or unlock invites (owner)
	DELETE /api/sessions/{sid}/members/{uid} - Remove a member or leave

Invites:

	POST /api/sessions/{sid}/invites   - Invite by e-mail (owner, rate limited)
	POST /api/invites/{token}/accept   - Join through an invite link

Lists, scores and tie-break:

	PUT  /api/sessions/{sid}/lists          - Save or submit own list
	POST /api/sessions/{sid}/scores         - Score a name on another list
	POST /api/sessions/{sid}/tiebreak/start - Start tie-break (owner)
	PUT  /api/sessions/{sid}/tiebreak/vote  - Rank the tied names
	POST /api/sessions/{sid}/tiebreak/close - Close tie-break (owner)

Every route except health requires an identity, checked by
middleware.RequireIdentity.
*/
package router
