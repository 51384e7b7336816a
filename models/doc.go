// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Enumerations

Every state carried as a string in storage or JSON is a closed set with a
Parse function that rejects unknown values:

  - Role: owner, participant
  - ListStatus: draft, submitted
  - SessionStatus: active, completed, archived
  - NameFocus: mix, girl, boy

NameFocus.ValidateRequired enforces the required name count rules:

	4 <= n <= 100
	mix       → n divisible by 4
	girl, boy → n even

# Request Types

  - CreateSessionRequest: title, requiredNames, nameFocus
  - SaveListRequest: names, selfRanks, finalize, requiredNames
  - SubmitScoreRequest: listOwnerUid, name, scoreValue
  - InviteLockRequest: locked
  - CreateInviteRequest: email
  - TieBreakVoteRequest: ranks (name → rank)

# Response Types

  - CreateSessionResponse: sid, session
  - StatusResponse: ok, status
  - CreateInviteResponse: inviteId, token, link, delivered
  - AcceptInviteResponse: sid, role
  - TieBreakResponse: active, candidates, winners, status
  - Snapshot: everything a client needs to render one session
  - ErrorResponse: error, message, code

# Domain Types

  - Session, Member, ListState, ListItem, Score, TieBreakVote, Invite
  - NameTotal: aggregate score of a name (lower is better)
*/
package models
