// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package duel implements the session lifecycle of a baby name duel.

Members each submit a ranked list of N names, then score every other
member's list with a permutation of 1..N (lower is better). When all
lists are in, every cross pair is fully scored and the owner has locked
invites, the session completes. The names sharing the lowest total
score may then go to a tie-break vote.

# Coordinator

Every mutation goes through Service.mutate:

 1. lock the session row
 2. check the actor and session state
 3. apply the change
 4. re-resolve the session status when the change can affect it
 5. commit, then publish events

Status is derived by ResolveStatus from stored facts only, so running
it again over the same state changes nothing. Archived sessions and
sessions with recorded winners are never re-resolved.

# Tie-break

StartTieBreak collects the tied names. Members vote with a full
ranking of the candidates; CloseTieBreak sums the ranks and keeps the
lowest. Without any ballots every candidate wins.
*/
package duel
