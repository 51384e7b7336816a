// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apperrors

// Code is a machine-readable error code.
type Code string

const (
	CodeInternal Code = "INTERNAL"
	CodeConflict Code = "CONFLICT"

	// Identity
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// Session
	CodeSessionNotFound      Code = "SESSION_NOT_FOUND"
	CodeSessionNotActive     Code = "SESSION_NOT_ACTIVE"
	CodeSessionArchived      Code = "SESSION_ARCHIVED"
	CodeInvalidTitle         Code = "SESSION_INVALID_TITLE"
	CodeInvalidNameFocus     Code = "SESSION_INVALID_NAME_FOCUS"
	CodeInvalidRequiredNames Code = "SESSION_INVALID_REQUIRED_NAMES"
	CodeRequiredNamesFixed   Code = "SESSION_REQUIRED_NAMES_FIXED"
	CodeRequiredNamesUnset   Code = "SESSION_REQUIRED_NAMES_UNSET"
	CodeInvitesLocked        Code = "SESSION_INVITES_LOCKED"
	CodeInvitesNotLocked     Code = "SESSION_INVITES_NOT_LOCKED"

	// Membership
	CodeNotMember       Code = "MEMBER_NOT_MEMBER"
	CodeOwnerOnly       Code = "MEMBER_OWNER_ONLY"
	CodeMemberNotFound  Code = "MEMBER_NOT_FOUND"
	CodeCannotRemoveOwn Code = "MEMBER_CANNOT_REMOVE_OWNER"
	CodeInviteNotFound  Code = "INVITE_NOT_FOUND"
	CodeInvalidEmail    Code = "INVITE_INVALID_EMAIL"
	CodeRateLimited     Code = "INVITE_RATE_LIMITED"

	// Lists
	CodeListEmptyName     Code = "LIST_EMPTY_NAME"
	CodeListDuplicateName Code = "LIST_DUPLICATE_NAME"
	CodeListWrongCount    Code = "LIST_WRONG_COUNT"
	CodeListTooManyNames  Code = "LIST_TOO_MANY_NAMES"
	CodeListRanksInvalid  Code = "LIST_RANKS_INVALID"
	CodeListAlreadySubmit Code = "LIST_ALREADY_SUBMITTED"
	CodeListNotSubmitted  Code = "LIST_NOT_SUBMITTED"
	CodeRaterNotSubmitted Code = "LIST_RATER_NOT_SUBMITTED"
	CodeListNameNotFound  Code = "LIST_NAME_NOT_FOUND"

	// Scores
	CodeScoreSelf       Code = "SCORE_SELF"
	CodeScoreOutOfRange Code = "SCORE_OUT_OF_RANGE"
	CodeScoreValueTaken Code = "SCORE_VALUE_TAKEN"

	// Tie-break
	CodeTieBreakActive      Code = "TIEBREAK_ACTIVE"
	CodeTieBreakNotActive   Code = "TIEBREAK_NOT_ACTIVE"
	CodeTieBreakNoTie       Code = "TIEBREAK_NO_TIE"
	CodeTieBreakClosedOut   Code = "TIEBREAK_ALREADY_CLOSED_OUT"
	CodeTieBreakBallotShape Code = "TIEBREAK_BALLOT_INVALID"
)

// Sentinels for errors.Is comparisons.
var (
	ErrSessionNotFound = &Error{Code: CodeSessionNotFound}
	ErrNotMember       = &Error{Code: CodeNotMember}
	ErrOwnerOnly       = &Error{Code: CodeOwnerOnly}
	ErrTieBreakNoTie   = &Error{Code: CodeTieBreakNoTie}
	ErrScoreValueTaken = &Error{Code: CodeScoreValueTaken}
)
