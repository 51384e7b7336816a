package models

import (
	"fmt"
	"time"
)

// Role of a member inside a session.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleParticipant Role = "participant"
)

// ParseRole rejects anything outside the closed set instead of
// defaulting to participant.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleParticipant:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ListStatus of one member's ranked list.
type ListStatus string

const (
	ListDraft     ListStatus = "draft"
	ListSubmitted ListStatus = "submitted"
)

func ParseListStatus(s string) (ListStatus, error) {
	switch ListStatus(s) {
	case ListDraft, ListSubmitted:
		return ListStatus(s), nil
	}
	return "", fmt.Errorf("unknown list status %q", s)
}

// SessionStatus is the lifecycle state of a session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusArchived  SessionStatus = "archived"
)

func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(s) {
	case StatusActive, StatusCompleted, StatusArchived:
		return SessionStatus(s), nil
	}
	return "", fmt.Errorf("unknown session status %q", s)
}

// NameFocus constrains which required name counts are allowed.
type NameFocus string

const (
	FocusMix  NameFocus = "mix"
	FocusGirl NameFocus = "girl"
	FocusBoy  NameFocus = "boy"
)

// Required name count bounds, inclusive.
const (
	MinRequiredNames = 4
	MaxRequiredNames = 100
)

func ParseNameFocus(s string) (NameFocus, error) {
	switch NameFocus(s) {
	case FocusMix, FocusGirl, FocusBoy:
		return NameFocus(s), nil
	}
	return "", fmt.Errorf("unknown name focus %q", s)
}

// ValidateRequired checks a required name count against the focus.
// A mixed list is split evenly between girl and boy names in pairs,
// so it needs a multiple of four.
func (f NameFocus) ValidateRequired(n int) error {
	if n < MinRequiredNames || n > MaxRequiredNames {
		return fmt.Errorf("required names must be between %d and %d", MinRequiredNames, MaxRequiredNames)
	}
	switch f {
	case FocusMix:
		if n%4 != 0 {
			return fmt.Errorf("required names for a mixed list must be divisible by 4")
		}
	case FocusGirl, FocusBoy:
		if n%2 != 0 {
			return fmt.Errorf("required names for a %s list must be even", f)
		}
	default:
		return fmt.Errorf("unknown name focus %q", f)
	}
	return nil
}

// Domain types

type Session struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	CreatedBy      string        `json:"createdBy"`
	RequiredNames  int           `json:"requiredNames"` // 0 until the owner sets it
	NameFocus      NameFocus     `json:"nameFocus"`
	Status         SessionStatus `json:"status"`
	InvitesLocked  bool          `json:"invitesLocked"`
	TieBreakActive bool          `json:"tieBreakActive"`
	TieBreakNames  []string      `json:"tieBreakNames,omitempty"`
	FinalWinners   []string      `json:"finalWinners,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (s Session) IsArchived() bool { return s.Status == StatusArchived }

// IsClosedOut reports whether a final winner set has been recorded.
func (s Session) IsClosedOut() bool { return s.FinalWinners != nil }

// AcceptsChanges reports whether lists, scores, invites and membership
// may still change.
func (s Session) AcceptsChanges() bool { return s.Status == StatusActive }

type Member struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"uid"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type ListState struct {
	SessionID   string     `json:"sessionId"`
	UserID      string     `json:"uid"`
	Status      ListStatus `json:"status"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

type ListItem struct {
	OwnerUID string `json:"ownerUid"`
	Name     string `json:"name"`
	SelfRank int    `json:"selfRank"`
}

type Score struct {
	ListOwnerUID string    `json:"listOwnerUid"`
	RaterUID     string    `json:"raterUid"`
	Name         string    `json:"name"`
	ScoreValue   int       `json:"scoreValue"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TieBreakVote struct {
	RaterUID string `json:"raterUid"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
}

type Invite struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"sessionId"`
	Email      string     `json:"email"`
	Token      string     `json:"token"`
	Delivered  bool       `json:"delivered"`
	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	AcceptedBy *string    `json:"acceptedBy,omitempty"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
}

// NameTotal is the aggregate score of one name; lower is better.
type NameTotal struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// Request types

type CreateSessionRequest struct {
	Title         string `json:"title"`
	RequiredNames int    `json:"requiredNames"`
	NameFocus     string `json:"nameFocus"`
}

type SaveListRequest struct {
	Names         []string       `json:"names"`
	SelfRanks     map[string]int `json:"selfRanks"`
	Finalize      bool           `json:"finalize"`
	RequiredNames int            `json:"requiredNames"`
}

type SubmitScoreRequest struct {
	ListOwnerUID string `json:"listOwnerUid"`
	Name         string `json:"name"`
	ScoreValue   int    `json:"scoreValue"`
}

type InviteLockRequest struct {
	Locked bool `json:"locked"`
}

type CreateInviteRequest struct {
	Email string `json:"email"`
}

type TieBreakVoteRequest struct {
	Ranks map[string]int `json:"ranks"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string  `json:"sid"`
	Session   Session `json:"session"`
}

type StatusResponse struct {
	OK     bool          `json:"ok"`
	Status SessionStatus `json:"status"`
}

type CreateInviteResponse struct {
	InviteID  string `json:"inviteId"`
	Token     string `json:"token"`
	Link      string `json:"link"`
	Delivered bool   `json:"delivered"`
}

type AcceptInviteResponse struct {
	SessionID string `json:"sid"`
	Role      Role   `json:"role"`
}

type TieBreakResponse struct {
	Active     bool          `json:"active"`
	Candidates []string      `json:"candidates,omitempty"`
	Winners    []string      `json:"winners,omitempty"`
	Status     SessionStatus `json:"status"`
}

type TieBreakState struct {
	Active     bool     `json:"active"`
	Candidates []string `json:"candidates,omitempty"`
	VoteCount  int      `json:"voteCount"` // distinct raters who voted
}

type ListView struct {
	Names     []string       `json:"names"`
	SelfRanks map[string]int `json:"selfRanks"`
}

// Snapshot is the polling view of one session.
type Snapshot struct {
	Session    Session             `json:"session"`
	Members    []Member            `json:"members"`
	ListStates []ListState         `json:"listStates"`
	Lists      map[string]ListView `json:"lists"`
	Scores     []Score             `json:"scores"`
	Totals     []NameTotal         `json:"totals"`
	Leaders    []string            `json:"leaders"`
	TieBreak   TieBreakState       `json:"tieBreak"`
}

type SessionSummary struct {
	SessionID string        `json:"sid"`
	Title     string        `json:"title"`
	Status    SessionStatus `json:"status"`
	Role      Role          `json:"role"`
	JoinedAt  time.Time     `json:"joinedAt"`
}

type MySessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
