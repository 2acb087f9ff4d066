package domain

import (
	"fmt"
	"time"
)

// AssignmentStatus represents the lifecycle state of an assignment
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// ParseAssignmentStatus validates a stored status string against the closed set
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	switch AssignmentStatus(s) {
	case AssignmentStatusPending, AssignmentStatusAccepted,
		AssignmentStatusDeclined, AssignmentStatusCompleted:
		return AssignmentStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown assignment status %q", ErrInvalidEnum, s)
}

// IsTerminal reports whether no further transitions are permitted
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentStatusDeclined || s == AssignmentStatusCompleted
}

// CanTransitionTo reports whether the transition from s to target is permitted.
// Completed is only reachable when the owning game completes, never directly.
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	switch s {
	case AssignmentStatusPending:
		return target == AssignmentStatusAccepted || target == AssignmentStatusDeclined
	case AssignmentStatusAccepted:
		return target == AssignmentStatusPending || target == AssignmentStatusDeclined ||
			target == AssignmentStatusCompleted
	default:
		return false
	}
}

// Assignment binds one referee to one position on one game
type Assignment struct {
	ID             string           `json:"id"`
	GameID         string           `json:"game_id"`
	RefereeID      string           `json:"referee_id"`
	PositionID     string           `json:"position_id"`
	Status         AssignmentStatus `json:"status"`
	CalculatedWage float64          `json:"calculated_wage"`
	AssignedBy     string           `json:"assigned_by"`
	AssignedAt     time.Time        `json:"assigned_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// RefereeBooking is an assignment joined with the scheduling attributes of
// its game, used for time-overlap checks
type RefereeBooking struct {
	Assignment
	GameStartsAt     time.Time  `json:"game_starts_at"`
	CompetitionLevel string     `json:"competition_level"`
	GameStatus       GameStatus `json:"game_status"`
}

// CreateAssignmentRequest represents a request to assign a referee to a position
type CreateAssignmentRequest struct {
	GameID     string `json:"game_id"`
	RefereeID  string `json:"referee_id"`
	PositionID string `json:"position_id"`
	AssignedBy string `json:"assigned_by,omitempty"`
}

// BulkUpdateItem is one status change inside a bulk update request
type BulkUpdateItem struct {
	AssignmentID string `json:"assignment_id"`
	Status       string `json:"status"`
}

// BulkUpdateRequest represents a multi-assignment status update
type BulkUpdateRequest struct {
	Items []BulkUpdateItem `json:"items"`
}

// BulkRemoveRequest represents a multi-assignment removal
type BulkRemoveRequest struct {
	AssignmentIDs []string `json:"assignment_ids"`
}

// BulkItemResult is the per-item outcome of a bulk operation, returned in
// the same order as the input
type BulkItemResult struct {
	AssignmentID string `json:"assignment_id"`
	OK           bool   `json:"ok"`
	Code         string `json:"code,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BulkUpdateResult aggregates the outcome of a bulk status update
type BulkUpdateResult struct {
	Submitted int              `json:"submitted"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
	Warnings  []string         `json:"warnings,omitempty"`
}

// BulkRemoveResult aggregates the outcome of a bulk removal
type BulkRemoveResult struct {
	Submitted     int              `json:"submitted"`
	Removed       int              `json:"removed"`
	NotFound      int              `json:"not_found"`
	Failed        int              `json:"failed"`
	Items         []BulkItemResult `json:"items"`
	AffectedGames []string         `json:"affected_games"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// AssignmentResult is the outcome of a single assignment creation, including
// any advisory warnings from the conflict checks
type AssignmentResult struct {
	Assignment *Assignment `json:"assignment"`
	GameStatus GameStatus  `json:"game_status"`
	Warnings   []string    `json:"warnings,omitempty"`
}
