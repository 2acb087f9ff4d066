package domain

import (
	"fmt"
	"time"
)

// GameStatus represents the aggregate staffing status of a game
type GameStatus string

const (
	GameStatusUnassigned   GameStatus = "unassigned"
	GameStatusAssigned     GameStatus = "assigned"
	GameStatusFullyStaffed GameStatus = "fully_staffed"
	GameStatusInProgress   GameStatus = "in_progress"
	GameStatusCompleted    GameStatus = "completed"
	GameStatusCancelled    GameStatus = "cancelled"
)

// ParseGameStatus validates a stored status string against the closed set
func ParseGameStatus(s string) (GameStatus, error) {
	switch GameStatus(s) {
	case GameStatusUnassigned, GameStatusAssigned, GameStatusFullyStaffed,
		GameStatusInProgress, GameStatusCompleted, GameStatusCancelled:
		return GameStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown game status %q", ErrInvalidEnum, s)
}

// IsTerminal reports whether the status is one of the externally triggered
// lifecycle states that suppress derived-status recomputation
func (s GameStatus) IsTerminal() bool {
	return s == GameStatusInProgress || s == GameStatusCompleted || s == GameStatusCancelled
}

// PaymentModel determines how a game's pay rate maps to per-assignment wages
type PaymentModel string

const (
	PaymentModelIndividual PaymentModel = "INDIVIDUAL"
	PaymentModelFlatRate   PaymentModel = "FLAT_RATE"
)

// ParsePaymentModel validates a payment model string
func ParsePaymentModel(s string) (PaymentModel, error) {
	switch PaymentModel(s) {
	case PaymentModelIndividual, PaymentModelFlatRate:
		return PaymentModel(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment model %q", ErrInvalidEnum, s)
}

// Game represents a scheduled fixture requiring a fixed number of
// officiating positions
type Game struct {
	ID                    string       `json:"id"`
	StartsAt              time.Time    `json:"starts_at"`
	Location              string       `json:"location"`
	PostalCode            string       `json:"postal_code,omitempty"`
	CompetitionLevel      string       `json:"competition_level"`
	RequiredQualification int          `json:"required_qualification"`
	PayRate               float64      `json:"pay_rate"`
	WageMultiplier        float64      `json:"wage_multiplier"`
	MultiplierReason      string       `json:"multiplier_reason,omitempty"`
	PaymentModel          PaymentModel `json:"payment_model"`
	RefsNeeded            int          `json:"refs_needed"`
	Status                GameStatus   `json:"status"`
	CreatedBy             string       `json:"created_by"`
	OrgID                 string       `json:"org_id"`
	RegionID              string       `json:"region_id,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// Position is a named officiating role on a game, unique per game
type Position struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

// DeriveGameStatus computes a game's aggregate status from the count of its
// non-declined assignments. Terminal lifecycle states are never derived here.
func DeriveGameStatus(liveAssignments, refsNeeded int) GameStatus {
	switch {
	case liveAssignments == 0:
		return GameStatusUnassigned
	case liveAssignments < refsNeeded:
		return GameStatusAssigned
	default:
		return GameStatusFullyStaffed
	}
}

// CreateGameRequest represents a request to create a new game
type CreateGameRequest struct {
	StartsAt              time.Time `json:"starts_at"`
	Location              string    `json:"location"`
	PostalCode            string    `json:"postal_code,omitempty"`
	CompetitionLevel      string    `json:"competition_level,omitempty"`
	RequiredQualification int       `json:"required_qualification,omitempty"`
	PayRate               float64   `json:"pay_rate"`
	WageMultiplier        float64   `json:"wage_multiplier,omitempty"`
	MultiplierReason      string    `json:"multiplier_reason,omitempty"`
	PaymentModel          string    `json:"payment_model,omitempty"`
	RefsNeeded            int       `json:"refs_needed"`
	Positions             []string  `json:"positions,omitempty"`
	OrgID                 string    `json:"org_id,omitempty"`
	RegionID              string    `json:"region_id,omitempty"`
}

// GameLifecycleAction is an externally triggered game transition
type GameLifecycleAction string

const (
	GameLifecycleStart    GameLifecycleAction = "start"
	GameLifecycleComplete GameLifecycleAction = "complete"
	GameLifecycleCancel   GameLifecycleAction = "cancel"
)

// ParseGameLifecycleAction validates a lifecycle action string
func ParseGameLifecycleAction(s string) (GameLifecycleAction, error) {
	switch GameLifecycleAction(s) {
	case GameLifecycleStart, GameLifecycleComplete, GameLifecycleCancel:
		return GameLifecycleAction(s), nil
	}
	return "", fmt.Errorf("%w: unknown lifecycle action %q", ErrInvalidEnum, s)
}

// GameEvent is a game lifecycle event consumed from the league feed
type GameEvent struct {
	GameID    string    `json:"game_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}
