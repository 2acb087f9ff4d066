package domain

import "time"

// Referee represents an official who can be assigned to games
type Referee struct {
	ID                 string    `json:"id"`
	AccountID          string    `json:"account_id"`
	Name               string    `json:"name"`
	WagePerGame        float64   `json:"wage_per_game"`
	QualificationLevel int       `json:"qualification_level"`
	IsAvailable        bool      `json:"is_available"`
	MaxTravelDistance  int       `json:"max_travel_distance,omitempty"`
	PostalCode         string    `json:"postal_code,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AvailabilityWindow is a declared availability range for a referee.
// Available=false windows block assignments whose game interval intersects.
type AvailabilityWindow struct {
	RefereeID string    `json:"referee_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Available bool      `json:"available"`
}

// CreateRefereeRequest represents a request to register a referee
type CreateRefereeRequest struct {
	AccountID          string  `json:"account_id"`
	Name               string  `json:"name"`
	WagePerGame        float64 `json:"wage_per_game,omitempty"`
	QualificationLevel int     `json:"qualification_level,omitempty"`
	IsAvailable        *bool   `json:"is_available,omitempty"`
	MaxTravelDistance  int     `json:"max_travel_distance,omitempty"`
	PostalCode         string  `json:"postal_code,omitempty"`
}

// ScheduleEntry is one upcoming assignment in a referee's schedule view
type ScheduleEntry struct {
	AssignmentID string           `json:"assignment_id"`
	GameID       string           `json:"game_id"`
	PositionName string           `json:"position_name"`
	StartsAt     time.Time        `json:"starts_at"`
	Location     string           `json:"location"`
	GameStatus   GameStatus       `json:"game_status"`
	Status       AssignmentStatus `json:"status"`
	Wage         float64          `json:"wage"`
}
