// Package availability decides whether a proposed referee-to-game assignment
// is feasible given the referee's existing bookings and declared availability.
package availability

import (
	"fmt"
	"time"

	"github.com/referee-assignment/internal/config"
	"github.com/referee-assignment/internal/domain"
)

// Config holds the scheduling policy injected into the resolver
type Config struct {
	// DefaultGameDuration applies when the competition level has no entry
	// in LevelDurations
	DefaultGameDuration time.Duration
	LevelDurations      map[string]time.Duration
	// QualificationPolicy is config.QualificationPolicyWarn or Block
	QualificationPolicy string
}

// FromAppConfig builds a resolver Config from the application configuration
func FromAppConfig(cfg *config.AssignmentConfig) Config {
	return Config{
		DefaultGameDuration: cfg.DefaultGameDuration,
		LevelDurations:      cfg.LevelDurations,
		QualificationPolicy: cfg.QualificationPolicy,
	}
}

// GameDuration returns the configured duration for a competition level
func (c Config) GameDuration(level string) time.Duration {
	if d, ok := c.LevelDurations[level]; ok && d > 0 {
		return d
	}
	if c.DefaultGameDuration > 0 {
		return c.DefaultGameDuration
	}
	return 2 * time.Hour
}

// CheckInput is a transactionally consistent snapshot of everything the
// resolver needs. Callers must build it inside the same transaction that
// performs the insert.
type CheckInput struct {
	Game     *domain.Game
	Position *domain.Position
	Referee  *domain.Referee

	// GameAssignments are all assignments on the target game
	GameAssignments []domain.Assignment
	// RefereeBookings are the referee's assignments on other games, joined
	// with those games' start times
	RefereeBookings []domain.RefereeBooking
	// Availability holds the referee's declared windows. When
	// AvailabilityLoaded is false the window check is reported as skipped.
	Availability       []domain.AvailabilityWindow
	AvailabilityLoaded bool
}

// CheckResult carries advisory outcomes of a passing check
type CheckResult struct {
	Warnings            []string
	AvailabilitySkipped bool
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Check runs the conflict checks in order, short-circuiting on the first
// failure: duplicate assignment, position filled, capacity, time overlap,
// declared unavailability, then the configurable qualification policy.
func Check(cfg Config, in CheckInput) (CheckResult, error) {
	var res CheckResult

	live := 0
	for _, a := range in.GameAssignments {
		if a.Status == domain.AssignmentStatusDeclined {
			continue
		}
		live++
		if a.RefereeID == in.Referee.ID {
			return res, domain.ErrDuplicateAssignment
		}
	}
	for _, a := range in.GameAssignments {
		if a.Status == domain.AssignmentStatusDeclined {
			continue
		}
		if a.PositionID == in.Position.ID {
			return res, domain.ErrPositionFilled
		}
	}
	if live >= in.Game.RefsNeeded {
		return res, domain.ErrGameFull
	}

	// Interval overlap on absolute instants; games on different dates only
	// conflict when their [start, start+duration) ranges truly intersect.
	start := in.Game.StartsAt
	end := start.Add(cfg.GameDuration(in.Game.CompetitionLevel))
	for _, b := range in.RefereeBookings {
		if b.Status == domain.AssignmentStatusDeclined || b.GameID == in.Game.ID {
			continue
		}
		bStart := b.GameStartsAt
		bEnd := bStart.Add(cfg.GameDuration(b.CompetitionLevel))
		if Overlaps(start, end, bStart, bEnd) {
			return res, domain.ErrTimeConflict
		}
	}

	if !in.Referee.IsAvailable {
		return res, domain.ErrRefereeUnavailable
	}
	if !in.AvailabilityLoaded {
		res.AvailabilitySkipped = true
	} else {
		for _, w := range in.Availability {
			if !w.Available && Overlaps(start, end, w.StartsAt, w.EndsAt) {
				return res, domain.ErrRefereeUnavailable
			}
		}
	}

	if in.Referee.QualificationLevel < in.Game.RequiredQualification {
		if cfg.QualificationPolicy == config.QualificationPolicyBlock {
			return res, domain.ErrQualificationNotMet
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"referee qualification level %d is below the required level %d",
			in.Referee.QualificationLevel, in.Game.RequiredQualification,
		))
	}

	return res, nil
}
