// Package wage computes the per-assignment wage owed for a game.
package wage

import (
	"errors"
	"math"

	"github.com/referee-assignment/internal/domain"
)

// Computation errors
var (
	ErrNegativeRate          = errors.New("base pay rate must not be negative")
	ErrNonPositiveMultiplier = errors.New("wage multiplier must be positive")
	ErrInvalidRefsNeeded     = errors.New("refs needed must be positive under flat rate")
	ErrNotFinite             = errors.New("wage computation is not finite")
)

// IsComputationError checks if an error came from wage input validation
func IsComputationError(err error) bool {
	return errors.Is(err, ErrNegativeRate) ||
		errors.Is(err, ErrNonPositiveMultiplier) ||
		errors.Is(err, ErrInvalidRefsNeeded) ||
		errors.Is(err, ErrNotFinite)
}

// Round2 rounds to 2 decimal places using half-up rounding
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Compute returns the wage for one assignment on a game.
//
// INDIVIDUAL pays every referee the full rate times the multiplier.
// FLAT_RATE treats the rate as a fixed total split across refsNeeded.
// The result is rounded half-up to 2 decimal places and never negative.
func Compute(basePayRate, wageMultiplier float64, model domain.PaymentModel, refsNeeded int) (float64, error) {
	if basePayRate < 0 {
		return 0, ErrNegativeRate
	}
	if wageMultiplier <= 0 {
		return 0, ErrNonPositiveMultiplier
	}

	var amount float64
	switch model {
	case domain.PaymentModelFlatRate:
		if refsNeeded <= 0 {
			return 0, ErrInvalidRefsNeeded
		}
		amount = basePayRate * wageMultiplier / float64(refsNeeded)
	default:
		amount = basePayRate * wageMultiplier
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrNotFinite
	}
	return Round2(amount), nil
}

// ForGame computes the wage for an assignment on the given game, falling back
// to the referee's per-game baseline when the game carries no rate of its own.
func ForGame(game *domain.Game, referee *domain.Referee) (float64, error) {
	rate := game.PayRate
	if rate == 0 && referee != nil {
		rate = referee.WagePerGame
	}
	return Compute(rate, game.WageMultiplier, game.PaymentModel, game.RefsNeeded)
}
