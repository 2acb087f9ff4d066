package wage

import (
	"math"
	"testing"

	"github.com/referee-assignment/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIndividual(t *testing.T) {
	got, err := Compute(50.00, 1.0, domain.PaymentModelIndividual, 3)
	require.NoError(t, err)
	assert.Equal(t, 50.00, got)

	got, err = Compute(40.00, 1.5, domain.PaymentModelIndividual, 2)
	require.NoError(t, err)
	assert.Equal(t, 60.00, got)
}

func TestComputeFlatRate(t *testing.T) {
	got, err := Compute(100.00, 1.0, domain.PaymentModelFlatRate, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.00, got)

	// 100 / 3 = 33.333... rounds half-up to 33.33
	got, err = Compute(100.00, 1.0, domain.PaymentModelFlatRate, 3)
	require.NoError(t, err)
	assert.Equal(t, 33.33, got)
}

func TestComputeRounding(t *testing.T) {
	// 33.335 rounds up, 33.334 rounds down
	assert.Equal(t, 33.34, Round2(33.335))
	assert.Equal(t, 33.33, Round2(33.334))
	assert.Equal(t, 0.0, Round2(0))
}

func TestComputeDeterministic(t *testing.T) {
	first, err := Compute(72.50, 1.25, domain.PaymentModelFlatRate, 3)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		got, err := Compute(72.50, 1.25, domain.PaymentModelFlatRate, 3)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestComputeInvalidInputs(t *testing.T) {
	_, err := Compute(-1, 1.0, domain.PaymentModelIndividual, 2)
	assert.ErrorIs(t, err, ErrNegativeRate)

	_, err = Compute(50, 0, domain.PaymentModelIndividual, 2)
	assert.ErrorIs(t, err, ErrNonPositiveMultiplier)

	_, err = Compute(50, -0.5, domain.PaymentModelIndividual, 2)
	assert.ErrorIs(t, err, ErrNonPositiveMultiplier)

	_, err = Compute(100, 1.0, domain.PaymentModelFlatRate, 0)
	assert.ErrorIs(t, err, ErrInvalidRefsNeeded)

	_, err = Compute(math.Inf(1), 1.0, domain.PaymentModelIndividual, 1)
	assert.ErrorIs(t, err, ErrNotFinite)

	assert.True(t, IsComputationError(ErrNegativeRate))
	assert.False(t, IsComputationError(domain.ErrGameNotFound))
}

func TestComputeZeroRate(t *testing.T) {
	got, err := Compute(0, 1.0, domain.PaymentModelIndividual, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestForGameFallsBackToRefereeRate(t *testing.T) {
	game := &domain.Game{
		PayRate:        0,
		WageMultiplier: 1.0,
		PaymentModel:   domain.PaymentModelIndividual,
		RefsNeeded:     2,
	}
	referee := &domain.Referee{WagePerGame: 45.00}

	got, err := ForGame(game, referee)
	require.NoError(t, err)
	assert.Equal(t, 45.00, got)

	// Game rate wins when set
	game.PayRate = 60.00
	got, err = ForGame(game, referee)
	require.NoError(t, err)
	assert.Equal(t, 60.00, got)
}
