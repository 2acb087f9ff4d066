package availability

import (
	"testing"
	"time"

	"github.com/referee-assignment/internal/config"
	"github.com/referee-assignment/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		DefaultGameDuration: 2 * time.Hour,
		QualificationPolicy: config.QualificationPolicyWarn,
	}
}

func testInput() CheckInput {
	return CheckInput{
		Game: &domain.Game{
			ID:               "game-1",
			StartsAt:         testStart,
			CompetitionLevel: "senior",
			RefsNeeded:       2,
		},
		Position:           &domain.Position{ID: "pos-1", GameID: "game-1"},
		Referee:            &domain.Referee{ID: "ref-1", IsAvailable: true, QualificationLevel: 3},
		AvailabilityLoaded: true,
	}
}

func TestCheckPasses(t *testing.T) {
	res, err := Check(testConfig(), testInput())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.False(t, res.AvailabilitySkipped)
}

func TestCheckDuplicateAssignment(t *testing.T) {
	in := testInput()
	in.GameAssignments = []domain.Assignment{
		{GameID: "game-1", RefereeID: "ref-1", PositionID: "pos-2", Status: domain.AssignmentStatusPending},
	}

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicateAssignment)
}

func TestCheckDeclinedDoesNotBlock(t *testing.T) {
	in := testInput()
	in.GameAssignments = []domain.Assignment{
		{GameID: "game-1", RefereeID: "ref-1", PositionID: "pos-1", Status: domain.AssignmentStatusDeclined},
	}

	_, err := Check(testConfig(), in)
	assert.NoError(t, err)
}

func TestCheckPositionFilled(t *testing.T) {
	in := testInput()
	in.GameAssignments = []domain.Assignment{
		{GameID: "game-1", RefereeID: "ref-2", PositionID: "pos-1", Status: domain.AssignmentStatusAccepted},
	}

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrPositionFilled)
}

func TestCheckGameFull(t *testing.T) {
	in := testInput()
	in.GameAssignments = []domain.Assignment{
		{GameID: "game-1", RefereeID: "ref-2", PositionID: "pos-2", Status: domain.AssignmentStatusPending},
		{GameID: "game-1", RefereeID: "ref-3", PositionID: "pos-3", Status: domain.AssignmentStatusAccepted},
	}

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrGameFull)
}

func TestCheckOrderDuplicateBeforePositionFilled(t *testing.T) {
	// Same referee already on the conflicting position: duplicate wins
	in := testInput()
	in.GameAssignments = []domain.Assignment{
		{GameID: "game-1", RefereeID: "ref-1", PositionID: "pos-1", Status: domain.AssignmentStatusPending},
	}

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicateAssignment)
}

func TestCheckTimeConflict(t *testing.T) {
	in := testInput()
	in.RefereeBookings = []domain.RefereeBooking{
		{
			Assignment:   domain.Assignment{GameID: "game-2", RefereeID: "ref-1", Status: domain.AssignmentStatusAccepted},
			GameStartsAt: testStart.Add(time.Hour),
		},
	}

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrTimeConflict)
}

func TestCheckTimeConflictCrossesMidnight(t *testing.T) {
	// A booking late the previous evening whose interval runs past midnight
	// into this game's start still conflicts
	in := testInput()
	in.Game.StartsAt = time.Date(2026, 3, 15, 0, 30, 0, 0, time.UTC)
	in.RefereeBookings = []domain.RefereeBooking{
		{
			Assignment:   domain.Assignment{GameID: "game-2", RefereeID: "ref-1", Status: domain.AssignmentStatusPending},
			GameStartsAt: time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC),
		},
	}

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrTimeConflict)
}

func TestCheckBackToBackGamesDoNotConflict(t *testing.T) {
	// Half-open intervals: a booking ending exactly when this game starts is fine
	in := testInput()
	in.RefereeBookings = []domain.RefereeBooking{
		{
			Assignment:   domain.Assignment{GameID: "game-2", RefereeID: "ref-1", Status: domain.AssignmentStatusAccepted},
			GameStartsAt: testStart.Add(-2 * time.Hour),
		},
	}

	_, err := Check(testConfig(), in)
	assert.NoError(t, err)
}

func TestCheckDeclinedBookingDoesNotConflict(t *testing.T) {
	in := testInput()
	in.RefereeBookings = []domain.RefereeBooking{
		{
			Assignment:   domain.Assignment{GameID: "game-2", RefereeID: "ref-1", Status: domain.AssignmentStatusDeclined},
			GameStartsAt: testStart,
		},
	}

	_, err := Check(testConfig(), in)
	assert.NoError(t, err)
}

func TestCheckLevelDurations(t *testing.T) {
	cfg := testConfig()
	cfg.LevelDurations = map[string]time.Duration{"junior": 1 * time.Hour}

	// Junior booking 90 minutes before a senior game ends before it starts
	in := testInput()
	in.RefereeBookings = []domain.RefereeBooking{
		{
			Assignment:       domain.Assignment{GameID: "game-2", RefereeID: "ref-1", Status: domain.AssignmentStatusAccepted},
			GameStartsAt:     testStart.Add(-90 * time.Minute),
			CompetitionLevel: "junior",
		},
	}

	_, err := Check(cfg, in)
	assert.NoError(t, err)
}

func TestCheckRefereeUnavailableFlag(t *testing.T) {
	in := testInput()
	in.Referee.IsAvailable = false

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrRefereeUnavailable)
}

func TestCheckUnavailabilityWindow(t *testing.T) {
	in := testInput()
	in.Availability = []domain.AvailabilityWindow{
		{
			RefereeID: "ref-1",
			StartsAt:  testStart.Add(-time.Hour),
			EndsAt:    testStart.Add(time.Hour),
			Available: false,
		},
	}

	_, err := Check(testConfig(), in)
	assert.ErrorIs(t, err, domain.ErrRefereeUnavailable)
}

func TestCheckAvailableWindowDoesNotBlock(t *testing.T) {
	in := testInput()
	in.Availability = []domain.AvailabilityWindow{
		{
			RefereeID: "ref-1",
			StartsAt:  testStart.Add(-time.Hour),
			EndsAt:    testStart.Add(time.Hour),
			Available: true,
		},
	}

	_, err := Check(testConfig(), in)
	assert.NoError(t, err)
}

func TestCheckAvailabilitySkipFlagged(t *testing.T) {
	in := testInput()
	in.AvailabilityLoaded = false

	res, err := Check(testConfig(), in)
	require.NoError(t, err)
	assert.True(t, res.AvailabilitySkipped)
}

func TestCheckQualificationWarn(t *testing.T) {
	in := testInput()
	in.Game.RequiredQualification = 5
	in.Referee.QualificationLevel = 3

	res, err := Check(testConfig(), in)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "below the required level")
}

func TestCheckQualificationBlock(t *testing.T) {
	cfg := testConfig()
	cfg.QualificationPolicy = config.QualificationPolicyBlock

	in := testInput()
	in.Game.RequiredQualification = 5
	in.Referee.QualificationLevel = 3

	_, err := Check(cfg, in)
	assert.ErrorIs(t, err, domain.ErrQualificationNotMet)
}

func TestOverlaps(t *testing.T) {
	a := testStart
	assert.True(t, Overlaps(a, a.Add(2*time.Hour), a.Add(time.Hour), a.Add(3*time.Hour)))
	assert.False(t, Overlaps(a, a.Add(2*time.Hour), a.Add(2*time.Hour), a.Add(4*time.Hour)))
	assert.False(t, Overlaps(a, a.Add(time.Hour), a.Add(2*time.Hour), a.Add(3*time.Hour)))
}

func TestGameDuration(t *testing.T) {
	cfg := Config{
		DefaultGameDuration: 2 * time.Hour,
		LevelDurations:      map[string]time.Duration{"junior": time.Hour},
	}
	assert.Equal(t, time.Hour, cfg.GameDuration("junior"))
	assert.Equal(t, 2*time.Hour, cfg.GameDuration("senior"))

	// Zero-value config still has a sane fallback
	assert.Equal(t, 2*time.Hour, Config{}.GameDuration("senior"))
}
