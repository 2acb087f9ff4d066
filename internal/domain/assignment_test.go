package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignmentStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "declined", "completed"} {
		got, err := ParseAssignmentStatus(s)
		require.NoError(t, err)
		assert.Equal(t, AssignmentStatus(s), got)
	}

	_, err := ParseAssignmentStatus("rejected")
	assert.ErrorIs(t, err, ErrInvalidEnum)
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AssignmentStatus
		want     bool
	}{
		{AssignmentStatusPending, AssignmentStatusAccepted, true},
		{AssignmentStatusPending, AssignmentStatusDeclined, true},
		{AssignmentStatusPending, AssignmentStatusCompleted, false},
		{AssignmentStatusPending, AssignmentStatusPending, false},
		{AssignmentStatusAccepted, AssignmentStatusPending, true},
		{AssignmentStatusAccepted, AssignmentStatusDeclined, true},
		{AssignmentStatusAccepted, AssignmentStatusCompleted, true},
		{AssignmentStatusAccepted, AssignmentStatusAccepted, false},
		{AssignmentStatusDeclined, AssignmentStatusAccepted, false},
		{AssignmentStatusDeclined, AssignmentStatusPending, false},
		{AssignmentStatusDeclined, AssignmentStatusCompleted, false},
		{AssignmentStatusCompleted, AssignmentStatusPending, false},
		{AssignmentStatusCompleted, AssignmentStatusAccepted, false},
		{AssignmentStatusCompleted, AssignmentStatusDeclined, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestAssignmentStatusIsTerminal(t *testing.T) {
	assert.False(t, AssignmentStatusPending.IsTerminal())
	assert.False(t, AssignmentStatusAccepted.IsTerminal())
	assert.True(t, AssignmentStatusDeclined.IsTerminal())
	assert.True(t, AssignmentStatusCompleted.IsTerminal())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeDuplicateAssignment, ErrorCode(ErrDuplicateAssignment))
	assert.Equal(t, CodeGameFull, ErrorCode(ErrGameFull))
	assert.Equal(t, CodeInvalidTransition, ErrorCode(&InvalidTransitionError{From: "declined", To: "accepted"}))
	assert.Equal(t, CodeNotFound, ErrorCode(ErrAssignmentNotFound))
	assert.Equal(t, CodeValidation, ErrorCode(NewValidationError("status", "bad")))
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("boom")))

	// Codes survive wrapping
	wrapped := errors.Join(errors.New("context"), ErrTimeConflict)
	assert.Equal(t, CodeTimeConflict, ErrorCode(wrapped))
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrGameNotFound))
	assert.True(t, IsConflictError(ErrPositionFilled))
	assert.False(t, IsConflictError(ErrGameNotFound))
	assert.True(t, IsValidationError(NewValidationError("f", "m")))
	assert.True(t, IsValidationError(ErrGameNotOpen))
}
