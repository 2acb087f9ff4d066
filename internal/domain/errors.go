package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrGameNotFound       = errors.New("game not found")
	ErrRefereeNotFound    = errors.New("referee not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrPositionNotFound   = errors.New("position not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidEnum        = errors.New("invalid enum value")
	ErrUnauthorized       = errors.New("operation not permitted")
	ErrLiveAssignments    = errors.New("record has live assignments")
	ErrGameNotOpen        = errors.New("game is not open for assignment")
	ErrInternalError      = errors.New("internal server error")
)

// Conflict reason codes
const (
	CodeDuplicateAssignment = "DUPLICATE_ASSIGNMENT"
	CodePositionFilled      = "POSITION_FILLED"
	CodeGameFull            = "GAME_FULL"
	CodeTimeConflict        = "TIME_CONFLICT"
	CodeUnavailable         = "UNAVAILABLE"
	CodeQualification       = "QUALIFICATION_NOT_MET"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION"
	CodeComputation         = "COMPUTATION"
	CodeInternal            = "INTERNAL"
)

// ConflictError is a named assignment conflict with a stable reason code
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Resolver conflicts
var (
	ErrDuplicateAssignment = &ConflictError{Code: CodeDuplicateAssignment, Message: "referee already holds a live assignment on this game"}
	ErrPositionFilled      = &ConflictError{Code: CodePositionFilled, Message: "position is already held by a live assignment"}
	ErrGameFull            = &ConflictError{Code: CodeGameFull, Message: "game already has the required number of referees"}
	ErrTimeConflict        = &ConflictError{Code: CodeTimeConflict, Message: "referee has an overlapping assignment"}
	ErrRefereeUnavailable  = &ConflictError{Code: CodeUnavailable, Message: "referee is unavailable for this game"}
	ErrQualificationNotMet = &ConflictError{Code: CodeQualification, Message: "referee qualification is below the required level"}
)

// InvalidTransitionError reports a status change not permitted from the
// current state
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// ValidationError reports malformed input with the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrRefereeNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrPositionNotFound)
}

// IsConflictError checks if an error is one of the named resolver conflicts
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidationError checks if an error is a validation type error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidEnum) ||
		errors.Is(err, ErrGameNotOpen)
}

// ErrorCode maps an error to its stable reason code for API responses and
// bulk per-item results
func ErrorCode(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var te *InvalidTransitionError
	if errors.As(err, &te) {
		return CodeInvalidTransition
	}
	if IsNotFoundError(err) {
		return CodeNotFound
	}
	if IsValidationError(err) {
		return CodeValidation
	}
	return CodeInternal
}
