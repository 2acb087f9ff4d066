package postgres

import (
	"context"

	"github.com/referee-assignment/internal/domain"
)

// Store is the storage contract the assignment engine depends on
type Store interface {
	// Games
	CreateGame(ctx context.Context, game *domain.Game, positions []domain.Position) error
	GetGame(ctx context.Context, gameID string) (*domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	DeleteGame(ctx context.Context, gameID string) error
	ListGamePositions(ctx context.Context, gameID string) ([]domain.Position, error)
	ListGameAssignments(ctx context.Context, gameID string) ([]domain.Assignment, error)
	ListGameIDsByStatus(ctx context.Context, statuses []domain.GameStatus) ([]string, error)

	// Referees
	CreateReferee(ctx context.Context, referee *domain.Referee) error
	GetReferee(ctx context.Context, refereeID string) (*domain.Referee, error)
	DeleteReferee(ctx context.Context, refereeID string) error
	ReplaceAvailability(ctx context.Context, refereeID string, windows []domain.AvailabilityWindow) error
	ListAvailability(ctx context.Context, refereeID string) ([]domain.AvailabilityWindow, error)
	ListRefereeSchedule(ctx context.Context, refereeID string) ([]domain.ScheduleEntry, error)

	// Assignments
	GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error)
	CountLiveAssignmentsForGame(ctx context.Context, gameID string) (int, error)
	CountLiveAssignmentsForReferee(ctx context.Context, refereeID string) (int, error)

	// InTx runs fn inside a single transaction; fn's reads are consistent
	// with the writes that follow them
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the transaction-scoped operations used by the engine. Reads for
// conflict checking and the subsequent assignment write share one transaction.
type Tx interface {
	GetGameForUpdate(ctx context.Context, gameID string) (*domain.Game, error)
	GetReferee(ctx context.Context, refereeID string) (*domain.Referee, error)
	GetPosition(ctx context.Context, positionID string) (*domain.Position, error)
	GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error)
	ListGameAssignments(ctx context.Context, gameID string) ([]domain.Assignment, error)
	ListRefereeBookings(ctx context.Context, refereeID string) ([]domain.RefereeBooking, error)
	ListAvailability(ctx context.Context, refereeID string) ([]domain.AvailabilityWindow, error)
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	UpdateAssignmentStatus(ctx context.Context, assignmentID string, status domain.AssignmentStatus) error
	DeleteAssignment(ctx context.Context, assignmentID string) error
	SetGameStatus(ctx context.Context, gameID string, status domain.GameStatus) error
	CompleteAcceptedAssignments(ctx context.Context, gameID string) (int64, error)
}
