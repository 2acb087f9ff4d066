package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/referee-assignment/internal/authz"
	"github.com/referee-assignment/internal/availability"
	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/postgres"
	"github.com/referee-assignment/internal/wage"
)

// CreateAssignment assigns a referee to a position on a game. The conflict
// checks, wage computation, insert, and game-status recomputation share one
// transaction; a concurrent duplicate insert surfaces as the same conflict
// the checks would have reported.
func (s *Service) CreateAssignment(ctx context.Context, req domain.CreateAssignmentRequest) (*domain.AssignmentResult, error) {
	if req.GameID == "" {
		return nil, domain.NewValidationError("game_id", "must not be empty")
	}
	if req.RefereeID == "" {
		return nil, domain.NewValidationError("referee_id", "must not be empty")
	}
	if req.PositionID == "" {
		return nil, domain.NewValidationError("position_id", "must not be empty")
	}

	assignedBy := req.AssignedBy
	if assignedBy == "" {
		assignedBy = authz.PrincipalFromContext(ctx).UserID
	}

	var result domain.AssignmentResult
	var statusChanged bool

	err := s.store.InTx(ctx, func(tx postgres.Tx) error {
		game, err := tx.GetGameForUpdate(ctx, req.GameID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, authz.ActionAssignmentCreate, gameResource(game)); err != nil {
			return err
		}
		if game.Status.IsTerminal() {
			return fmt.Errorf("%w: game is %s", domain.ErrGameNotOpen, game.Status)
		}

		referee, err := tx.GetReferee(ctx, req.RefereeID)
		if err != nil {
			return err
		}
		position, err := tx.GetPosition(ctx, req.PositionID)
		if err != nil {
			return err
		}
		if position.GameID != game.ID {
			return domain.NewValidationError("position_id", "position does not belong to this game")
		}

		gameAssignments, err := tx.ListGameAssignments(ctx, game.ID)
		if err != nil {
			return err
		}
		bookings, err := tx.ListRefereeBookings(ctx, referee.ID)
		if err != nil {
			return err
		}
		windows, err := tx.ListAvailability(ctx, referee.ID)
		if err != nil {
			return err
		}

		check, err := availability.Check(s.resolver, availability.CheckInput{
			Game:               game,
			Position:           position,
			Referee:            referee,
			GameAssignments:    gameAssignments,
			RefereeBookings:    bookings,
			Availability:       windows,
			AvailabilityLoaded: true,
		})
		if err != nil {
			return err
		}

		amount, err := wage.ForGame(game, referee)
		if err != nil {
			return err
		}

		now := time.Now()
		a := domain.Assignment{
			ID:             uuid.New().String(),
			GameID:         game.ID,
			RefereeID:      referee.ID,
			PositionID:     position.ID,
			Status:         domain.AssignmentStatusPending,
			CalculatedWage: amount,
			AssignedBy:     assignedBy,
			AssignedAt:     now,
			UpdatedAt:      now,
		}
		if err := tx.InsertAssignment(ctx, &a); err != nil {
			return err
		}

		status, changed, err := s.recomputeGameStatusTx(ctx, tx, game.ID)
		if err != nil {
			return err
		}
		statusChanged = changed
		result = domain.AssignmentResult{
			Assignment: &a,
			GameStatus: status,
			Warnings:   check.Warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSchedule(ctx, req.RefereeID)
	s.notifyAssignment(req.GameID, "created", *result.Assignment)
	if statusChanged {
		s.notifyGameStatus(req.GameID, result.GameStatus)
	}
	return &result, nil
}

// UpdateAssignmentStatus applies a single status transition. Completed is
// never reachable directly; it is set when the owning game completes.
func (s *Service) UpdateAssignmentStatus(ctx context.Context, assignmentID, status string) (*domain.Assignment, error) {
	if assignmentID == "" {
		return nil, domain.NewValidationError("assignment_id", "must not be empty")
	}
	target, err := domain.ParseAssignmentStatus(status)
	if err != nil {
		return nil, err
	}
	if target == domain.AssignmentStatusCompleted {
		return nil, domain.NewValidationError("status", "completed is set when the owning game completes")
	}

	var updated *domain.Assignment
	var gameStatus domain.GameStatus
	var statusChanged bool

	err = s.store.InTx(ctx, func(tx postgres.Tx) error {
		a, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		game, err := tx.GetGameForUpdate(ctx, a.GameID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, authz.ActionAssignmentUpdate, gameResource(game)); err != nil {
			return err
		}
		if !a.Status.CanTransitionTo(target) {
			return &domain.InvalidTransitionError{From: string(a.Status), To: string(target)}
		}
		if err := tx.UpdateAssignmentStatus(ctx, assignmentID, target); err != nil {
			return err
		}
		a.Status = target
		updated = a

		gameStatus, statusChanged, err = s.recomputeGameStatusTx(ctx, tx, a.GameID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSchedule(ctx, updated.RefereeID)
	s.notifyAssignment(updated.GameID, "updated", *updated)
	if statusChanged {
		s.notifyGameStatus(updated.GameID, gameStatus)
	}
	return updated, nil
}

// RemoveAssignment hard-deletes an assignment and recomputes the owning
// game's status in the same transaction
func (s *Service) RemoveAssignment(ctx context.Context, assignmentID string) error {
	if assignmentID == "" {
		return domain.NewValidationError("assignment_id", "must not be empty")
	}

	var removed *domain.Assignment
	var gameStatus domain.GameStatus
	var statusChanged bool

	err := s.store.InTx(ctx, func(tx postgres.Tx) error {
		a, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		game, err := tx.GetGameForUpdate(ctx, a.GameID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, authz.ActionAssignmentRemove, gameResource(game)); err != nil {
			return err
		}
		if err := tx.DeleteAssignment(ctx, assignmentID); err != nil {
			return err
		}
		removed = a

		gameStatus, statusChanged, err = s.recomputeGameStatusTx(ctx, tx, a.GameID)
		return err
	})
	if err != nil {
		return err
	}

	s.invalidateSchedule(ctx, removed.RefereeID)
	s.notifyAssignment(removed.GameID, "removed", *removed)
	if statusChanged {
		s.notifyGameStatus(removed.GameID, gameStatus)
	}
	return nil
}

// GetAssignment retrieves an assignment by ID
func (s *Service) GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	return s.store.GetAssignment(ctx, assignmentID)
}

// ListGameAssignments retrieves all assignments on a game
func (s *Service) ListGameAssignments(ctx context.Context, gameID string) ([]domain.Assignment, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return s.store.ListGameAssignments(ctx, gameID)
}
