package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/referee-assignment/internal/authz"
	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/postgres"
)

// BulkUpdateAssignments applies status changes item by item. A failing item
// never aborts the batch; per-item outcomes are returned in input order.
// Affected games are recomputed exactly once after the batch, each from a
// fresh count, so the final status reflects the post-batch state.
func (s *Service) BulkUpdateAssignments(ctx context.Context, req domain.BulkUpdateRequest) (*domain.BulkUpdateResult, error) {
	if len(req.Items) == 0 {
		return nil, domain.NewValidationError("items", "must not be empty")
	}

	result := &domain.BulkUpdateResult{
		Submitted: len(req.Items),
		Items:     make([]domain.BulkItemResult, 0, len(req.Items)),
	}
	affectedGames := newIDSet()
	touchedReferees := newIDSet()

	for _, item := range req.Items {
		updated, err := s.applyBulkItem(ctx, item)
		if err != nil {
			result.Failed++
			result.Items = append(result.Items, domain.BulkItemResult{
				AssignmentID: item.AssignmentID,
				Code:         domain.ErrorCode(err),
				Error:        err.Error(),
			})
			continue
		}
		result.Succeeded++
		result.Items = append(result.Items, domain.BulkItemResult{
			AssignmentID: item.AssignmentID,
			OK:           true,
		})
		affectedGames.add(updated.GameID)
		touchedReferees.add(updated.RefereeID)
		s.notifyAssignment(updated.GameID, "updated", *updated)
	}

	result.Warnings = s.recomputeAffected(ctx, affectedGames.ordered)
	for _, refereeID := range touchedReferees.ordered {
		s.invalidateSchedule(ctx, refereeID)
	}
	return result, nil
}

// applyBulkItem runs one item's transition in its own transaction so its
// outcome is committed independently of the rest of the batch
func (s *Service) applyBulkItem(ctx context.Context, item domain.BulkUpdateItem) (*domain.Assignment, error) {
	if item.AssignmentID == "" {
		return nil, domain.NewValidationError("assignment_id", "must not be empty")
	}
	target, err := domain.ParseAssignmentStatus(item.Status)
	if err != nil {
		return nil, err
	}
	if target == domain.AssignmentStatusCompleted {
		return nil, domain.NewValidationError("status", "completed is set when the owning game completes")
	}

	var updated *domain.Assignment
	err = s.store.InTx(ctx, func(tx postgres.Tx) error {
		a, err := tx.GetAssignment(ctx, item.AssignmentID)
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
		if err := tx.UpdateAssignmentStatus(ctx, item.AssignmentID, target); err != nil {
			return err
		}
		a.Status = target
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BulkRemoveAssignments hard-deletes assignments item by item with the same
// partial-success semantics as BulkUpdateAssignments
func (s *Service) BulkRemoveAssignments(ctx context.Context, req domain.BulkRemoveRequest) (*domain.BulkRemoveResult, error) {
	if len(req.AssignmentIDs) == 0 {
		return nil, domain.NewValidationError("assignment_ids", "must not be empty")
	}

	result := &domain.BulkRemoveResult{
		Submitted: len(req.AssignmentIDs),
		Items:     make([]domain.BulkItemResult, 0, len(req.AssignmentIDs)),
	}
	affectedGames := newIDSet()
	touchedReferees := newIDSet()

	for _, assignmentID := range req.AssignmentIDs {
		removed, err := s.removeBulkItem(ctx, assignmentID)
		if err != nil {
			if errors.Is(err, domain.ErrAssignmentNotFound) {
				result.NotFound++
			} else {
				result.Failed++
			}
			result.Items = append(result.Items, domain.BulkItemResult{
				AssignmentID: assignmentID,
				Code:         domain.ErrorCode(err),
				Error:        err.Error(),
			})
			continue
		}
		result.Removed++
		result.Items = append(result.Items, domain.BulkItemResult{
			AssignmentID: assignmentID,
			OK:           true,
		})
		affectedGames.add(removed.GameID)
		touchedReferees.add(removed.RefereeID)
		s.notifyAssignment(removed.GameID, "removed", *removed)
	}

	result.AffectedGames = affectedGames.ordered
	result.Warnings = s.recomputeAffected(ctx, affectedGames.ordered)
	for _, refereeID := range touchedReferees.ordered {
		s.invalidateSchedule(ctx, refereeID)
	}
	return result, nil
}

func (s *Service) removeBulkItem(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	if assignmentID == "" {
		return nil, domain.NewValidationError("assignment_id", "must not be empty")
	}

	var removed *domain.Assignment
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
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// recomputeAffected recomputes each distinct affected game once. Failures
// (e.g. the game was deleted concurrently) become warnings; the already
// committed per-item changes stand.
func (s *Service) recomputeAffected(ctx context.Context, gameIDs []string) []string {
	var warnings []string
	for _, gameID := range gameIDs {
		if _, err := s.RecomputeGameStatus(ctx, gameID); err != nil {
			s.logger.Warn("failed to recompute game status", "game_id", gameID, "error", err)
			warnings = append(warnings, fmt.Sprintf("game %s: status recomputation failed: %v", gameID, err))
		}
	}
	return warnings
}

// idSet is a set that remembers first-seen order
type idSet struct {
	seen    map[string]bool
	ordered []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]bool)}
}

func (s *idSet) add(id string) {
	if !s.seen[id] {
		s.seen[id] = true
		s.ordered = append(s.ordered, id)
	}
}
