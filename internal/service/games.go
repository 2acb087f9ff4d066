package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/referee-assignment/internal/authz"
	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/postgres"
)

// CreateGame creates a game with its positions. Positions default to
// generated names when the request omits them.
func (s *Service) CreateGame(ctx context.Context, req domain.CreateGameRequest) (*domain.Game, error) {
	if req.StartsAt.IsZero() {
		return nil, domain.NewValidationError("starts_at", "must not be empty")
	}
	if req.Location == "" {
		return nil, domain.NewValidationError("location", "must not be empty")
	}
	if req.RefsNeeded < 1 {
		return nil, domain.NewValidationError("refs_needed", "must be at least 1")
	}
	if req.PayRate < 0 {
		return nil, domain.NewValidationError("pay_rate", "must not be negative")
	}
	if req.RequiredQualification < 0 {
		return nil, domain.NewValidationError("required_qualification", "must not be negative")
	}

	multiplier := req.WageMultiplier
	if multiplier == 0 {
		multiplier = 1.0
	}
	if multiplier <= 0 {
		return nil, domain.NewValidationError("wage_multiplier", "must be positive")
	}

	modelStr := req.PaymentModel
	if modelStr == "" {
		modelStr = s.cfg.DefaultPaymentModel
	}
	model, err := domain.ParsePaymentModel(modelStr)
	if err != nil {
		return nil, err
	}

	names := req.Positions
	if len(names) == 0 {
		names = make([]string, req.RefsNeeded)
		for i := range names {
			names[i] = fmt.Sprintf("referee-%d", i+1)
		}
	}
	if len(names) != req.RefsNeeded {
		return nil, domain.NewValidationError("positions", "count must match refs_needed")
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return nil, domain.NewValidationError("positions", "names must not be empty")
		}
		if seen[name] {
			return nil, domain.NewValidationError("positions", fmt.Sprintf("duplicate position name %q", name))
		}
		seen[name] = true
	}

	principal := authz.PrincipalFromContext(ctx)
	orgID := req.OrgID
	if orgID == "" {
		orgID = principal.OrgID
	}

	now := time.Now()
	game := domain.Game{
		ID:                    uuid.New().String(),
		StartsAt:              req.StartsAt,
		Location:              req.Location,
		PostalCode:            req.PostalCode,
		CompetitionLevel:      req.CompetitionLevel,
		RequiredQualification: req.RequiredQualification,
		PayRate:               req.PayRate,
		WageMultiplier:        multiplier,
		MultiplierReason:      req.MultiplierReason,
		PaymentModel:          model,
		RefsNeeded:            req.RefsNeeded,
		Status:                domain.GameStatusUnassigned,
		CreatedBy:             principal.UserID,
		OrgID:                 orgID,
		RegionID:              req.RegionID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	positions := make([]domain.Position, len(names))
	for i, name := range names {
		positions[i] = domain.Position{
			ID:     uuid.New().String(),
			GameID: game.ID,
			Name:   name,
		}
	}

	if err := s.store.CreateGame(ctx, &game, positions); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.store.GetGame(ctx, gameID)
}

// ListGames retrieves all games
func (s *Service) ListGames(ctx context.Context) ([]domain.Game, error) {
	return s.store.ListGames(ctx)
}

// ListGamePositions retrieves a game's positions
func (s *Service) ListGamePositions(ctx context.Context, gameID string) ([]domain.Position, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return s.store.ListGamePositions(ctx, gameID)
}

// DeleteGame deletes a game. Games with live assignments cannot be deleted;
// remove or decline the assignments first.
func (s *Service) DeleteGame(ctx context.Context, gameID string) error {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, authz.ActionGameDelete, gameResource(game)); err != nil {
		return err
	}

	live, err := s.store.CountLiveAssignmentsForGame(ctx, gameID)
	if err != nil {
		return err
	}
	if live > 0 {
		return fmt.Errorf("%w: game has %d live assignments", domain.ErrLiveAssignments, live)
	}
	return s.store.DeleteGame(ctx, gameID)
}

// lifecycleTarget maps an external action to its target status
func lifecycleTarget(action domain.GameLifecycleAction) domain.GameStatus {
	switch action {
	case domain.GameLifecycleStart:
		return domain.GameStatusInProgress
	case domain.GameLifecycleComplete:
		return domain.GameStatusCompleted
	case domain.GameLifecycleCancel:
		return domain.GameStatusCancelled
	}
	return ""
}

// canApplyLifecycle reports whether an action is valid from the current
// status. Start requires a staffing-derived status; complete and cancel are
// also valid from in_progress. Completed and cancelled accept nothing.
func canApplyLifecycle(from domain.GameStatus, action domain.GameLifecycleAction) bool {
	switch from {
	case domain.GameStatusCompleted, domain.GameStatusCancelled:
		return false
	case domain.GameStatusInProgress:
		return action == domain.GameLifecycleComplete || action == domain.GameLifecycleCancel
	default:
		return true
	}
}

// ApplyLifecycle applies an externally triggered game transition. Completing
// a game also marks its accepted assignments completed. The resulting status
// overrides staffing derivation until the game is deleted.
func (s *Service) ApplyLifecycle(ctx context.Context, gameID, actionStr string) (*domain.Game, error) {
	if gameID == "" {
		return nil, domain.NewValidationError("game_id", "must not be empty")
	}
	action, err := domain.ParseGameLifecycleAction(actionStr)
	if err != nil {
		return nil, err
	}
	target := lifecycleTarget(action)

	var game *domain.Game
	var completedCount int64
	err = s.store.InTx(ctx, func(tx postgres.Tx) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, authz.ActionGameLifecycle, gameResource(g)); err != nil {
			return err
		}
		if !canApplyLifecycle(g.Status, action) {
			return &domain.InvalidTransitionError{From: string(g.Status), To: string(target)}
		}
		if err := tx.SetGameStatus(ctx, gameID, target); err != nil {
			return err
		}
		if action == domain.GameLifecycleComplete {
			completedCount, err = tx.CompleteAcceptedAssignments(ctx, gameID)
			if err != nil {
				return err
			}
		}
		g.Status = target
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completedCount > 0 {
		s.logger.Info("completed accepted assignments",
			"game_id", gameID,
			"count", completedCount,
		)
	}
	s.notifyGameStatus(gameID, game.Status)
	s.invalidateGameReferees(ctx, gameID)
	return game, nil
}

// ApplyGameEvent applies a league feed event to its game. Unknown games are
// logged and skipped so the feed can carry games outside this system.
func (s *Service) ApplyGameEvent(ctx context.Context, event domain.GameEvent) error {
	if event.GameID == "" {
		return domain.NewValidationError("game_id", "must not be empty")
	}

	var action string
	switch event.EventType {
	case "started":
		action = string(domain.GameLifecycleStart)
	case "completed":
		action = string(domain.GameLifecycleComplete)
	case "cancelled":
		action = string(domain.GameLifecycleCancel)
	default:
		return fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidEnum, event.EventType)
	}

	_, err := s.ApplyLifecycle(ctx, event.GameID, action)
	if domain.IsNotFoundError(err) {
		s.logger.Warn("game event for unknown game", "game_id", event.GameID, "event_type", event.EventType)
		return nil
	}
	return err
}

// invalidateGameReferees drops cached schedules for every referee assigned
// to a game, best-effort
func (s *Service) invalidateGameReferees(ctx context.Context, gameID string) {
	if s.cache == nil {
		return
	}
	assignments, err := s.store.ListGameAssignments(ctx, gameID)
	if err != nil {
		s.logger.Warn("failed to list assignments for cache invalidation", "game_id", gameID, "error", err)
		return
	}
	invalidated := newIDSet()
	for _, a := range assignments {
		invalidated.add(a.RefereeID)
	}
	for _, refereeID := range invalidated.ordered {
		s.invalidateSchedule(ctx, refereeID)
	}
}
