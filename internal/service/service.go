// Package service implements the assignment engine: single and bulk
// assignment operations, the assignment state machine, and the derived
// game-status recomputation that keeps games consistent with their
// assignments.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/referee-assignment/internal/authz"
	"github.com/referee-assignment/internal/availability"
	"github.com/referee-assignment/internal/config"
	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/postgres"
)

// ScheduleCache caches per-referee schedule views. All cache failures are
// soft; the store stays authoritative.
type ScheduleCache interface {
	GetSchedule(ctx context.Context, refereeID string) ([]domain.ScheduleEntry, bool, error)
	SetSchedule(ctx context.Context, refereeID string, entries []domain.ScheduleEntry) error
	Invalidate(ctx context.Context, refereeID string) error
}

// Notifier pushes assignment and game-status changes to subscribers.
// Delivery is fire-and-forget and never fails an operation.
type Notifier interface {
	AssignmentChanged(gameID, event string, a domain.Assignment)
	GameStatusChanged(gameID string, status domain.GameStatus)
}

// Service provides the assignment engine's business logic
type Service struct {
	store      postgres.Store
	cache      ScheduleCache
	notifier   Notifier
	authorizer authz.Authorizer
	resolver   availability.Config
	cfg        *config.AssignmentConfig
	logger     *slog.Logger
}

// New creates a new assignment service
func New(
	store postgres.Store,
	authorizer authz.Authorizer,
	cfg *config.AssignmentConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:      store,
		authorizer: authorizer,
		resolver:   availability.FromAppConfig(cfg),
		cfg:        cfg,
		logger:     logger,
	}
}

// SetCache wires the schedule cache; a nil cache disables caching
func (s *Service) SetCache(cache ScheduleCache) {
	s.cache = cache
}

// SetNotifier wires the push notifier; a nil notifier disables push
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// authorize consults the authorization collaborator with the caller's
// principal and the resource attributes
func (s *Service) authorize(ctx context.Context, action string, res authz.Resource) error {
	principal := authz.PrincipalFromContext(ctx)
	allowed, err := s.authorizer.Authorize(ctx, principal, action, res)
	if err != nil {
		return fmt.Errorf("authorizing %s: %w", action, err)
	}
	if !allowed {
		return domain.ErrUnauthorized
	}
	return nil
}

func gameResource(g *domain.Game) authz.Resource {
	return authz.Resource{
		Type:      "game",
		ID:        g.ID,
		OrgID:     g.OrgID,
		RegionID:  g.RegionID,
		CreatorID: g.CreatedBy,
		Status:    string(g.Status),
	}
}

// invalidateSchedule drops a referee's cached schedule, best-effort
func (s *Service) invalidateSchedule(ctx context.Context, refereeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, refereeID); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", "referee_id", refereeID, "error", err)
	}
}

// notifyAssignment pushes an assignment change, best-effort
func (s *Service) notifyAssignment(gameID, event string, a domain.Assignment) {
	if s.notifier == nil {
		return
	}
	s.notifier.AssignmentChanged(gameID, event, a)
}

// notifyGameStatus pushes a game status change, best-effort
func (s *Service) notifyGameStatus(gameID string, status domain.GameStatus) {
	if s.notifier == nil {
		return
	}
	s.notifier.GameStatusChanged(gameID, status)
}

// countNonDeclined returns the number of live assignments in the slice
func countNonDeclined(assignments []domain.Assignment) int {
	n := 0
	for _, a := range assignments {
		if a.Status != domain.AssignmentStatusDeclined {
			n++
		}
	}
	return n
}

// recomputeGameStatusTx recomputes a game's derived status from a fresh
// assignment count inside the caller's transaction. Games in an externally
// triggered lifecycle state are left untouched. Returns the resulting status
// and whether it changed.
func (s *Service) recomputeGameStatusTx(ctx context.Context, tx postgres.Tx, gameID string) (domain.GameStatus, bool, error) {
	game, err := tx.GetGameForUpdate(ctx, gameID)
	if err != nil {
		return "", false, err
	}
	if game.Status.IsTerminal() {
		return game.Status, false, nil
	}

	assignments, err := tx.ListGameAssignments(ctx, gameID)
	if err != nil {
		return "", false, err
	}
	derived := domain.DeriveGameStatus(countNonDeclined(assignments), game.RefsNeeded)
	if derived == game.Status {
		return derived, false, nil
	}
	if err := tx.SetGameStatus(ctx, gameID, derived); err != nil {
		return "", false, err
	}
	return derived, true, nil
}

// RecomputeGameStatus recomputes a game's derived status in its own
// transaction with a fresh count. Idempotent.
func (s *Service) RecomputeGameStatus(ctx context.Context, gameID string) (domain.GameStatus, error) {
	var status domain.GameStatus
	var changed bool
	err := s.store.InTx(ctx, func(tx postgres.Tx) error {
		var err error
		status, changed, err = s.recomputeGameStatusTx(ctx, tx, gameID)
		return err
	})
	if err != nil {
		return "", err
	}
	if changed {
		s.notifyGameStatus(gameID, status)
	}
	return status, nil
}
