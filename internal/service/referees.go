package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/referee-assignment/internal/domain"
)

// CreateReferee registers a referee. Availability defaults to true when the
// request leaves it unset.
func (s *Service) CreateReferee(ctx context.Context, req domain.CreateRefereeRequest) (*domain.Referee, error) {
	if req.AccountID == "" {
		return nil, domain.NewValidationError("account_id", "must not be empty")
	}
	if req.Name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if req.WagePerGame < 0 {
		return nil, domain.NewValidationError("wage_per_game", "must not be negative")
	}
	if req.QualificationLevel < 0 {
		return nil, domain.NewValidationError("qualification_level", "must not be negative")
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	now := time.Now()
	referee := domain.Referee{
		ID:                 uuid.New().String(),
		AccountID:          req.AccountID,
		Name:               req.Name,
		WagePerGame:        req.WagePerGame,
		QualificationLevel: req.QualificationLevel,
		IsAvailable:        isAvailable,
		MaxTravelDistance:  req.MaxTravelDistance,
		PostalCode:         req.PostalCode,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateReferee(ctx, &referee); err != nil {
		return nil, err
	}
	return &referee, nil
}

// GetReferee retrieves a referee by ID
func (s *Service) GetReferee(ctx context.Context, refereeID string) (*domain.Referee, error) {
	return s.store.GetReferee(ctx, refereeID)
}

// DeleteReferee deletes a referee. Referees with live assignments cannot be
// deleted; remove or decline the assignments first.
func (s *Service) DeleteReferee(ctx context.Context, refereeID string) error {
	if _, err := s.store.GetReferee(ctx, refereeID); err != nil {
		return err
	}

	live, err := s.store.CountLiveAssignmentsForReferee(ctx, refereeID)
	if err != nil {
		return err
	}
	if live > 0 {
		return fmt.Errorf("%w: referee has %d live assignments", domain.ErrLiveAssignments, live)
	}
	if err := s.store.DeleteReferee(ctx, refereeID); err != nil {
		return err
	}
	s.invalidateSchedule(ctx, refereeID)
	return nil
}

// SetAvailability replaces a referee's declared availability windows
func (s *Service) SetAvailability(ctx context.Context, refereeID string, windows []domain.AvailabilityWindow) error {
	if refereeID == "" {
		return domain.NewValidationError("referee_id", "must not be empty")
	}
	for i := range windows {
		w := &windows[i]
		if w.StartsAt.IsZero() || w.EndsAt.IsZero() {
			return domain.NewValidationError("windows", "starts_at and ends_at must be set")
		}
		if !w.StartsAt.Before(w.EndsAt) {
			return domain.NewValidationError("windows", "starts_at must be before ends_at")
		}
		w.RefereeID = refereeID
	}

	if _, err := s.store.GetReferee(ctx, refereeID); err != nil {
		return err
	}
	return s.store.ReplaceAvailability(ctx, refereeID, windows)
}

// ListAvailability retrieves a referee's declared availability windows
func (s *Service) ListAvailability(ctx context.Context, refereeID string) ([]domain.AvailabilityWindow, error) {
	if _, err := s.store.GetReferee(ctx, refereeID); err != nil {
		return nil, err
	}
	return s.store.ListAvailability(ctx, refereeID)
}

// GetSchedule returns a referee's schedule, serving from the cache when
// possible and repopulating it on a miss
func (s *Service) GetSchedule(ctx context.Context, refereeID string) ([]domain.ScheduleEntry, error) {
	if _, err := s.store.GetReferee(ctx, refereeID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		entries, ok, err := s.cache.GetSchedule(ctx, refereeID)
		if err != nil {
			s.logger.Warn("failed to read schedule cache", "referee_id", refereeID, "error", err)
		} else if ok {
			return entries, nil
		}
	}

	entries, err := s.store.ListRefereeSchedule(ctx, refereeID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSchedule(ctx, refereeID, entries); err != nil {
			s.logger.Warn("failed to populate schedule cache", "referee_id", refereeID, "error", err)
		}
	}
	return entries, nil
}
