package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/postgres"
)

// fakeStore is an in-memory Store for engine tests. InTx holds the store
// mutex for the whole callback, so transactions are serializable the same
// way the row lock on the game makes them in Postgres.
type fakeStore struct {
	mu          sync.Mutex
	games       map[string]*domain.Game
	positions   map[string]*domain.Position
	referees    map[string]*domain.Referee
	assignments map[string]*domain.Assignment
	windows     map[string][]domain.AvailabilityWindow

	// txAssignmentLists counts per-game ListGameAssignments calls made
	// inside transactions; the recompute path is its only in-tx caller
	// besides assignment creation
	txAssignmentLists map[string]int
	statusWrites      []string
}

var _ postgres.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		games:             make(map[string]*domain.Game),
		positions:         make(map[string]*domain.Position),
		referees:          make(map[string]*domain.Referee),
		assignments:       make(map[string]*domain.Assignment),
		windows:           make(map[string][]domain.AvailabilityWindow),
		txAssignmentLists: make(map[string]int),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *fakeStore) CreateGame(_ context.Context, game *domain.Game, positions []domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *game
	s.games[g.ID] = &g
	for _, p := range positions {
		pc := p
		s.positions[pc.ID] = &pc
	}
	return nil
}

func (s *fakeStore) GetGame(_ context.Context, gameID string) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getGame(gameID)
}

func (s *fakeStore) getGame(gameID string) (*domain.Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	gc := *g
	return &gc, nil
}

func (s *fakeStore) ListGames(_ context.Context) ([]domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	games := make([]domain.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, *g)
	}
	return games, nil
}

func (s *fakeStore) DeleteGame(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[gameID]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.games, gameID)
	for id, p := range s.positions {
		if p.GameID == gameID {
			delete(s.positions, id)
		}
	}
	for id, a := range s.assignments {
		if a.GameID == gameID {
			delete(s.assignments, id)
		}
	}
	return nil
}

func (s *fakeStore) ListGamePositions(_ context.Context, gameID string) ([]domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var positions []domain.Position
	for _, p := range s.positions {
		if p.GameID == gameID {
			positions = append(positions, *p)
		}
	}
	return positions, nil
}

func (s *fakeStore) ListGameAssignments(_ context.Context, gameID string) ([]domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listGameAssignments(gameID)
}

func (s *fakeStore) listGameAssignments(gameID string) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	for _, a := range s.assignments {
		if a.GameID == gameID {
			assignments = append(assignments, *a)
		}
	}
	return assignments, nil
}

func (s *fakeStore) ListGameIDsByStatus(_ context.Context, statuses []domain.GameStatus) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, g := range s.games {
		for _, st := range statuses {
			if g.Status == st {
				ids = append(ids, g.ID)
				break
			}
		}
	}
	return ids, nil
}

func (s *fakeStore) CreateReferee(_ context.Context, referee *domain.Referee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *referee
	s.referees[r.ID] = &r
	return nil
}

func (s *fakeStore) GetReferee(_ context.Context, refereeID string) (*domain.Referee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getReferee(refereeID)
}

func (s *fakeStore) getReferee(refereeID string) (*domain.Referee, error) {
	r, ok := s.referees[refereeID]
	if !ok {
		return nil, domain.ErrRefereeNotFound
	}
	rc := *r
	return &rc, nil
}

func (s *fakeStore) DeleteReferee(_ context.Context, refereeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.referees[refereeID]; !ok {
		return domain.ErrRefereeNotFound
	}
	delete(s.referees, refereeID)
	return nil
}

func (s *fakeStore) ReplaceAvailability(_ context.Context, refereeID string, windows []domain.AvailabilityWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[refereeID] = append([]domain.AvailabilityWindow(nil), windows...)
	return nil
}

func (s *fakeStore) ListAvailability(_ context.Context, refereeID string) ([]domain.AvailabilityWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listAvailability(refereeID)
}

func (s *fakeStore) listAvailability(refereeID string) ([]domain.AvailabilityWindow, error) {
	return append([]domain.AvailabilityWindow(nil), s.windows[refereeID]...), nil
}

func (s *fakeStore) ListRefereeSchedule(_ context.Context, refereeID string) ([]domain.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []domain.ScheduleEntry
	for _, a := range s.assignments {
		if a.RefereeID != refereeID {
			continue
		}
		g, ok := s.games[a.GameID]
		if !ok {
			continue
		}
		p := s.positions[a.PositionID]
		positionName := ""
		if p != nil {
			positionName = p.Name
		}
		entries = append(entries, domain.ScheduleEntry{
			AssignmentID: a.ID,
			GameID:       g.ID,
			PositionName: positionName,
			StartsAt:     g.StartsAt,
			Location:     g.Location,
			GameStatus:   g.Status,
			Status:       a.Status,
			Wage:         a.CalculatedWage,
		})
	}
	return entries, nil
}

func (s *fakeStore) GetAssignment(_ context.Context, assignmentID string) (*domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getAssignment(assignmentID)
}

func (s *fakeStore) getAssignment(assignmentID string) (*domain.Assignment, error) {
	a, ok := s.assignments[assignmentID]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	ac := *a
	return &ac, nil
}

func (s *fakeStore) CountLiveAssignmentsForGame(_ context.Context, gameID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.assignments {
		if a.GameID == gameID && a.Status != domain.AssignmentStatusDeclined &&
			a.Status != domain.AssignmentStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CountLiveAssignmentsForReferee(_ context.Context, refereeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.assignments {
		if a.RefereeID == refereeID && a.Status != domain.AssignmentStatusDeclined &&
			a.Status != domain.AssignmentStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) InTx(_ context.Context, fn func(tx postgres.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&fakeTx{store: s})
}

// fakeTx operates on the store while InTx holds the lock
type fakeTx struct {
	store *fakeStore
}

var _ postgres.Tx = (*fakeTx)(nil)

func (t *fakeTx) GetGameForUpdate(_ context.Context, gameID string) (*domain.Game, error) {
	return t.store.getGame(gameID)
}

func (t *fakeTx) GetReferee(_ context.Context, refereeID string) (*domain.Referee, error) {
	return t.store.getReferee(refereeID)
}

func (t *fakeTx) GetPosition(_ context.Context, positionID string) (*domain.Position, error) {
	p, ok := t.store.positions[positionID]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	pc := *p
	return &pc, nil
}

func (t *fakeTx) GetAssignment(_ context.Context, assignmentID string) (*domain.Assignment, error) {
	return t.store.getAssignment(assignmentID)
}

func (t *fakeTx) ListGameAssignments(_ context.Context, gameID string) ([]domain.Assignment, error) {
	t.store.txAssignmentLists[gameID]++
	return t.store.listGameAssignments(gameID)
}

func (t *fakeTx) ListRefereeBookings(_ context.Context, refereeID string) ([]domain.RefereeBooking, error) {
	var bookings []domain.RefereeBooking
	for _, a := range t.store.assignments {
		if a.RefereeID != refereeID {
			continue
		}
		g, ok := t.store.games[a.GameID]
		if !ok {
			continue
		}
		bookings = append(bookings, domain.RefereeBooking{
			Assignment:       *a,
			GameStartsAt:     g.StartsAt,
			CompetitionLevel: g.CompetitionLevel,
			GameStatus:       g.Status,
		})
	}
	return bookings, nil
}

func (t *fakeTx) ListAvailability(_ context.Context, refereeID string) ([]domain.AvailabilityWindow, error) {
	return t.store.listAvailability(refereeID)
}

// InsertAssignment enforces the live uniqueness rules the partial unique
// indexes enforce in Postgres
func (t *fakeTx) InsertAssignment(_ context.Context, a *domain.Assignment) error {
	for _, ex := range t.store.assignments {
		if ex.GameID != a.GameID || ex.Status == domain.AssignmentStatusDeclined {
			continue
		}
		if ex.RefereeID == a.RefereeID {
			return domain.ErrDuplicateAssignment
		}
		if ex.PositionID == a.PositionID {
			return domain.ErrPositionFilled
		}
	}
	ac := *a
	t.store.assignments[ac.ID] = &ac
	return nil
}

func (t *fakeTx) UpdateAssignmentStatus(_ context.Context, assignmentID string, status domain.AssignmentStatus) error {
	a, ok := t.store.assignments[assignmentID]
	if !ok {
		return domain.ErrAssignmentNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (t *fakeTx) DeleteAssignment(_ context.Context, assignmentID string) error {
	if _, ok := t.store.assignments[assignmentID]; !ok {
		return domain.ErrAssignmentNotFound
	}
	delete(t.store.assignments, assignmentID)
	return nil
}

func (t *fakeTx) SetGameStatus(_ context.Context, gameID string, status domain.GameStatus) error {
	g, ok := t.store.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	g.Status = status
	g.UpdatedAt = time.Now()
	t.store.statusWrites = append(t.store.statusWrites, gameID)
	return nil
}

func (t *fakeTx) CompleteAcceptedAssignments(_ context.Context, gameID string) (int64, error) {
	var n int64
	for _, a := range t.store.assignments {
		if a.GameID == gameID && a.Status == domain.AssignmentStatusAccepted {
			a.Status = domain.AssignmentStatusCompleted
			n++
		}
	}
	return n, nil
}
