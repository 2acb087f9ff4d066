package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/referee-assignment/internal/config"
	"github.com/referee-assignment/internal/domain"
)

// Partial unique index names, matched on unique-violation translation
const (
	constraintGameReferee  = "uq_assignments_game_referee_live"
	constraintGamePosition = "uq_assignments_game_position_live"
)

// Repository provides PostgreSQL-based data access
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id VARCHAR(64) PRIMARY KEY,
			starts_at TIMESTAMPTZ NOT NULL,
			location VARCHAR(255) NOT NULL,
			postal_code VARCHAR(16) DEFAULT '',
			competition_level VARCHAR(64) DEFAULT '',
			required_qualification INT NOT NULL DEFAULT 0,
			pay_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			wage_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			multiplier_reason TEXT DEFAULT '',
			payment_model VARCHAR(20) NOT NULL DEFAULT 'INDIVIDUAL',
			refs_needed INT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'unassigned',
			created_by VARCHAR(64) DEFAULT '',
			org_id VARCHAR(64) DEFAULT '',
			region_id VARCHAR(64) DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS referees (
			id VARCHAR(64) PRIMARY KEY,
			account_id VARCHAR(64) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			wage_per_game DOUBLE PRECISION NOT NULL DEFAULT 0,
			qualification_level INT NOT NULL DEFAULT 0,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			max_travel_distance INT NOT NULL DEFAULT 0,
			postal_code VARCHAR(16) DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			id VARCHAR(64) PRIMARY KEY,
			game_id VARCHAR(64) NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			name VARCHAR(64) NOT NULL,
			UNIQUE(game_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id VARCHAR(64) PRIMARY KEY,
			game_id VARCHAR(64) NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			referee_id VARCHAR(64) NOT NULL REFERENCES referees(id) ON DELETE CASCADE,
			position_id VARCHAR(64) NOT NULL REFERENCES positions(id) ON DELETE CASCADE,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			calculated_wage DOUBLE PRECISION NOT NULL DEFAULT 0,
			assigned_by VARCHAR(64) DEFAULT '',
			assigned_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS availability_windows (
			id BIGSERIAL PRIMARY KEY,
			referee_id VARCHAR(64) NOT NULL REFERENCES referees(id) ON DELETE CASCADE,
			starts_at TIMESTAMPTZ NOT NULL,
			ends_at TIMESTAMPTZ NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		// A referee holds at most one live assignment per game, and a
		// position is filled at most once; declined rows don't count.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_game_referee_live
			ON assignments(game_id, referee_id) WHERE status <> 'declined'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_game_position_live
			ON assignments(game_id, position_id) WHERE status <> 'declined'`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_referee ON assignments(referee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_game ON assignments(game_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_status ON games(status)`,
		`CREATE INDEX IF NOT EXISTS idx_availability_referee ON availability_windows(referee_id, starts_at)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx so queries can be shared
// between pooled and transactional paths
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// translateUniqueViolation maps a 23505 on the live-assignment indexes to the
// matching conflict error so a concurrent insert race surfaces as the same
// conflict the resolver would have reported
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case constraintGameReferee:
			return domain.ErrDuplicateAssignment
		case constraintGamePosition:
			return domain.ErrPositionFilled
		}
	}
	return nil
}

// InTx runs fn inside a single transaction, committing on nil and rolling
// back otherwise
func (r *Repository) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return r.inTx(ctx, func(t *txRepo) error { return fn(t) })
}

func (r *Repository) inTx(ctx context.Context, fn func(t *txRepo) error) error {
	pgtx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer pgtx.Rollback(ctx)

	if err := fn(&txRepo{db: pgtx}); err != nil {
		return err
	}
	if err := pgtx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const gameColumns = `id, starts_at, location, postal_code, competition_level,
	required_qualification, pay_rate, wage_multiplier, multiplier_reason,
	payment_model, refs_needed, status, created_by, org_id, region_id,
	created_at, updated_at`

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	var status, model string
	err := row.Scan(
		&g.ID, &g.StartsAt, &g.Location, &g.PostalCode, &g.CompetitionLevel,
		&g.RequiredQualification, &g.PayRate, &g.WageMultiplier, &g.MultiplierReason,
		&model, &g.RefsNeeded, &status, &g.CreatedBy, &g.OrgID, &g.RegionID,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Stored enums fail fast rather than propagating free-form strings
	if g.Status, err = domain.ParseGameStatus(status); err != nil {
		return nil, err
	}
	if g.PaymentModel, err = domain.ParsePaymentModel(model); err != nil {
		return nil, err
	}
	return &g, nil
}

func getGame(ctx context.Context, db dbtx, gameID string, forUpdate bool) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	g, err := scanGame(db.QueryRow(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return g, nil
}

// CreateGame inserts a game and its positions in one transaction
func (r *Repository) CreateGame(ctx context.Context, game *domain.Game, positions []domain.Position) error {
	return r.inTx(ctx, func(txr *txRepo) error {
		query := `
			INSERT INTO games (` + gameColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`
		_, err := txr.db.Exec(ctx, query,
			game.ID, game.StartsAt, game.Location, game.PostalCode, game.CompetitionLevel,
			game.RequiredQualification, game.PayRate, game.WageMultiplier, game.MultiplierReason,
			string(game.PaymentModel), game.RefsNeeded, string(game.Status),
			game.CreatedBy, game.OrgID, game.RegionID, game.CreatedAt, game.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating game: %w", err)
		}
		for _, p := range positions {
			_, err := txr.db.Exec(ctx,
				`INSERT INTO positions (id, game_id, name) VALUES ($1, $2, $3)`,
				p.ID, p.GameID, p.Name,
			)
			if err != nil {
				return fmt.Errorf("creating position: %w", err)
			}
		}
		return nil
	})
}

// GetGame retrieves a game by ID
func (r *Repository) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	return getGame(ctx, r.pool, gameID, false)
}

// ListGames retrieves all games ordered by start time
func (r *Repository) ListGames(ctx context.Context) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY starts_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// DeleteGame removes a game; its positions cascade
func (r *Repository) DeleteGame(ctx context.Context, gameID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

// ListGamePositions retrieves a game's positions
func (r *Repository) ListGamePositions(ctx context.Context, gameID string) ([]domain.Position, error) {
	return listPositions(ctx, r.pool, gameID)
}

func listPositions(ctx context.Context, db dbtx, gameID string) ([]domain.Position, error) {
	rows, err := db.Query(ctx,
		`SELECT id, game_id, name FROM positions WHERE game_id = $1 ORDER BY name`, gameID)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.ID, &p.GameID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// ListGameIDsByStatus retrieves game IDs in any of the given statuses
func (r *Repository) ListGameIDsByStatus(ctx context.Context, statuses []domain.GameStatus) ([]string, error) {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM games WHERE status = ANY($1) ORDER BY starts_at`, ss)
	if err != nil {
		return nil, fmt.Errorf("listing games by status: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const refereeColumns = `id, account_id, name, wage_per_game, qualification_level,
	is_available, max_travel_distance, postal_code, created_at, updated_at`

func scanReferee(row pgx.Row) (*domain.Referee, error) {
	var ref domain.Referee
	err := row.Scan(
		&ref.ID, &ref.AccountID, &ref.Name, &ref.WagePerGame, &ref.QualificationLevel,
		&ref.IsAvailable, &ref.MaxTravelDistance, &ref.PostalCode,
		&ref.CreatedAt, &ref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func getReferee(ctx context.Context, db dbtx, refereeID string) (*domain.Referee, error) {
	ref, err := scanReferee(db.QueryRow(ctx,
		`SELECT `+refereeColumns+` FROM referees WHERE id = $1`, refereeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefereeNotFound
		}
		return nil, fmt.Errorf("getting referee: %w", err)
	}
	return ref, nil
}

// CreateReferee registers a referee
func (r *Repository) CreateReferee(ctx context.Context, referee *domain.Referee) error {
	query := `
		INSERT INTO referees (` + refereeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		referee.ID, referee.AccountID, referee.Name, referee.WagePerGame,
		referee.QualificationLevel, referee.IsAvailable, referee.MaxTravelDistance,
		referee.PostalCode, referee.CreatedAt, referee.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating referee: %w", err)
	}
	return nil
}

// GetReferee retrieves a referee by ID
func (r *Repository) GetReferee(ctx context.Context, refereeID string) (*domain.Referee, error) {
	return getReferee(ctx, r.pool, refereeID)
}

// DeleteReferee removes a referee; availability windows cascade
func (r *Repository) DeleteReferee(ctx context.Context, refereeID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM referees WHERE id = $1`, refereeID)
	if err != nil {
		return fmt.Errorf("deleting referee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRefereeNotFound
	}
	return nil
}

// ReplaceAvailability replaces a referee's declared availability windows
func (r *Repository) ReplaceAvailability(ctx context.Context, refereeID string, windows []domain.AvailabilityWindow) error {
	return r.inTx(ctx, func(txr *txRepo) error {
		if _, err := txr.db.Exec(ctx,
			`DELETE FROM availability_windows WHERE referee_id = $1`, refereeID); err != nil {
			return fmt.Errorf("clearing availability: %w", err)
		}
		for _, w := range windows {
			_, err := txr.db.Exec(ctx,
				`INSERT INTO availability_windows (referee_id, starts_at, ends_at, available)
				 VALUES ($1, $2, $3, $4)`,
				refereeID, w.StartsAt, w.EndsAt, w.Available,
			)
			if err != nil {
				return fmt.Errorf("inserting availability window: %w", err)
			}
		}
		return nil
	})
}

// ListAvailability retrieves a referee's declared availability windows
func (r *Repository) ListAvailability(ctx context.Context, refereeID string) ([]domain.AvailabilityWindow, error) {
	return listAvailability(ctx, r.pool, refereeID)
}

func listAvailability(ctx context.Context, db dbtx, refereeID string) ([]domain.AvailabilityWindow, error) {
	rows, err := db.Query(ctx,
		`SELECT referee_id, starts_at, ends_at, available
		 FROM availability_windows WHERE referee_id = $1 ORDER BY starts_at`, refereeID)
	if err != nil {
		return nil, fmt.Errorf("listing availability: %w", err)
	}
	defer rows.Close()

	var windows []domain.AvailabilityWindow
	for rows.Next() {
		var w domain.AvailabilityWindow
		if err := rows.Scan(&w.RefereeID, &w.StartsAt, &w.EndsAt, &w.Available); err != nil {
			return nil, fmt.Errorf("scanning availability window: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// ListRefereeSchedule retrieves a referee's assignments joined with their
// games, ordered by game start
func (r *Repository) ListRefereeSchedule(ctx context.Context, refereeID string) ([]domain.ScheduleEntry, error) {
	query := `
		SELECT a.id, a.game_id, p.name, g.starts_at, g.location, g.status, a.status, a.calculated_wage
		FROM assignments a
		JOIN games g ON g.id = a.game_id
		JOIN positions p ON p.id = a.position_id
		WHERE a.referee_id = $1
		ORDER BY g.starts_at
	`
	rows, err := r.pool.Query(ctx, query, refereeID)
	if err != nil {
		return nil, fmt.Errorf("listing referee schedule: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		var gameStatus, status string
		err := rows.Scan(&e.AssignmentID, &e.GameID, &e.PositionName, &e.StartsAt,
			&e.Location, &gameStatus, &status, &e.Wage)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		if e.GameStatus, err = domain.ParseGameStatus(gameStatus); err != nil {
			return nil, err
		}
		if e.Status, err = domain.ParseAssignmentStatus(status); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const assignmentColumns = `id, game_id, referee_id, position_id, status,
	calculated_wage, assigned_by, assigned_at, updated_at`

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	var status string
	err := row.Scan(
		&a.ID, &a.GameID, &a.RefereeID, &a.PositionID, &status,
		&a.CalculatedWage, &a.AssignedBy, &a.AssignedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Status, err = domain.ParseAssignmentStatus(status); err != nil {
		return nil, err
	}
	return &a, nil
}

func getAssignment(ctx context.Context, db dbtx, assignmentID string) (*domain.Assignment, error) {
	a, err := scanAssignment(db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, assignmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("getting assignment: %w", err)
	}
	return a, nil
}

func listGameAssignments(ctx context.Context, db dbtx, gameID string) ([]domain.Assignment, error) {
	rows, err := db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE game_id = $1 ORDER BY assigned_at`, gameID)
	if err != nil {
		return nil, fmt.Errorf("listing game assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// GetAssignment retrieves an assignment by ID
func (r *Repository) GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	return getAssignment(ctx, r.pool, assignmentID)
}

// ListGameAssignments retrieves all assignments on a game
func (r *Repository) ListGameAssignments(ctx context.Context, gameID string) ([]domain.Assignment, error) {
	return listGameAssignments(ctx, r.pool, gameID)
}

// CountLiveAssignmentsForGame counts pending or accepted assignments on a game
func (r *Repository) CountLiveAssignmentsForGame(ctx context.Context, gameID string) (int, error) {
	return countLive(ctx, r.pool, `game_id`, gameID)
}

// CountLiveAssignmentsForReferee counts pending or accepted assignments held
// by a referee
func (r *Repository) CountLiveAssignmentsForReferee(ctx context.Context, refereeID string) (int, error) {
	return countLive(ctx, r.pool, `referee_id`, refereeID)
}

func countLive(ctx context.Context, db dbtx, column, id string) (int, error) {
	var count int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM assignments WHERE `+column+` = $1 AND status IN ('pending', 'accepted')`,
		id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting live assignments: %w", err)
	}
	return count, nil
}

// txRepo implements Tx over a pgx transaction
type txRepo struct {
	db pgx.Tx
}

// GetGameForUpdate locks the game row for the rest of the transaction,
// serializing capacity checks against concurrent inserts
func (t *txRepo) GetGameForUpdate(ctx context.Context, gameID string) (*domain.Game, error) {
	return getGame(ctx, t.db, gameID, true)
}

func (t *txRepo) GetReferee(ctx context.Context, refereeID string) (*domain.Referee, error) {
	return getReferee(ctx, t.db, refereeID)
}

func (t *txRepo) GetPosition(ctx context.Context, positionID string) (*domain.Position, error) {
	var p domain.Position
	err := t.db.QueryRow(ctx,
		`SELECT id, game_id, name FROM positions WHERE id = $1`, positionID).
		Scan(&p.ID, &p.GameID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, fmt.Errorf("getting position: %w", err)
	}
	return &p, nil
}

func (t *txRepo) GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	return getAssignment(ctx, t.db, assignmentID)
}

func (t *txRepo) ListGameAssignments(ctx context.Context, gameID string) ([]domain.Assignment, error) {
	return listGameAssignments(ctx, t.db, gameID)
}

// ListRefereeBookings retrieves a referee's assignments joined with their
// games' scheduling attributes for the overlap check
func (t *txRepo) ListRefereeBookings(ctx context.Context, refereeID string) ([]domain.RefereeBooking, error) {
	query := `
		SELECT a.id, a.game_id, a.referee_id, a.position_id, a.status,
		       a.calculated_wage, a.assigned_by, a.assigned_at, a.updated_at,
		       g.starts_at, g.competition_level, g.status
		FROM assignments a
		JOIN games g ON g.id = a.game_id
		WHERE a.referee_id = $1
	`
	rows, err := t.db.Query(ctx, query, refereeID)
	if err != nil {
		return nil, fmt.Errorf("listing referee bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.RefereeBooking
	for rows.Next() {
		var b domain.RefereeBooking
		var status, gameStatus string
		err := rows.Scan(
			&b.ID, &b.GameID, &b.RefereeID, &b.PositionID, &status,
			&b.CalculatedWage, &b.AssignedBy, &b.AssignedAt, &b.UpdatedAt,
			&b.GameStartsAt, &b.CompetitionLevel, &gameStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning referee booking: %w", err)
		}
		if b.Status, err = domain.ParseAssignmentStatus(status); err != nil {
			return nil, err
		}
		if b.GameStatus, err = domain.ParseGameStatus(gameStatus); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (t *txRepo) ListAvailability(ctx context.Context, refereeID string) ([]domain.AvailabilityWindow, error) {
	return listAvailability(ctx, t.db, refereeID)
}

func (t *txRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	query := `
		INSERT INTO assignments (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := t.db.Exec(ctx, query,
		a.ID, a.GameID, a.RefereeID, a.PositionID, string(a.Status),
		a.CalculatedWage, a.AssignedBy, a.AssignedAt, a.UpdatedAt,
	)
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (t *txRepo) UpdateAssignmentStatus(ctx context.Context, assignmentID string, status domain.AssignmentStatus) error {
	result, err := t.db.Exec(ctx,
		`UPDATE assignments SET status = $2, updated_at = $3 WHERE id = $1`,
		assignmentID, string(status), time.Now())
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("updating assignment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (t *txRepo) DeleteAssignment(ctx context.Context, assignmentID string) error {
	result, err := t.db.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, assignmentID)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (t *txRepo) SetGameStatus(ctx context.Context, gameID string, status domain.GameStatus) error {
	result, err := t.db.Exec(ctx,
		`UPDATE games SET status = $2, updated_at = $3 WHERE id = $1`,
		gameID, string(status), time.Now())
	if err != nil {
		return fmt.Errorf("setting game status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

// CompleteAcceptedAssignments moves a completed game's accepted assignments
// to completed
func (t *txRepo) CompleteAcceptedAssignments(ctx context.Context, gameID string) (int64, error) {
	result, err := t.db.Exec(ctx,
		`UPDATE assignments SET status = 'completed', updated_at = $2
		 WHERE game_id = $1 AND status = 'accepted'`,
		gameID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("completing assignments: %w", err)
	}
	return result.RowsAffected(), nil
}
