// Package worker runs the periodic reconciliation sweep that re-derives game
// statuses from fresh assignment counts. The sweep is idempotent, so running
// it concurrently with live traffic is safe.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/referee-assignment/internal/config"
	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/postgres"
	"github.com/referee-assignment/internal/service"
)

// derivedStatuses are the statuses the sweep re-derives; games in an
// externally triggered lifecycle state are left alone
var derivedStatuses = []domain.GameStatus{
	domain.GameStatusUnassigned,
	domain.GameStatusAssigned,
	domain.GameStatusFullyStaffed,
}

// ReconcileWorker periodically recomputes derived game statuses
type ReconcileWorker struct {
	store   postgres.Store
	service *service.Service
	config  *config.ReconcileConfig
	logger  *slog.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewReconcileWorker creates a new reconcile worker
func NewReconcileWorker(
	store postgres.Store,
	svc *service.Service,
	cfg *config.ReconcileConfig,
	logger *slog.Logger,
) *ReconcileWorker {
	return &ReconcileWorker{
		store:   store,
		service: svc,
		config:  cfg,
		logger:  logger,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start begins the background reconciliation process
func (w *ReconcileWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("reconcile worker started", "interval", w.config.Interval)

	go w.run(ctx)
	return nil
}

// Stop stops the background reconciliation process
func (w *ReconcileWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("reconcile worker stopped")
	return nil
}

// run is the main worker loop
func (w *ReconcileWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.reconcileAll(ctx)
		}
	}
}

// reconcileAll re-derives the status of every non-terminal game
func (w *ReconcileWorker) reconcileAll(ctx context.Context) {
	w.logger.Info("starting reconcile cycle")
	startTime := time.Now()

	gameIDs, err := w.store.ListGameIDsByStatus(ctx, derivedStatuses)
	if err != nil {
		w.logger.Error("failed to list games for reconciliation", "error", err)
		return
	}

	reconciledCount := 0
	errorCount := 0

	for _, gameID := range gameIDs {
		if _, err := w.service.RecomputeGameStatus(ctx, gameID); err != nil {
			w.logger.Error("failed to reconcile game status",
				"game_id", gameID,
				"error", err,
			)
			errorCount++
		} else {
			reconciledCount++
		}
	}

	duration := time.Since(startTime)
	w.logger.Info("reconcile cycle completed",
		"duration", duration,
		"reconciled", reconciledCount,
		"errors", errorCount,
	)
}

// IsRunning returns whether the worker is currently running
func (w *ReconcileWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RunOnce runs a single reconcile cycle (useful for manual triggers)
func (w *ReconcileWorker) RunOnce(ctx context.Context) {
	w.reconcileAll(ctx)
}
