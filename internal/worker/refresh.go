package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/notehub-gamification/internal/config"
	"github.com/notehub-gamification/internal/service"
)

// RefreshWorker periodically rebuilds every cached leaderboard scope so
// reads stay warm even when no one has invalidated the cache
type RefreshWorker struct {
	leaderboard *service.LeaderboardService
	config      *config.RefreshConfig
	logger      *slog.Logger
	stopCh      chan struct{}
	doneCh      chan struct{}
	mu          sync.Mutex
	running     bool
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(
	leaderboard *service.LeaderboardService,
	cfg *config.RefreshConfig,
	logger *slog.Logger,
) *RefreshWorker {
	return &RefreshWorker{
		leaderboard: leaderboard,
		config:      cfg,
		logger:      logger,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background refresh process
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("refresh worker started", "interval", w.config.Interval)

	go w.run(ctx)
	return nil
}

// Stop stops the background refresh process
func (w *RefreshWorker) Stop() error {
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

	w.logger.Info("refresh worker stopped")
	return nil
}

// run is the main worker loop
func (w *RefreshWorker) run(ctx context.Context) {
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
			w.refreshAll(ctx)
		}
	}
}

// refreshAll rebuilds every known leaderboard scope
func (w *RefreshWorker) refreshAll(ctx context.Context) {
	w.logger.Info("starting leaderboard refresh cycle")
	startTime := time.Now()

	if err := w.leaderboard.RebuildAll(ctx); err != nil {
		w.logger.Error("leaderboard refresh cycle failed", "error", err)
		return
	}

	w.logger.Info("leaderboard refresh cycle completed", "duration", time.Since(startTime))
}

// IsRunning returns whether the worker is currently running
func (w *RefreshWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RunOnce runs a single refresh cycle (useful for manual triggers)
func (w *RefreshWorker) RunOnce(ctx context.Context) {
	w.refreshAll(ctx)
}
