package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PeriodWorker is a background worker that keeps the current period materialized.
// It covers rollovers into a new period on days without any mutation.
type PeriodWorker struct {
	recomputeService *RecomputeService
	logger           zerolog.Logger
	interval         time.Duration
	stopCh           chan struct{}
	doneCh           chan struct{}
	mu               sync.Mutex
	running          bool
}

// PeriodWorkerConfig holds configuration for the period worker
type PeriodWorkerConfig struct {
	Interval time.Duration // How often to ensure the current period
}

// DefaultPeriodWorkerConfig returns the default worker configuration
func DefaultPeriodWorkerConfig() PeriodWorkerConfig {
	return PeriodWorkerConfig{
		Interval: 1 * time.Hour,
	}
}

// NewPeriodWorker creates a new period worker
func NewPeriodWorker(recomputeService *RecomputeService, logger zerolog.Logger, config PeriodWorkerConfig) *PeriodWorker {
	if config.Interval <= 0 {
		config.Interval = 1 * time.Hour
	}

	return &PeriodWorker{
		recomputeService: recomputeService,
		logger:           logger.With().Str("component", "period_worker").Logger(),
		interval:         config.Interval,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background loop
func (w *PeriodWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting period worker")

	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *PeriodWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping period worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Period worker stopped")
}

func (w *PeriodWorker) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	// Run immediately on startup
	w.ensureCurrent(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.ensureCurrent(ctx)
		}
	}
}

func (w *PeriodWorker) ensureCurrent(ctx context.Context) {
	startTime := time.Now()
	result, err := w.recomputeService.EnsurePeriod(ctx, w.recomputeService.Today())
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to ensure current period")
		return
	}

	w.logger.Debug().
		Str("period_start", result.Start.Format("2006-01-02")).
		Str("period_end", result.End.Format("2006-01-02")).
		Dur("elapsed", time.Since(startTime)).
		Msg("Ensured current period")
}

// IsRunning returns whether the worker is currently running
func (w *PeriodWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
