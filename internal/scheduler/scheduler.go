// Package scheduler drives repeated dashboard runs in watch mode.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner executes one dashboard pass.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler runs the dashboard once immediately, then on a fixed interval.
// Overlapping runs are skipped, not queued: if a pass is still in flight
// when the next tick fires, that tick is dropped.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a scheduler for the given interval.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start performs the first run synchronously, then schedules the rest.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runOnce(ctx)

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.runOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule dashboard runs: %w", err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "interval", s.interval)
	return nil
}

// Stop halts the schedule and waits for an in-flight cron-triggered run.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous run still in progress, skipping this tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error("dashboard run failed", "error", err)
	}
}
