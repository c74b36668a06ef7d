// Package scheduler keeps the cached feeds warm in the background.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Warmer is the slice of the dashboard service the scheduler drives.
type Warmer interface {
	WarmFeeds(ctx context.Context)
}

// Scheduler periodically re-evaluates the cached feeds so page renders are
// served warm. Commute legs are excluded; they are computed per render.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a Scheduler. interval <= 0 disables it.
func New(warmer Warmer, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		if s.logger != nil {
			s.logger.Info("feed warming disabled")
		}
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		start := time.Now()
		s.warmer.WarmFeeds(ctx)
		if s.logger != nil {
			s.logger.Debug("feed warm-up completed", zap.Duration("took", time.Since(start)))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	if s.logger != nil {
		s.logger.Info("feed warming scheduled", zap.Duration("interval", s.interval))
	}
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
