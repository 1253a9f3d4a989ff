package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/water-restriction-etl/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
)

// Refreshable is a job run on every scheduler tick.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Scheduler triggers refreshes on a cron schedule. Ticks run sequentially, so
// a slow refresh delays the next tick instead of overlapping with it.
type Scheduler struct {
	schedule  cron.Schedule
	spec      string
	refresher Refreshable
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewScheduler parses spec, a standard five-field cron expression or a
// descriptor such as "@hourly" or "@every 30m".
func NewScheduler(spec string, r Refreshable, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", spec, err)
	}
	return &Scheduler{
		schedule:  schedule,
		spec:      spec,
		refresher: r,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "schedule", s.spec)
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	s.tick(ctx)
	for {
		now := s.clock.Now()
		next := s.schedule.Next(now)
		s.logger.Debug("next refresh scheduled", "at", next)

		timer := s.clock.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-timer.Chan():
		}
		s.tick(ctx)
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// Refresh logs its own failures; the schedule carries on regardless.
	_ = s.refresher.Refresh(ctx)
}
