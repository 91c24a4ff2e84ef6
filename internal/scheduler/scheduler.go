// Package scheduler re-runs a job at a fixed weekly wall-clock instant.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one full pass. Its error is logged and never stops the scheduler.
type Job func(ctx context.Context) error

// Clock is the time source the scheduler waits on.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Weekly returns the cron schedule firing every week on day at hour:minute, local time.
func Weekly(day time.Weekday, hour, minute int) (cron.Schedule, error) {
	spec := fmt.Sprintf("%d %d * * %d", minute, hour, int(day))
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse weekly schedule %q: %w", spec, err)
	}
	return schedule, nil
}

type Option func(*Scheduler)

func WithClock(clock Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// Scheduler is Idle while waiting for the next trigger and Running while a pass is
// in flight. Triggers that arrive while Running are dropped.
type Scheduler struct {
	schedule cron.Schedule
	job      Job
	clock    Clock
	logger   *zap.Logger

	running atomic.Bool
	wg      sync.WaitGroup
}

func New(schedule cron.Schedule, job Job, opts ...Option) *Scheduler {
	s := &Scheduler{
		schedule: schedule,
		job:      job,
		clock:    realClock{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "scheduler"))
	return s
}

// Run fires the job once immediately and then at every scheduled instant until ctx is
// cancelled. The next deadline is always computed from the current time, so instants
// missed while the process was down or a pass was running are not replayed. On
// cancellation Run waits for an in-flight pass to return.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.wg.Wait()

	s.logger.Info("Initial run")
	s.fire(ctx)

	for {
		now := s.clock.Now()
		next := s.schedule.Next(now)
		s.logger.Info("Waiting for next run",
			zap.Time("next_run", next),
			zap.Duration("time_until_next", next.Sub(now)))

		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopping")
			return nil
		case <-s.clock.After(next.Sub(now)):
		}

		s.logger.Info("Scheduled run triggered", zap.Time("scheduled_for", next))
		s.fire(ctx)
	}
}

// Running reports whether a pass is in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) fire(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Previous run still in progress, skipping trigger")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		start := s.clock.Now()
		if err := s.job(ctx); err != nil {
			s.logger.Error("Run failed", zap.Error(err))
			return
		}
		s.logger.Info("Run finished", zap.Duration("elapsed", s.clock.Now().Sub(start)))
	}()
}
