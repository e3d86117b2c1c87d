// Package scheduler runs the recurring ledger jobs, currently the daily overdue sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/platform/config"
	"github.com/SscSPs/treasury_ledger/internal/utils"
)

// DefaultOverdueSweepSpec runs the sweep shortly after midnight.
const DefaultOverdueSweepSpec = "5 0 * * *"

const schedulerDistinctID = "scheduler"

// OverdueSweeper is the part of the installment service the scheduler drives.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, today time.Time) (int64, error)
}

type Scheduler struct {
	cron     *cron.Cron
	sweeper  OverdueSweeper
	logger   *slog.Logger
	posthog  *utils.PosthogClientWrapper
	location *time.Location
	spec     string
	now      func() time.Time
}

// New validates the cron spec and prepares the jobs. Nothing runs until Run.
func New(cfg *config.Config, sweeper OverdueSweeper, logger *slog.Logger, posthogClient *utils.PosthogClientWrapper) (*Scheduler, error) {
	if sweeper == nil {
		return nil, errors.New("scheduler: sweeper is required")
	}
	loc := cfg.SchedulerTimezone
	if loc == nil {
		loc = time.UTC
	}
	spec := cfg.OverdueSweepCron
	if spec == "" {
		spec = DefaultOverdueSweepSpec
	}

	cronLogger := slogCronLogger{logger: logger.With(slog.String("component", "scheduler"))}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		sweeper:  sweeper,
		logger:   cronLogger.logger,
		posthog:  posthogClient,
		location: loc,
		spec:     spec,
		now:      time.Now,
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("scheduler: invalid overdue sweep spec %q: %w", spec, err)
	}
	return s, nil
}

// Run registers the jobs and blocks until ctx is cancelled, then waits for running jobs.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		_, _ = s.RunOverdueSweep(ctx)
	}); err != nil {
		return fmt.Errorf("scheduler: register overdue sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", slog.String("overdue_sweep", s.spec), slog.String("timezone", s.location.String()))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
	return nil
}

// RunOverdueSweep sweeps as of today in the scheduler's timezone.
func (s *Scheduler) RunOverdueSweep(ctx context.Context) (int64, error) {
	today := dto.CalendarDate(s.now(), s.location)
	logger := s.logger.With(slog.String("date", today.Format(dto.DateLayout)))

	updated, err := s.sweeper.SweepOverdue(ctx, today)
	if err != nil {
		logger.Error("Overdue sweep failed", slog.String("error", err.Error()))
		s.posthog.Enqueue(schedulerDistinctID, utils.EventOverdueSweepFailed, map[string]any{
			"date":  today.Format(dto.DateLayout),
			"error": err.Error(),
		})
		return 0, err
	}

	logger.Info("Overdue sweep completed", slog.Int64("updated", updated))
	if updated > 0 {
		s.posthog.Enqueue(schedulerDistinctID, utils.EventOverdueSweep, map[string]any{
			"date":    today.Format(dto.DateLayout),
			"updated": updated,
		})
	}
	return updated, nil
}

// slogCronLogger adapts slog to cron.Logger.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, slog.String("error", err.Error()))...)
}
