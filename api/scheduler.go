/*
scheduler.go - Cron-driven rank recomputation

PURPOSE:
  Two standing jobs keep the rank projections fresh without manual
  triggers:
  - nightly: recompute the PREVIOUS day shortly after midnight, catching
    late-scored events and midnight-wrapping shifts
  - monthly: on rollover, recompute the period that just closed

  Specs are standard 5-field cron expressions from configuration. Jobs
  run in the cron library's goroutine; the Recomputer's per-scope locks
  make overlap with manual API triggers safe.

USAGE:
  s := api.NewRankScheduler(rec, clock, cfg.Scheduler)
  s.Start()
  defer s.Stop()

SEE ALSO:
  - ranking/recompute.go: the work each job performs
  - config/config.go:     scheduler.* settings
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/warp/attendance-engine/config"
	"github.com/warp/attendance-engine/logger"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
)

// RankScheduler owns the cron runner for rank recomputation.
type RankScheduler struct {
	cron       *cron.Cron
	recomputer *ranking.Recomputer
	clock      schedule.Clock
	cfg        config.SchedulerConfig
}

// NewRankScheduler builds the scheduler; Start activates it.
func NewRankScheduler(rec *ranking.Recomputer, clock schedule.Clock, cfg config.SchedulerConfig) *RankScheduler {
	return &RankScheduler{
		cron:       cron.New(cron.WithLocation(clock.Location())),
		recomputer: rec,
		clock:      clock,
		cfg:        cfg,
	}
}

// Start registers the jobs and starts the runner.
func (s *RankScheduler) Start() error {
	if !s.cfg.Enabled {
		logger.Info("rank scheduler disabled, not starting")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.DailySpec, s.recomputeYesterday); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.MonthlySpec, s.recomputePreviousMonth); err != nil {
		return err
	}

	s.cron.Start()
	logger.WithFields(map[string]interface{}{
		"daily_spec":   s.cfg.DailySpec,
		"monthly_spec": s.cfg.MonthlySpec,
	}).Info("rank scheduler started")
	return nil
}

// Stop halts the runner and waits for running jobs.
func (s *RankScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("rank scheduler stopped")
}

func (s *RankScheduler) recomputeYesterday() {
	date := s.clock.DateOf(s.clock.Now()).AddDays(-1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.recomputer.RecomputeDay(ctx, date); err != nil {
		logger.WithFields(map[string]interface{}{"date": date.String()}).
			Errorf("nightly rank recompute failed: %v", err)
	}
}

func (s *RankScheduler) recomputePreviousMonth() {
	period := s.clock.DateOf(s.clock.Now()).Period().Previous()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	if _, err := s.recomputer.RecomputeMonth(ctx, period); err != nil {
		logger.WithFields(map[string]interface{}{"period": period.String()}).
			Errorf("monthly rank rollover failed: %v", err)
	}
}
