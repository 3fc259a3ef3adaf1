/*
recompute.go - The recompute service

PURPOSE:
  Wires storage to the pure aggregator:

    load date's events -> filter rank-eligible -> score rows with XP
    -> RecomputeDailyRanks -> replace date's set -> recompute the month

  SERIALIZATION: recomputes for the same scope must not interleave their
  delete/insert halves, so the service holds a per-scope lock (keyed by
  date or period) for the whole pass. Concurrent calls for the same date
  block; different dates proceed in parallel.

  A caller-imposed timeout aborts the WHOLE pass and retries later -
  partial rank sets are never committed.

SEE ALSO:
  - aggregate.go:     the algorithms
  - api/scheduler.go: cron triggers (nightly + monthly rollover)
*/
package ranking

import (
	"context"
	"sync"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/logger"
	"github.com/warp/attendance-engine/schedule"
	"github.com/warp/attendance-engine/xp"
)

// Recomputer loads events, aggregates them and persists rank sets.
type Recomputer struct {
	Events     attendance.Store
	Windows    attendance.WindowSource
	Ranks      RankStore
	Aggregator Aggregator
	XP         xp.Table

	mu     sync.Mutex
	scopes map[string]*sync.Mutex
}

// NewRecomputer wires a recompute service.
func NewRecomputer(events attendance.Store, windows attendance.WindowSource, ranks RankStore, agg Aggregator, table xp.Table) *Recomputer {
	return &Recomputer{
		Events:     events,
		Windows:    windows,
		Ranks:      ranks,
		Aggregator: agg,
		XP:         table,
		scopes:     make(map[string]*sync.Mutex),
	}
}

// RecomputeDay rebuilds the rank set for a date and then the owning month.
func (r *Recomputer) RecomputeDay(ctx context.Context, date schedule.Date) ([]DailyRank, error) {
	unlock := r.lockScope("day:" + date.String())
	ranks, err := r.recomputeDayLocked(ctx, date)
	unlock()
	if err != nil {
		return nil, err
	}

	if _, err := r.RecomputeMonth(ctx, date.Period()); err != nil {
		return nil, err
	}
	return ranks, nil
}

func (r *Recomputer) recomputeDayLocked(ctx context.Context, date schedule.Date) ([]DailyRank, error) {
	events, err := r.Events.EventsOnDate(ctx, date)
	if err != nil {
		return nil, err
	}

	activityTypes, err := r.activityTypes(ctx)
	if err != nil {
		return nil, err
	}

	var scored []ScoredEvent
	for _, e := range events {
		if !e.CountsForRanking() {
			continue
		}
		scored = append(scored, ScoredEvent{
			EmployeeID:      e.EmployeeID,
			DurationMinutes: *e.DurationMinutes,
			XP:              r.XP.For(activityTypes[e.WindowID]),
		})
	}

	ranks := r.Aggregator.RecomputeDailyRanks(date, scored)
	if err := r.Ranks.ReplaceDailyRanks(ctx, date, ranks); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"date":      date.String(),
		"employees": len(ranks),
		"events":    len(scored),
	}).Info("daily ranks recomputed")
	return ranks, nil
}

// RecomputeMonth rebuilds the rank set for a period from its stored
// daily ranks.
func (r *Recomputer) RecomputeMonth(ctx context.Context, period schedule.Period) ([]MonthlyRank, error) {
	unlock := r.lockScope("month:" + period.String())
	defer unlock()

	daily, err := r.Ranks.DailyRanksInPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	ranks := r.Aggregator.RecomputeMonthlyRanks(period, daily)
	if err := r.Ranks.ReplaceMonthlyRanks(ctx, period, ranks); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"period":    period.String(),
		"employees": len(ranks),
	}).Info("monthly ranks recomputed")
	return ranks, nil
}

// activityTypes maps window id to its activity type for XP lookup.
func (r *Recomputer) activityTypes(ctx context.Context) (map[schedule.WindowID]string, error) {
	windows, err := r.Windows.Windows(ctx)
	if err != nil {
		return nil, err
	}
	types := make(map[schedule.WindowID]string, len(windows))
	for _, w := range windows {
		types[w.ID] = w.ActivityType
	}
	return types, nil
}

// lockScope acquires the lock for a scope key and returns its release.
func (r *Recomputer) lockScope(key string) func() {
	r.mu.Lock()
	m, ok := r.scopes[key]
	if !ok {
		m = &sync.Mutex{}
		r.scopes[key] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}
