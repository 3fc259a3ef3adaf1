/*
aggregate.go - Pure rank recomputation

PURPOSE:
  The two aggregation algorithms, free of storage:

  Daily:   group scored events by employee (an employee may attend several
           windows the same day - durations sum), sort ascending by summed
           duration, rank = 1-based position, ties by employee id.
  Monthly: group DailyRank rows by employee, sum durations, average over
           days-with-a-record, same ordering and tie-break.

  Both are idempotent: the same input always yields the same output. An
  empty scope yields an empty rank set, not an error.

CONSISTENCY CHECK:
  After ranking, every grouped employee must appear exactly once in the
  output. A miss is a bug in this file, not a data condition, so it
  panics rather than silently producing a gapped ranking.
*/
package ranking

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/schedule"
	"github.com/warp/attendance-engine/xp"
)

// Aggregator computes rank sets. The Blender folds configured XP weight
// into DailyScore; rank ORDER is by duration regardless of the weight.
type Aggregator struct {
	Blender xp.Blender
}

// NewAggregator builds an aggregator with the given blender.
func NewAggregator(blender xp.Blender) Aggregator {
	return Aggregator{Blender: blender}
}

// RecomputeDailyRanks computes the full rank set for one date from all of
// that date's scored events. The result replaces the date's previous set.
func (a Aggregator) RecomputeDailyRanks(date schedule.Date, events []ScoredEvent) []DailyRank {
	type bucket struct {
		duration int
		xpEarned int
	}
	byEmployee := make(map[attendance.EmployeeID]*bucket)
	for _, e := range events {
		b := byEmployee[e.EmployeeID]
		if b == nil {
			b = &bucket{}
			byEmployee[e.EmployeeID] = b
		}
		b.duration += e.DurationMinutes
		b.xpEarned += e.XP
	}

	ranks := make([]DailyRank, 0, len(byEmployee))
	for id, b := range byEmployee {
		ranks = append(ranks, DailyRank{
			EmployeeID:           id,
			Date:                 date,
			TotalDurationMinutes: b.duration,
			DailyScore:           a.Blender.DailyScore(b.duration, b.xpEarned),
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].TotalDurationMinutes != ranks[j].TotalDurationMinutes {
			return ranks[i].TotalDurationMinutes < ranks[j].TotalDurationMinutes
		}
		return ranks[i].EmployeeID < ranks[j].EmployeeID
	})
	for i := range ranks {
		ranks[i].Rank = i + 1
	}

	assertComplete(len(byEmployee), len(ranks), "daily", date.String())
	return ranks
}

// RecomputeMonthlyRanks computes the full rank set for one period from all
// of that period's DailyRank rows.
func (a Aggregator) RecomputeMonthlyRanks(period schedule.Period, dailyRanks []DailyRank) []MonthlyRank {
	type bucket struct {
		total int
		days  int
	}
	byEmployee := make(map[attendance.EmployeeID]*bucket)
	for _, dr := range dailyRanks {
		b := byEmployee[dr.EmployeeID]
		if b == nil {
			b = &bucket{}
			byEmployee[dr.EmployeeID] = b
		}
		b.total += dr.TotalDurationMinutes
		b.days++
	}

	ranks := make([]MonthlyRank, 0, len(byEmployee))
	for id, b := range byEmployee {
		avg := decimal.NewFromInt(int64(b.total)).
			Div(decimal.NewFromInt(int64(b.days)))
		ranks = append(ranks, MonthlyRank{
			EmployeeID:             id,
			Period:                 period,
			TotalDurationMinutes:   b.total,
			AverageDurationMinutes: avg,
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].TotalDurationMinutes != ranks[j].TotalDurationMinutes {
			return ranks[i].TotalDurationMinutes < ranks[j].TotalDurationMinutes
		}
		return ranks[i].EmployeeID < ranks[j].EmployeeID
	})
	for i := range ranks {
		ranks[i].Rank = i + 1
	}

	assertComplete(len(byEmployee), len(ranks), "monthly", period.String())
	return ranks
}

// assertComplete guards the structural invariant that every grouped
// employee received a rank row.
func assertComplete(employees, ranks int, scope, key string) {
	if employees != ranks {
		panic(fmt.Sprintf("ranking: %s recompute for %s produced %d rows for %d employees",
			scope, key, ranks, employees))
	}
}
