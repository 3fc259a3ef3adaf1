/*
Package ranking turns scored attendance events into daily and monthly ranks.

PURPOSE:
  Ranks are derived, disposable projections: always reproducible from the
  attendance event history, never the source of truth. The aggregator
  recomputes a scope (one date, one month) FROM SCRATCH and replaces the
  whole rank set - a correction to one employee's event moves everyone
  else's rank correctly, which incremental patching gets wrong under
  backfills.

KEY CONCEPTS IN THIS FILE (types.go):
  - DailyRank:   one employee's rank for one calendar date
  - MonthlyRank: one employee's aggregate for one calendar month
  - ScoredEvent: the aggregator's input row (employee, duration, xp)

ORDERING:
  Ascending summed duration - the earlier/more punctual, the better.
  Exact ties break by ascending employee id, so recomputation is
  deterministic and byte-stable.

SEE ALSO:
  - aggregate.go: the pure recompute algorithms
  - recompute.go: the service wiring events -> ranks -> storage
  - store.go:     the replace-all persistence contract
*/
package ranking

import (
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/schedule"
)

// ScoredEvent is one rank-eligible attendance event reduced to what the
// aggregator needs.
type ScoredEvent struct {
	EmployeeID      attendance.EmployeeID
	DurationMinutes int
	XP              int
}

// DailyRank is one employee's standing on one calendar date.
// Unique per (EmployeeID, Date); Rank is dense, 1 = best.
type DailyRank struct {
	EmployeeID           attendance.EmployeeID
	Date                 schedule.Date
	TotalDurationMinutes int
	DailyScore           decimal.Decimal
	Rank                 int
}

// MonthlyRank is one employee's aggregate over one calendar month.
// Unique per (EmployeeID, Period). AverageDurationMinutes divides by the
// count of days the employee has a DailyRank, not by days in the month.
type MonthlyRank struct {
	EmployeeID             attendance.EmployeeID
	Period                 schedule.Period
	TotalDurationMinutes   int
	AverageDurationMinutes decimal.Decimal
	Rank                   int
}
