/*
store.go - Rank persistence contract

PURPOSE:
  Ranks are replaced whole, per scope. ReplaceDailyRanks/ReplaceMonthlyRanks
  must be atomic delete-then-insert (or equivalent upsert-all): a reader
  never observes half of a date's rank set, because a partial set violates
  the dense-ranking invariant. Implementations run the replace inside one
  transaction.
*/
package ranking

import (
	"context"

	"github.com/warp/attendance-engine/schedule"
)

// RankStore persists daily and monthly rank sets.
type RankStore interface {
	// ReplaceDailyRanks atomically swaps the full rank set for a date.
	// An empty set clears the date.
	ReplaceDailyRanks(ctx context.Context, date schedule.Date, ranks []DailyRank) error

	// DailyRanks returns the stored rank set for a date, rank ascending.
	DailyRanks(ctx context.Context, date schedule.Date) ([]DailyRank, error)

	// DailyRanksInPeriod returns all daily ranks within the period,
	// ordered by date then rank.
	DailyRanksInPeriod(ctx context.Context, period schedule.Period) ([]DailyRank, error)

	// ReplaceMonthlyRanks atomically swaps the full rank set for a period.
	ReplaceMonthlyRanks(ctx context.Context, period schedule.Period, ranks []MonthlyRank) error

	// MonthlyRanks returns the stored rank set for a period, rank ascending.
	MonthlyRanks(ctx context.Context, period schedule.Period) ([]MonthlyRank, error)
}
