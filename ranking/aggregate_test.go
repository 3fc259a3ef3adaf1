package ranking_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
	"github.com/warp/attendance-engine/xp"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var (
	monday  = schedule.NewDate(2025, time.January, 6)
	january = schedule.Period{Year: 2025, Month: time.January}
)

func emp(id string) attendance.EmployeeID { return attendance.EmployeeID(id) }

func pureAggregator() ranking.Aggregator {
	return ranking.NewAggregator(xp.NewBlender(decimal.Zero))
}

func ev(id string, minutes int) ranking.ScoredEvent {
	return ranking.ScoredEvent{EmployeeID: emp(id), DurationMinutes: minutes}
}

// =============================================================================
// DAILY
// =============================================================================

func TestRecomputeDailyRanks_Ordering(t *testing.T) {
	agg := pureAggregator()

	// GIVEN: three employees, earliest first after sorting
	ranks := agg.RecomputeDailyRanks(monday, []ranking.ScoredEvent{
		ev("emp-003", 25),
		ev("emp-001", -5),
		ev("emp-002", 10),
	})

	require.Len(t, ranks, 3)
	assert.Equal(t, emp("emp-001"), ranks[0].EmployeeID)
	assert.Equal(t, -5, ranks[0].TotalDurationMinutes)
	assert.Equal(t, 1, ranks[0].Rank)
	assert.Equal(t, emp("emp-002"), ranks[1].EmployeeID)
	assert.Equal(t, 2, ranks[1].Rank)
	assert.Equal(t, emp("emp-003"), ranks[2].EmployeeID)
	assert.Equal(t, 3, ranks[2].Rank)
}

func TestRecomputeDailyRanks_TiesBreakByEmployeeID(t *testing.T) {
	agg := pureAggregator()

	ranks := agg.RecomputeDailyRanks(monday, []ranking.ScoredEvent{
		ev("emp-200", 10),
		ev("emp-100", 10),
	})

	require.Len(t, ranks, 2)
	// Equal durations: ranks stay dense (1, 2), lower id first.
	assert.Equal(t, emp("emp-100"), ranks[0].EmployeeID)
	assert.Equal(t, 1, ranks[0].Rank)
	assert.Equal(t, emp("emp-200"), ranks[1].EmployeeID)
	assert.Equal(t, 2, ranks[1].Rank)
}

func TestRecomputeDailyRanks_MultipleWindowsSum(t *testing.T) {
	agg := pureAggregator()

	// GIVEN: emp-001 attended two windows the same day (-5 and +20)
	ranks := agg.RecomputeDailyRanks(monday, []ranking.ScoredEvent{
		ev("emp-001", -5),
		ev("emp-001", 20),
		ev("emp-002", 10),
	})

	require.Len(t, ranks, 2)
	assert.Equal(t, emp("emp-002"), ranks[0].EmployeeID, "10 beats the summed 15")
	assert.Equal(t, 15, ranks[1].TotalDurationMinutes)
}

func TestRecomputeDailyRanks_Idempotent(t *testing.T) {
	agg := pureAggregator()
	events := []ranking.ScoredEvent{
		ev("emp-003", 25),
		ev("emp-001", -5),
		ev("emp-002", 10),
	}

	first := agg.RecomputeDailyRanks(monday, events)
	second := agg.RecomputeDailyRanks(monday, events)

	assert.Equal(t, first, second)
}

func TestRecomputeDailyRanks_Empty(t *testing.T) {
	ranks := pureAggregator().RecomputeDailyRanks(monday, nil)

	assert.Empty(t, ranks, "an empty scope yields an empty set, not an error")
}

func TestRecomputeDailyRanks_XPBlending(t *testing.T) {
	// GIVEN: weight 0.5, an event worth 10 minutes and 100 XP
	agg := ranking.NewAggregator(xp.NewBlender(decimal.NewFromFloat(0.5)))

	ranks := agg.RecomputeDailyRanks(monday, []ranking.ScoredEvent{
		{EmployeeID: "emp-001", DurationMinutes: 10, XP: 100},
		{EmployeeID: "emp-002", DurationMinutes: 20, XP: 0},
	})

	require.Len(t, ranks, 2)
	// Order stays by duration even though emp-001's blended score (60) is
	// higher than emp-002's (20).
	assert.Equal(t, emp("emp-001"), ranks[0].EmployeeID)
	assert.True(t, ranks[0].DailyScore.Equal(decimal.NewFromInt(60)),
		"blended score 10 + 0.5*100, got %s", ranks[0].DailyScore)
	assert.True(t, ranks[1].DailyScore.Equal(decimal.NewFromInt(20)))
}

// =============================================================================
// MONTHLY
// =============================================================================

func TestRecomputeMonthlyRanks(t *testing.T) {
	agg := pureAggregator()

	// GIVEN: emp-001 on two days (-5, -25), emp-002 on one day (0)
	daily := []ranking.DailyRank{
		{EmployeeID: "emp-001", Date: monday, TotalDurationMinutes: -5},
		{EmployeeID: "emp-001", Date: monday.AddDays(1), TotalDurationMinutes: -25},
		{EmployeeID: "emp-002", Date: monday, TotalDurationMinutes: 0},
	}

	ranks := agg.RecomputeMonthlyRanks(january, daily)

	require.Len(t, ranks, 2)

	first := ranks[0]
	assert.Equal(t, emp("emp-001"), first.EmployeeID)
	assert.Equal(t, -30, first.TotalDurationMinutes)
	// Average divides by days WITH a record (2), not days in the month.
	assert.True(t, first.AverageDurationMinutes.Equal(decimal.NewFromInt(-15)),
		"expected -15, got %s", first.AverageDurationMinutes)
	assert.Equal(t, 1, first.Rank)

	assert.Equal(t, emp("emp-002"), ranks[1].EmployeeID)
	assert.Equal(t, 2, ranks[1].Rank)
}

func TestRecomputeMonthlyRanks_FractionalAverage(t *testing.T) {
	daily := []ranking.DailyRank{
		{EmployeeID: "emp-001", Date: monday, TotalDurationMinutes: 5},
		{EmployeeID: "emp-001", Date: monday.AddDays(1), TotalDurationMinutes: 10},
	}

	ranks := pureAggregator().RecomputeMonthlyRanks(january, daily)

	require.Len(t, ranks, 1)
	assert.True(t, ranks[0].AverageDurationMinutes.Equal(decimal.NewFromFloat(7.5)),
		"decimal division, not integer: got %s", ranks[0].AverageDurationMinutes)
}

func TestRecomputeMonthlyRanks_Empty(t *testing.T) {
	ranks := pureAggregator().RecomputeMonthlyRanks(january, nil)

	assert.Empty(t, ranks)
}
