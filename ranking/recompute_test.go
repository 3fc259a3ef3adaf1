package ranking_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
	"github.com/warp/attendance-engine/store/memory"
	"github.com/warp/attendance-engine/xp"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================

func newRecomputeFixture(t *testing.T) (*ranking.Recomputer, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.SaveWindow(context.Background(), schedule.ScheduleWindow{
		ID:           "apel-pagi",
		Name:         "Apel Pagi",
		DayStart:     1,
		DayEnd:       5,
		TimeStart:    schedule.MustParseClockTime("07:00:00"),
		TimeEnd:      schedule.MustParseClockTime("08:15:00"),
		ActivityType: "apel",
		Active:       true,
	}))
	rec := ranking.NewRecomputer(store, store, store,
		ranking.NewAggregator(xp.NewBlender(decimal.Zero)), nil)
	return rec, store
}

func recordEvent(t *testing.T, store *memory.Store, employee string, date schedule.Date, minutes int, status attendance.ValidationStatus) attendance.AttendanceEvent {
	t.Helper()
	e := attendance.AttendanceEvent{
		ID:               attendance.EventID(fmt.Sprintf("%s-%s", employee, date)),
		EmployeeID:       attendance.EmployeeID(employee),
		WindowID:         "apel-pagi",
		Date:             date,
		OccurredAt:       date.Time(time.UTC).Add(7 * time.Hour),
		DurationMinutes:  &minutes,
		ValidationStatus: status,
		CreatedAt:        time.Now(),
	}
	require.NoError(t, store.RecordAttempt(context.Background(), e))
	return e
}

// =============================================================================
// DAILY RECOMPUTE
// =============================================================================

func TestRecomputeDay(t *testing.T) {
	rec, store := newRecomputeFixture(t)
	ctx := context.Background()

	recordEvent(t, store, "emp-001", monday, -5, attendance.StatusApproved)
	recordEvent(t, store, "emp-002", monday, 10, attendance.StatusApproved)

	ranks, err := rec.RecomputeDay(ctx, monday)
	require.NoError(t, err)

	require.Len(t, ranks, 2)
	assert.Equal(t, emp("emp-001"), ranks[0].EmployeeID)
	assert.Equal(t, 1, ranks[0].Rank)

	// AND: the set is persisted...
	stored, err := store.DailyRanks(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, ranks, stored)

	// ...and the owning month is recomputed in the same pass
	monthly, err := store.MonthlyRanks(ctx, january)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, emp("emp-001"), monthly[0].EmployeeID)
}

func TestRecomputeDay_ExcludesRejectedAndUnscored(t *testing.T) {
	rec, store := newRecomputeFixture(t)
	ctx := context.Background()

	recordEvent(t, store, "emp-001", monday, -5, attendance.StatusApproved)
	recordEvent(t, store, "emp-002", monday, 0, attendance.StatusRejected)
	require.NoError(t, store.RecordAttempt(ctx, attendance.AttendanceEvent{
		ID:               "unscored",
		EmployeeID:       "emp-003",
		WindowID:         "apel-pagi",
		Date:             monday,
		ValidationStatus: attendance.StatusPending,
	}))

	ranks, err := rec.RecomputeDay(ctx, monday)
	require.NoError(t, err)

	require.Len(t, ranks, 1, "rejected and unscored events never rank")
	assert.Equal(t, emp("emp-001"), ranks[0].EmployeeID)
}

func TestRecomputeDay_PendingEventsStillRank(t *testing.T) {
	rec, store := newRecomputeFixture(t)

	// Pending admin review counts until an admin rejects it.
	recordEvent(t, store, "emp-001", monday, 5, attendance.StatusPending)

	ranks, err := rec.RecomputeDay(context.Background(), monday)
	require.NoError(t, err)
	require.Len(t, ranks, 1)
}

func TestRecomputeDay_FullReplaceAfterCorrection(t *testing.T) {
	rec, store := newRecomputeFixture(t)
	ctx := context.Background()

	recordEvent(t, store, "emp-001", monday, -5, attendance.StatusApproved)
	rejected := recordEvent(t, store, "emp-002", monday, -10, attendance.StatusApproved)

	first, err := rec.RecomputeDay(ctx, monday)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, emp("emp-002"), first[0].EmployeeID, "-10 ranks first before the correction")

	// WHEN: an admin rejects the leader's event and the day is recomputed
	require.NoError(t, store.SetValidationStatus(ctx, rejected.ID, attendance.StatusRejected))
	second, err := rec.RecomputeDay(ctx, monday)
	require.NoError(t, err)

	// THEN: the whole set was replaced - everyone's rank moved, no stale row
	require.Len(t, second, 1)
	assert.Equal(t, emp("emp-001"), second[0].EmployeeID)
	assert.Equal(t, 1, second[0].Rank)

	stored, err := store.DailyRanks(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, second, stored)
}

func TestRecomputeDay_EmptyDateClearsTheSet(t *testing.T) {
	rec, store := newRecomputeFixture(t)
	ctx := context.Background()

	recordEvent(t, store, "emp-001", monday, -5, attendance.StatusApproved)
	_, err := rec.RecomputeDay(ctx, monday)
	require.NoError(t, err)

	// WHEN: a date with no events is recomputed
	quiet := monday.AddDays(1)
	ranks, err := rec.RecomputeDay(ctx, quiet)
	require.NoError(t, err)
	assert.Empty(t, ranks)

	stored, err := store.DailyRanks(ctx, quiet)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

// =============================================================================
// CHECK-IN TO RANKING FLOW
// =============================================================================

// The whole pipeline at the service layer: drifted tokens come in, scored
// events land in the store, the recompute produces the day's standing.
func TestCheckInToRankingFlow(t *testing.T) {
	rec, store := newRecomputeFixture(t)
	ctx := context.Background()

	w, err := store.WindowByID(ctx, "apel-pagi")
	require.NoError(t, err)
	w.RequiresCredential = true
	w.CredentialToken = "AP_APEL"
	require.NoError(t, store.SaveWindow(ctx, w))

	clock := schedule.NewClock(time.UTC)
	intake := attendance.NewIntake(store, store, clock)

	// Monday 2025-01-06: emp-001 scans a case-drifted code at 07:10,
	// emp-002 an exact one at 07:05.
	at := func(h, m int) time.Time {
		return time.Date(2025, time.January, 6, h, m, 0, 0, time.UTC)
	}
	later, err := intake.CheckIn(ctx, "emp-001", "", "ap_apel", at(7, 10))
	require.NoError(t, err)
	require.False(t, later.Rejected)
	assert.Equal(t, 10, *later.Event.DurationMinutes)

	earlier, err := intake.CheckIn(ctx, "emp-002", "apel-pagi", "AP_APEL", at(7, 5))
	require.NoError(t, err)
	require.False(t, earlier.Rejected)
	assert.Equal(t, 5, *earlier.Event.DurationMinutes)

	ranks, err := rec.RecomputeDay(ctx, monday)
	require.NoError(t, err)

	require.Len(t, ranks, 2)
	assert.Equal(t, emp("emp-002"), ranks[0].EmployeeID, "early bird ranks first")
	assert.Equal(t, 1, ranks[0].Rank)
	assert.Equal(t, emp("emp-001"), ranks[1].EmployeeID)
	assert.Equal(t, 2, ranks[1].Rank)
}

// =============================================================================
// MONTHLY RECOMPUTE
// =============================================================================

func TestRecomputeMonth_AggregatesStoredDailyRanks(t *testing.T) {
	rec, store := newRecomputeFixture(t)
	ctx := context.Background()

	tuesday := monday.AddDays(1)
	recordEvent(t, store, "emp-001", monday, -5, attendance.StatusApproved)
	recordEvent(t, store, "emp-001", tuesday, -25, attendance.StatusApproved)
	recordEvent(t, store, "emp-002", monday, 0, attendance.StatusApproved)

	_, err := rec.RecomputeDay(ctx, monday)
	require.NoError(t, err)
	_, err = rec.RecomputeDay(ctx, tuesday)
	require.NoError(t, err)

	monthly, err := store.MonthlyRanks(ctx, january)
	require.NoError(t, err)

	require.Len(t, monthly, 2)
	first := monthly[0]
	assert.Equal(t, emp("emp-001"), first.EmployeeID)
	assert.Equal(t, -30, first.TotalDurationMinutes)
	assert.True(t, first.AverageDurationMinutes.Equal(decimal.NewFromInt(-15)))
	assert.Equal(t, 1, first.Rank)
}
