package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/schedule"
	"github.com/warp/attendance-engine/store/memory"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================

// Monday 2025-01-06 07:10 UTC, ten minutes into the morning assembly.
var mondayMorning = time.Date(2025, time.January, 6, 7, 10, 0, 0, time.UTC)

func newIntakeFixture(t *testing.T) (*attendance.Intake, *memory.Store) {
	t.Helper()
	store := memory.New()
	clock := schedule.NewClock(time.UTC)

	windows := []schedule.ScheduleWindow{
		{
			ID:                 "apel-pagi",
			Name:               "Apel Pagi",
			DayStart:           1,
			DayEnd:             5,
			TimeStart:          ct("07:00:00"),
			TimeEnd:            ct("08:15:00"),
			RequiresCredential: true,
			CredentialToken:    "AP_APEL",
			Active:             true,
		},
		{
			ID:                      "ibadah-minggu",
			Name:                    "Ibadah Minggu",
			DayStart:                7,
			DayEnd:                  7,
			TimeStart:               ct("08:00:00"),
			TimeEnd:                 ct("11:00:00"),
			RequiresCredential:      true,
			CredentialToken:         "AP_IBADAH",
			RequiresAdminValidation: true,
			Active:                  true,
		},
		{
			ID:        "shift-malam",
			Name:      "Shift Malam",
			DayStart:  6,
			DayEnd:    1,
			TimeStart: ct("22:00:00"),
			TimeEnd:   ct("05:00:00"),
			Active:    true,
		},
	}
	for _, w := range windows {
		require.NoError(t, store.SaveWindow(context.Background(), w))
	}
	return attendance.NewIntake(store, store, clock), store
}

// =============================================================================
// RECORDED
// =============================================================================

func TestCheckIn_Recorded(t *testing.T) {
	intake, store := newIntakeFixture(t)
	ctx := context.Background()

	// WHEN: a valid token against an explicit window, ten minutes late
	outcome, err := intake.CheckIn(ctx, "emp-001", "apel-pagi", "AP_APEL", mondayMorning)

	require.NoError(t, err)
	assert.False(t, outcome.Rejected)
	assert.False(t, outcome.Duplicate)
	assert.Equal(t, schedule.WindowID("apel-pagi"), outcome.Window.ID)

	e := outcome.Event
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, attendance.EmployeeID("emp-001"), e.EmployeeID)
	assert.Equal(t, "2025-01-06", e.Date.String())
	assert.Equal(t, attendance.StatusApproved, e.ValidationStatus)
	require.True(t, e.Scored())
	assert.Equal(t, 10, *e.DurationMinutes)

	// AND: the event is persisted under its uniqueness key
	stored, err := store.EventByKey(ctx, "emp-001", "apel-pagi", e.Date)
	require.NoError(t, err)
	assert.Equal(t, e.ID, stored.ID)
}

func TestCheckIn_TokenResolvesWindow(t *testing.T) {
	intake, _ := newIntakeFixture(t)

	// WHEN: no window id, only a case-drifted QR payload
	outcome, err := intake.CheckIn(context.Background(), "emp-001", "", "ap_apel", mondayMorning)

	require.NoError(t, err)
	assert.False(t, outcome.Rejected)
	assert.Equal(t, schedule.WindowID("apel-pagi"), outcome.Window.ID)
	assert.Equal(t, "ap_apel", outcome.Event.PresentedCredential, "raw token kept for audit")
}

func TestCheckIn_AdminValidationStartsPending(t *testing.T) {
	intake, _ := newIntakeFixture(t)

	// WHEN: Sunday worship, which requires admin validation
	sunday := time.Date(2025, time.January, 5, 8, 30, 0, 0, time.UTC)
	outcome, err := intake.CheckIn(context.Background(), "emp-001", "ibadah-minggu", "AP_IBADAH", sunday)

	require.NoError(t, err)
	assert.False(t, outcome.Rejected)
	assert.Equal(t, attendance.StatusPending, outcome.Event.ValidationStatus)
}

func TestCheckIn_CredentialFreeWindow(t *testing.T) {
	intake, _ := newIntakeFixture(t)

	// WHEN: the night shift, which takes no credential, Sunday 23:30
	lateNight := time.Date(2025, time.January, 5, 23, 30, 0, 0, time.UTC)
	outcome, err := intake.CheckIn(context.Background(), "emp-001", "shift-malam", "", lateNight)

	require.NoError(t, err)
	assert.False(t, outcome.Rejected)
	assert.Equal(t, 90, *outcome.Event.DurationMinutes)
}

// =============================================================================
// DUPLICATE
// =============================================================================

func TestCheckIn_DuplicateReturnsExistingEvent(t *testing.T) {
	intake, _ := newIntakeFixture(t)
	ctx := context.Background()

	first, err := intake.CheckIn(ctx, "emp-001", "apel-pagi", "AP_APEL", mondayMorning)
	require.NoError(t, err)

	// WHEN: the same employee scans again twenty minutes later
	again := mondayMorning.Add(20 * time.Minute)
	second, err := intake.CheckIn(ctx, "emp-001", "apel-pagi", "AP_APEL", again)

	require.NoError(t, err, "a duplicate is an outcome, not an error")
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Event.ID, second.Event.ID, "the original event comes back")
	assert.Equal(t, 10, *second.Event.DurationMinutes, "the original score stands")
}

func TestCheckIn_DifferentEmployeesDoNotCollide(t *testing.T) {
	intake, _ := newIntakeFixture(t)
	ctx := context.Background()

	a, err := intake.CheckIn(ctx, "emp-001", "apel-pagi", "AP_APEL", mondayMorning)
	require.NoError(t, err)
	b, err := intake.CheckIn(ctx, "emp-002", "apel-pagi", "AP_APEL", mondayMorning)
	require.NoError(t, err)

	assert.False(t, a.Duplicate)
	assert.False(t, b.Duplicate)
	assert.NotEqual(t, a.Event.ID, b.Event.ID)
}

// =============================================================================
// REJECTED
// =============================================================================

func TestCheckIn_Rejections(t *testing.T) {
	intake, _ := newIntakeFixture(t)
	ctx := context.Background()

	t.Run("wrong token", func(t *testing.T) {
		outcome, err := intake.CheckIn(ctx, "emp-001", "apel-pagi", "AP_IBADAH", mondayMorning)

		require.NoError(t, err)
		assert.True(t, outcome.Rejected)
		assert.Equal(t, "token does not match this window", outcome.Reason)
	})

	t.Run("window closed", func(t *testing.T) {
		saturday := time.Date(2025, time.January, 4, 7, 10, 0, 0, time.UTC)
		outcome, err := intake.CheckIn(ctx, "emp-001", "apel-pagi", "AP_APEL", saturday)

		require.NoError(t, err)
		assert.True(t, outcome.Rejected)
		assert.Contains(t, outcome.Reason, "window not open now")
		assert.Contains(t, outcome.Reason, "Monday-Friday 07:00:00-08:15:00")
	})

	t.Run("token-only attempt matching nothing open", func(t *testing.T) {
		outcome, err := intake.CheckIn(ctx, "emp-001", "", "AP_SENAM", mondayMorning)

		require.NoError(t, err, "a forged or stale code is normal traffic")
		assert.True(t, outcome.Rejected)
	})

	t.Run("unknown window id is an error, not a rejection", func(t *testing.T) {
		_, err := intake.CheckIn(ctx, "emp-001", "no-such-window", "AP_APEL", mondayMorning)

		assert.ErrorIs(t, err, schedule.ErrWindowNotFound)
	})

	t.Run("rejection writes nothing", func(t *testing.T) {
		fresh, store := newIntakeFixture(t)
		outcome, err := fresh.CheckIn(ctx, "emp-009", "apel-pagi", "wrong", mondayMorning)

		require.NoError(t, err)
		require.True(t, outcome.Rejected)
		_, err = store.EventByKey(ctx, "emp-009", "apel-pagi", schedule.NewDate(2025, time.January, 6))
		assert.ErrorIs(t, err, attendance.ErrEventNotFound)
	})
}
