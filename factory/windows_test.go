package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/schedule"
)

func TestParseWindow(t *testing.T) {
	f := factory.NewWindowFactory()

	w, err := f.ParseWindow(`{
		"id": "apel-pagi",
		"name": "Apel Pagi",
		"day_start": 1, "day_end": 5,
		"time_start": "07:00", "time_end": "08:15:00",
		"requires_credential": true,
		"credential_token": "AP_APEL",
		"activity_type": "apel"
	}`)

	require.NoError(t, err)
	assert.Equal(t, schedule.WindowID("apel-pagi"), w.ID)
	assert.Equal(t, schedule.MustParseClockTime("07:00:00"), w.TimeStart, "minute precision normalizes")
	assert.True(t, w.Active, "active defaults to true")
	assert.Equal(t, "apel", w.ActivityType)
}

func TestParseWindow_ExplicitInactive(t *testing.T) {
	w, err := factory.NewWindowFactory().ParseWindow(`{
		"id": "apel-lama",
		"day_start": 1, "day_end": 5,
		"time_start": "07:00:00", "time_end": "08:15:00",
		"active": false
	}`)

	require.NoError(t, err)
	assert.False(t, w.Active)
}

func TestParseWindow_Invalid(t *testing.T) {
	f := factory.NewWindowFactory()

	cases := map[string]string{
		"missing id":            `{"day_start": 1, "day_end": 5, "time_start": "07:00:00", "time_end": "08:15:00"}`,
		"bad day range":         `{"id": "x", "day_start": 0, "day_end": 5, "time_start": "07:00:00", "time_end": "08:15:00"}`,
		"bad time":              `{"id": "x", "day_start": 1, "day_end": 5, "time_start": "25:00:00", "time_end": "08:15:00"}`,
		"credential, no token":  `{"id": "x", "day_start": 1, "day_end": 5, "time_start": "07:00:00", "time_end": "08:15:00", "requires_credential": true}`,
		"not json":              `{`,
	}
	for name, jsonStr := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ParseWindow(jsonStr)
			assert.Error(t, err)
		})
	}
}

func TestDefaultWindows(t *testing.T) {
	windows, err := factory.NewWindowFactory().ParseWindows(factory.DefaultWindowsJSON())

	require.NoError(t, err)
	require.Len(t, windows, 3)

	byID := map[schedule.WindowID]schedule.ScheduleWindow{}
	for _, w := range windows {
		byID[w.ID] = w
	}

	apel := byID["apel-pagi"]
	assert.True(t, apel.RequiresCredential)
	assert.Equal(t, "AP_APEL", apel.CredentialToken)

	ibadah := byID["ibadah-minggu"]
	assert.True(t, ibadah.RequiresAdminValidation)

	shift := byID["shift-malam"]
	assert.True(t, shift.WrapsWeek())
	assert.True(t, shift.WrapsMidnight())
	assert.False(t, shift.RequiresCredential)
}

func TestParseWindows_NamesTheBadEntry(t *testing.T) {
	_, err := factory.NewWindowFactory().ParseWindows(`[
		{"id": "ok", "day_start": 1, "day_end": 5, "time_start": "07:00:00", "time_end": "08:15:00"},
		{"id": "broken", "day_start": 9, "day_end": 5, "time_start": "07:00:00", "time_end": "08:15:00"}
	]`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
