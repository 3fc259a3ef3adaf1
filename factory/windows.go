/*
Package factory provides JSON to Go window conversion.

PURPOSE:
  Converts JSON window definitions into schedule.ScheduleWindow values.
  Administrators define attendance windows as data, not code - the same
  JSON feeds the admin API, seed data and tests.

JSON SCHEMA:
  {
    "id": "apel-pagi",
    "name": "Apel Pagi",
    "day_start": 1,
    "day_end": 5,
    "time_start": "07:00:00",
    "time_end": "08:15:00",
    "requires_credential": true,
    "requires_camera": false,
    "requires_admin_validation": false,
    "credential_token": "AP_APEL",
    "activity_type": "apel",
    "active": true
  }

  day_start/day_end are ISO days (Monday=1..Sunday=7) and may wrap
  (day_start > day_end = crosses the week boundary). time_start/time_end
  are "HH:MM[:SS]" and may wrap midnight. Every parsed window passes
  schedule.Validate before it is returned.

USAGE:
  f := factory.NewWindowFactory()
  windows, err := f.ParseWindows(factory.DefaultWindowsJSON())

SEE ALSO:
  - schedule/window.go: the target type and its validation
  - api/handlers.go:    window creation endpoint using WindowJSON
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// WindowJSON is the JSON representation of a schedule window.
type WindowJSON struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	DayStart                int    `json:"day_start"`
	DayEnd                  int    `json:"day_end"`
	TimeStart               string `json:"time_start"`
	TimeEnd                 string `json:"time_end"`
	RequiresCredential      bool   `json:"requires_credential"`
	RequiresCamera          bool   `json:"requires_camera"`
	RequiresAdminValidation bool   `json:"requires_admin_validation"`
	CredentialToken         string `json:"credential_token,omitempty"`
	ActivityType            string `json:"activity_type,omitempty"`
	Active                  *bool  `json:"active,omitempty"` // default true
}

// =============================================================================
// FACTORY
// =============================================================================

// WindowFactory converts JSON definitions into validated windows.
type WindowFactory struct{}

// NewWindowFactory creates a factory.
func NewWindowFactory() *WindowFactory { return &WindowFactory{} }

// ParseWindow parses and validates a single window definition.
func (f *WindowFactory) ParseWindow(jsonStr string) (schedule.ScheduleWindow, error) {
	var wj WindowJSON
	if err := json.Unmarshal([]byte(jsonStr), &wj); err != nil {
		return schedule.ScheduleWindow{}, fmt.Errorf("parse window JSON: %w", err)
	}
	return f.Build(wj)
}

// ParseWindows parses a JSON array of window definitions.
func (f *WindowFactory) ParseWindows(jsonStr string) ([]schedule.ScheduleWindow, error) {
	var defs []WindowJSON
	if err := json.Unmarshal([]byte(jsonStr), &defs); err != nil {
		return nil, fmt.Errorf("parse windows JSON: %w", err)
	}
	windows := make([]schedule.ScheduleWindow, 0, len(defs))
	for i, wj := range defs {
		w, err := f.Build(wj)
		if err != nil {
			return nil, fmt.Errorf("window %d (%s): %w", i, wj.ID, err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// Build converts one schema value into a validated window.
func (f *WindowFactory) Build(wj WindowJSON) (schedule.ScheduleWindow, error) {
	if wj.ID == "" {
		return schedule.ScheduleWindow{}, fmt.Errorf("window id is required")
	}
	timeStart, err := schedule.ParseClockTime(wj.TimeStart)
	if err != nil {
		return schedule.ScheduleWindow{}, err
	}
	timeEnd, err := schedule.ParseClockTime(wj.TimeEnd)
	if err != nil {
		return schedule.ScheduleWindow{}, err
	}

	active := true
	if wj.Active != nil {
		active = *wj.Active
	}

	w := schedule.ScheduleWindow{
		ID:                      schedule.WindowID(wj.ID),
		Name:                    wj.Name,
		DayStart:                wj.DayStart,
		DayEnd:                  wj.DayEnd,
		TimeStart:               timeStart,
		TimeEnd:                 timeEnd,
		RequiresCredential:      wj.RequiresCredential,
		RequiresCamera:          wj.RequiresCamera,
		RequiresAdminValidation: wj.RequiresAdminValidation,
		CredentialToken:         wj.CredentialToken,
		ActivityType:            wj.ActivityType,
		Active:                  active,
	}
	if err := w.Validate(); err != nil {
		return schedule.ScheduleWindow{}, err
	}
	return w, nil
}

// =============================================================================
// PRESETS
// =============================================================================

// DefaultWindowsJSON returns the canonical demo window set: a weekday
// morning assembly, a Sunday service and a weekend-wrapping night shift.
func DefaultWindowsJSON() string {
	return `[
  {
    "id": "apel-pagi",
    "name": "Apel Pagi",
    "day_start": 1, "day_end": 5,
    "time_start": "07:00:00", "time_end": "08:15:00",
    "requires_credential": true,
    "credential_token": "AP_APEL",
    "activity_type": "apel"
  },
  {
    "id": "ibadah-minggu",
    "name": "Ibadah Minggu",
    "day_start": 7, "day_end": 7,
    "time_start": "08:00:00", "time_end": "11:00:00",
    "requires_credential": true,
    "requires_admin_validation": true,
    "credential_token": "AP_IBADAH",
    "activity_type": "ibadah"
  },
  {
    "id": "shift-malam",
    "name": "Shift Malam",
    "day_start": 6, "day_end": 1,
    "time_start": "22:00:00", "time_end": "05:00:00",
    "requires_credential": false,
    "activity_type": "shift"
  }
]`
}
