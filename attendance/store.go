/*
store.go - Persistence contracts the intake and ranking layers rely on

PURPOSE:
  Defines what storage must guarantee; implementations live under store/.
  The load-bearing clause is RecordAttempt's at-most-one contract: exactly
  one event per (employee, window, date), enforced TRANSACTIONALLY by the
  implementation (unique constraint or equivalent), because concurrent
  check-ins from the same employee are normal traffic, not an edge case.

IMPLEMENTATIONS:
  - store/sqlite: production, unique index on the key
  - store/memory: tests and dev, keyed map under a mutex

SEE ALSO:
  - intake.go:       the only writer of new events
  - ranking/recompute.go: the reader of scored events
*/
package attendance

import (
	"context"

	"github.com/warp/attendance-engine/schedule"
)

// Store persists attendance events.
type Store interface {
	// RecordAttempt atomically creates the event unless one already
	// exists for (EmployeeID, WindowID, Date); then it returns an
	// *AlreadyCheckedInError wrapping ErrAlreadyCheckedIn and writes
	// nothing.
	RecordAttempt(ctx context.Context, e AttendanceEvent) error

	// EventByKey returns the event for the uniqueness key, or
	// ErrEventNotFound.
	EventByKey(ctx context.Context, employeeID EmployeeID, windowID schedule.WindowID, date schedule.Date) (AttendanceEvent, error)

	// EventByID returns the event by id, or ErrEventNotFound.
	EventByID(ctx context.Context, id EventID) (AttendanceEvent, error)

	// EventsOnDate returns all events for a calendar date.
	EventsOnDate(ctx context.Context, date schedule.Date) ([]AttendanceEvent, error)

	// SetDuration records the scored duration on an event.
	SetDuration(ctx context.Context, id EventID, minutes int) error

	// SetValidationStatus applies an admin review decision.
	SetValidationStatus(ctx context.Context, id EventID, status ValidationStatus) error
}

// WindowSource provides window definitions to the intake and ranking
// layers. Windows are read-only from this side; administrators mutate
// them out-of-band.
type WindowSource interface {
	// WindowByID returns the window, or schedule.ErrWindowNotFound.
	WindowByID(ctx context.Context, id schedule.WindowID) (schedule.ScheduleWindow, error)

	// Windows returns all window definitions, active or not.
	Windows(ctx context.Context) ([]schedule.ScheduleWindow, error)
}

// WindowAdmin is the administration side of window storage. Windows
// referenced by attendance history are deactivated, never deleted, so
// there is no Delete.
type WindowAdmin interface {
	WindowSource

	// SaveWindow creates or fully replaces a window definition.
	SaveWindow(ctx context.Context, w schedule.ScheduleWindow) error

	// DeactivateWindow soft-deletes: flips Active off, keeps the row.
	DeactivateWindow(ctx context.Context, id schedule.WindowID) error
}
