/*
errors.go - Attendance error taxonomy

PURPOSE:
  Sentinel errors for the attendance domain plus structured wrappers that
  carry context. The important distinction:

  - ErrAlreadyCheckedIn is EXPECTED. Double submits and retried requests
    race to the same (employee, window, date) slot; the loser gets this
    error, the caller looks up the existing event and tells the user
    "you have already checked in for this window today". Never logged as
    an error.
  - ErrEventNotFound / schedule.ErrWindowNotFound are lookups that missed.

USAGE:
  if errors.Is(err, attendance.ErrAlreadyCheckedIn) { ... 409 ... }
*/
package attendance

import (
	"errors"
	"fmt"

	"github.com/warp/attendance-engine/schedule"
)

var (
	// ErrAlreadyCheckedIn is returned when an event already exists for
	// (employee, window, date). Expected under retry/double-submit.
	ErrAlreadyCheckedIn = errors.New("already checked in for this window today")

	// ErrEventNotFound is returned when a referenced event does not exist.
	ErrEventNotFound = errors.New("attendance event not found")
)

// AlreadyCheckedInError carries the colliding key and the surviving event.
type AlreadyCheckedInError struct {
	EmployeeID EmployeeID
	WindowID   schedule.WindowID
	Date       schedule.Date
	ExistingID EventID
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("already checked in: employee %s window %s on %s (event %s)",
		e.EmployeeID, e.WindowID, e.Date, e.ExistingID)
}

func (e *AlreadyCheckedInError) Unwrap() error { return ErrAlreadyCheckedIn }

// IsConflict reports whether err is the expected duplicate check-in outcome.
func IsConflict(err error) bool { return errors.Is(err, ErrAlreadyCheckedIn) }
