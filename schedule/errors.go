/*
errors.go - Window configuration errors

PURPOSE:
  Errors raised when a window definition leaves its valid domain. These are
  administrative-boundary errors: the matcher itself assumes well-formed
  windows and panics if handed garbage, so these sentinels only ever
  surface from Validate() and the factory/API layers that call it.

USAGE:
  if errors.Is(err, schedule.ErrDayOutOfRange) { ... 400 Bad Request ... }
*/
package schedule

import "errors"

var (
	// ErrDayOutOfRange is returned when a day bound is outside 1..7.
	ErrDayOutOfRange = errors.New("day of week out of range (want 1..7)")

	// ErrTimeOutOfRange is returned when a time bound is outside a single day.
	ErrTimeOutOfRange = errors.New("time of day out of range")

	// ErrMissingCredentialToken is returned when a window requires a
	// credential but has no token configured to match against.
	ErrMissingCredentialToken = errors.New("credential required but no token configured")

	// ErrWindowNotFound is returned when a referenced window does not exist.
	ErrWindowNotFound = errors.New("window not found")
)
