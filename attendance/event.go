/*
Package attendance records check-in events and scores them against windows.

PURPOSE:
  An AttendanceEvent is one check-in by one employee against one window on
  one calendar date. The package owns:
  - the event model and its lifecycle (pending/approved/rejected)
  - the duration scorer (minutes early/late relative to the window start)
  - the Store contract persistence must satisfy, centrally the
    at-most-one-event-per-employee-per-window-per-date guarantee
  - the Intake service composing resolver, validator, recorder and scorer

KEY CONCEPTS IN THIS FILE (event.go):
  - AttendanceEvent: immutable identity, mutable scoring/validation fields
  - ValidationStatus: pending -> approved|rejected by an administrator

LIFECYCLE:
  Created at check-in (only after credential acceptance when the window
  requires one). DurationMinutes is set by the scorer; ValidationStatus by
  admin review on windows that require it. Events are never mutated after
  their calendar date closes except by explicit admin override.

SEE ALSO:
  - scorer.go: duration arithmetic
  - store.go:  persistence contract
  - intake.go: the check-in pipeline
*/
package attendance

import (
	"time"

	"github.com/warp/attendance-engine/schedule"
)

// EventID identifies an attendance event.
type EventID string

// EmployeeID identifies an employee. Ordering on EmployeeID is the
// deterministic tie-break everywhere ranks are computed.
type EmployeeID string

// ValidationStatus is the admin-review state of an event.
type ValidationStatus string

const (
	StatusPending  ValidationStatus = "pending"
	StatusApproved ValidationStatus = "approved"
	StatusRejected ValidationStatus = "rejected"
)

// AttendanceEvent is one check-in. Uniqueness is per
// (EmployeeID, WindowID, Date) - the Store enforces it.
type AttendanceEvent struct {
	ID         EventID
	EmployeeID EmployeeID
	WindowID   schedule.WindowID

	// Date is the calendar day of the check-in in the deployment zone.
	// It is the uniqueness and ranking key, distinct from OccurredAt.
	Date       schedule.Date
	OccurredAt time.Time

	// PresentedCredential is the raw token as scanned, kept for audit.
	PresentedCredential string

	// DurationMinutes is nil until scored. Positive = late, negative = early.
	DurationMinutes *int

	ValidationStatus ValidationStatus

	CreatedAt time.Time
}

// Scored reports whether the event has a duration.
func (e AttendanceEvent) Scored() bool { return e.DurationMinutes != nil }

// CountsForRanking reports whether the event feeds rank aggregation:
// it must be scored and not rejected by admin review.
func (e AttendanceEvent) CountsForRanking() bool {
	return e.Scored() && e.ValidationStatus != StatusRejected
}
