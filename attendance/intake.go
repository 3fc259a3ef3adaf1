/*
intake.go - The check-in pipeline

PURPOSE:
  One entry point the HTTP layer calls per check-in attempt. The pipeline:

    resolve window -> validate credential -> record event -> score

  Outcomes are values, not errors:
  - Rejected:  the credential/openness check said no; Reason is shown to
    the employee verbatim.
  - Duplicate: the (employee, window, date) slot was already taken; the
    existing event is returned so the UI can say "already checked in".
  - Recorded:  a new event was created and scored.

  Only infrastructure failures (storage down, unknown window id) travel
  as Go errors.

TARGETING:
  A check-in names its window explicitly by id, or - when only a QR
  payload was scanned - the token resolves the window among those
  currently open (credential.ResolveWindow). Resolution failure is a
  rejection, not an error: a forged or stale code is normal traffic.

SEE ALSO:
  - credential/validator.go: the acceptance decision
  - store.go:                the at-most-one recording contract
*/
package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/warp/attendance-engine/credential"
	"github.com/warp/attendance-engine/schedule"
)

// CheckInOutcome is the result of one check-in attempt.
type CheckInOutcome struct {
	// Event is the recorded event, or on Duplicate the pre-existing one.
	Event AttendanceEvent

	// Window is the window the attempt targeted.
	Window schedule.ScheduleWindow

	// Duplicate is set when the slot was already taken.
	Duplicate bool

	// Rejected is set when validation refused the attempt; Reason says why.
	Rejected bool
	Reason   string
}

// Intake composes the check-in pipeline.
type Intake struct {
	Windows   WindowSource
	Events    Store
	Validator *credential.Validator
	Clock     schedule.Clock
}

// NewIntake wires an intake service.
func NewIntake(windows WindowSource, events Store, clock schedule.Clock) *Intake {
	return &Intake{
		Windows:   windows,
		Events:    events,
		Validator: credential.NewValidator(clock),
		Clock:     clock,
	}
}

// CheckIn processes one attempt. windowID may be empty when token is not;
// the token then selects the window among those currently open.
func (in *Intake) CheckIn(ctx context.Context, employeeID EmployeeID, windowID schedule.WindowID, token string, now time.Time) (CheckInOutcome, error) {
	w, outcome, err := in.targetWindow(ctx, windowID, token, now)
	if err != nil || outcome != nil {
		if outcome != nil {
			return *outcome, nil
		}
		return CheckInOutcome{}, err
	}

	if w.RequiresCredential {
		res := in.Validator.Validate(token, w, now)
		if !res.Accepted {
			return CheckInOutcome{Window: w, Rejected: true, Reason: res.Reason}, nil
		}
	} else if !w.Active {
		return CheckInOutcome{Window: w, Rejected: true, Reason: "window inactive"}, nil
	} else if !w.OpenAt(now, in.Clock) {
		return CheckInOutcome{Window: w, Rejected: true, Reason: "window not open now (open " + w.Interval() + ")"}, nil
	}

	status := StatusApproved
	if w.RequiresAdminValidation {
		status = StatusPending
	}

	duration := ScoreTime(in.Clock.TimeOf(now), w)
	event := AttendanceEvent{
		ID:                  EventID(uuid.NewString()),
		EmployeeID:          employeeID,
		WindowID:            w.ID,
		Date:                in.Clock.DateOf(now),
		OccurredAt:          now,
		PresentedCredential: token,
		DurationMinutes:     &duration,
		ValidationStatus:    status,
		CreatedAt:           in.Clock.Now(),
	}

	if err := in.Events.RecordAttempt(ctx, event); err != nil {
		if IsConflict(err) {
			existing, lookupErr := in.Events.EventByKey(ctx, employeeID, w.ID, event.Date)
			if lookupErr != nil {
				return CheckInOutcome{}, lookupErr
			}
			return CheckInOutcome{Event: existing, Window: w, Duplicate: true}, nil
		}
		return CheckInOutcome{}, err
	}

	return CheckInOutcome{Event: event, Window: w}, nil
}

// targetWindow resolves the window an attempt addresses. Returns a
// rejection outcome when a token-only attempt matches nothing or is
// ambiguous.
func (in *Intake) targetWindow(ctx context.Context, windowID schedule.WindowID, token string, now time.Time) (schedule.ScheduleWindow, *CheckInOutcome, error) {
	if windowID != "" {
		w, err := in.Windows.WindowByID(ctx, windowID)
		if err != nil {
			return schedule.ScheduleWindow{}, nil, err
		}
		return w, nil, nil
	}

	all, err := in.Windows.Windows(ctx)
	if err != nil {
		return schedule.ScheduleWindow{}, nil, err
	}
	open := schedule.OpenWindowsAt(now, in.Clock, all)
	w, err := credential.ResolveWindow(token, open)
	if err != nil {
		if errors.Is(err, credential.ErrNoMatchingWindow) || errors.Is(err, credential.ErrAmbiguousToken) {
			return schedule.ScheduleWindow{}, &CheckInOutcome{Rejected: true, Reason: err.Error()}, nil
		}
		return schedule.ScheduleWindow{}, nil, err
	}
	return w, nil, nil
}
