/*
Package schedule decides which attendance windows are open at any instant.

PURPOSE:
  A ScheduleWindow is a recurring acceptance interval: a day-of-week range
  crossed with a time-of-day range. Both ranges may independently wrap their
  natural boundary - a day range of Sat..Mon crosses the week rollover, a
  time range of 22:00..05:00 crosses midnight. Wrapping is configuration,
  not an error.

KEY CONCEPTS IN THIS FILE (window.go):
  - ScheduleWindow: the window definition (ranges + credential flags)
  - IsDayInRange / IsTimeInRange: wraparound-aware membership predicates
  - OpenAt: composition of both checks against an instant's local day/time

MATCHING RULES:
  Day range, dayStart <= dayEnd:   open iff dayStart <= day <= dayEnd
  Day range, dayStart >  dayEnd:   open iff day >= dayStart OR day <= dayEnd
  Time range: same shape over ClockTime, bounds inclusive.

DESIGN PRINCIPLES:
  1. Purity: matching is a function of inputs, no side effects
  2. Loud failure: out-of-domain configuration panics - a malformed window
     reaching the matcher is an upstream bug, not a runtime condition
  3. Soft delete: windows referenced by history are deactivated, never removed

SEE ALSO:
  - resolver.go: filtering window sets by instant/day
  - errors.go:   validation errors for the admin boundary
  - credential/: deciding whether a presented token belongs to a window
*/
package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// SCHEDULE WINDOW - A named attendance acceptance interval
// =============================================================================

// WindowID identifies a window.
type WindowID string

// ScheduleWindow is one configured attendance window.
//
// DayStart/DayEnd are ISO days (Monday=1 .. Sunday=7). DayStart > DayEnd
// means the range wraps past the end of the week. TimeStart > TimeEnd means
// the range wraps past midnight. Both wraps are legal and independent.
type ScheduleWindow struct {
	ID   WindowID
	Name string

	DayStart int
	DayEnd   int

	TimeStart ClockTime
	TimeEnd   ClockTime

	RequiresCredential      bool
	RequiresCamera          bool
	RequiresAdminValidation bool

	// CredentialToken is the expected QR payload when RequiresCredential
	// is set, e.g. "AP_APEL_20250101".
	CredentialToken string

	// ActivityType keys the XP lookup for events recorded against this
	// window ("apel", "ibadah", ...). Empty means no XP.
	ActivityType string

	// Active windows accept check-ins. Deactivation is the only removal:
	// windows referenced by attendance history are never deleted.
	Active bool
}

// =============================================================================
// RANGE MATCHING
// =============================================================================

// IsDayInRange reports whether day falls inside [dayStart, dayEnd], where a
// start greater than the end wraps past the end of the week.
//
//	IsDayInRange(7, 6, 1) == true   // Sat..Mon contains Sunday
//	IsDayInRange(3, 6, 1) == false  // Sat..Mon excludes Wednesday
//
// Panics if any argument is outside 1..7: windows are validated at the
// administrative boundary, so a bad value here is a bug upstream.
func IsDayInRange(day, dayStart, dayEnd int) bool {
	if day < 1 || day > 7 || dayStart < 1 || dayStart > 7 || dayEnd < 1 || dayEnd > 7 {
		panic(fmt.Sprintf("schedule: day out of domain: day=%d range=%d..%d", day, dayStart, dayEnd))
	}
	if dayStart <= dayEnd {
		return day >= dayStart && day <= dayEnd
	}
	return day >= dayStart || day <= dayEnd
}

// IsTimeInRange reports whether t falls inside [timeStart, timeEnd], bounds
// inclusive, where a start greater than the end wraps past midnight.
//
//	IsTimeInRange(23:30, 22:00, 05:00) == true
//	IsTimeInRange(06:00, 22:00, 05:00) == false
//
// Panics on out-of-domain values, same contract as IsDayInRange.
func IsTimeInRange(t, timeStart, timeEnd ClockTime) bool {
	if !t.Valid() || !timeStart.Valid() || !timeEnd.Valid() {
		panic(fmt.Sprintf("schedule: time out of domain: t=%d range=%d..%d", t, timeStart, timeEnd))
	}
	if timeStart <= timeEnd {
		return t >= timeStart && t <= timeEnd
	}
	return t >= timeStart || t <= timeEnd
}

// OpenAt reports whether the window is open at the instant, using the
// instant's day of week and time of day in the clock's configured zone.
// Activity status is NOT consulted here; see resolver.go for that filter.
func (w ScheduleWindow) OpenAt(instant time.Time, clock Clock) bool {
	return IsDayInRange(clock.DayOf(instant), w.DayStart, w.DayEnd) &&
		IsTimeInRange(clock.TimeOf(instant), w.TimeStart, w.TimeEnd)
}

// WrapsWeek reports whether the day range crosses the week rollover.
func (w ScheduleWindow) WrapsWeek() bool { return w.DayStart > w.DayEnd }

// WrapsMidnight reports whether the time range crosses midnight.
func (w ScheduleWindow) WrapsMidnight() bool { return w.TimeStart > w.TimeEnd }

// Validate checks the window's configuration domain. Wrapped ranges are
// valid; out-of-domain days/times and a missing token on a credential
// window are not. This is the check the admin boundary runs before a
// window can ever reach the matcher.
func (w ScheduleWindow) Validate() error {
	if w.DayStart < 1 || w.DayStart > 7 || w.DayEnd < 1 || w.DayEnd > 7 {
		return fmt.Errorf("%w: days %d..%d", ErrDayOutOfRange, w.DayStart, w.DayEnd)
	}
	if !w.TimeStart.Valid() || !w.TimeEnd.Valid() {
		return fmt.Errorf("%w: times %s..%s", ErrTimeOutOfRange, w.TimeStart, w.TimeEnd)
	}
	if w.RequiresCredential && w.CredentialToken == "" {
		return fmt.Errorf("%w: window %q", ErrMissingCredentialToken, w.Name)
	}
	return nil
}

// Interval renders the configured open interval for user-facing messages,
// e.g. "Monday-Friday 07:00:00-08:15:00".
func (w ScheduleWindow) Interval() string {
	days := dayName(w.DayStart)
	if w.DayStart != w.DayEnd {
		days += "-" + dayName(w.DayEnd)
	}
	return fmt.Sprintf("%s %s-%s", days, w.TimeStart, w.TimeEnd)
}

func dayName(day int) string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if day < 1 || day > 7 {
		return fmt.Sprintf("day(%d)", day)
	}
	return names[day-1]
}
