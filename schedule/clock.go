/*
clock.go - Local-zone clock source

PURPOSE:
  Every day-of-week and time-of-day decision the engine makes is evaluated
  in ONE configured local zone. A window defined as "Monday 07:00" means
  Monday 07:00 where the site operates, never UTC. The Clock owns that zone
  and is the only place instants are converted.

USAGE:
  loc, _ := time.LoadLocation("Asia/Jakarta")
  clock := schedule.NewClock(loc)
  day := clock.DayOf(clock.Now())   // ISO day, Monday=1

SEE ALSO:
  - window.go: consumes DayOf/TimeOf when deciding openness
*/
package schedule

import "time"

// Clock derives local calendar facts from instants.
// The zero Clock falls back to time.Local.
type Clock struct {
	Loc *time.Location
}

// NewClock creates a Clock pinned to loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Loc: loc}
}

// Location returns the configured zone.
func (c Clock) Location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// Now returns the current instant in the configured zone.
func (c Clock) Now() time.Time { return time.Now().In(c.Location()) }

// DayOf returns the ISO day of week (Monday=1 .. Sunday=7) of the instant.
func (c Clock) DayOf(t time.Time) int {
	return ISODay(t.In(c.Location()).Weekday())
}

// TimeOf returns the time of day of the instant in the configured zone.
func (c Clock) TimeOf(t time.Time) ClockTime {
	return TimeOfDay(t.In(c.Location()))
}

// DateOf returns the calendar date of the instant in the configured zone.
func (c Clock) DateOf(t time.Time) Date {
	return DateOf(t, c.Location())
}

// ISODay converts Go's weekday (Sunday=0) to ISO numbering (Monday=1).
func ISODay(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}
