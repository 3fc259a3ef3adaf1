/*
time.go - Time-of-day and calendar primitives

PURPOSE:
  Defines the small time vocabulary the attendance engine speaks:
  - ClockTime: a time-of-day with second precision (no date attached)
  - Date:      a calendar day key, distinct from a timestamp
  - Period:    a calendar month key

  Attendance uniqueness and ranking are scoped per Date/Period, never per
  24h rolling window, so these are real types rather than raw time.Time.

DAY NUMBERING:
  Days of week are ISO-8601: Monday=1 .. Sunday=7. Go's time.Weekday
  (Sunday=0) is converted at the boundary, never stored.

SEE ALSO:
  - window.go: Range matching over days and ClockTimes
  - clock.go:  Deriving Date/ClockTime from an instant in the local zone
*/
package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// CLOCK TIME - Time of day with second precision
// =============================================================================

// ClockTime is seconds since midnight (0..86399).
type ClockTime int

const secondsPerDay = 24 * 60 * 60

// NewClockTime builds a ClockTime from hour/minute/second.
func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime(hour*3600 + minute*60 + second)
}

// ParseClockTime parses "15:04:05" or "15:04".
func ParseClockTime(s string) (ClockTime, error) {
	var h, m, sec int
	if n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil || n < 2 {
		if _, err2 := fmt.Sscanf(s, "%d:%d", &h, &m); err2 != nil {
			return 0, fmt.Errorf("invalid clock time %q", s)
		}
		sec = 0
	}
	ct := NewClockTime(h, m, sec)
	if !ct.Valid() || h > 23 || m > 59 || sec > 59 || h < 0 || m < 0 || sec < 0 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ct, nil
}

// MustParseClockTime is ParseClockTime for known-good literals (tests, presets).
func MustParseClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// TimeOfDay extracts the ClockTime from an instant, in the instant's location.
func TimeOfDay(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute(), t.Second())
}

func (ct ClockTime) Hour() int   { return int(ct) / 3600 }
func (ct ClockTime) Minute() int { return (int(ct) % 3600) / 60 }
func (ct ClockTime) Second() int { return int(ct) % 60 }

// Valid reports whether the value is inside a single day.
func (ct ClockTime) Valid() bool { return ct >= 0 && ct < secondsPerDay }

func (ct ClockTime) Before(other ClockTime) bool { return ct < other }
func (ct ClockTime) After(other ClockTime) bool  { return ct > other }

// MinutesFrom returns the signed distance in whole minutes from start to ct.
// Sub-minute remainders truncate toward zero.
func (ct ClockTime) MinutesFrom(start ClockTime) int {
	return (int(ct) - int(start)) / 60
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", ct.Hour(), ct.Minute(), ct.Second())
}

// =============================================================================
// DATE - Calendar day key
// =============================================================================

// Date is a calendar day in the deployment's local zone.
// Two check-ins at 23:59 and 00:01 are different Dates even though they are
// two minutes apart.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf derives the calendar date of an instant as seen in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	lt := t.In(loc)
	return Date{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Period returns the month the date belongs to.
func (d Date) Period() Period { return Period{Year: d.Year, Month: d.Month} }

// AddDays returns the date n days later (negative n for earlier).
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) IsZero() bool { return d.Year == 0 }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// =============================================================================
// PERIOD - Calendar month key
// =============================================================================

// Period is a calendar month (year + month). Monthly aggregates are keyed
// by Period.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses "2006-01".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// FirstDay returns the first calendar date of the period.
func (p Period) FirstDay() Date { return Date{Year: p.Year, Month: p.Month, Day: 1} }

// LastDay returns the last calendar date of the period.
func (p Period) LastDay() Date {
	t := time.Date(p.Year, p.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Previous returns the period one month earlier.
func (p Period) Previous() Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Period{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(d Date) bool { return d.Year == p.Year && d.Month == p.Month }

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
