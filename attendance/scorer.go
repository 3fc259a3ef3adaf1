/*
scorer.go - Check-in duration relative to the window start

PURPOSE:
  Converts a check-in time into signed minutes against the window's start:
  +10 means ten minutes late, -10 ten minutes early. Pure arithmetic; the
  caller persists the result on the event and feeds it to ranking.

MIDNIGHT WRAP:
  For a window whose time range wraps midnight (22:00..05:00), the scoring
  day runs from TimeStart to TimeStart+24h. A 04:00 check-in against a
  22:00 start is +360 (six hours into the shift), not -1080. A 21:50
  check-in stays -10: times at or before the window's end-of-wrap belong
  to the shift that started yesterday evening, times after it are measured
  directly against tonight's start.
*/
package attendance

import "github.com/warp/attendance-engine/schedule"

const minutesPerDay = 24 * 60

// ScoreEvent returns the event's signed duration in minutes relative to
// the window's TimeStart. Positive = late, negative = early.
func ScoreEvent(e AttendanceEvent, w schedule.ScheduleWindow, clock schedule.Clock) int {
	return ScoreTime(clock.TimeOf(e.OccurredAt), w)
}

// ScoreTime is the arithmetic core of ScoreEvent, exposed for direct use
// with an already-extracted time of day.
func ScoreTime(t schedule.ClockTime, w schedule.ScheduleWindow) int {
	minutes := t.MinutesFrom(w.TimeStart)
	if w.WrapsMidnight() && t <= w.TimeEnd {
		// Past midnight inside the wrapped range: the shift started the
		// previous evening, so measure from that start.
		minutes += minutesPerDay
	}
	return minutes
}
