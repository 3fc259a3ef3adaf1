/*
resolver.go - Filtering window sets by instant or day

PURPOSE:
  Answers "which windows are open right now?" and "which windows run on
  Thursdays?" over a full set of definitions. The resolver only filters
  and orders - it never picks a single winner. Several windows can be open
  at once (morning assembly overlapping a special event); the caller
  decides which one a check-in targets, by explicit window id or by the
  presented credential.

FAILURE SEMANTICS:
  An empty or all-inactive input yields an empty result, not an error.

SEE ALSO:
  - window.go:   the per-window predicates this composes
  - credential/: resolving a window FROM a token when several are open
*/
package schedule

import (
	"sort"
	"time"
)

// OpenWindowsAt returns every active window open at the instant, in input
// order. Inactive windows never match regardless of their ranges.
func OpenWindowsAt(instant time.Time, clock Clock, windows []ScheduleWindow) []ScheduleWindow {
	var open []ScheduleWindow
	for _, w := range windows {
		if !w.Active {
			continue
		}
		if w.OpenAt(instant, clock) {
			open = append(open, w)
		}
	}
	return open
}

// WindowsForDay returns every active window whose day range covers the
// given ISO day, ignoring the time dimension, sorted by TimeStart
// ascending. Wrap-start windows sort by TimeStart as configured (22:00
// sorts after 07:00), preserving the ordering administrators see when
// they define them. Equal start times tie-break by window id.
func WindowsForDay(day int, windows []ScheduleWindow) []ScheduleWindow {
	var result []ScheduleWindow
	for _, w := range windows {
		if !w.Active {
			continue
		}
		if IsDayInRange(day, w.DayStart, w.DayEnd) {
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TimeStart != result[j].TimeStart {
			return result[i].TimeStart < result[j].TimeStart
		}
		return result[i].ID < result[j].ID
	})
	return result
}
