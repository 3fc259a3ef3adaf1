/*
Package memory provides in-memory store implementations (for testing/dev).

PURPOSE:
  Implements attendance.Store, attendance.WindowAdmin and ranking.RankStore
  with maps behind a RWMutex. The uniqueness contract is a keyed map: the
  same (employee, window, date) key can only ever hold one event, and the
  check-and-insert happens under one lock, mirroring what the SQLite
  unique index guarantees transactionally.

SEE ALSO:
  - store/sqlite: the production implementation
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
)

type eventKey struct {
	EmployeeID attendance.EmployeeID
	WindowID   schedule.WindowID
	Date       schedule.Date
}

// Store is the in-memory implementation of all persistence contracts.
type Store struct {
	mu           sync.RWMutex
	windows      map[schedule.WindowID]schedule.ScheduleWindow
	windowOrder  []schedule.WindowID
	events       map[attendance.EventID]attendance.AttendanceEvent
	eventByKey   map[eventKey]attendance.EventID
	dailyRanks   map[string][]ranking.DailyRank
	monthlyRanks map[string][]ranking.MonthlyRank
}

// New creates an empty store.
func New() *Store {
	return &Store{
		windows:      make(map[schedule.WindowID]schedule.ScheduleWindow),
		events:       make(map[attendance.EventID]attendance.AttendanceEvent),
		eventByKey:   make(map[eventKey]attendance.EventID),
		dailyRanks:   make(map[string][]ranking.DailyRank),
		monthlyRanks: make(map[string][]ranking.MonthlyRank),
	}
}

// =============================================================================
// WINDOW ADMIN
// =============================================================================

func (s *Store) SaveWindow(_ context.Context, w schedule.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.windows[w.ID]; !ok {
		s.windowOrder = append(s.windowOrder, w.ID)
	}
	s.windows[w.ID] = w
	return nil
}

func (s *Store) DeactivateWindow(_ context.Context, id schedule.WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	if !ok {
		return schedule.ErrWindowNotFound
	}
	w.Active = false
	s.windows[id] = w
	return nil
}

func (s *Store) WindowByID(_ context.Context, id schedule.WindowID) (schedule.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	if !ok {
		return schedule.ScheduleWindow{}, schedule.ErrWindowNotFound
	}
	return w, nil
}

func (s *Store) Windows(_ context.Context) ([]schedule.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]schedule.ScheduleWindow, 0, len(s.windowOrder))
	for _, id := range s.windowOrder {
		result = append(result, s.windows[id])
	}
	return result, nil
}

// =============================================================================
// ATTENDANCE EVENTS
// =============================================================================

// RecordAttempt checks and inserts under one lock: at most one event per
// (employee, window, date), the loser gets the conflict error.
func (s *Store) RecordAttempt(_ context.Context, e attendance.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := eventKey{EmployeeID: e.EmployeeID, WindowID: e.WindowID, Date: e.Date}
	if existingID, ok := s.eventByKey[k]; ok {
		return &attendance.AlreadyCheckedInError{
			EmployeeID: e.EmployeeID,
			WindowID:   e.WindowID,
			Date:       e.Date,
			ExistingID: existingID,
		}
	}
	s.events[e.ID] = e
	s.eventByKey[k] = e.ID
	return nil
}

func (s *Store) EventByKey(_ context.Context, employeeID attendance.EmployeeID, windowID schedule.WindowID, date schedule.Date) (attendance.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.eventByKey[eventKey{EmployeeID: employeeID, WindowID: windowID, Date: date}]
	if !ok {
		return attendance.AttendanceEvent{}, attendance.ErrEventNotFound
	}
	return s.events[id], nil
}

func (s *Store) EventByID(_ context.Context, id attendance.EventID) (attendance.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return attendance.AttendanceEvent{}, attendance.ErrEventNotFound
	}
	return e, nil
}

func (s *Store) EventsOnDate(_ context.Context, date schedule.Date) ([]attendance.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []attendance.AttendanceEvent
	for _, e := range s.events {
		if e.Date == date {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) SetDuration(_ context.Context, id attendance.EventID, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return attendance.ErrEventNotFound
	}
	e.DurationMinutes = &minutes
	s.events[id] = e
	return nil
}

func (s *Store) SetValidationStatus(_ context.Context, id attendance.EventID, status attendance.ValidationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return attendance.ErrEventNotFound
	}
	e.ValidationStatus = status
	s.events[id] = e
	return nil
}

// =============================================================================
// RANKS
// =============================================================================

func (s *Store) ReplaceDailyRanks(_ context.Context, date schedule.Date, ranks []ranking.DailyRank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyRanks[date.String()] = append([]ranking.DailyRank(nil), ranks...)
	return nil
}

func (s *Store) DailyRanks(_ context.Context, date schedule.Date) ([]ranking.DailyRank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ranking.DailyRank(nil), s.dailyRanks[date.String()]...), nil
}

func (s *Store) DailyRanksInPeriod(_ context.Context, period schedule.Period) ([]ranking.DailyRank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ranking.DailyRank
	for _, ranks := range s.dailyRanks {
		for _, r := range ranks {
			if period.Contains(r.Date) {
				result = append(result, r)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Rank < result[j].Rank
	})
	return result, nil
}

func (s *Store) ReplaceMonthlyRanks(_ context.Context, period schedule.Period, ranks []ranking.MonthlyRank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthlyRanks[period.String()] = append([]ranking.MonthlyRank(nil), ranks...)
	return nil
}

func (s *Store) MonthlyRanks(_ context.Context, period schedule.Period) ([]ranking.MonthlyRank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ranking.MonthlyRank(nil), s.monthlyRanks[period.String()]...), nil
}
