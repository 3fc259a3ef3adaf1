/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements attendance.Store, attendance.WindowAdmin and ranking.RankStore
  over database/sql. The same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

KEY TABLES:
  schedule_windows:   Window definitions (soft-deleted via active flag)
  attendance_events:  One row per check-in
  daily_ranks:        Derived daily projection, replaced whole per date
  monthly_ranks:      Derived monthly projection, replaced whole per period

UNIQUENESS ENFORCEMENT:
  The at-most-one-check-in contract is a UNIQUE index on
  (employee_id, window_id, date). RecordAttempt runs check-then-insert
  inside one transaction, and the index catches whatever races past the
  check, so concurrent double-submits always resolve to exactly one row.

RANK REPLACEMENT:
  ReplaceDailyRanks/ReplaceMonthlyRanks are DELETE + INSERT inside one
  transaction. A reader never sees a partial rank set.

WAL MODE:
  The database opens with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/attendance.db")  // or ":memory:"
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - attendance/store.go: the contracts implemented here
  - ranking/store.go:    rank persistence contract
  - store/memory:        in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (and migrates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// migrate creates the database schema.
func (s *Store) migrate() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS schedule_windows (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		day_start INTEGER NOT NULL,
		day_end INTEGER NOT NULL,
		time_start TEXT NOT NULL,
		time_end TEXT NOT NULL,
		requires_credential INTEGER NOT NULL DEFAULT 0,
		requires_camera INTEGER NOT NULL DEFAULT 0,
		requires_admin_validation INTEGER NOT NULL DEFAULT 0,
		credential_token TEXT,
		activity_type TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance_events (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		window_id TEXT NOT NULL,
		date TEXT NOT NULL,
		occurred_at TEXT NOT NULL,
		presented_credential TEXT,
		duration_minutes INTEGER,
		validation_status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- CRITICAL: the at-most-one-check-in contract. An employee gets one
	-- event per window per calendar date; the loser of a double-submit
	-- race hits this index.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_event_key
		ON attendance_events(employee_id, window_id, date);

	CREATE INDEX IF NOT EXISTS idx_events_date
		ON attendance_events(date);
	CREATE INDEX IF NOT EXISTS idx_events_employee_date
		ON attendance_events(employee_id, date);

	CREATE TABLE IF NOT EXISTS daily_ranks (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		total_duration_minutes INTEGER NOT NULL,
		daily_score TEXT NOT NULL,
		rank INTEGER NOT NULL,
		UNIQUE(employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_daily_ranks_date
		ON daily_ranks(date);

	CREATE TABLE IF NOT EXISTS monthly_ranks (
		employee_id TEXT NOT NULL,
		period TEXT NOT NULL,
		total_duration_minutes INTEGER NOT NULL,
		average_duration_minutes TEXT NOT NULL,
		rank INTEGER NOT NULL,
		UNIQUE(employee_id, period)
	);

	CREATE INDEX IF NOT EXISTS idx_monthly_ranks_period
		ON monthly_ranks(period);
	`
	_, err := s.db.Exec(schemaSQL)
	return err
}

// =============================================================================
// WINDOW ADMIN
// =============================================================================

func (s *Store) SaveWindow(ctx context.Context, w schedule.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedule_windows
			(id, name, day_start, day_end, time_start, time_end,
			 requires_credential, requires_camera, requires_admin_validation,
			 credential_token, activity_type, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			day_start = excluded.day_start,
			day_end = excluded.day_end,
			time_start = excluded.time_start,
			time_end = excluded.time_end,
			requires_credential = excluded.requires_credential,
			requires_camera = excluded.requires_camera,
			requires_admin_validation = excluded.requires_admin_validation,
			credential_token = excluded.credential_token,
			activity_type = excluded.activity_type,
			active = excluded.active,
			updated_at = excluded.updated_at`,
		string(w.ID), w.Name, w.DayStart, w.DayEnd,
		w.TimeStart.String(), w.TimeEnd.String(),
		boolToInt(w.RequiresCredential), boolToInt(w.RequiresCamera), boolToInt(w.RequiresAdminValidation),
		w.CredentialToken, w.ActivityType, boolToInt(w.Active), now, now)
	return err
}

func (s *Store) DeactivateWindow(ctx context.Context, id schedule.WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE schedule_windows SET active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return schedule.ErrWindowNotFound
	}
	return nil
}

func (s *Store) WindowByID(ctx context.Context, id schedule.WindowID) (schedule.ScheduleWindow, error) {
	row := s.db.QueryRowContext(ctx, windowSelect+` WHERE id = ?`, string(id))
	w, err := scanWindow(row)
	if err == sql.ErrNoRows {
		return schedule.ScheduleWindow{}, schedule.ErrWindowNotFound
	}
	return w, err
}

func (s *Store) Windows(ctx context.Context) ([]schedule.ScheduleWindow, error) {
	rows, err := s.db.QueryContext(ctx, windowSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []schedule.ScheduleWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

const windowSelect = `
	SELECT id, name, day_start, day_end, time_start, time_end,
	       requires_credential, requires_camera, requires_admin_validation,
	       COALESCE(credential_token, ''), COALESCE(activity_type, ''), active
	FROM schedule_windows`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWindow(r rowScanner) (schedule.ScheduleWindow, error) {
	var (
		w                      schedule.ScheduleWindow
		id, timeStart, timeEnd string
		reqCred, reqCam        int
		reqAdmin, active       int
	)
	err := r.Scan(&id, &w.Name, &w.DayStart, &w.DayEnd, &timeStart, &timeEnd,
		&reqCred, &reqCam, &reqAdmin, &w.CredentialToken, &w.ActivityType, &active)
	if err != nil {
		return schedule.ScheduleWindow{}, err
	}
	w.ID = schedule.WindowID(id)
	if w.TimeStart, err = schedule.ParseClockTime(timeStart); err != nil {
		return schedule.ScheduleWindow{}, err
	}
	if w.TimeEnd, err = schedule.ParseClockTime(timeEnd); err != nil {
		return schedule.ScheduleWindow{}, err
	}
	w.RequiresCredential = reqCred != 0
	w.RequiresCamera = reqCam != 0
	w.RequiresAdminValidation = reqAdmin != 0
	w.Active = active != 0
	return w, nil
}

// =============================================================================
// ATTENDANCE EVENTS
// =============================================================================

// RecordAttempt inserts the event inside one transaction: an existing row
// for the key returns the conflict error, and the unique index backstops
// any race past the check.
func (s *Store) RecordAttempt(ctx context.Context, e attendance.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM attendance_events WHERE employee_id = ? AND window_id = ? AND date = ?`,
		string(e.EmployeeID), string(e.WindowID), e.Date.String()).Scan(&existingID)
	if err == nil {
		return &attendance.AlreadyCheckedInError{
			EmployeeID: e.EmployeeID,
			WindowID:   e.WindowID,
			Date:       e.Date,
			ExistingID: attendance.EventID(existingID),
		}
	}
	if err != sql.ErrNoRows {
		return err
	}

	var duration sql.NullInt64
	if e.DurationMinutes != nil {
		duration = sql.NullInt64{Int64: int64(*e.DurationMinutes), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO attendance_events
			(id, employee_id, window_id, date, occurred_at,
			 presented_credential, duration_minutes, validation_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(e.ID), string(e.EmployeeID), string(e.WindowID), e.Date.String(),
		e.OccurredAt.UTC().Format(time.RFC3339),
		e.PresentedCredential, duration, string(e.ValidationStatus),
		e.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) EventByKey(ctx context.Context, employeeID attendance.EmployeeID, windowID schedule.WindowID, date schedule.Date) (attendance.AttendanceEvent, error) {
	row := s.db.QueryRowContext(ctx, eventSelect+` WHERE employee_id = ? AND window_id = ? AND date = ?`,
		string(employeeID), string(windowID), date.String())
	return scanEvent(row)
}

func (s *Store) EventByID(ctx context.Context, id attendance.EventID) (attendance.AttendanceEvent, error) {
	row := s.db.QueryRowContext(ctx, eventSelect+` WHERE id = ?`, string(id))
	return scanEvent(row)
}

func (s *Store) EventsOnDate(ctx context.Context, date schedule.Date) ([]attendance.AttendanceEvent, error) {
	rows, err := s.db.QueryContext(ctx, eventSelect+` WHERE date = ? ORDER BY id`, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []attendance.AttendanceEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) SetDuration(ctx context.Context, id attendance.EventID, minutes int) error {
	return s.updateEvent(ctx, `UPDATE attendance_events SET duration_minutes = ? WHERE id = ?`, minutes, string(id))
}

func (s *Store) SetValidationStatus(ctx context.Context, id attendance.EventID, status attendance.ValidationStatus) error {
	return s.updateEvent(ctx, `UPDATE attendance_events SET validation_status = ? WHERE id = ?`, string(status), string(id))
}

func (s *Store) updateEvent(ctx context.Context, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return attendance.ErrEventNotFound
	}
	return nil
}

const eventSelect = `
	SELECT id, employee_id, window_id, date, occurred_at,
	       COALESCE(presented_credential, ''), duration_minutes, validation_status, created_at
	FROM attendance_events`

func scanEvent(r rowScanner) (attendance.AttendanceEvent, error) {
	var (
		e                              attendance.AttendanceEvent
		id, employeeID, windowID       string
		dateStr, occurredAt, createdAt string
		status                         string
		duration                       sql.NullInt64
	)
	err := r.Scan(&id, &employeeID, &windowID, &dateStr, &occurredAt,
		&e.PresentedCredential, &duration, &status, &createdAt)
	if err == sql.ErrNoRows {
		return attendance.AttendanceEvent{}, attendance.ErrEventNotFound
	}
	if err != nil {
		return attendance.AttendanceEvent{}, err
	}

	e.ID = attendance.EventID(id)
	e.EmployeeID = attendance.EmployeeID(employeeID)
	e.WindowID = schedule.WindowID(windowID)
	if e.Date, err = schedule.ParseDate(dateStr); err != nil {
		return attendance.AttendanceEvent{}, err
	}
	if e.OccurredAt, err = time.Parse(time.RFC3339, occurredAt); err != nil {
		return attendance.AttendanceEvent{}, err
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return attendance.AttendanceEvent{}, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		e.DurationMinutes = &d
	}
	e.ValidationStatus = attendance.ValidationStatus(status)
	return e, nil
}

// =============================================================================
// RANKS
// =============================================================================

func (s *Store) ReplaceDailyRanks(ctx context.Context, date schedule.Date, ranks []ranking.DailyRank) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_ranks WHERE date = ?`, date.String()); err != nil {
		return err
	}
	for _, r := range ranks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_ranks (employee_id, date, total_duration_minutes, daily_score, rank)
			VALUES (?, ?, ?, ?, ?)`,
			string(r.EmployeeID), r.Date.String(), r.TotalDurationMinutes,
			r.DailyScore.String(), r.Rank)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) DailyRanks(ctx context.Context, date schedule.Date) ([]ranking.DailyRank, error) {
	return s.queryDailyRanks(ctx,
		`SELECT employee_id, date, total_duration_minutes, daily_score, rank
		 FROM daily_ranks WHERE date = ? ORDER BY rank`, date.String())
}

func (s *Store) DailyRanksInPeriod(ctx context.Context, period schedule.Period) ([]ranking.DailyRank, error) {
	return s.queryDailyRanks(ctx,
		`SELECT employee_id, date, total_duration_minutes, daily_score, rank
		 FROM daily_ranks WHERE date BETWEEN ? AND ? ORDER BY date, rank`,
		period.FirstDay().String(), period.LastDay().String())
}

func (s *Store) queryDailyRanks(ctx context.Context, query string, args ...any) ([]ranking.DailyRank, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []ranking.DailyRank
	for rows.Next() {
		var (
			r           ranking.DailyRank
			id, dateStr string
			score       string
		)
		if err := rows.Scan(&id, &dateStr, &r.TotalDurationMinutes, &score, &r.Rank); err != nil {
			return nil, err
		}
		r.EmployeeID = attendance.EmployeeID(id)
		if r.Date, err = schedule.ParseDate(dateStr); err != nil {
			return nil, err
		}
		if r.DailyScore, err = decimal.NewFromString(score); err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, rows.Err()
}

func (s *Store) ReplaceMonthlyRanks(ctx context.Context, period schedule.Period, ranks []ranking.MonthlyRank) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM monthly_ranks WHERE period = ?`, period.String()); err != nil {
		return err
	}
	for _, r := range ranks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO monthly_ranks (employee_id, period, total_duration_minutes, average_duration_minutes, rank)
			VALUES (?, ?, ?, ?, ?)`,
			string(r.EmployeeID), r.Period.String(), r.TotalDurationMinutes,
			r.AverageDurationMinutes.String(), r.Rank)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) MonthlyRanks(ctx context.Context, period schedule.Period) ([]ranking.MonthlyRank, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, period, total_duration_minutes, average_duration_minutes, rank
		 FROM monthly_ranks WHERE period = ? ORDER BY rank`, period.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []ranking.MonthlyRank
	for rows.Next() {
		var (
			r             ranking.MonthlyRank
			id, periodStr string
			avg           string
		)
		if err := rows.Scan(&id, &periodStr, &r.TotalDurationMinutes, &avg, &r.Rank); err != nil {
			return nil, err
		}
		r.EmployeeID = attendance.EmployeeID(id)
		if r.Period, err = schedule.ParsePeriod(periodStr); err != nil {
			return nil, err
		}
		if r.AverageDurationMinutes, err = decimal.NewFromString(avg); err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
