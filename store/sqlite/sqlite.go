/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements roster.ScheduleStore, roster.EmployeeDirectory and
  calendar.Store on a single SQLite database.

KEY TABLES:
  employees:  profile + rotation rules (rules the roster core evaluates)
  calendars:  one row per (year, month); partitions and holidays as JSON
  schedules:  one row per (employee_id, year, month)

UNIQUENESS:
  schedules carries UNIQUE(employee_id, year, month). Upsert uses
  INSERT ... ON CONFLICT DO UPDATE, so the constraint can never surface
  as a raw violation under concurrent regeneration - the later write
  wins and created_at survives the replace. A raw violation reaching the
  caller is mapped to roster.ErrStoreConflict.

WAL MODE:
  The database is opened with WAL so readers don't block during a batch
  generation's burst of upserts.

SEE ALSO:
  - roster/store.go: interface contracts
  - store/memory: in-memory mirror used by engine/api tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/farepass/roster-engine/calendar"
	"github.com/farepass/roster-engine/roster"

	"github.com/shopspring/decimal"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employee profiles (rules consumed by roster generation)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		org_unit TEXT NOT NULL DEFAULT '',
		daily_fare TEXT NOT NULL,
		fixed_days_off TEXT NOT NULL DEFAULT '[]',
		rotation_type TEXT NOT NULL DEFAULT 'none',
		rotation_group INTEGER NOT NULL DEFAULT 0,
		works_weekends BOOLEAN NOT NULL DEFAULT FALSE,
		saturday_pattern TEXT NOT NULL DEFAULT 'none',
		sunday_pattern TEXT NOT NULL DEFAULT 'none',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_org_unit
		ON employees(org_unit);
	CREATE INDEX IF NOT EXISTS idx_employees_active
		ON employees(active);

	-- Calendar months (day-type partition + holiday tags)
	CREATE TABLE IF NOT EXISTS calendars (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		weekdays TEXT NOT NULL,
		saturdays TEXT NOT NULL,
		sundays TEXT NOT NULL,
		holidays TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (year, month)
	);

	-- Generated schedules
	-- CRITICAL: exactly one row per (employee_id, year, month).
	-- Regeneration replaces the row via upsert; it never duplicates.
	CREATE TABLE IF NOT EXISTS schedules (
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL DEFAULT '',
		org_unit TEXT NOT NULL DEFAULT '',
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		worked_dates TEXT NOT NULL,
		off_dates TEXT NOT NULL,
		holiday_dates TEXT NOT NULL,
		weekdays_worked INTEGER NOT NULL,
		saturdays_worked INTEGER NOT NULL,
		sundays_holidays_worked INTEGER NOT NULL,
		total_days_worked INTEGER NOT NULL,
		daily_fare TEXT NOT NULL,
		total_subsidy TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(employee_id, year, month)
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_month
		ON schedules(year, month);
	CREATE INDEX IF NOT EXISTS idx_schedules_org_unit
		ON schedules(year, month, org_unit);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEDULES - roster.ScheduleStore
// =============================================================================

// Upsert inserts or replaces the row keyed (employee_id, year, month).
// The conflict clause makes the write atomic with respect to the key:
// two concurrent regenerations leave exactly one row, later write wins.
func (s *Store) Upsert(ctx context.Context, sched roster.Schedule) (roster.Schedule, error) {
	worked, err := marshalDates(sched.WorkedDates)
	if err != nil {
		return roster.Schedule{}, err
	}
	off, err := marshalDates(sched.OffDates)
	if err != nil {
		return roster.Schedule{}, err
	}
	holidays, err := marshalDates(sched.HolidayDates)
	if err != nil {
		return roster.Schedule{}, err
	}

	now := s.now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (
			employee_id, employee_name, org_unit, year, month,
			worked_dates, off_dates, holiday_dates,
			weekdays_worked, saturdays_worked, sundays_holidays_worked,
			total_days_worked, daily_fare, total_subsidy,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year, month) DO UPDATE SET
			employee_name = excluded.employee_name,
			org_unit = excluded.org_unit,
			worked_dates = excluded.worked_dates,
			off_dates = excluded.off_dates,
			holiday_dates = excluded.holiday_dates,
			weekdays_worked = excluded.weekdays_worked,
			saturdays_worked = excluded.saturdays_worked,
			sundays_holidays_worked = excluded.sundays_holidays_worked,
			total_days_worked = excluded.total_days_worked,
			daily_fare = excluded.daily_fare,
			total_subsidy = excluded.total_subsidy,
			updated_at = excluded.updated_at`,
		sched.EmployeeID, sched.EmployeeName, sched.OrgUnit, sched.Year, int(sched.Month),
		worked, off, holidays,
		sched.WeekdaysWorked, sched.SaturdaysWorked, sched.SundaysHolidaysWorked,
		sched.TotalDaysWorked, sched.DailyFare.String(), sched.TotalSubsidy.String(),
		now, now,
	)
	if err != nil {
		return roster.Schedule{}, mapConflict(err)
	}

	return s.GetByEmployeeMonth(ctx, sched.EmployeeID, sched.Year, sched.Month)
}

func (s *Store) GetByMonth(ctx context.Context, year int, month time.Month) ([]roster.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE year = ? AND month = ?
		ORDER BY employee_id`,
		year, int(month),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []roster.Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sched)
	}
	return result, rows.Err()
}

func (s *Store) GetByEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) (roster.Schedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE employee_id = ? AND year = ? AND month = ?`,
		employeeID, year, int(month),
	)
	sched, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Schedule{}, roster.ErrNotFound
	}
	return sched, err
}

const scheduleColumns = `
	employee_id, employee_name, org_unit, year, month,
	worked_dates, off_dates, holiday_dates,
	weekdays_worked, saturdays_worked, sundays_holidays_worked,
	total_days_worked, daily_fare, total_subsidy,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(r rowScanner) (roster.Schedule, error) {
	var (
		sched                roster.Schedule
		month                int
		worked, off, holiday string
		fare, total          string
		createdAt, updatedAt string
	)
	err := r.Scan(
		&sched.EmployeeID, &sched.EmployeeName, &sched.OrgUnit, &sched.Year, &month,
		&worked, &off, &holiday,
		&sched.WeekdaysWorked, &sched.SaturdaysWorked, &sched.SundaysHolidaysWorked,
		&sched.TotalDaysWorked, &fare, &total,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return roster.Schedule{}, err
	}

	sched.Month = time.Month(month)
	if sched.WorkedDates, err = unmarshalDates(worked); err != nil {
		return roster.Schedule{}, err
	}
	if sched.OffDates, err = unmarshalDates(off); err != nil {
		return roster.Schedule{}, err
	}
	if sched.HolidayDates, err = unmarshalDates(holiday); err != nil {
		return roster.Schedule{}, err
	}
	if sched.DailyFare, err = decimal.NewFromString(fare); err != nil {
		return roster.Schedule{}, err
	}
	if sched.TotalSubsidy, err = decimal.NewFromString(total); err != nil {
		return roster.Schedule{}, err
	}
	if sched.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return roster.Schedule{}, err
	}
	if sched.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return roster.Schedule{}, err
	}
	return sched, nil
}

// =============================================================================
// EMPLOYEES - roster.EmployeeDirectory
// =============================================================================

// SaveEmployee inserts or replaces a profile.
func (s *Store) SaveEmployee(ctx context.Context, e roster.EmployeeProfile) error {
	daysOff, err := json.Marshal(weekdayNames(e.FixedDaysOff))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees (
			id, name, role, org_unit, daily_fare, fixed_days_off,
			rotation_type, rotation_group, works_weekends,
			saturday_pattern, sunday_pattern, active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			org_unit = excluded.org_unit,
			daily_fare = excluded.daily_fare,
			fixed_days_off = excluded.fixed_days_off,
			rotation_type = excluded.rotation_type,
			rotation_group = excluded.rotation_group,
			works_weekends = excluded.works_weekends,
			saturday_pattern = excluded.saturday_pattern,
			sunday_pattern = excluded.sunday_pattern,
			active = excluded.active`,
		e.ID, e.Name, e.Role, e.OrgUnit, e.DailyFare.String(), string(daysOff),
		string(e.Rotation.Type), e.Rotation.Group, e.Rotation.WorksWeekends,
		string(e.Rotation.Saturdays), string(e.Rotation.Sundays), e.Active,
		s.now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (roster.EmployeeProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+`
		FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.EmployeeProfile{}, roster.ErrNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]roster.EmployeeProfile, error) {
	return s.queryEmployees(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name`)
}

func (s *Store) ListActive(ctx context.Context) ([]roster.EmployeeProfile, error) {
	return s.queryEmployees(ctx, `SELECT `+employeeColumns+` FROM employees WHERE active ORDER BY name`)
}

func (s *Store) queryEmployees(ctx context.Context, query string) ([]roster.EmployeeProfile, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []roster.EmployeeProfile
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

const employeeColumns = `
	id, name, role, org_unit, daily_fare, fixed_days_off,
	rotation_type, rotation_group, works_weekends,
	saturday_pattern, sunday_pattern, active`

func scanEmployee(r rowScanner) (roster.EmployeeProfile, error) {
	var (
		e               roster.EmployeeProfile
		fare, daysOff   string
		rotType, satPat string
		sunPat          string
	)
	err := r.Scan(
		&e.ID, &e.Name, &e.Role, &e.OrgUnit, &fare, &daysOff,
		&rotType, &e.Rotation.Group, &e.Rotation.WorksWeekends,
		&satPat, &sunPat, &e.Active,
	)
	if err != nil {
		return roster.EmployeeProfile{}, err
	}

	if e.DailyFare, err = decimal.NewFromString(fare); err != nil {
		return roster.EmployeeProfile{}, err
	}
	var names []string
	if err := json.Unmarshal([]byte(daysOff), &names); err != nil {
		return roster.EmployeeProfile{}, err
	}
	if e.FixedDaysOff, err = parseWeekdays(names); err != nil {
		return roster.EmployeeProfile{}, err
	}
	e.Rotation.Type = roster.RotationType(rotType)
	e.Rotation.Saturdays = roster.DayPattern(satPat)
	e.Rotation.Sundays = roster.DayPattern(sunPat)
	return e, nil
}

// =============================================================================
// CALENDARS - calendar.Store
// =============================================================================

func (s *Store) SaveMonth(ctx context.Context, m calendar.Month) error {
	weekdays, err := marshalDates(m.Weekdays)
	if err != nil {
		return err
	}
	saturdays, err := marshalDates(m.Saturdays)
	if err != nil {
		return err
	}
	sundays, err := marshalDates(m.Sundays)
	if err != nil {
		return err
	}
	holidays, err := json.Marshal(m.Holidays)
	if err != nil {
		return err
	}
	if string(holidays) == "null" {
		holidays = []byte("[]")
	}

	now := s.now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calendars (year, month, weekdays, saturdays, sundays, holidays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			weekdays = excluded.weekdays,
			saturdays = excluded.saturdays,
			sundays = excluded.sundays,
			holidays = excluded.holidays,
			updated_at = excluded.updated_at`,
		m.Year, int(m.Month), weekdays, saturdays, sundays, string(holidays), now, now,
	)
	return err
}

func (s *Store) GetMonth(ctx context.Context, year int, month time.Month) (calendar.Month, error) {
	var (
		m                            calendar.Month
		weekdays, saturdays, sundays string
		holidays                     string
		monthNum                     int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT year, month, weekdays, saturdays, sundays, holidays
		FROM calendars WHERE year = ? AND month = ?`,
		year, int(month),
	).Scan(&m.Year, &monthNum, &weekdays, &saturdays, &sundays, &holidays)
	if errors.Is(err, sql.ErrNoRows) {
		return calendar.Month{}, calendar.ErrNotFound
	}
	if err != nil {
		return calendar.Month{}, err
	}

	m.Month = time.Month(monthNum)
	if m.Weekdays, err = unmarshalDates(weekdays); err != nil {
		return calendar.Month{}, err
	}
	if m.Saturdays, err = unmarshalDates(saturdays); err != nil {
		return calendar.Month{}, err
	}
	if m.Sundays, err = unmarshalDates(sundays); err != nil {
		return calendar.Month{}, err
	}
	if err = json.Unmarshal([]byte(holidays), &m.Holidays); err != nil {
		return calendar.Month{}, err
	}
	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func marshalDates(dates []calendar.Date) (string, error) {
	strs := make([]string, len(dates))
	for i, d := range dates {
		strs[i] = d.String()
	}
	b, err := json.Marshal(strs)
	return string(b), err
}

func unmarshalDates(raw string) ([]calendar.Date, error) {
	var strs []string
	if err := json.Unmarshal([]byte(raw), &strs); err != nil {
		return nil, err
	}
	dates := make([]calendar.Date, len(strs))
	for i, s := range strs {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, err
		}
		dates[i] = d
	}
	return dates, nil
}

func weekdayNames(days []time.Weekday) []string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return names
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		found := false
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.EqualFold(wd.String(), n) {
				days = append(days, wd)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
	}
	return days, nil
}

// mapConflict translates a raw uniqueness violation on the schedules key
// into roster.ErrStoreConflict. With the upsert above this should never
// fire; if it does, the store invariant is broken and callers must see it.
func mapConflict(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", roster.ErrStoreConflict, err)
	}
	return err
}
