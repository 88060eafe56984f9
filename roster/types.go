/*
Package roster generates monthly work schedules and the data they are
built from.

PURPOSE:
  Given a classified calendar month and an employee's work-pattern rules,
  decide for every day whether the employee works or is off, and turn the
  result into a Schedule: the per-bucket day counters and the
  transportation-subsidy total they imply.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmployeeProfile: static rule set (fare, fixed days off, rotation)
  - Rotation:        alternation type + group + weekend patterns
  - Schedule:        one generated month for one employee

DESIGN PRINCIPLES:
  1. Determinism: a Schedule is a pure function of (employee, calendar).
     No mutable rotation state; parity is derived from the date itself.
  2. Replace, never patch: regeneration produces a full new Schedule and
     the store swaps it in atomically per (employee, year, month).
  3. Precision: fares and totals use decimal.Decimal, never float64.

SEE ALSO:
  - policy.go:  the per-day work/off decision
  - builder.go: assembling a Schedule from per-day decisions
  - engine.go:  batch generation across all active employees
*/
package roster

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farepass/roster-engine/calendar"
)

// =============================================================================
// ROTATION RULES
// =============================================================================

// RotationType is the granularity at which a rotation group's on/off
// status flips.
type RotationType string

const (
	RotationNone     RotationType = "none"
	RotationWeekly   RotationType = "weekly"
	RotationBiweekly RotationType = "biweekly"
	RotationMonthly  RotationType = "monthly"
)

// DayPattern describes how an employee covers Saturdays or Sundays/holidays.
type DayPattern string

const (
	PatternNone        DayPattern = "none"        // never works the slot
	PatternAll         DayPattern = "all"         // works every slot
	PatternAlternating DayPattern = "alternating" // group parity decides
	PatternFixed       DayPattern = "fixed"       // group 0 always covers
)

// Rotation bundles the weekend/holiday coverage rules of one employee.
// Group is only meaningful when Type != RotationNone.
type Rotation struct {
	Type          RotationType `json:"type"`
	Group         int          `json:"group"`
	WorksWeekends bool         `json:"works_weekends"`
	Saturdays     DayPattern   `json:"saturdays"`
	Sundays       DayPattern   `json:"sundays"`
}

// =============================================================================
// EMPLOYEE PROFILE
// =============================================================================

// EmployeeProfile is the read-only rule set roster generation consumes.
// The surrounding CRUD service owns these records; generation only copies
// DailyFare into the Schedule at build time.
type EmployeeProfile struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	OrgUnit      string          `json:"org_unit"`
	DailyFare    decimal.Decimal `json:"daily_fare"`
	FixedDaysOff []time.Weekday  `json:"fixed_days_off"`
	Rotation     Rotation        `json:"rotation"`
	Active       bool            `json:"active"`
}

// HasFixedDayOff reports whether wd is one of the employee's fixed
// weekly days off.
func (e EmployeeProfile) HasFixedDayOff(wd time.Weekday) bool {
	for _, off := range e.FixedDaysOff {
		if off == wd {
			return true
		}
	}
	return false
}

// Validate checks the rule fields generation depends on.
func (e EmployeeProfile) Validate() error {
	if e.ID == "" {
		return &InvalidEmployeeError{EmployeeID: e.ID, Reason: "missing id"}
	}
	if e.DailyFare.IsNegative() {
		return &InvalidEmployeeError{EmployeeID: e.ID, Reason: "negative daily fare"}
	}
	switch e.Rotation.Type {
	case RotationNone, RotationWeekly, RotationBiweekly, RotationMonthly:
	default:
		return &InvalidEmployeeError{EmployeeID: e.ID, Reason: "unknown rotation type " + string(e.Rotation.Type)}
	}
	for _, p := range []DayPattern{e.Rotation.Saturdays, e.Rotation.Sundays} {
		switch p {
		case PatternNone, PatternAll, PatternAlternating, PatternFixed:
		default:
			return &InvalidEmployeeError{EmployeeID: e.ID, Reason: "unknown day pattern " + string(p)}
		}
	}
	if e.Rotation.Group < 0 {
		return &InvalidEmployeeError{EmployeeID: e.ID, Reason: "negative rotation group"}
	}
	return nil
}

// =============================================================================
// SCHEDULE - One generated month for one employee
// =============================================================================

// Schedule is the output of roster generation. Exactly one exists per
// (EmployeeID, Year, Month); regeneration replaces it wholesale.
//
// WorkedDates and OffDates partition the month's full date range.
// HolidayDates is an orthogonal tag: the subset of WorkedDates that fell
// on a holiday (and therefore counted in SundaysHolidaysWorked).
//
// EmployeeName, OrgUnit and DailyFare are copied from the profile at
// generation time. A later profile change does not rewrite history; the
// next regeneration picks it up.
type Schedule struct {
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	OrgUnit      string     `json:"org_unit"`
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`

	WorkedDates  []calendar.Date `json:"worked_dates"`
	OffDates     []calendar.Date `json:"off_dates"`
	HolidayDates []calendar.Date `json:"holiday_dates"`

	WeekdaysWorked        int `json:"weekdays_worked"`
	SaturdaysWorked       int `json:"saturdays_worked"`
	SundaysHolidaysWorked int `json:"sundays_holidays_worked"`
	TotalDaysWorked       int `json:"total_days_worked"`

	DailyFare    decimal.Decimal `json:"daily_fare"`
	TotalSubsidy decimal.Decimal `json:"total_subsidy"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
