/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface. They decouple the domain model
  from the wire contract: dates travel as "YYYY-MM-DD" strings, money as
  decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/farepass/roster-engine/calendar"
	"github.com/farepass/roster-engine/roster"
	"github.com/farepass/roster-engine/subsidy"
)

// =============================================================================
// SCHEDULES
// =============================================================================

type ScheduleDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	OrgUnit      string `json:"org_unit"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`

	WorkedDates  []string `json:"worked_dates"`
	OffDates     []string `json:"off_dates"`
	HolidayDates []string `json:"holiday_dates"`

	WeekdaysWorked        int `json:"weekdays_worked"`
	SaturdaysWorked       int `json:"saturdays_worked"`
	SundaysHolidaysWorked int `json:"sundays_holidays_worked"`
	TotalDaysWorked       int `json:"total_days_worked"`

	DailyFare    string `json:"daily_fare"`
	TotalSubsidy string `json:"total_subsidy"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func toScheduleDTO(s roster.Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		EmployeeID:            s.EmployeeID,
		EmployeeName:          s.EmployeeName,
		OrgUnit:               s.OrgUnit,
		Year:                  s.Year,
		Month:                 int(s.Month),
		WorkedDates:           dateStrings(s.WorkedDates),
		OffDates:              dateStrings(s.OffDates),
		HolidayDates:          dateStrings(s.HolidayDates),
		WeekdaysWorked:        s.WeekdaysWorked,
		SaturdaysWorked:       s.SaturdaysWorked,
		SundaysHolidaysWorked: s.SundaysHolidaysWorked,
		TotalDaysWorked:       s.TotalDaysWorked,
		DailyFare:             s.DailyFare.StringFixed(2),
		TotalSubsidy:          s.TotalSubsidy.StringFixed(2),
	}
	if !s.CreatedAt.IsZero() {
		dto.CreatedAt = s.CreatedAt.Format(time.RFC3339)
	}
	if !s.UpdatedAt.IsZero() {
		dto.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func toScheduleDTOs(schedules []roster.Schedule) []ScheduleDTO {
	dtos := make([]ScheduleDTO, len(schedules))
	for i, s := range schedules {
		dtos[i] = toScheduleDTO(s)
	}
	return dtos
}

func dateStrings(dates []calendar.Date) []string {
	strs := make([]string, len(dates))
	for i, d := range dates {
		strs[i] = d.String()
	}
	return strs
}

// GenerateResultDTO is the partial-success result of a batch run.
type GenerateResultDTO struct {
	Succeeded []ScheduleDTO `json:"succeeded"`
	Failed    []FailureDTO  `json:"failed"`
}

type FailureDTO struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

func toGenerateResultDTO(r roster.BatchResult) GenerateResultDTO {
	out := GenerateResultDTO{
		Succeeded: toScheduleDTOs(r.Succeeded),
		Failed:    make([]FailureDTO, len(r.Failed)),
	}
	for i, f := range r.Failed {
		out.Failed[i] = FailureDTO{EmployeeID: f.EmployeeID, Reason: f.Reason}
	}
	return out
}

// =============================================================================
// SUBSIDY
// =============================================================================

type TotalsDTO struct {
	Year        int           `json:"year"`
	Month       int           `json:"month"`
	OrgUnit     string        `json:"org_unit,omitempty"`
	PerEmployee []ScheduleDTO `json:"per_employee"`
	Total       string        `json:"total"`
}

func toTotalsDTO(year int, month time.Month, orgUnit string, t subsidy.Totals) TotalsDTO {
	return TotalsDTO{
		Year:        year,
		Month:       int(month),
		OrgUnit:     orgUnit,
		PerEmployee: toScheduleDTOs(t.PerEmployee),
		Total:       t.Total.StringFixed(2),
	}
}

// =============================================================================
// CALENDARS
// =============================================================================

type MonthDTO struct {
	Year      int          `json:"year"`
	Month     int          `json:"month"`
	Weekdays  []string     `json:"weekdays"`
	Saturdays []string     `json:"saturdays"`
	Sundays   []string     `json:"sundays"`
	Holidays  []HolidayDTO `json:"holidays"`
}

type HolidayDTO struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

func toMonthDTO(m calendar.Month) MonthDTO {
	dto := MonthDTO{
		Year:      m.Year,
		Month:     int(m.Month),
		Weekdays:  dateStrings(m.Weekdays),
		Saturdays: dateStrings(m.Saturdays),
		Sundays:   dateStrings(m.Sundays),
		Holidays:  make([]HolidayDTO, len(m.Holidays)),
	}
	for i, h := range m.Holidays {
		dto.Holidays[i] = HolidayDTO{Date: h.Date.String(), Label: h.Label, Kind: string(h.Kind)}
	}
	return dto
}

// AddHolidayRequest registers a holiday on a stored calendar month.
type AddHolidayRequest struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	OrgUnit         string   `json:"org_unit"`
	DailyFare       string   `json:"daily_fare"`
	FixedDaysOff    []string `json:"fixed_days_off"`
	RotationType    string   `json:"rotation_type"`
	RotationGroup   int      `json:"rotation_group"`
	WorksWeekends   bool     `json:"works_weekends"`
	SaturdayPattern string   `json:"saturday_pattern"`
	SundayPattern   string   `json:"sunday_pattern"`
	Active          bool     `json:"active"`
}

func toEmployeeDTO(e roster.EmployeeProfile) EmployeeDTO {
	daysOff := make([]string, len(e.FixedDaysOff))
	for i, d := range e.FixedDaysOff {
		daysOff[i] = d.String()
	}
	return EmployeeDTO{
		ID:              e.ID,
		Name:            e.Name,
		Role:            e.Role,
		OrgUnit:         e.OrgUnit,
		DailyFare:       e.DailyFare.StringFixed(2),
		FixedDaysOff:    daysOff,
		RotationType:    string(e.Rotation.Type),
		RotationGroup:   e.Rotation.Group,
		WorksWeekends:   e.Rotation.WorksWeekends,
		SaturdayPattern: string(e.Rotation.Saturdays),
		SundayPattern:   string(e.Rotation.Sundays),
		Active:          e.Active,
	}
}

// CreateEmployeeRequest creates or updates a profile. An empty ID mints
// a new one.
type CreateEmployeeRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	OrgUnit         string   `json:"org_unit"`
	DailyFare       string   `json:"daily_fare"`
	FixedDaysOff    []string `json:"fixed_days_off"`
	RotationType    string   `json:"rotation_type"`
	RotationGroup   int      `json:"rotation_group"`
	WorksWeekends   bool     `json:"works_weekends"`
	SaturdayPattern string   `json:"saturday_pattern"`
	SundayPattern   string   `json:"sunday_pattern"`
	Active          *bool    `json:"active"`
}
