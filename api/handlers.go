/*
handlers.go - HTTP handlers for roster generation and subsidy queries

PURPOSE:
  Exposes the roster engine over REST. Handlers parse the request, call
  domain logic and serialize the result; nothing here computes anything.

ENDPOINTS:
  Schedules:
    POST /api/schedules/generate/{year}/{month}       Regenerate month
    GET  /api/schedules/{year}/{month}?org_unit=      Month's schedules
    GET  /api/schedules/employee/{id}/{year}/{month}  One schedule

  Subsidy:
    GET  /api/subsidy/{year}/{month}?org_unit=        Totals (generates if empty)
    GET  /api/subsidy/{year}/{month}/export           XLSX report

  Calendars:
    GET    /api/calendars/{year}/{month}              Stored month
    POST   /api/calendars/{year}/{month}              Create if absent
    POST   /api/calendars/{year}/{month}/holidays     Add holiday
    DELETE /api/calendars/{year}/{month}/holidays/{date}

  Employees:
    GET  /api/employees                               List all
    POST /api/employees                               Create/update
    GET  /api/employees/{id}                          One profile

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid input, invalid employee rules, broken calendar
  - 404: missing schedule/calendar/employee
  - 500: store failures

SEE ALSO:
  - dto.go: wire types
  - server.go: router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/farepass/roster-engine/calendar"
	"github.com/farepass/roster-engine/roster"
	"github.com/farepass/roster-engine/subsidy"
)

// EmployeeRepository is the directory plus the write side the API glue
// needs. Both store/sqlite and store/memory satisfy it.
type EmployeeRepository interface {
	roster.EmployeeDirectory
	SaveEmployee(ctx context.Context, e roster.EmployeeProfile) error
	ListEmployees(ctx context.Context) ([]roster.EmployeeProfile, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Generator  *roster.Generator
	Calculator *subsidy.Calculator
	Employees  EmployeeRepository
	Calendars  calendar.Store
	Log        zerolog.Logger
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GenerateSchedules regenerates the whole month for all active employees.
func (h *Handler) GenerateSchedules(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	result, err := h.Generator.GenerateSchedules(r.Context(), year, month)
	if err != nil {
		writeError(w, statusFor(err), "Failed to generate schedules", err)
		return
	}
	writeJSON(w, http.StatusOK, toGenerateResultDTO(result))
}

// GetSchedules returns a month's schedules, optionally filtered by org unit.
func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	schedules, err := h.Generator.GetSchedules(r.Context(), year, month, r.URL.Query().Get("org_unit"))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get schedules", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTOs(schedules))
}

// GetEmployeeSchedule returns one employee's schedule for a month.
func (h *Handler) GetEmployeeSchedule(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	s, err := h.Generator.Schedules.GetByEmployeeMonth(r.Context(), id, year, month)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(s))
}

// =============================================================================
// SUBSIDY HANDLERS
// =============================================================================

// GetSubsidyTotals aggregates the month, generating it first when empty.
func (h *Handler) GetSubsidyTotals(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}
	orgUnit := r.URL.Query().Get("org_unit")

	totals, err := h.Calculator.ComputeMonth(r.Context(), year, month, orgUnit)
	if err != nil {
		writeError(w, statusFor(err), "Failed to compute subsidy totals", err)
		return
	}
	writeJSON(w, http.StatusOK, toTotalsDTO(year, month, orgUnit, totals))
}

// ExportSubsidyReport streams the month's totals as a spreadsheet.
func (h *Handler) ExportSubsidyReport(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}
	orgUnit := r.URL.Query().Get("org_unit")

	totals, err := h.Calculator.ComputeMonth(r.Context(), year, month, orgUnit)
	if err != nil {
		writeError(w, statusFor(err), "Failed to compute subsidy totals", err)
		return
	}

	book, err := BuildSubsidyWorkbook(year, month, totals)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	defer book.Close()

	filename := fmt.Sprintf("subsidy-%d-%02d.xlsx", year, month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := book.Write(w); err != nil {
		h.Log.Error().Err(err).Msg("writing subsidy report")
	}
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar returns the stored month, 404 when never created.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	m, err := h.Calendars.GetMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTO(m))
}

// EnsureCalendar creates the month's classification when absent.
func (h *Handler) EnsureCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	m, err := calendar.Ensure(r.Context(), h.Calendars, year, month)
	if err != nil {
		writeError(w, statusFor(err), "Failed to ensure calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTO(m))
}

// AddHoliday registers a holiday on the stored month.
func (h *Handler) AddHoliday(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	var req AddHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	kind := calendar.HolidayKind(req.Kind)
	switch kind {
	case calendar.HolidayNational, calendar.HolidayState, calendar.HolidayMunicipal:
	case "":
		kind = calendar.HolidayNational
	default:
		writeError(w, http.StatusBadRequest, "Unknown holiday kind", nil)
		return
	}

	m, err := h.Calendars.GetMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get calendar", err)
		return
	}
	m = m.WithHoliday(calendar.Holiday{Date: date, Label: req.Label, Kind: kind})
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Holiday outside month", err)
		return
	}
	if err := h.Calendars.SaveMonth(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTO(m))
}

// RemoveHoliday drops the holiday tag from a date.
func (h *Handler) RemoveHoliday(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	m, err := h.Calendars.GetMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get calendar", err)
		return
	}
	m = m.WithoutHoliday(date)
	if err := h.Calendars.SaveMonth(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTO(m))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employee profiles.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Employees.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single profile.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.Employees.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(e))
}

// CreateEmployee creates or updates a profile.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := employeeFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}
	if err := h.Employees.SaveEmployee(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(e))
}

func employeeFromRequest(req CreateEmployeeRequest) (roster.EmployeeProfile, error) {
	fare := decimal.Zero
	if req.DailyFare != "" {
		var err error
		fare, err = decimal.NewFromString(req.DailyFare)
		if err != nil {
			return roster.EmployeeProfile{}, fmt.Errorf("daily_fare: %w", err)
		}
	}

	daysOff := make([]time.Weekday, 0, len(req.FixedDaysOff))
	for _, name := range req.FixedDaysOff {
		parsed := false
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.EqualFold(wd.String(), name) {
				daysOff = append(daysOff, wd)
				parsed = true
				break
			}
		}
		if !parsed {
			return roster.EmployeeProfile{}, fmt.Errorf("unknown weekday %q", name)
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	rotationType := roster.RotationType(req.RotationType)
	if req.RotationType == "" {
		rotationType = roster.RotationNone
	}
	satPattern := roster.DayPattern(req.SaturdayPattern)
	if req.SaturdayPattern == "" {
		satPattern = roster.PatternNone
	}
	sunPattern := roster.DayPattern(req.SundayPattern)
	if req.SundayPattern == "" {
		sunPattern = roster.PatternNone
	}

	return roster.EmployeeProfile{
		ID:           id,
		Name:         req.Name,
		Role:         req.Role,
		OrgUnit:      req.OrgUnit,
		DailyFare:    fare,
		FixedDaysOff: daysOff,
		Rotation: roster.Rotation{
			Type:          rotationType,
			Group:         req.RotationGroup,
			WorksWeekends: req.WorksWeekends,
			Saturdays:     satPattern,
			Sundays:       sunPattern,
		},
		Active: active,
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func yearMonthParams(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, 0, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month (1-12)", err)
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrNotFound), errors.Is(err, calendar.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, roster.ErrInvalidEmployee), errors.Is(err, calendar.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
