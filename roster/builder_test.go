package roster_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farepass/roster-engine/calendar"
	"github.com/farepass/roster-engine/roster"
)

func juneWithHoliday() calendar.Month {
	// 22 weekdays, 4 Saturdays, 4 Sundays, one Tuesday holiday in week 0.
	return calendar.BuildMonth(2026, time.June).WithHoliday(calendar.Holiday{
		Date:  calendar.NewDate(2026, time.June, 2),
		Label: "Aniversário da cidade",
		Kind:  calendar.HolidayMunicipal,
	})
}

func TestBuild_ExampleScenario(t *testing.T) {
	// GIVEN: the reference month (22 weekdays, 4+4 weekend days, one
	// Tuesday holiday) and a fully alternating group-0 employee
	// WHEN: the schedule is built
	// THEN: the holiday weekday moves to the Sunday/holiday bucket and
	// parity gives half the weekend days
	e := alternatingEmployee(0)
	e.DailyFare = decimal.RequireFromString("12.00")

	s, err := roster.Build(e, juneWithHoliday())
	require.NoError(t, err)

	assert.Equal(t, 21, s.WeekdaysWorked, "holiday weekday leaves the weekday bucket")
	assert.Equal(t, 2, s.SaturdaysWorked, "group 0 works weeks 0 and 2")
	// Sundays of weeks 0 and 2, plus the worked Tuesday holiday (week 0).
	assert.Equal(t, 3, s.SundaysHolidaysWorked)
	assert.Equal(t, 26, s.TotalDaysWorked)
	assert.Equal(t, "312.00", s.TotalSubsidy.StringFixed(2))

	require.Len(t, s.HolidayDates, 1)
	assert.Equal(t, "2026-06-02", s.HolidayDates[0].String())
}

func TestBuild_PartitionInvariant(t *testing.T) {
	// Worked and off dates must partition the month exactly.
	e := alternatingEmployee(1)
	e.FixedDaysOff = []time.Weekday{time.Wednesday}
	m := juneWithHoliday()

	s, err := roster.Build(e, m)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, d := range s.WorkedDates {
		seen[d.String()]++
	}
	for _, d := range s.OffDates {
		seen[d.String()]++
	}

	days := m.Days()
	assert.Len(t, seen, len(days))
	for _, d := range days {
		assert.Equal(t, 1, seen[d.String()], "day %s must appear exactly once", d)
	}

	// HolidayDates is a tag on worked dates, never a third bucket.
	worked := make(map[string]bool)
	for _, d := range s.WorkedDates {
		worked[d.String()] = true
	}
	for _, d := range s.HolidayDates {
		assert.True(t, worked[d.String()], "holiday date %s must be worked", d)
	}
}

func TestBuild_ArithmeticInvariant(t *testing.T) {
	profiles := []roster.EmployeeProfile{
		alternatingEmployee(0),
		alternatingEmployee(1),
		{
			ID:        "emp-weekdays",
			DailyFare: decimal.RequireFromString("7.85"),
			Rotation:  roster.Rotation{Type: roster.RotationNone, Saturdays: roster.PatternNone, Sundays: roster.PatternNone},
			Active:    true,
		},
	}
	m := juneWithHoliday()

	for _, e := range profiles {
		s, err := roster.Build(e, m)
		require.NoError(t, err)

		assert.Equal(t, s.TotalDaysWorked, s.WeekdaysWorked+s.SaturdaysWorked+s.SundaysHolidaysWorked, "employee %s", e.ID)
		expected := e.DailyFare.Mul(decimal.NewFromInt(int64(s.TotalDaysWorked))).Round(2)
		assert.True(t, s.TotalSubsidy.Equal(expected), "employee %s: subsidy %s != %s", e.ID, s.TotalSubsidy, expected)
		assert.Equal(t, len(s.WorkedDates), s.TotalDaysWorked)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	e := alternatingEmployee(0)
	m := juneWithHoliday()

	first, err := roster.Build(e, m)
	require.NoError(t, err)
	second, err := roster.Build(e, m)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_NegativeFare(t *testing.T) {
	e := alternatingEmployee(0)
	e.DailyFare = decimal.RequireFromString("-1.00")

	_, err := roster.Build(e, juneWithHoliday())
	assert.ErrorIs(t, err, roster.ErrInvalidEmployee)
}

func TestBuild_InvalidCalendar(t *testing.T) {
	e := alternatingEmployee(0)
	m := juneWithHoliday()
	m.Weekdays = m.Weekdays[2:] // break coverage

	_, err := roster.Build(e, m)
	assert.ErrorIs(t, err, calendar.ErrInvalid)
}

func TestBuild_FixedDayOffNeverWorked(t *testing.T) {
	e := alternatingEmployee(0)
	e.FixedDaysOff = []time.Weekday{time.Monday}

	s, err := roster.Build(e, juneWithHoliday())
	require.NoError(t, err)

	for _, d := range s.WorkedDates {
		assert.NotEqual(t, time.Monday, d.Weekday(), "worked a fixed day off: %s", d)
	}
}
