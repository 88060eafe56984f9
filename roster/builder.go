/*
builder.go - Assembles one employee's Schedule for one month

PURPOSE:
  Walks every day of a classified month in chronological order, asks
  Decide() whether the employee works it, and accumulates the day-bucket
  counters and the subsidy total. Pure: persistence is the store's job.

COUNTER SEMANTICS:
  A worked holiday always lands in SundaysHolidaysWorked, even when the
  underlying day is a weekday or Saturday - holiday pay follows the
  Sunday/holiday bucket. Worked holidays are additionally tagged in
  HolidayDates. A date counts in exactly one bucket.
*/
package roster

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/farepass/roster-engine/calendar"
)

// Build produces the Schedule for one employee over one classified month.
// It fails with calendar.ErrInvalid when the month's partition is broken
// and ErrInvalidEmployee when the profile cannot support generation.
// Timestamps are left zero; the store stamps them on upsert.
func Build(e EmployeeProfile, m calendar.Month) (Schedule, error) {
	if err := m.Validate(); err != nil {
		return Schedule{}, err
	}
	if err := e.Validate(); err != nil {
		return Schedule{}, err
	}

	s := Schedule{
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		OrgUnit:      e.OrgUnit,
		Year:         m.Year,
		Month:        m.Month,
		DailyFare:    e.DailyFare,
	}

	for _, d := range m.Days() {
		kind, ok := m.KindOf(d)
		if !ok {
			// Validate() guarantees coverage; reaching here is a bug.
			return Schedule{}, fmt.Errorf("%w: %s missing from partition", calendar.ErrInvalid, d)
		}
		holiday := m.IsHoliday(d)

		if Decide(e, d, kind, holiday, calendar.WeekIndexInMonth(d)) != Worked {
			s.OffDates = append(s.OffDates, d)
			continue
		}

		s.WorkedDates = append(s.WorkedDates, d)
		switch {
		case holiday:
			s.HolidayDates = append(s.HolidayDates, d)
			s.SundaysHolidaysWorked++
		case kind == calendar.KindSunday:
			s.SundaysHolidaysWorked++
		case kind == calendar.KindSaturday:
			s.SaturdaysWorked++
		default:
			s.WeekdaysWorked++
		}
	}

	s.TotalDaysWorked = s.WeekdaysWorked + s.SaturdaysWorked + s.SundaysHolidaysWorked
	s.TotalSubsidy = e.DailyFare.Mul(decimal.NewFromInt(int64(s.TotalDaysWorked))).Round(2)
	return s, nil
}
