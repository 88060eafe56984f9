/*
Package subsidy rolls Schedule day counters up into money.

PURPOSE:
  Converts a month's generated Schedules into per-employee subsidy lines
  and an overall (or per-org-unit) total. Summation happens in integer
  minor units, so the returned total always equals the sum of the
  returned lines exactly - repeated aggregation cannot drift.

SEE ALSO:
  - roster/builder.go: where TotalSubsidy per employee is computed
  - api/export.go: spreadsheet rendering of these totals
*/
package subsidy

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farepass/roster-engine/roster"
)

// Totals is the result of aggregating one month.
type Totals struct {
	PerEmployee []roster.Schedule `json:"per_employee"`
	Total       decimal.Decimal   `json:"total"`
}

// Aggregate filters schedules by org unit (exact match, empty = all) and
// sums their subsidy totals. Accumulation is done in cents so the result
// is exact regardless of how many lines are summed.
func Aggregate(schedules []roster.Schedule, orgUnit string) Totals {
	t := Totals{PerEmployee: []roster.Schedule{}}
	var cents int64
	for _, s := range schedules {
		if orgUnit != "" && s.OrgUnit != orgUnit {
			continue
		}
		t.PerEmployee = append(t.PerEmployee, s)
		cents += s.TotalSubsidy.Shift(2).IntPart()
	}
	t.Total = decimal.New(cents, -2)
	return t
}

// Calculator composes schedule reads with aggregation, generating the
// month first when nothing has been stored for it yet.
type Calculator struct {
	Generator *roster.Generator
	Schedules roster.ScheduleStore
}

// ComputeMonth returns the subsidy totals for (year, month), filtered to
// orgUnit when non-empty. An empty store for the month triggers a full
// generation run before aggregating.
func (c *Calculator) ComputeMonth(ctx context.Context, year int, month time.Month, orgUnit string) (Totals, error) {
	schedules, err := c.Schedules.GetByMonth(ctx, year, month)
	if err != nil {
		return Totals{}, err
	}
	if len(schedules) == 0 {
		if _, err := c.Generator.GenerateSchedules(ctx, year, month); err != nil {
			return Totals{}, err
		}
		schedules, err = c.Schedules.GetByMonth(ctx, year, month)
		if err != nil {
			return Totals{}, err
		}
	}
	return Aggregate(schedules, orgUnit), nil
}
