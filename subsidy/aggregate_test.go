package subsidy_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farepass/roster-engine/roster"
	"github.com/farepass/roster-engine/store/memory"
	"github.com/farepass/roster-engine/subsidy"
)

func schedule(employeeID, orgUnit, total string) roster.Schedule {
	return roster.Schedule{
		EmployeeID:   employeeID,
		OrgUnit:      orgUnit,
		Year:         2026,
		Month:        time.June,
		TotalSubsidy: decimal.RequireFromString(total),
	}
}

func TestAggregate_TotalMatchesSum(t *testing.T) {
	schedules := []roster.Schedule{
		schedule("emp-a", "unit-1", "264.00"),
		schedule("emp-b", "unit-1", "171.93"),
		schedule("emp-c", "unit-2", "88.10"),
	}

	totals := subsidy.Aggregate(schedules, "")

	require.Len(t, totals.PerEmployee, 3)
	sum := decimal.Zero
	for _, s := range totals.PerEmployee {
		sum = sum.Add(s.TotalSubsidy)
	}
	assert.True(t, totals.Total.Equal(sum), "total %s != sum %s", totals.Total, sum)
	assert.Equal(t, "524.03", totals.Total.StringFixed(2))
}

func TestAggregate_FilterByOrgUnit(t *testing.T) {
	schedules := []roster.Schedule{
		schedule("emp-a", "unit-1", "100.00"),
		schedule("emp-b", "unit-2", "50.00"),
		schedule("emp-c", "unit-1", "25.50"),
	}

	totals := subsidy.Aggregate(schedules, "unit-1")

	require.Len(t, totals.PerEmployee, 2)
	assert.Equal(t, "125.50", totals.Total.StringFixed(2))
}

func TestAggregate_Empty(t *testing.T) {
	totals := subsidy.Aggregate(nil, "")
	assert.Empty(t, totals.PerEmployee)
	assert.True(t, totals.Total.IsZero())
}

func TestAggregate_RepeatedAggregationDoesNotDrift(t *testing.T) {
	schedules := []roster.Schedule{
		schedule("emp-a", "", "0.01"),
		schedule("emp-b", "", "0.02"),
		schedule("emp-c", "", "0.03"),
	}

	first := subsidy.Aggregate(schedules, "")
	second := subsidy.Aggregate(first.PerEmployee, "")
	assert.True(t, first.Total.Equal(second.Total))
}

// =============================================================================
// CALCULATOR - generate-if-empty composition
// =============================================================================

func TestComputeMonth_GeneratesWhenEmpty(t *testing.T) {
	store := memory.New()
	gen := &roster.Generator{
		Schedules: store,
		Employees: store,
		Calendars: store,
		Log:       zerolog.Nop(),
	}
	calc := &subsidy.Calculator{Generator: gen, Schedules: store}
	ctx := context.Background()

	e := roster.EmployeeProfile{
		ID:        "emp-1",
		Name:      "Rhonny",
		OrgUnit:   "unit-1",
		DailyFare: decimal.RequireFromString("12.00"),
		Rotation: roster.Rotation{
			Type:          roster.RotationWeekly,
			WorksWeekends: true,
			Saturdays:     roster.PatternAlternating,
			Sundays:       roster.PatternAlternating,
		},
		Active: true,
	}
	require.NoError(t, store.SaveEmployee(ctx, e))

	totals, err := calc.ComputeMonth(ctx, 2026, time.June, "")
	require.NoError(t, err)
	require.Len(t, totals.PerEmployee, 1)

	s := totals.PerEmployee[0]
	assert.True(t, totals.Total.Equal(s.TotalSubsidy))
	assert.Positive(t, s.TotalDaysWorked)

	// A second compute reads the stored rows instead of regenerating.
	again, err := calc.ComputeMonth(ctx, 2026, time.June, "")
	require.NoError(t, err)
	assert.True(t, totals.Total.Equal(again.Total))
}
