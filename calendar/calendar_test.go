package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farepass/roster-engine/calendar"
	"github.com/farepass/roster-engine/store/memory"
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestBuildMonth_JuneTwentyTwentySix(t *testing.T) {
	// June 2026 starts on a Monday and has 30 days:
	// 22 weekdays, 4 Saturdays, 4 Sundays.
	m := calendar.BuildMonth(2026, time.June)

	assert.Len(t, m.Weekdays, 22)
	assert.Len(t, m.Saturdays, 4)
	assert.Len(t, m.Sundays, 4)
	assert.Empty(t, m.Holidays)
	require.NoError(t, m.Validate())

	assert.Equal(t, "2026-06-06", m.Saturdays[0].String())
	assert.Equal(t, "2026-06-28", m.Sundays[3].String())
}

func TestBuildMonth_February(t *testing.T) {
	// February 2026 starts on a Sunday, 28 days.
	m := calendar.BuildMonth(2026, time.February)

	assert.Len(t, m.Weekdays, 20)
	assert.Len(t, m.Saturdays, 4)
	assert.Len(t, m.Sundays, 4)
	require.NoError(t, m.Validate())
}

func TestKindOf(t *testing.T) {
	m := calendar.BuildMonth(2026, time.June)

	kind, ok := m.KindOf(calendar.NewDate(2026, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, calendar.KindWeekday, kind)

	kind, ok = m.KindOf(calendar.NewDate(2026, time.June, 6))
	require.True(t, ok)
	assert.Equal(t, calendar.KindSaturday, kind)

	kind, ok = m.KindOf(calendar.NewDate(2026, time.June, 7))
	require.True(t, ok)
	assert.Equal(t, calendar.KindSunday, kind)

	_, ok = m.KindOf(calendar.NewDate(2026, time.July, 1))
	assert.False(t, ok)
}

// =============================================================================
// WEEK INDEX
// =============================================================================

func TestWeekIndexInMonth(t *testing.T) {
	cases := []struct {
		date calendar.Date
		want int
	}{
		// June 2026 starts on a Monday: week boundaries at the 8th, 15th...
		{calendar.NewDate(2026, time.June, 1), 0},
		{calendar.NewDate(2026, time.June, 7), 0},
		{calendar.NewDate(2026, time.June, 8), 1},
		{calendar.NewDate(2026, time.June, 27), 3},
		{calendar.NewDate(2026, time.June, 30), 4},
		// February 2026 starts on a Sunday: the 1st sits alone in week 0.
		{calendar.NewDate(2026, time.February, 1), 0},
		{calendar.NewDate(2026, time.February, 2), 1},
		{calendar.NewDate(2026, time.February, 8), 1},
		{calendar.NewDate(2026, time.February, 9), 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, calendar.WeekIndexInMonth(tc.date), "week index of %s", tc.date)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_OverlappingPartitions(t *testing.T) {
	m := calendar.BuildMonth(2026, time.June)
	// Duplicate a Saturday into the weekday bucket.
	m.Weekdays = append(m.Weekdays, m.Saturdays[0])

	err := m.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrInvalid)
}

func TestValidate_MissingDay(t *testing.T) {
	m := calendar.BuildMonth(2026, time.June)
	m.Weekdays = m.Weekdays[1:]

	assert.ErrorIs(t, m.Validate(), calendar.ErrInvalid)
}

func TestValidate_DayOutsideMonth(t *testing.T) {
	m := calendar.BuildMonth(2026, time.June)
	m.Weekdays[0] = calendar.NewDate(2026, time.July, 1)

	assert.ErrorIs(t, m.Validate(), calendar.ErrInvalid)
}

func TestValidate_HolidayOutsideMonth(t *testing.T) {
	m := calendar.BuildMonth(2026, time.June)
	m = m.WithHoliday(calendar.Holiday{
		Date:  calendar.NewDate(2026, time.July, 9),
		Label: "Revolução Constitucionalista",
		Kind:  calendar.HolidayState,
	})

	assert.ErrorIs(t, m.Validate(), calendar.ErrInvalid)
}

func TestValidate_HolidayMayOverlapAnyPartition(t *testing.T) {
	// A holiday is a tag, not a fourth bucket: the date stays in its
	// weekday/Saturday/Sunday set.
	m := calendar.BuildMonth(2026, time.June)
	m = m.WithHoliday(calendar.Holiday{
		Date:  calendar.NewDate(2026, time.June, 7), // a Sunday
		Label: "Corpus Christi (observed)",
		Kind:  calendar.HolidayNational,
	})

	require.NoError(t, m.Validate())
	assert.True(t, m.IsHoliday(calendar.NewDate(2026, time.June, 7)))
}

// =============================================================================
// HOLIDAY TAGGING
// =============================================================================

func TestWithHoliday_ReplacesSameDate(t *testing.T) {
	m := calendar.BuildMonth(2026, time.June)
	d := calendar.NewDate(2026, time.June, 2)

	m = m.WithHoliday(calendar.Holiday{Date: d, Label: "first", Kind: calendar.HolidayMunicipal})
	m = m.WithHoliday(calendar.Holiday{Date: d, Label: "second", Kind: calendar.HolidayNational})

	require.Len(t, m.Holidays, 1)
	assert.Equal(t, "second", m.Holidays[0].Label)
}

func TestWithoutHoliday(t *testing.T) {
	m := calendar.BuildMonth(2026, time.June)
	d := calendar.NewDate(2026, time.June, 2)
	m = m.WithHoliday(calendar.Holiday{Date: d, Label: "holiday", Kind: calendar.HolidayNational})

	m = m.WithoutHoliday(d)

	assert.Empty(t, m.Holidays)
	assert.False(t, m.IsHoliday(d))
}

// =============================================================================
// ENSURE - create-if-absent trigger
// =============================================================================

func TestEnsure_CreatesWhenAbsent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.GetMonth(ctx, 2026, time.June)
	require.ErrorIs(t, err, calendar.ErrNotFound)

	m, err := calendar.Ensure(ctx, store, 2026, time.June)
	require.NoError(t, err)
	assert.Len(t, m.Weekdays, 22)

	stored, err := store.GetMonth(ctx, 2026, time.June)
	require.NoError(t, err)
	assert.Equal(t, m, stored)
}

func TestEnsure_KeepsExistingHolidays(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	m := calendar.BuildMonth(2026, time.June).WithHoliday(calendar.Holiday{
		Date:  calendar.NewDate(2026, time.June, 2),
		Label: "Aniversário da cidade",
		Kind:  calendar.HolidayMunicipal,
	})
	require.NoError(t, store.SaveMonth(ctx, m))

	got, err := calendar.Ensure(ctx, store, 2026, time.June)
	require.NoError(t, err)
	assert.Len(t, got.Holidays, 1)
}
