package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// CLASSIFIER - Builds the day-type partition for a month
// =============================================================================

// BuildMonth classifies every day of (year, month): Monday through Friday
// are weekdays, Saturday and Sunday get their own buckets. Holidays are not
// derived here; they are registered afterwards via WithHoliday.
func BuildMonth(year int, month time.Month) Month {
	m := Month{Year: year, Month: month}
	n := DaysInMonth(year, month)
	for day := 1; day <= n; day++ {
		d := NewDate(year, month, day)
		switch d.Weekday() {
		case time.Saturday:
			m.Saturdays = append(m.Saturdays, d)
		case time.Sunday:
			m.Sundays = append(m.Sundays, d)
		default:
			m.Weekdays = append(m.Weekdays, d)
		}
	}
	return m
}

// Ensure returns the stored Month for (year, month), building and saving a
// fresh one when none exists yet. This is the create-if-absent trigger used
// by batch roster generation: a generation request for a month that was
// never classified must not fail just because nobody opened the calendar
// screen first.
func Ensure(ctx context.Context, store Store, year int, month time.Month) (Month, error) {
	m, err := store.GetMonth(ctx, year, month)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Month{}, err
	}

	m = BuildMonth(year, month)
	if err := store.SaveMonth(ctx, m); err != nil {
		return Month{}, fmt.Errorf("ensure calendar %d-%02d: %w", year, month, err)
	}
	return m, nil
}
