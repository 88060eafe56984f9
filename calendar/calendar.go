/*
Package calendar provides the monthly day-type classification consumed by
roster generation.

PURPOSE:
  A Month partitions every day of a calendar month into weekdays, Saturdays
  and Sundays, and carries the holiday list on top. Holidays are a tag over
  the partition, never a fourth bucket: a holiday date stays present in its
  weekday/Saturday/Sunday set, and only payment classification changes.

KEY CONCEPTS:
  - Month:    the day-type partition for one (year, month)
  - DayKind:  Weekday | Saturday | Sunday
  - Holiday:  date + label + kind (national/state/municipal)
  - Store:    persistence contract, keyed (year, month), replace-on-save

INVARIANT:
  The three partitions are pairwise disjoint and together cover every day
  of the month. Validate() enforces this; roster generation refuses to run
  against a Month that fails it.

SEE ALSO:
  - classify.go: building a Month from scratch, Ensure()
  - roster/builder.go: the consumer of Month
*/
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrInvalid is returned when a Month's partitions are not disjoint or
	// do not cover the whole month.
	ErrInvalid = errors.New("invalid calendar month")

	// ErrNotFound is returned when no Month exists for a (year, month) key.
	ErrNotFound = errors.New("calendar month not found")
)

// =============================================================================
// DAY KIND
// =============================================================================

type DayKind string

const (
	KindWeekday  DayKind = "weekday"
	KindSaturday DayKind = "saturday"
	KindSunday   DayKind = "sunday"
)

// KindForWeekday maps a weekday name onto its roster day kind.
func KindForWeekday(wd time.Weekday) DayKind {
	switch wd {
	case time.Saturday:
		return KindSaturday
	case time.Sunday:
		return KindSunday
	default:
		return KindWeekday
	}
}

// =============================================================================
// HOLIDAY
// =============================================================================

type HolidayKind string

const (
	HolidayNational  HolidayKind = "national"
	HolidayState     HolidayKind = "state"
	HolidayMunicipal HolidayKind = "municipal"
)

type Holiday struct {
	Date  Date        `json:"date"`
	Label string      `json:"label"`
	Kind  HolidayKind `json:"kind"`
}

// =============================================================================
// MONTH - Day-type partition for one calendar month
// =============================================================================

type Month struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	Weekdays  []Date     `json:"weekdays"`
	Saturdays []Date     `json:"saturdays"`
	Sundays   []Date     `json:"sundays"`
	Holidays  []Holiday  `json:"holidays"`
}

// Days returns every day of the month in chronological order,
// independent of the partition slices.
func (m Month) Days() []Date {
	n := DaysInMonth(m.Year, m.Month)
	days := make([]Date, n)
	for i := 0; i < n; i++ {
		days[i] = NewDate(m.Year, m.Month, i+1)
	}
	return days
}

// KindOf returns the day kind of d, and whether d belongs to the partition.
func (m Month) KindOf(d Date) (DayKind, bool) {
	for _, w := range m.Weekdays {
		if w.Equal(d) {
			return KindWeekday, true
		}
	}
	for _, s := range m.Saturdays {
		if s.Equal(d) {
			return KindSaturday, true
		}
	}
	for _, s := range m.Sundays {
		if s.Equal(d) {
			return KindSunday, true
		}
	}
	return "", false
}

// IsHoliday reports whether d carries a holiday tag.
func (m Month) IsHoliday(d Date) bool {
	for _, h := range m.Holidays {
		if h.Date.Equal(d) {
			return true
		}
	}
	return false
}

// WithHoliday returns a copy of the month with the holiday added.
// Adding a second holiday on the same date replaces the first.
func (m Month) WithHoliday(h Holiday) Month {
	out := m
	out.Holidays = make([]Holiday, 0, len(m.Holidays)+1)
	for _, existing := range m.Holidays {
		if !existing.Date.Equal(h.Date) {
			out.Holidays = append(out.Holidays, existing)
		}
	}
	out.Holidays = append(out.Holidays, h)
	return out
}

// WithoutHoliday returns a copy of the month with any holiday on d removed.
func (m Month) WithoutHoliday(d Date) Month {
	out := m
	out.Holidays = make([]Holiday, 0, len(m.Holidays))
	for _, existing := range m.Holidays {
		if !existing.Date.Equal(d) {
			out.Holidays = append(out.Holidays, existing)
		}
	}
	return out
}

// Validate checks the partition invariant: weekdays, Saturdays and Sundays
// must be pairwise disjoint and together cover every day of the month.
// Holidays may overlap any partition (they are a tag, not a bucket), but
// must fall inside the month.
func (m Month) Validate() error {
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalid, m.Month)
	}

	n := DaysInMonth(m.Year, m.Month)
	seen := make(map[Date]DayKind, n)

	record := func(dates []Date, kind DayKind) error {
		for _, d := range dates {
			if d.Year() != m.Year || d.Month() != m.Month {
				return fmt.Errorf("%w: %s outside %d-%02d", ErrInvalid, d, m.Year, m.Month)
			}
			if prev, dup := seen[d]; dup {
				return fmt.Errorf("%w: %s classified as both %s and %s", ErrInvalid, d, prev, kind)
			}
			seen[d] = kind
		}
		return nil
	}

	if err := record(m.Weekdays, KindWeekday); err != nil {
		return err
	}
	if err := record(m.Saturdays, KindSaturday); err != nil {
		return err
	}
	if err := record(m.Sundays, KindSunday); err != nil {
		return err
	}

	if len(seen) != n {
		return fmt.Errorf("%w: %d of %d days classified", ErrInvalid, len(seen), n)
	}

	for _, h := range m.Holidays {
		if h.Date.Year() != m.Year || h.Date.Month() != m.Month {
			return fmt.Errorf("%w: holiday %s outside %d-%02d", ErrInvalid, h.Date, m.Year, m.Month)
		}
	}
	return nil
}

// =============================================================================
// STORE - Persistence contract
// =============================================================================

// Store persists one Month per (year, month). SaveMonth replaces any
// existing row for the same key; there is no partial update.
type Store interface {
	GetMonth(ctx context.Context, year int, month time.Month) (Month, error)
	SaveMonth(ctx context.Context, m Month) error
}
