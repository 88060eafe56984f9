/*
policy.go - The per-day work/off decision

PURPOSE:
  Decide() is the computational heart of roster generation: a pure
  function from (employee rules, date, day classification) to Worked or
  Off. Everything it needs is derivable from the date and the employee's
  static rule set, so two generations of the same month always agree.

PRECEDENCE (first match wins):
  1. Fixed weekly day off on an ordinary weekday         -> Off
  2. Weekend or holiday, employee doesn't work weekends  -> Off
  3. Saturday -> Saturdays pattern
     Sunday or holiday -> Sundays pattern
     (holiday pay parallels Sunday pay, so holidays inherit the Sunday
     pattern even when they fall on a weekday or Saturday)
  4. Ordinary weekday                                    -> Worked

PARITY:
  Alternating patterns are group parity over the Monday-start week index:
    weekly:   (weekIndex + group) % 2 == 0
    biweekly: (weekIndex/2 + group) % 2 == 0
    monthly:  (monthNumber + group) % 2 == 0
  With two groups 0 and 1, exactly one group covers any given slot.
*/
package roster

import (
	"github.com/farepass/roster-engine/calendar"
)

// Decision is the outcome of evaluating one employee on one day.
type Decision int

const (
	Off Decision = iota
	Worked
)

func (d Decision) String() string {
	if d == Worked {
		return "worked"
	}
	return "off"
}

// Decide evaluates the employee's rules for a single date. kind is the
// date's partition bucket, holiday its orthogonal tag, weekIndex the
// zero-based Monday-start week-of-month index of the date.
func Decide(e EmployeeProfile, d calendar.Date, kind calendar.DayKind, holiday bool, weekIndex int) Decision {
	// Rule 1: fixed weekly day off, ordinary weekdays only.
	if kind == calendar.KindWeekday && e.HasFixedDayOff(d.Weekday()) {
		return Off
	}

	// Rule 2: weekend/holiday coverage requires opting in.
	if (kind != calendar.KindWeekday || holiday) && !e.Rotation.WorksWeekends {
		return Off
	}

	// Rule 3: pattern lookup. Holidays inherit the Sunday pattern
	// regardless of the underlying day kind.
	switch {
	case holiday || kind == calendar.KindSunday:
		return applyPattern(e.Rotation, e.Rotation.Sundays, d, weekIndex)
	case kind == calendar.KindSaturday:
		return applyPattern(e.Rotation, e.Rotation.Saturdays, d, weekIndex)
	}

	// Rule 4: ordinary weekday.
	return Worked
}

func applyPattern(r Rotation, p DayPattern, d calendar.Date, weekIndex int) Decision {
	switch p {
	case PatternNone:
		return Off
	case PatternAll:
		return Worked
	case PatternFixed:
		// The fixed slot belongs to group 0 and does not rotate.
		if r.Group == 0 {
			return Worked
		}
		return Off
	case PatternAlternating:
		return alternate(r, d, weekIndex)
	default:
		return Off
	}
}

func alternate(r Rotation, d calendar.Date, weekIndex int) Decision {
	var on bool
	switch r.Type {
	case RotationWeekly:
		on = (weekIndex+r.Group)%2 == 0
	case RotationBiweekly:
		on = (weekIndex/2+r.Group)%2 == 0
	case RotationMonthly:
		on = (int(d.Month())+r.Group)%2 == 0
	default:
		// Alternating pattern without an alternation type carries no
		// rotation signal; degenerate to always-worked.
		on = true
	}
	if on {
		return Worked
	}
	return Off
}
