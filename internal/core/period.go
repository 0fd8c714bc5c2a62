package core

import (
	"fmt"
	"time"
)

const (
	PeriodDaily       PeriodKind = "daily"
	PeriodWeekly      PeriodKind = "weekly"
	PeriodMonthly     PeriodKind = "monthly"
	PeriodThreeMonths PeriodKind = "3months"
	PeriodFourMonths  PeriodKind = "4months"
	PeriodYearly      PeriodKind = "yearly"
)

// PeriodKind selects how a reference date expands into a filter range.
type PeriodKind string

func (k PeriodKind) IsValid() bool {
	switch k {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodThreeMonths, PeriodFourMonths, PeriodYearly:
		return true
	}
	return false
}

// PeriodRange computes the inclusive start/end dates for a period kind
// around a reference date. Weeks start on Sunday. The 3-month and 4-month
// kinds are look-back windows ending at the reference date, not
// calendar-aligned buckets. An unknown kind falls back to monthly; there is
// no error case.
func PeriodRange(kind PeriodKind, ref Date) (Date, Date) {
	y, m, d := ref.Time.Date()
	switch kind {
	case PeriodDaily:
		return ref, ref
	case PeriodWeekly:
		start := NewDate(y, m, d-int(ref.Time.Weekday()))
		end := NewDate(start.Time.Year(), start.Time.Month(), start.Time.Day()+6)
		return start, end
	case PeriodThreeMonths:
		return Date{Time: ref.AddDate(0, -3, 0)}, ref
	case PeriodFourMonths:
		return Date{Time: ref.AddDate(0, -4, 0)}, ref
	case PeriodYearly:
		return NewDate(y, time.January, 1), NewDate(y, time.December, 31)
	default:
		// monthly, and the fallback for unknown kinds
		return NewDate(y, m, 1), NewDate(y, m+1, 0)
	}
}

// PeriodLabel renders the display string for a period kind around a
// reference date.
func PeriodLabel(kind PeriodKind, ref Date) string {
	start, end := PeriodRange(kind, ref)
	switch kind {
	case PeriodDaily:
		return ref.Format("January 2, 2006")
	case PeriodWeekly, PeriodThreeMonths, PeriodFourMonths:
		return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	case PeriodYearly:
		return ref.Format("2006")
	default:
		return ref.Format("January 2006")
	}
}
