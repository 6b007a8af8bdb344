// Package calendar provides civil-date arithmetic for lease billing.
//
// Every date is a calendar day at 00:00 UTC. Helpers normalise their inputs
// so callers can pass any time.Time without worrying about clock components
// or zones.
package calendar

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Layout is the wire format for dates.
const Layout = "2006-01-02"

// RentFreeDisplayThreshold is the number of rent-free days a month must
// exceed before a status view labels it rent-free. Billing is unaffected.
const RentFreeDisplayThreshold = 15

const day = 24 * time.Hour

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New builds a date from its components; month is 1-based like time.Month.
func New(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD date. RFC3339 timestamps are accepted and
// truncated to their day.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders t as YYYY-MM-DD, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// MonthKey renders the YYYY-MM prefix used to match payment dates.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// DaysBetweenInclusive counts the calendar days from start to end with both
// ends included. Order does not matter.
func DaysBetweenInclusive(start, end time.Time) int {
	diff := Day(end).Sub(Day(start))
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff)/float64(day))) + 1
}

// OverlapDays counts the days shared by [aStart, aEnd] and [bStart, bEnd],
// both inclusive. Disjoint or inverted ranges share zero days.
func OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := Later(Day(aStart), Day(bStart))
	end := Earlier(Day(aEnd), Day(bEnd))
	if start.After(end) {
		return 0
	}
	return DaysBetweenInclusive(start, end)
}

// AddMonths moves t by n calendar months. A day that does not exist in the
// target month rolls forward into the next one (Jan 31 + 1 = Mar 2 or 3).
func AddMonths(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, n, 0)
}

// AddDays moves t by n days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// MonthStart is the first day of the month.
func MonthStart(year int, month time.Month) time.Time {
	return New(year, month, 1)
}

// MonthEnd is the last day of the month.
func MonthEnd(year int, month time.Month) time.Time {
	return New(year, month+1, 0)
}

// YearStart is January 1st of year.
func YearStart(year int) time.Time { return New(year, time.January, 1) }

// YearEnd is December 31st of year.
func YearEnd(year int) time.Time { return New(year, time.December, 31) }

// Earlier returns the earlier of a and b.
func Earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Later returns the later of a and b.
func Later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// InRange reports whether t falls within [from, to] by calendar day.
func InRange(t, from, to time.Time) bool {
	d := Day(t)
	return !d.Before(Day(from)) && !d.After(Day(to))
}

// Period is an inclusive date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// Days is the inclusive length of the period.
func (p Period) Days() int { return DaysBetweenInclusive(p.Start, p.End) }

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool { return InRange(t, p.Start, p.End) }

// Overlap counts the days shared with another range.
func (p Period) Overlap(start, end time.Time) int {
	return OverlapDays(p.Start, p.End, start, end)
}

// MonthPeriod is the whole of one calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: MonthStart(year, month), End: MonthEnd(year, month)}
}

// IsRentFreeMonth reports whether the rent-free ranges cover more than
// RentFreeDisplayThreshold days of the month.
func IsRentFreeMonth(month Period, ranges []Period) bool {
	free := 0
	for _, r := range ranges {
		free += month.Overlap(r.Start, r.End)
	}
	return free > RentFreeDisplayThreshold
}
