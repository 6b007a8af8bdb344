package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Quarter selects a reporting window inside a year.
type Quarter string

const (
	FullYear Quarter = "All"
	Q1       Quarter = "Q1"
	Q2       Quarter = "Q2"
	Q3       Quarter = "Q3"
	Q4       Quarter = "Q4"
)

// ParseQuarter accepts all, q1..q4 in any case. Empty means the full year.
func ParseQuarter(s string) (Quarter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return FullYear, nil
	case "Q1", "1":
		return Q1, nil
	case "Q2", "2":
		return Q2, nil
	case "Q3", "3":
		return Q3, nil
	case "Q4", "4":
		return Q4, nil
	}
	return FullYear, fmt.Errorf("invalid quarter %q (want all, q1, q2, q3 or q4)", s)
}

// Months returns the first and last month of the quarter.
func (q Quarter) Months() (first, last time.Month) {
	switch q {
	case Q1:
		return time.January, time.March
	case Q2:
		return time.April, time.June
	case Q3:
		return time.July, time.September
	case Q4:
		return time.October, time.December
	}
	return time.January, time.December
}

// Bounds is the date range the quarter covers in year.
func (q Quarter) Bounds(year int) Period {
	first, last := q.Months()
	return Period{Start: MonthStart(year, first), End: MonthEnd(year, last)}
}

// Label is the human-readable name of the window.
func (q Quarter) Label() string {
	if q == FullYear || q == "" {
		return "Full year"
	}
	return string(q)
}
