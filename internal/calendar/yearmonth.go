package calendar

import (
	"fmt"
	"time"
)

// YearMonth names one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth reads "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return MonthOf(t), nil
}

// Start is the first day of the month.
func (ym YearMonth) Start() time.Time { return MonthStart(ym.Year, ym.Month) }

// End is the last day of the month.
func (ym YearMonth) End() time.Time { return MonthEnd(ym.Year, ym.Month) }

// Period covers the whole month.
func (ym YearMonth) Period() Period { return MonthPeriod(ym.Year, ym.Month) }

// Key renders YYYY-MM.
func (ym YearMonth) Key() string { return MonthKey(ym.Year, ym.Month) }

// Next is the following month, wrapping into the next year after December.
func (ym YearMonth) Next() YearMonth { return MonthOf(AddMonths(ym.Start(), 1)) }

// Prev is the preceding month.
func (ym YearMonth) Prev() YearMonth { return MonthOf(AddMonths(ym.Start(), -1)) }

// Index is the zero-based month number (January = 0).
func (ym YearMonth) Index() int { return int(ym.Month) - 1 }

// FromIndex builds a YearMonth from a zero-based month number.
func FromIndex(year, index int) YearMonth {
	return YearMonth{Year: year, Month: time.Month(index + 1)}
}

// Valid reports whether the month number is in 1..12.
func (ym YearMonth) Valid() bool {
	return ym.Month >= time.January && ym.Month <= time.December
}

func (ym YearMonth) String() string { return ym.Key() }
