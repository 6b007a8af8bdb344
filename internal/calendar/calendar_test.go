package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetweenInclusive(t *testing.T) {
	assert.Equal(t, 1, DaysBetweenInclusive(MustParse("2024-01-01"), MustParse("2024-01-01")))
	assert.Equal(t, 31, DaysBetweenInclusive(MustParse("2024-01-01"), MustParse("2024-01-31")))
	assert.Equal(t, 91, DaysBetweenInclusive(MustParse("2024-01-01"), MustParse("2024-03-31")))
	assert.Equal(t, 366, DaysBetweenInclusive(MustParse("2024-01-01"), MustParse("2024-12-31")))
	// order-insensitive
	assert.Equal(t, 31, DaysBetweenInclusive(MustParse("2024-01-31"), MustParse("2024-01-01")))
}

func TestOverlapDays(t *testing.T) {
	a, b := MustParse("2024-01-01"), MustParse("2024-03-31")

	assert.Equal(t, 31, OverlapDays(a, b, MustParse("2024-01-01"), MustParse("2024-01-31")))
	assert.Equal(t, 10, OverlapDays(a, b, MustParse("2024-03-22"), MustParse("2024-05-01")))
	assert.Equal(t, 0, OverlapDays(a, b, MustParse("2024-04-01"), MustParse("2024-05-01")))
	assert.Equal(t, 0, OverlapDays(a, b, MustParse("2024-02-10"), MustParse("2024-02-01")), "inverted range")
	assert.Equal(t, 1, OverlapDays(a, b, MustParse("2024-03-31"), MustParse("2024-04-30")), "touching end")
}

func TestAddMonthsRollsOverflowForward(t *testing.T) {
	assert.Equal(t, MustParse("2023-12-01"), AddMonths(MustParse("2024-01-01"), -1))
	assert.Equal(t, MustParse("2024-04-01"), AddMonths(MustParse("2024-01-01"), 3))
	assert.Equal(t, MustParse("2024-03-02"), AddMonths(MustParse("2024-01-31"), 1))
	assert.Equal(t, MustParse("2023-03-03"), AddMonths(MustParse("2023-01-31"), 1))
}

func TestMonthBounds(t *testing.T) {
	assert.Equal(t, MustParse("2024-02-29"), MonthEnd(2024, time.February))
	assert.Equal(t, MustParse("2023-02-28"), MonthEnd(2023, time.February))
	assert.Equal(t, MustParse("2024-12-31"), MonthEnd(2024, time.December))
	assert.Equal(t, "2024-07", MonthKey(2024, time.July))
}

func TestParseAcceptsTimestamps(t *testing.T) {
	got, err := Parse("2024-05-06T13:45:00Z")
	require.NoError(t, err)
	assert.Equal(t, MustParse("2024-05-06"), got)

	_, err = Parse("06/05/2024")
	assert.Error(t, err)
}

func TestQuarterBounds(t *testing.T) {
	p := Q2.Bounds(2024)
	assert.Equal(t, MustParse("2024-04-01"), p.Start)
	assert.Equal(t, MustParse("2024-06-30"), p.End)

	p = FullYear.Bounds(2024)
	assert.Equal(t, YearStart(2024), p.Start)
	assert.Equal(t, YearEnd(2024), p.End)

	q, err := ParseQuarter("q3")
	require.NoError(t, err)
	assert.Equal(t, Q3, q)
	_, err = ParseQuarter("q5")
	assert.Error(t, err)
}

func TestIsRentFreeMonth(t *testing.T) {
	jan := MonthPeriod(2024, time.January)
	free := []Period{{Start: MustParse("2024-01-01"), End: MustParse("2024-01-15")}}
	assert.False(t, IsRentFreeMonth(jan, free), "exactly 15 days is not enough")

	free[0].End = MustParse("2024-01-16")
	assert.True(t, IsRentFreeMonth(jan, free))
}

func TestDateJSON(t *testing.T) {
	type rec struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
	var r rec
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-01-05","end":""}`), &r))
	assert.Equal(t, MustParse("2024-01-05"), r.Start.Time)
	assert.False(t, r.End.Set())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-01-05","end":""}`, string(out))
}
