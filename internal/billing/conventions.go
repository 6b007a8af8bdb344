// Package billing turns lease contracts into dated bills and applies the
// manual overrides layered on top of them.
package billing

import (
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
)

// LeadRegularCycle makes every bill precede its coverage by one regular
// cycle instead of a fixed number of months.
const LeadRegularCycle = -1

// Conventions are the day-count and tolerance rules billing runs under.
// The zero value is not usable; start from DefaultConventions.
type Conventions struct {
	// A cycle at most this many days short of its full length bills the
	// full cycle price.
	FullCycleToleranceDays int
	// Rent-free days are deducted at monthly rent divided by this.
	RentFreeMonthDays float64
	// Converts between daily unit price and monthly rent.
	DaysPerYear float64
	// Months a bill is issued before the coverage it pays for, or
	// LeadRegularCycle.
	BillLeadMonths int
	// Hard stop on generated cycles per contract.
	MaxCycles int
	// Bills are kept from LookbackYears before a reporting period and
	// generated until coverage runs LookaheadYears past it.
	LookbackYears  int
	LookaheadYears int
	// Cycle used when a contract records neither a cycle length nor a
	// known payment cycle.
	DefaultCycleMonths int
}

// DefaultConventions returns the park's billing rules.
func DefaultConventions() Conventions {
	return Conventions{
		FullCycleToleranceDays: 5,
		RentFreeMonthDays:      30,
		DaysPerYear:            365,
		BillLeadMonths:         1,
		MaxCycles:              200,
		LookbackYears:          1,
		LookaheadYears:         2,
		DefaultCycleMonths:     3,
	}
}

// withDefaults fills zero fields so a partially populated value from a
// config file still behaves.
func (c Conventions) withDefaults() Conventions {
	d := DefaultConventions()
	if c.RentFreeMonthDays <= 0 {
		c.RentFreeMonthDays = d.RentFreeMonthDays
	}
	if c.DaysPerYear <= 0 {
		c.DaysPerYear = d.DaysPerYear
	}
	if c.MaxCycles <= 0 {
		c.MaxCycles = d.MaxCycles
	}
	if c.LookbackYears <= 0 {
		c.LookbackYears = d.LookbackYears
	}
	if c.LookaheadYears <= 0 {
		c.LookaheadYears = d.LookaheadYears
	}
	if c.DefaultCycleMonths <= 0 {
		c.DefaultCycleMonths = d.DefaultCycleMonths
	}
	if c.FullCycleToleranceDays < 0 {
		c.FullCycleToleranceDays = 0
	}
	if c.BillLeadMonths < LeadRegularCycle {
		c.BillLeadMonths = d.BillLeadMonths
	}
	return c
}

// Window is the span of bill dates kept around the reporting period
// [from, to].
func (c Conventions) Window(from, to time.Time) calendar.Period {
	c = c.withDefaults()
	return calendar.Period{
		Start: calendar.Day(from).AddDate(-c.LookbackYears, 0, 0),
		End:   calendar.Day(to).AddDate(c.LookaheadYears, 0, 0),
	}
}

// leadFor resolves the bill lead for a contract with the given regular
// cycle.
func (c Conventions) leadFor(regularCycle int) int {
	if c.BillLeadMonths == LeadRegularCycle {
		return regularCycle
	}
	return c.BillLeadMonths
}

// MonthlyRent converts a daily unit price over an area.
func (c Conventions) MonthlyRent(unitPrice, area float64) float64 {
	c = c.withDefaults()
	return unitPrice * area * c.DaysPerYear / 12
}
