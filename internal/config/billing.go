package config

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/rentroll/internal/billing"
)

// BillingConfig overrides individual billing conventions. Unset fields keep
// the built-in values.
type BillingConfig struct {
	FullCycleToleranceDays *int     `toml:"full_cycle_tolerance_days,omitempty"`
	RentFreeMonthDays      *float64 `toml:"rent_free_month_days,omitempty"`
	DaysPerYear            *float64 `toml:"days_per_year,omitempty"`
	// BillLeadMonths is a month count, or "cycle" to bill one regular
	// cycle ahead.
	BillLeadMonths     string `toml:"bill_lead_months,omitempty"`
	MaxCycles          *int   `toml:"max_cycles,omitempty"`
	LookbackYears      *int   `toml:"lookback_years,omitempty"`
	LookaheadYears     *int   `toml:"lookahead_years,omitempty"`
	DefaultCycleMonths *int   `toml:"default_cycle_months,omitempty"`
}

// LeadCycle is the BillLeadMonths value for billing one regular cycle
// ahead of coverage.
const LeadCycle = "cycle"

// Conventions returns the billing conventions with cfg's overrides applied.
func Conventions(cfg Config) (billing.Conventions, error) {
	c := billing.DefaultConventions()
	o := cfg.Billing

	if o.FullCycleToleranceDays != nil {
		c.FullCycleToleranceDays = *o.FullCycleToleranceDays
	}
	if o.RentFreeMonthDays != nil {
		c.RentFreeMonthDays = *o.RentFreeMonthDays
	}
	if o.DaysPerYear != nil {
		c.DaysPerYear = *o.DaysPerYear
	}
	if o.MaxCycles != nil {
		c.MaxCycles = *o.MaxCycles
	}
	if o.LookbackYears != nil {
		c.LookbackYears = *o.LookbackYears
	}
	if o.LookaheadYears != nil {
		c.LookaheadYears = *o.LookaheadYears
	}
	if o.DefaultCycleMonths != nil {
		c.DefaultCycleMonths = *o.DefaultCycleMonths
	}

	switch o.BillLeadMonths {
	case "":
	case LeadCycle:
		c.BillLeadMonths = billing.LeadRegularCycle
	default:
		n, err := parseMonths(o.BillLeadMonths)
		if err != nil {
			return c, err
		}
		c.BillLeadMonths = n
	}
	return c, nil
}

func parseMonths(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("billing.bill_lead_months: want a month count or %q, got %q", LeadCycle, s)
	}
	return n, nil
}
