// Package pipeline aggregates lease bills and payments into receivable,
// occupancy and collection metrics.
//
// Every function is a pure function of its inputs: nothing here mutates a
// tenant, assumption or payment slice, and nothing reads the clock.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// Input is the data a computation runs over: base data plus the budget
// book (assumptions and adjustments) of one scenario.
type Input struct {
	Buildings   []model.Building
	Tenants     []model.Tenant
	Payments    []model.PaymentRecord
	Assumptions model.AssumptionList
	Adjustments []model.Adjustment
	Conventions billing.Conventions
}

// FromDocument builds an Input over the document's live data.
func FromDocument(doc model.Document, conv billing.Conventions) Input {
	return Input{
		Buildings:   doc.Buildings,
		Tenants:     doc.Tenants,
		Payments:    doc.Payments,
		Assumptions: doc.BudgetAssumptions,
		Adjustments: doc.BudgetAdjustments,
		Conventions: conv,
	}
}

// TenantBills generates t's bills around the reporting period [from, to]
// with every override applied: the price adjustment and payment shift of
// its running-contract assumption, then all of its adjustments. Only bills
// dated inside the conventions' window around the period are returned;
// overrides are applied before trimming so amounts moved out of earlier
// months are still taken from them.
func TenantBills(in Input, t model.Tenant, from, to time.Time) billing.Schedule {
	c := billing.ContractFromTenant(t, in.Conventions)
	existing, hasExisting := in.Assumptions.Existing(t.ID)
	if hasExisting {
		c = c.WithPriceAdjustment(existing.PriceAdjustment)
	}

	s := billing.Generate(c, to, in.Conventions)
	bills := s.Bills
	if hasExisting {
		bills = billing.ApplyShift(bills, existing.PaymentShift)
	}
	bills = billing.ApplyAdjustments(bills, t.ID, in.Adjustments)

	window := in.Conventions.Window(from, to)
	return billing.Schedule{Bills: billing.InRange(bills, window.Start, window.End), Capped: s.Capped}
}

// PeriodReceivable sums the bills of tenants dated within [from, to],
// rounded to a whole unit. Tenants on self-use units owe nothing.
func PeriodReceivable(in Input, tenants []model.Tenant, from, to time.Time) float64 {
	selfUse := model.SelfUseUnits(in.Buildings)
	var total float64
	for _, t := range tenants {
		if t.OccupiesAny(selfUse) {
			continue
		}
		s := TenantBills(in, t, from, to)
		total += billing.Total(billing.InRange(s.Bills, from, to))
	}
	return billing.RoundCurrency(total)
}

// CappedContracts lists tenants whose schedule hit the cycle cap when
// generated up to horizon. Their receivables are incomplete.
func CappedContracts(in Input, horizon time.Time) []string {
	var out []string
	for _, t := range in.Tenants {
		c := billing.ContractFromTenant(t, in.Conventions)
		if billing.Generate(c, horizon, in.Conventions).Capped {
			out = append(out, fmt.Sprintf("%s (%s): billing schedule truncated at %d cycles", t.Name, t.ID, in.Conventions.MaxCycles))
		}
	}
	return out
}

// MonthlyTrends computes one trend point per month of the quarter.
func MonthlyTrends(in Input, year int, quarter calendar.Quarter) []model.MonthlyTrend {
	leasable := model.LeasableArea(in.Buildings)
	selfUse := model.SelfUseUnits(in.Buildings)
	dpy := daysPerYear(in.Conventions)

	first, last := quarter.Months()
	trends := make([]model.MonthlyTrend, 0, int(last-first)+1)
	for m := first; m <= last; m++ {
		month := calendar.MonthPeriod(year, m)

		var leased, rentSum float64
		for _, t := range in.Tenants {
			if t.OccupiesAny(selfUse) || !t.ActiveDuring(month.Start, month.End) {
				continue
			}
			leased += t.TotalArea
			rentSum += t.DailyUnitPrice(dpy) * t.TotalArea
		}

		trend := model.MonthlyTrend{
			Month:            int(m),
			Label:            m.String()[:3],
			RevenueCollected: CollectedInMonth(in.Payments, calendar.MonthKey(year, m)),
			RevenueTarget:    PeriodReceivable(in, in.Tenants, month.Start, month.End),
		}
		if leasable > 0 {
			trend.OccupancyRate = round(leased/leasable*100, 1)
		}
		if leased > 0 {
			trend.AvgUnitPrice = round(rentSum/leased, 2)
		}
		trends = append(trends, trend)
	}
	return trends
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
