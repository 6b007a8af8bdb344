package pipeline

import (
	"math"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// recentSigningsLimit caps the recent-signings list.
const recentSigningsLimit = 10

// Options selects the reporting period of a dashboard.
type Options struct {
	Year         int
	Quarter      calendar.Quarter
	BillingMonth calendar.YearMonth
	Conventions  billing.Conventions
}

// Recalculate derives every dashboard figure from the document's live
// data. It is a pure function: the same document and options always give
// the same dashboard.
func Recalculate(doc model.Document, opts Options) model.Dashboard {
	in := FromDocument(doc, opts.Conventions)
	quarter := opts.Quarter
	if quarter == "" {
		quarter = calendar.FullYear
	}
	period := quarter.Bounds(opts.Year)
	selfUse := model.SelfUseUnits(doc.Buildings)
	target := doc.Target(opts.Year)

	d := model.Dashboard{
		Year:                  opts.Year,
		Quarter:               string(quarter),
		Buildings:             model.UnitStatusesSynced(doc.Buildings, doc.Tenants),
		TotalArea:             model.LeasableArea(doc.Buildings),
		AnnualRevenueTarget:   target.Revenue,
		AnnualOccupancyTarget: target.Occupancy,
		BillingMonth:          opts.BillingMonth.Key(),
	}

	for _, t := range doc.Tenants {
		if t.OccupiesAny(selfUse) || !t.Live() {
			continue
		}
		if !t.LeaseStart.After(period.End) && !t.EffectiveEnd().Before(period.End) {
			d.LeasedArea += t.TotalArea
		}
	}
	if d.TotalArea > 0 {
		d.OccupancyRate = round(d.LeasedArea/d.TotalArea*100, 1)
	}

	d.PeriodRevenueTarget = PeriodReceivable(in, doc.Tenants, period.Start, period.End)
	d.PeriodRevenueCollected = CollectedInPeriod(doc.Payments, period.Start, period.End)
	d.AnnualRevenueCollected = CollectedInYear(doc.Payments, opts.Year)
	d.CollectionRate = CollectionRate(d.PeriodRevenueCollected, d.PeriodRevenueTarget)

	for _, t := range doc.Tenants {
		if t.Status != model.StatusExpired && period.Contains(t.LeaseStart.Time) && len(d.RecentSignings) < recentSigningsLimit {
			d.RecentSignings = append(d.RecentSignings, t)
		}
		if t.Live() && t.LeaseEnd.Set() && period.Contains(t.LeaseEnd.Time) {
			d.ExpiringSoon = append(d.ExpiringSoon, t)
		}
	}
	d.NewContractsCount = len(d.RecentSignings)
	d.ExpiringSoonCount = len(d.ExpiringSoon)

	d.MonthlyTrends = MonthlyTrends(in, opts.Year, quarter)
	d.PrevYearMonthlyTrends = MonthlyTrends(in, opts.Year-1, calendar.FullYear)
	if opts.BillingMonth.Valid() {
		d.CurrentMonthBilling = BillingDetails(in, opts.BillingMonth)
	}
	d.ParkingStats = Parking(doc.Tenants, doc.Payments, period)
	d.Warnings = CappedContracts(in, period.End)
	return d
}

// CollectionRate is collected over target as a whole percentage, capped
// at 100 for display.
func CollectionRate(collected, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, math.Round(collected/target*100))
}

// Parking summarises parking spaces over live leases and the parking fees
// received in period.
func Parking(tenants []model.Tenant, payments []model.PaymentRecord, period calendar.Period) model.ParkingStats {
	stats := model.ParkingStats{
		TotalRevenue: ParkingInPeriod(payments, period.Start, period.End),
		Details:      []model.ParkingDetail{},
	}
	for _, t := range tenants {
		if !t.Live() {
			continue
		}
		contract, actual := t.ContractSpaces(), t.ActualSpaces()
		if contract <= 0 && actual <= 0 {
			continue
		}
		stats.TotalContractSpaces += contract
		stats.TotalActualSpaces += actual
		stats.Details = append(stats.Details, model.ParkingDetail{
			TenantID:      t.ID,
			TenantName:    t.Name,
			ContractCount: contract,
			ActualCount:   actual,
		})
	}
	return stats
}
