package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// VacantUnitName labels budget rows for units with no lease.
const VacantUnitName = "Vacant unit"

// BudgetRows lays out the year's budgeted receivable per tenant and per
// vacant unit, sorted by area, largest first.
//
// A tenant's row starts from its own bills (running-contract price
// adjustment and payment shift applied). At-risk tenants take their risk
// termination assumption and tenants expiring in year take their renewal
// slot; either adds a projected one-year lease from the stream start.
// Adjustments are applied last. Vacant units with a vacancy assumption
// get a projected lease from the sign date.
func BudgetRows(in Input, year int) []model.BudgetRow {
	horizon := calendar.YearEnd(year)
	var rows []model.BudgetRow

	for _, t := range in.Tenants {
		if t.Status == model.StatusTerminated {
			continue
		}
		if row, ok := tenantRow(in, t, year, horizon); ok {
			rows = append(rows, row)
		}
	}
	for _, ref := range VacantUnits(in.Buildings, in.Tenants) {
		rows = append(rows, vacantRow(in, ref, year, horizon))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Area > rows[j].Area })
	return rows
}

func tenantRow(in Input, t model.Tenant, year int, horizon time.Time) (model.BudgetRow, bool) {
	slot := model.TargetExisting
	expiring := t.LeaseEnd.Set() && t.LeaseEnd.Year() == year
	switch {
	case t.IsRisk:
		slot = model.TargetRiskTermination
	case expiring:
		slot = model.TargetRenewal
	}
	assumption, hasAssumption := in.Assumptions.Find(t.ID, slot)
	existing, hasExisting := in.Assumptions.Existing(t.ID)

	category := model.CategoryExisting
	contract := billing.ContractFromTenant(t, in.Conventions)
	if risk, ok := assumption.(model.RiskTerminationAssumption); ok && t.IsRisk && risk.TerminationDate.Set() {
		category = model.CategoryRisk
		contract = contract.WithEnd(risk.TerminationDate.Time)
	} else if expiring && !t.IsRisk {
		category = model.CategoryRenewal
		if hasAssumption && assumption.Kind() == model.KindReLease {
			category = model.CategoryReLease
		}
	}
	if hasExisting {
		contract = contract.WithPriceAdjustment(existing.PriceAdjustment)
	}

	bills := billing.Generate(contract, horizon, in.Conventions).Bills
	if hasExisting {
		bills = billing.ApplyShift(bills, existing.PaymentShift)
	}
	statuses := billing.Statuses(contract, year)

	if hasAssumption && slot != model.TargetExisting {
		if start, ok := billing.StreamStart(t, assumption); ok {
			proj, _ := billing.ProjectionOf(assumption)
			stream := billing.SyntheticContract(t.ID, start, t.TotalArea, proj, in.Conventions)
			bills = append(bills, billing.Generate(stream, horizon, in.Conventions).Bills...)
			statuses = billing.MergeStatuses(statuses, billing.Statuses(stream, year), year, contract.End, start)
		}
	}
	bills = billing.ApplyAdjustments(bills, t.ID, in.Adjustments)

	row := model.BudgetRow{
		ID:        t.ID,
		Name:      t.Name,
		Units:     strings.Join(model.UnitNames(in.Buildings, t), ", "),
		Area:      t.TotalArea,
		UnitPrice: round(t.DailyUnitPrice(daysPerYear(in.Conventions)), 2),
		Category:  category,
		Months:    billing.Slots(bills, statuses, year),
	}
	if b, ok := model.FindBuilding(in.Buildings, t.BuildingID); ok {
		row.Building = b.Name
	}

	for _, m := range row.Months {
		if m.Amount > 0 || m.Status != model.MonthVacant {
			return row, true
		}
	}
	return row, false
}

func vacantRow(in Input, ref model.UnitRef, year int, horizon time.Time) model.BudgetRow {
	row := model.BudgetRow{
		ID:       ref.Unit.ID,
		Name:     VacantUnitName,
		Building: ref.Building.Name,
		Units:    ref.Unit.Name,
		Area:     ref.Unit.Area,
		Category: model.CategoryVacancy,
		Months:   model.VacantYear(),
		Vacant:   true,
	}
	a, ok := in.Assumptions.Find(ref.Unit.ID, model.TargetVacancy)
	if !ok {
		return row
	}
	proj, _ := billing.ProjectionOf(a)
	start, ok := billing.StreamStart(model.Tenant{}, a)
	if !ok {
		return row
	}
	stream := billing.SyntheticContract(ref.Unit.ID, start, ref.Unit.Area, proj, in.Conventions)
	bills := billing.Generate(stream, horizon, in.Conventions).Bills
	row.UnitPrice = proj.UnitPrice
	row.Months = billing.Slots(bills, billing.Statuses(stream, year), year)
	return row
}

// VacantUnits lists the units no active lease holds, excluding self-use
// units and units recorded as occupied.
func VacantUnits(buildings []model.Building, tenants []model.Tenant) []model.UnitRef {
	var out []model.UnitRef
	for _, b := range buildings {
		for _, u := range b.Units {
			if u.IsSelfUse || u.Status == model.UnitOccupied {
				continue
			}
			held := false
			for _, t := range tenants {
				if t.Status == model.StatusActive && t.HasUnit(u.ID) {
					held = true
					break
				}
			}
			if !held {
				out = append(out, model.UnitRef{Building: b, Unit: u})
			}
		}
	}
	return out
}

// ColumnTotals sums the rows month by month.
func ColumnTotals(rows []model.BudgetRow) [12]float64 {
	var totals [12]float64
	for _, r := range rows {
		for i, m := range r.Months {
			totals[i] += m.Amount
		}
	}
	return totals
}

// OccupancyByMonth is the share of leasable area let in each month, in
// percent.
func OccupancyByMonth(rows []model.BudgetRow, leasable float64) [12]float64 {
	var out [12]float64
	if leasable <= 0 {
		return out
	}
	for _, r := range rows {
		for i, m := range r.Months {
			if m.Status.Occupied() {
				out[i] += r.Area
			}
		}
	}
	for i := range out {
		out[i] = round(out[i]/leasable*100, 1)
	}
	return out
}

// YearMetrics summarises the budget for year: total revenue, average
// occupancy over twelve months and average daily price per let square
// metre on a 30-day month.
func YearMetrics(in Input, year int) model.YearMetrics {
	rows := BudgetRows(in, year)
	leasable := model.LeasableArea(in.Buildings)

	m := model.YearMetrics{Year: year}
	var areaMonths float64
	for _, r := range rows {
		for _, slot := range r.Months {
			m.TotalRevenue += slot.Amount
			if slot.Status.Occupied() {
				areaMonths += r.Area
			}
		}
	}
	if leasable > 0 {
		m.AvgOccupancy = areaMonths / (leasable * 12) * 100
	}
	if areaMonths > 0 {
		m.AvgPrice = m.TotalRevenue / (areaMonths * 30)
	}
	return m
}

// ComparativeTrend is YearMetrics for the two years either side of year.
func ComparativeTrend(in Input, year int) []model.YearMetrics {
	years := make([]int, 0, 5)
	for y := year - 2; y <= year+2; y++ {
		years = append(years, y)
	}
	return YearRange(in, years, nil)
}

// Impact splits the year's budget by the category that produced it.
func Impact(rows []model.BudgetRow, year int) model.ImpactSummary {
	s := model.ImpactSummary{Year: year}
	for _, r := range rows {
		total := r.Total()
		switch r.Category {
		case model.CategoryVacancy:
			s.VacancyFill += total
		case model.CategoryRenewal:
			s.Renewal += total
		case model.CategoryReLease:
			s.ReLease += total
		case model.CategoryRisk:
			s.RiskReLease += total
		default:
			s.ExistingTotal += total
		}
	}
	return s
}

func daysPerYear(conv billing.Conventions) float64 {
	if conv.DaysPerYear > 0 {
		return conv.DaysPerYear
	}
	return billing.DefaultConventions().DaysPerYear
}
