package pipeline

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// sumPayments adds the amounts of matching payments in decimal so that
// cent amounts entered by hand never drift.
func sumPayments(payments []model.PaymentRecord, keep func(model.PaymentRecord) bool) float64 {
	total := decimal.Zero
	for _, p := range payments {
		if keep(p) {
			total = total.Add(decimal.NewFromFloat(p.Amount))
		}
	}
	f, _ := total.Float64()
	return f
}

// CollectedInMonth sums revenue payments (rent, deposit applied to rent,
// parking) whose date starts with the YYYY-MM key.
func CollectedInMonth(payments []model.PaymentRecord, key string) float64 {
	return sumPayments(payments, func(p model.PaymentRecord) bool {
		return p.Type.CountsAsRevenue() && p.InMonth(key)
	})
}

// CollectedInPeriod sums revenue payments dated within [from, to].
func CollectedInPeriod(payments []model.PaymentRecord, from, to time.Time) float64 {
	return sumPayments(payments, func(p model.PaymentRecord) bool {
		d, ok := p.Day()
		return ok && p.Type.CountsAsRevenue() && calendar.InRange(d.Time, from, to)
	})
}

// CollectedInYear sums revenue payments dated in year.
func CollectedInYear(payments []model.PaymentRecord, year int) float64 {
	prefix := strconv.Itoa(year)
	return sumPayments(payments, func(p model.PaymentRecord) bool {
		return p.Type.CountsAsRevenue() && p.InMonth(prefix)
	})
}

// RentPaid sums the rent payments of one tenant in the YYYY-MM month.
func RentPaid(payments []model.PaymentRecord, tenantID, key string) float64 {
	return sumPayments(payments, func(p model.PaymentRecord) bool {
		return p.TenantID == tenantID && p.Type.CountsAsRent() && p.InMonth(key)
	})
}

// ParkingInPeriod sums parking fees dated within [from, to].
func ParkingInPeriod(payments []model.PaymentRecord, from, to time.Time) float64 {
	return sumPayments(payments, func(p model.PaymentRecord) bool {
		d, ok := p.Day()
		return ok && p.Type == model.PaymentParkingFee && calendar.InRange(d.Time, from, to)
	})
}

// ActualsByTenant buckets each tenant's revenue payments in year by month.
func ActualsByTenant(payments []model.PaymentRecord, year int) map[string][12]float64 {
	sums := make(map[string]*[12]decimal.Decimal)
	for _, p := range payments {
		if !p.Type.CountsAsRevenue() {
			continue
		}
		d, ok := p.Day()
		if !ok || d.Year() != year {
			continue
		}
		row, ok := sums[p.TenantID]
		if !ok {
			row = new([12]decimal.Decimal)
			sums[p.TenantID] = row
		}
		i := d.Month() - 1
		row[i] = row[i].Add(decimal.NewFromFloat(p.Amount))
	}

	out := make(map[string][12]float64, len(sums))
	for id, row := range sums {
		var months [12]float64
		for i, v := range row {
			months[i], _ = v.Float64()
		}
		out[id] = months
	}
	return out
}
