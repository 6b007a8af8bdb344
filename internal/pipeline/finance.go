package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// AnnualComparison lines up the revenue target, collected revenue and
// year-end occupancy of the year before year, year itself and the year
// after. Revenue growth is left nil when the previous year collected
// nothing; occupancy growth is in percentage points.
func AnnualComparison(doc model.Document, year int) []model.AnnualComparison {
	out := make([]model.AnnualComparison, 0, 3)
	for y := year - 1; y <= year+1; y++ {
		target := doc.Target(y)
		c := model.AnnualComparison{
			Year:          y,
			RevenueTarget: target.Revenue,
			RevenueActual: CollectedInYear(doc.Payments, y),
			OccupancyRate: YearEndOccupancy(doc.Buildings, doc.Tenants, y),
		}
		if target.Revenue > 0 {
			c.CompletionRate = c.RevenueActual / target.Revenue * 100
		}
		if n := len(out); n > 0 {
			prev := out[n-1]
			if prev.RevenueActual > 0 {
				yoy := (c.RevenueActual - prev.RevenueActual) / prev.RevenueActual * 100
				c.RevenueYoY = &yoy
			}
			occ := round(c.OccupancyRate-prev.OccupancyRate, 1)
			c.OccupancyYoY = &occ
		}
		out = append(out, c)
	}
	return out
}

// YearEndOccupancy is the share of leasable area held on December 31st
// of year by live leases, in percent to one decimal.
func YearEndOccupancy(buildings []model.Building, tenants []model.Tenant, year int) float64 {
	leasable := model.LeasableArea(buildings)
	if leasable <= 0 {
		return 0
	}
	selfUse := model.SelfUseUnits(buildings)
	yearEnd := calendar.YearEnd(year)

	var leased float64
	for _, t := range tenants {
		if !t.Live() || t.OccupiesAny(selfUse) || !t.LeaseStart.Set() {
			continue
		}
		if !t.LeaseStart.After(yearEnd) && !t.EffectiveEnd().Before(yearEnd) {
			leased += t.TotalArea
		}
	}
	return round(leased/leasable*100, 1)
}

// DepositPool totals deposits received, refunded and applied to rent, the
// deposits still owed by tenants and the terminated leases still waiting
// for their deposit back. Refunds count by absolute value whichever sign
// they were entered with.
func DepositPool(tenants []model.Tenant, payments []model.PaymentRecord) model.DepositPool {
	var received, refunded, deducted decimal.Decimal
	for _, p := range payments {
		amount := decimal.NewFromFloat(p.Amount)
		switch p.Type {
		case model.PaymentDeposit:
			received = received.Add(amount)
		case model.PaymentDepositRefund:
			refunded = refunded.Add(amount.Abs())
		case model.PaymentDepositToRent:
			deducted = deducted.Add(amount)
		}
	}

	pool := model.DepositPool{PendingRefund: []model.DepositHolder{}}
	pool.Received, _ = received.Float64()
	pool.Refunded, _ = refunded.Float64()
	pool.Deducted, _ = deducted.Float64()
	pool.Balance, _ = received.Sub(refunded).Sub(deducted).Float64()

	for _, t := range tenants {
		if t.DepositAmount <= 0 {
			continue
		}
		if t.DepositStatus == model.DepositUnpaid {
			pool.Receivable += t.DepositAmount
		}
		if t.Status == model.StatusTerminated && !t.DepositStatus.Settled() {
			pool.PendingRefund = append(pool.PendingRefund, model.DepositHolder{
				TenantID:   t.ID,
				TenantName: t.Name,
				Amount:     t.DepositAmount,
				Status:     t.DepositStatus,
			})
			pool.PendingRefundTotal += t.DepositAmount
		}
	}
	return pool
}

// DepositAction is how a held deposit is settled.
type DepositAction string

const (
	DepositRefund DepositAction = "refund"
	DepositDeduct DepositAction = "deduct"
)

// SettleDeposit records t's whole deposit as refunded or applied to rent
// on day. A refund is stored as a negative DepositRefund payment and a
// deduction as a DepositToRent payment, which counts as collected rent.
// ok is false when t has no deposit or it is already settled; the inputs
// are then returned unchanged.
func SettleDeposit(payments []model.PaymentRecord, t model.Tenant, action DepositAction, day time.Time, id string) ([]model.PaymentRecord, model.Tenant, bool) {
	if t.DepositAmount <= 0 || t.DepositStatus.Settled() {
		return payments, t, false
	}

	p := model.PaymentRecord{
		ID:         id,
		TenantID:   t.ID,
		TenantName: t.Name,
		Date:       calendar.Format(day),
		Status:     "Received",
	}
	switch action {
	case DepositRefund:
		p.Type, p.Amount, p.Remarks = model.PaymentDepositRefund, -t.DepositAmount, "Deposit refund"
		t.DepositStatus = model.DepositRefunded
	case DepositDeduct:
		p.Type, p.Amount, p.Remarks = model.PaymentDepositToRent, t.DepositAmount, "Deposit applied to rent"
		t.DepositStatus = model.DepositDeducted
	default:
		return payments, t, false
	}

	out := make([]model.PaymentRecord, 0, len(payments)+1)
	out = append(out, payments...)
	return append(out, p), t, true
}
