package pipeline

import (
	"fmt"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// BillingDetails compares each live tenant's receivable for the month
// with the rent paid in it. Terminated, expired and self-use tenants are
// skipped, as are rows with nothing due and nothing paid.
func BillingDetails(in Input, month calendar.YearMonth) []model.BillingDetail {
	selfUse := model.SelfUseUnits(in.Buildings)
	var out []model.BillingDetail
	for _, t := range in.Tenants {
		if t.OccupiesAny(selfUse) || !t.Live() {
			continue
		}
		due := PeriodReceivable(in, []model.Tenant{t}, month.Start(), month.End())
		paid := RentPaid(in.Payments, t.ID, month.Key())
		if due == 0 && paid == 0 {
			continue
		}
		out = append(out, model.BillingDetail{
			TenantID:   t.ID,
			TenantName: t.Name,
			UnitIDs:    t.UnitIDs,
			AmountDue:  due,
			AmountPaid: paid,
			Status:     BillingStatusFor(due, paid),
		})
	}
	return out
}

// BillingStatusFor classifies a month: paid in full (or paid with nothing
// due), partially paid, or unpaid.
func BillingStatusFor(due, paid float64) model.BillingStatus {
	switch {
	case due > 0 && paid >= due:
		return model.BillPaid
	case paid > 0 && paid < due:
		return model.BillPartial
	case due == 0 && paid > 0:
		return model.BillPaid
	}
	return model.BillUnpaid
}

// CollectionDay is the day of the month confirmed collections are dated,
// so they always land inside the receivable month.
const CollectionDay = 15

// Collect returns payments plus a rent payment settling what remains of
// detail for the month. It returns payments unchanged when nothing is
// outstanding.
func Collect(payments []model.PaymentRecord, detail model.BillingDetail, month calendar.YearMonth, id string) ([]model.PaymentRecord, bool) {
	out := append([]model.PaymentRecord{}, payments...)
	amount := detail.Outstanding()
	if amount <= 0 {
		return out, false
	}
	return append(out, model.PaymentRecord{
		ID:         id,
		TenantID:   detail.TenantID,
		TenantName: detail.TenantName,
		Amount:     amount,
		Type:       model.PaymentRent,
		Date:       fmt.Sprintf("%s-%02d", month.Key(), CollectionDay),
		Status:     "Received",
		Remarks:    fmt.Sprintf("[%s] monthly bill collected", month.Key()),
	}), true
}

// Revoke removes the tenant's rent payments dated in month and returns
// the remaining payments together with the removed ones.
func Revoke(payments []model.PaymentRecord, tenantID string, month calendar.YearMonth) (kept, removed []model.PaymentRecord) {
	key := month.Key()
	kept = make([]model.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if p.TenantID == tenantID && p.Type.CountsAsRent() && p.InMonth(key) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, removed
}
