package billing

import (
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// ApplyShift moves a payment shift's amount from its origin month to its
// destination month. Inactive or nil shifts leave the bills unchanged. The
// input slice is never modified.
func ApplyShift(bills []Bill, shift *model.PaymentShift) []Bill {
	out := cloneBills(bills)
	if shift == nil || !shift.Active || shift.Amount <= 0 {
		return out
	}
	return relocate(out, shift.From, shift.To, shift.Amount)
}

// ApplyAdjustments applies every adjustment for tenantID in list order.
// Each one takes its amount out of the origin month (never below zero) and
// adds the full amount as a bill on the first day of the destination
// month. The input slice is never modified.
func ApplyAdjustments(bills []Bill, tenantID string, adjustments []model.Adjustment) []Bill {
	out := cloneBills(bills)
	for _, adj := range adjustments {
		if adj.TenantID != tenantID || adj.Amount <= 0 {
			continue
		}
		if !adj.Original.Valid() || !adj.Adjusted.Valid() {
			continue
		}
		out = relocate(out, adj.Original, adj.Adjusted, adj.Amount)
	}
	return out
}

// relocate subtracts amount, rounded to a whole currency unit, from the
// bills dated in from, in order, and appends a relocated bill of the same
// rounded amount in to. Bills emptied by the subtraction are dropped.
func relocate(bills []Bill, from, to calendar.YearMonth, amount float64) []Bill {
	amount = RoundCurrency(amount)
	if amount <= 0 {
		return bills
	}
	remaining := amount
	for i := range bills {
		if remaining <= 0 {
			break
		}
		if calendar.MonthOf(bills[i].Date) != from {
			continue
		}
		take := remaining
		if bills[i].Amount < take {
			take = bills[i].Amount
		}
		bills[i].Amount -= take
		remaining -= take
	}

	kept := bills[:0]
	for _, b := range bills {
		if b.Amount > 0 {
			kept = append(kept, b)
		}
	}
	return append(kept, Bill{
		Date:         to.Start(),
		Amount:       amount,
		OriginalDate: from.Start(),
	})
}

func cloneBills(in []Bill) []Bill {
	out := make([]Bill, len(in))
	copy(out, in)
	return out
}
