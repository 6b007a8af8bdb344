package billing

import (
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// StreamMonths is the length of a projected lease.
const StreamMonths = 12

// streamCycleMonths is the cycle projected leases are billed on.
const streamCycleMonths = 3

// StreamStart is the day a projected lease begins under assumption a.
// Renewals and vacancy fills start on the projected sign date. Re-leases
// and risk terminations start the day after the outgoing lease ends plus
// the gap months, where a risk termination ends on its projected date.
// ok is false when a implies no new lease.
func StreamStart(t model.Tenant, a model.Assumption) (start time.Time, ok bool) {
	leaseEnd := model.DefaultLeaseEnd
	if t.LeaseEnd.Set() {
		leaseEnd = t.LeaseEnd.Time
	}
	switch v := a.(type) {
	case model.VacancyAssumption:
		return v.SignDate.Time, v.SignDate.Set()
	case model.RenewalAssumption:
		return v.SignDate.Time, v.SignDate.Set()
	case model.ReLeaseAssumption:
		return calendar.AddDays(calendar.AddMonths(leaseEnd, v.GapMonths), 1), true
	case model.RiskTerminationAssumption:
		base := leaseEnd
		if v.TerminationDate.Set() {
			base = v.TerminationDate.Time
		}
		return calendar.AddDays(calendar.AddMonths(base, v.GapMonths), 1), true
	}
	return time.Time{}, false
}

// ProjectionOf extracts the projected terms from a, if it has any.
func ProjectionOf(a model.Assumption) (model.Projection, bool) {
	switch v := a.(type) {
	case model.VacancyAssumption:
		return v.Projection, true
	case model.RenewalAssumption:
		return v.Projection, true
	case model.ReLeaseAssumption:
		return v.Projection, true
	case model.RiskTerminationAssumption:
		return v.Projection, true
	}
	return model.Projection{}, false
}

// SyntheticContract is a projected one-year lease from start over area:
// quarterly, billed on the first day of each quarter it covers, at the
// projected unit price, with the projected rent-free months at its head.
func SyntheticContract(targetID string, start time.Time, area float64, p model.Projection, conv Conventions) Contract {
	start = calendar.Day(start)
	c := Contract{
		TenantID:         targetID,
		Area:             area,
		Start:            start,
		End:              calendar.AddDays(calendar.AddMonths(start, StreamMonths), -1),
		MonthlyRent:      conv.MonthlyRent(p.UnitPrice, area),
		CycleMonths:      streamCycleMonths,
		FirstCycleMonths: streamCycleMonths,
		FirstBillDate:    start,
		LeadMonths:       0,
	}
	if p.RentFreeMonths > 0 {
		c.RentFree = []calendar.Period{{
			Start: start,
			End:   calendar.AddDays(calendar.AddMonths(start, p.RentFreeMonths), -1),
		}}
	}
	return c
}

// MergeStatuses overlays a projected lease's labels on the outgoing
// lease's. Any let month of the stream wins, and months strictly between
// the outgoing lease's end and the stream start are vacant.
func MergeStatuses(base, stream [12]model.MonthStatus, year int, baseEnd, streamStart time.Time) [12]model.MonthStatus {
	out := base
	for i := range out {
		if stream[i] != model.MonthVacant {
			out[i] = stream[i]
		}
		ms := calendar.MonthStart(year, time.Month(i+1))
		if ms.After(calendar.Day(baseEnd)) && ms.Before(calendar.Day(streamStart)) {
			out[i] = model.MonthVacant
		}
	}
	return out
}
