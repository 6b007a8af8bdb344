package billing

import (
	"math"
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// Contract is the billing view of a lease: everything Generate needs and
// nothing else. Build one with ContractFromTenant or SyntheticContract.
type Contract struct {
	TenantID string
	Area     float64

	Start time.Time
	// End is the effective end, already clipped by any termination.
	End time.Time

	MonthlyRent      float64
	CycleMonths      int
	FirstCycleMonths int
	// FirstBillDate overrides the date of the first bill. Zero means
	// LeadMonths before Start.
	FirstBillDate time.Time
	LeadMonths    int

	RentFree        []calendar.Period
	PriceAdjustment *model.PriceAdjustment
}

// Bill is one dated amount owed.
type Bill struct {
	Date   time.Time
	Amount float64

	// Coverage is zero for relocated bills.
	CoverageStart time.Time
	CoverageEnd   time.Time

	// OriginalDate is set on bills moved here by a shift or adjustment.
	OriginalDate time.Time
}

// Relocated reports whether an override moved this amount here.
func (b Bill) Relocated() bool { return !b.OriginalDate.IsZero() }

// Schedule is the output of Generate.
type Schedule struct {
	Bills []Bill
	// Capped is set when generation stopped at the cycle cap with coverage
	// still outstanding. The bills are then incomplete.
	Capped bool
}

// ContractFromTenant derives the billing contract for t. The daily unit
// price is canonical: monthly rent is unitPrice * area * DaysPerYear / 12,
// and the stored monthly rent is used only when no unit price is recorded.
func ContractFromTenant(t model.Tenant, conv Conventions) Contract {
	conv = conv.withDefaults()

	rent := t.MonthlyRent
	if t.UnitPrice > 0 && t.TotalArea > 0 {
		rent = conv.MonthlyRent(t.UnitPrice, t.TotalArea)
	}

	regular := t.PaymentCycleMonths
	if regular <= 0 {
		regular = t.PaymentCycle.Months()
	}
	if regular <= 0 {
		regular = conv.DefaultCycleMonths
	}

	c := Contract{
		TenantID:         t.ID,
		Area:             t.TotalArea,
		Start:            calendar.Day(t.LeaseStart.Time),
		End:              calendar.Day(t.EffectiveEnd()),
		MonthlyRent:      rent,
		CycleMonths:      regular,
		FirstCycleMonths: t.FirstPaymentMonths,
		LeadMonths:       conv.leadFor(regular),
	}
	if t.FirstPaymentDate.Set() {
		c.FirstBillDate = calendar.Day(t.FirstPaymentDate.Time)
	}
	for _, rf := range t.RentFreePeriods {
		if rf.Start.Set() && rf.End.Set() {
			c.RentFree = append(c.RentFree, calendar.Period{Start: rf.Start.Time, End: rf.End.Time})
		}
	}
	return c
}

// WithEnd returns a copy of c ending at end, if that is earlier.
func (c Contract) WithEnd(end time.Time) Contract {
	c.End = calendar.Earlier(c.End, calendar.Day(end))
	return c
}

// WithPriceAdjustment returns a copy of c re-priced by pa.
func (c Contract) WithPriceAdjustment(pa *model.PriceAdjustment) Contract {
	c.PriceAdjustment = pa
	return c
}

// rentFor is the monthly rent in force for a cycle. An adjustment applies
// to the whole cycle once it starts on or before the cycle's last day.
func (c Contract) rentFor(coverageStart, coverageEnd time.Time, conv Conventions) float64 {
	pa := c.PriceAdjustment
	if pa == nil || pa.NewUnitPrice <= 0 || !pa.Start.Set() {
		return c.MonthlyRent
	}
	if pa.Start.After(coverageEnd) {
		return c.MonthlyRent
	}
	if pa.End.Set() && pa.End.Before(coverageStart) {
		return c.MonthlyRent
	}
	return conv.MonthlyRent(pa.NewUnitPrice, c.Area)
}

func (c Contract) freeDays(coverageStart, coverageEnd time.Time) int {
	days := 0
	for _, rf := range c.RentFree {
		days += calendar.OverlapDays(coverageStart, coverageEnd, rf.Start, rf.End)
	}
	return days
}

// Generate walks the contract cycle by cycle and returns its bills in
// date order of coverage. horizon is the end of the reporting period of
// interest; generation stops once coverage runs LookaheadYears past it.
// A zero horizon generates to the end of the contract.
//
// Each cycle bills the full cycle price when its covered days fall at most
// FullCycleToleranceDays short of a full cycle, and prorates by day at
// monthlyRent*12/DaysPerYear otherwise. Rent-free days are deducted at
// monthlyRent/RentFreeMonthDays. Amounts are floored at zero and rounded
// half up to whole currency units; zero amounts are not emitted.
func Generate(c Contract, horizon time.Time, conv Conventions) Schedule {
	conv = conv.withDefaults()
	var s Schedule
	if c.MonthlyRent <= 0 || c.Start.IsZero() {
		return s
	}

	regular := c.CycleMonths
	if regular <= 0 {
		regular = conv.DefaultCycleMonths
	}
	first := c.FirstCycleMonths
	if first <= 0 {
		first = regular
	}

	end := calendar.Day(c.End)
	coverageStart := calendar.Day(c.Start)
	billDate := c.FirstBillDate
	if billDate.IsZero() {
		billDate = calendar.AddMonths(coverageStart, -c.LeadMonths)
	}

	var limit time.Time
	if !horizon.IsZero() {
		limit = calendar.Day(horizon).AddDate(conv.LookaheadYears, 0, 0)
	}

	for cycle := 0; !coverageStart.After(end); cycle++ {
		if cycle >= conv.MaxCycles {
			s.Capped = true
			break
		}

		months := regular
		if cycle == 0 {
			months = first
		}
		coverageEnd := calendar.AddDays(calendar.AddMonths(coverageStart, months), -1)
		if coverageEnd.Before(coverageStart) {
			coverageEnd = coverageStart
		}
		effectiveEnd := calendar.Earlier(coverageEnd, end)

		rent := c.rentFor(coverageStart, effectiveEnd, conv)
		fullDays := calendar.DaysBetweenInclusive(coverageStart, coverageEnd)
		actualDays := calendar.DaysBetweenInclusive(coverageStart, effectiveEnd)

		var gross float64
		if actualDays >= fullDays-conv.FullCycleToleranceDays {
			gross = rent * float64(months)
		} else {
			gross = rent * 12 / conv.DaysPerYear * float64(actualDays)
		}
		deduction := rent / conv.RentFreeMonthDays * float64(c.freeDays(coverageStart, effectiveEnd))

		if amount := RoundCurrency(math.Max(0, gross-deduction)); amount > 0 {
			s.Bills = append(s.Bills, Bill{
				Date:          billDate,
				Amount:        amount,
				CoverageStart: coverageStart,
				CoverageEnd:   effectiveEnd,
			})
		}

		coverageStart = calendar.AddDays(effectiveEnd, 1)
		billDate = calendar.AddMonths(coverageStart, -c.LeadMonths)

		if !limit.IsZero() && coverageStart.After(limit) {
			break
		}
	}
	return s
}

// RoundCurrency rounds half up to a whole currency unit.
func RoundCurrency(v float64) float64 {
	return math.Floor(v + 0.5)
}

// InRange returns the bills dated within [from, to].
func InRange(bills []Bill, from, to time.Time) []Bill {
	var out []Bill
	for _, b := range bills {
		if calendar.InRange(b.Date, from, to) {
			out = append(out, b)
		}
	}
	return out
}

// Total sums bill amounts.
func Total(bills []Bill) float64 {
	var sum float64
	for _, b := range bills {
		sum += b.Amount
	}
	return sum
}

// ByMonth buckets bill amounts dated in year by calendar month.
func ByMonth(bills []Bill, year int) [12]float64 {
	var out [12]float64
	for _, b := range bills {
		if b.Date.Year() == year {
			out[b.Date.Month()-1] += b.Amount
		}
	}
	return out
}
