package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

func ym(year int, month time.Month) calendar.YearMonth {
	return calendar.YearMonth{Year: year, Month: month}
}

func sampleBills() []Bill {
	return []Bill{
		{Date: date("2024-03-01"), Amount: 27000},
		{Date: date("2024-06-01"), Amount: 27000},
	}
}

func TestApplyAdjustmentsMovesAmount(t *testing.T) {
	in := sampleBills()
	out := ApplyAdjustments(in, "t1", []model.Adjustment{{
		ID: "a1", TenantID: "t1", Original: ym(2024, time.March), Adjusted: ym(2024, time.June), Amount: 5000,
	}})

	months := ByMonth(out, 2024)
	assert.Equal(t, 22000.0, months[time.March-1])
	assert.Equal(t, 32000.0, months[time.June-1])
	assert.Equal(t, 27000.0, in[0].Amount, "input untouched")
}

func TestApplyAdjustmentsRoundsOnceAndConservesTotal(t *testing.T) {
	in := sampleBills()
	out := ApplyAdjustments(in, "t1", []model.Adjustment{{
		TenantID: "t1", Original: ym(2024, time.March), Adjusted: ym(2024, time.June), Amount: 5000.5,
	}})

	months := ByMonth(out, 2024)
	assert.Equal(t, 21999.0, months[time.March-1])
	assert.Equal(t, 32001.0, months[time.June-1])
	assert.Equal(t, Total(in), Total(out))
}

func TestApplyAdjustmentsBelowHalfUnitIsNoop(t *testing.T) {
	out := ApplyAdjustments(sampleBills(), "t1", []model.Adjustment{{
		TenantID: "t1", Original: ym(2024, time.March), Adjusted: ym(2024, time.June), Amount: 0.4,
	}})
	assert.Equal(t, sampleBills(), out)
}

func TestApplyAdjustmentsClampsOrigin(t *testing.T) {
	out := ApplyAdjustments(sampleBills(), "t1", []model.Adjustment{{
		TenantID: "t1", Original: ym(2024, time.March), Adjusted: ym(2024, time.June), Amount: 40000,
	}})

	months := ByMonth(out, 2024)
	assert.Equal(t, 0.0, months[time.March-1])
	assert.Equal(t, 67000.0, months[time.June-1])
	for _, b := range out {
		assert.Greater(t, b.Amount, 0.0)
	}
}

func TestApplyAdjustmentsAccumulateAndIgnoreOtherTenants(t *testing.T) {
	out := ApplyAdjustments(sampleBills(), "t1", []model.Adjustment{
		{TenantID: "t1", Original: ym(2024, time.March), Adjusted: ym(2024, time.April), Amount: 1000},
		{TenantID: "t2", Original: ym(2024, time.March), Adjusted: ym(2024, time.April), Amount: 9999},
		{TenantID: "t1", Original: ym(2024, time.March), Adjusted: ym(2025, time.January), Amount: 2000},
	})

	months := ByMonth(out, 2024)
	assert.Equal(t, 24000.0, months[time.March-1])
	assert.Equal(t, 1000.0, months[time.April-1])
	assert.Equal(t, 2000.0, ByMonth(out, 2025)[time.January-1])

	var relocated int
	for _, b := range out {
		if b.Relocated() {
			relocated++
			assert.Equal(t, date("2024-03-01"), b.OriginalDate)
		}
	}
	assert.Equal(t, 2, relocated)
}

func TestApplyShift(t *testing.T) {
	shift := &model.PaymentShift{Active: true, From: ym(2024, time.June), To: ym(2024, time.August), Amount: 7000}
	out := ApplyShift(sampleBills(), shift)

	months := ByMonth(out, 2024)
	assert.Equal(t, 20000.0, months[time.June-1])
	assert.Equal(t, 7000.0, months[time.August-1])

	fractional := &model.PaymentShift{Active: true, From: ym(2024, time.June), To: ym(2024, time.August), Amount: 1234.56}
	out = ApplyShift(sampleBills(), fractional)
	assert.Equal(t, 1235.0, ByMonth(out, 2024)[time.August-1])
	assert.Equal(t, Total(sampleBills()), Total(out))

	shift.Active = false
	assert.Equal(t, sampleBills(), ApplyShift(sampleBills(), shift))
	assert.Equal(t, sampleBills(), ApplyShift(sampleBills(), nil))
}

func TestStreamStart(t *testing.T) {
	ten := model.Tenant{ID: "t1", LeaseEnd: calendar.D("2024-06-30")}

	start, ok := StreamStart(ten, model.ReLeaseAssumption{GapMonths: 2})
	require.True(t, ok)
	assert.Equal(t, date("2024-08-31"), start)

	start, ok = StreamStart(ten, model.RiskTerminationAssumption{TerminationDate: calendar.D("2024-03-15"), GapMonths: 3})
	require.True(t, ok)
	assert.Equal(t, date("2024-06-16"), start)

	start, ok = StreamStart(ten, model.RenewalAssumption{Projection: model.Projection{SignDate: calendar.D("2024-07-01")}})
	require.True(t, ok)
	assert.Equal(t, date("2024-07-01"), start)

	_, ok = StreamStart(ten, model.ExistingAssumption{})
	assert.False(t, ok)
}

func TestSyntheticContract(t *testing.T) {
	conv := DefaultConventions()
	c := SyntheticContract("u1", date("2025-01-01"), 100, model.Projection{UnitPrice: 3, RentFreeMonths: 1}, conv)

	assert.Equal(t, date("2025-12-31"), c.End)
	s := Generate(c, time.Time{}, conv)
	assert.Equal(t, []string{"2025-01-01", "2025-04-01", "2025-07-01", "2025-10-01"}, billDates(s.Bills))
	// 27375 less 31 rent-free days at 9125/30
	assert.Equal(t, 17946.0, s.Bills[0].Amount)
	assert.Equal(t, 27375.0, s.Bills[1].Amount)
}

func TestStatuses(t *testing.T) {
	ten := model.Tenant{
		ID:              "t1",
		TotalArea:       50,
		MonthlyRent:     1000,
		LeaseStart:      calendar.D("2024-03-15"),
		LeaseEnd:        calendar.D("2024-08-10"),
		RentFreePeriods: []model.RentFreePeriod{{Start: calendar.D("2024-03-15"), End: calendar.D("2024-04-30")}},
	}
	got := Statuses(ContractFromTenant(ten, DefaultConventions()), 2024)

	want := [12]model.MonthStatus{
		model.MonthVacant, model.MonthVacant,
		model.MonthRentFree, model.MonthRentFree,
		model.MonthActive, model.MonthActive, model.MonthActive, model.MonthActive,
		model.MonthVacant, model.MonthVacant, model.MonthVacant, model.MonthVacant,
	}
	assert.Equal(t, want, got)
}

func TestMergeStatusesForcesGapVacant(t *testing.T) {
	base := Statuses(Contract{Start: date("2023-01-01"), End: date("2024-04-30")}, 2024)
	stream := Statuses(Contract{Start: date("2024-07-01"), End: date("2025-06-30")}, 2024)

	got := MergeStatuses(base, stream, 2024, date("2024-04-30"), date("2024-07-01"))
	assert.Equal(t, model.MonthActive, got[time.April-1])
	assert.Equal(t, model.MonthVacant, got[time.May-1])
	assert.Equal(t, model.MonthVacant, got[time.June-1])
	assert.Equal(t, model.MonthActive, got[time.July-1])
	assert.Equal(t, model.MonthActive, got[time.December-1])
}

func TestTimeline(t *testing.T) {
	slots := Timeline(ContractFromTenant(quarterlyTenant(), DefaultConventions()), 2024, DefaultConventions())
	assert.Equal(t, model.MonthSlot{Amount: 27000, Status: model.MonthActive}, slots[time.March-1])
	assert.Equal(t, model.MonthSlot{Amount: 0, Status: model.MonthActive}, slots[time.January-1])
}
