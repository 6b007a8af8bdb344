package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
)

func TestFindTenant(t *testing.T) {
	tenants := []model.Tenant{
		{ID: "t1", Name: "Acme Trading"},
		{ID: "t2", Name: "Acme Logistics"},
		{ID: "t3", Name: "Globex"},
	}

	got, err := findTenant(tenants, "t3")
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.Name)

	got, err = findTenant(tenants, "logist")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.ID)

	_, err = findTenant(tenants, "acme")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = findTenant(tenants, "initech")
	assert.ErrorContains(t, err, "no tenant")
}

func TestGroupCells(t *testing.T) {
	var amounts [12]float64
	amounts[0], amounts[2], amounts[3] = 1000, 500, 250

	assert.Equal(t, []string{"1,500", "250", "", ""}, groupCells(amounts, quarterGroups))
	assert.Len(t, groupCells(amounts, monthGroups), 12)
}

func TestParseAssumptionKind(t *testing.T) {
	kind, slot, err := parseAssumptionKind("Re-Lease")
	require.NoError(t, err)
	assert.Equal(t, model.KindReLease, kind)
	assert.Equal(t, model.TargetRenewal, slot)

	_, _, err = parseAssumptionKind("sublet")
	assert.Error(t, err)
}

func changedSet(names ...string) func(string) bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestApplyAssumptionFlagsKeepsUnsetValues(t *testing.T) {
	current := model.DefaultAssumption(model.TargetRenewal, "t1", "Acme", 2024)

	flagAssumePrice = 3.2
	flagAssumeGap = 4
	a, err := applyAssumptionFlags(changedSet("price", "gap"), model.KindReLease, current)
	require.NoError(t, err)

	rl, ok := a.(model.ReLeaseAssumption)
	require.True(t, ok)
	assert.Equal(t, "t1", rl.TargetID)
	assert.Equal(t, 3.2, rl.UnitPrice)
	assert.Equal(t, 1, rl.RentFreeMonths)
	assert.Equal(t, 4, rl.GapMonths)
	assert.Equal(t, "2024-01-01", rl.SignDate.String())
}

func TestApplyAssumptionFlagsRiskNeedsTermination(t *testing.T) {
	current := model.DefaultAssumption(model.TargetRiskTermination, "t1", "Acme", 2024)
	_, err := applyAssumptionFlags(changedSet(), model.KindRiskTermination, current)
	assert.ErrorContains(t, err, "--termination")

	flagAssumeTermination = "2024-08-31"
	a, err := applyAssumptionFlags(changedSet("termination"), model.KindRiskTermination, current)
	require.NoError(t, err)
	assert.Equal(t, "2024-08-31", a.(model.RiskTerminationAssumption).TerminationDate.String())
}

func TestExistingFromFlags(t *testing.T) {
	current := model.DefaultAssumption(model.TargetExisting, "t1", "Acme", 2024)

	flagAssumeNewPrice = 3
	flagAssumePriceStart = "2024-07-01"
	flagAssumeShiftFrom = "2024-03"
	flagAssumeShiftTo = "2024-05"
	flagAssumeShiftAmount = 5000
	a, err := applyAssumptionFlags(
		changedSet("new-price", "price-start", "shift-from", "shift-to", "shift-amount"),
		model.KindExisting, current)
	require.NoError(t, err)

	ex := a.(model.ExistingAssumption)
	require.NotNil(t, ex.PriceAdjustment)
	assert.Equal(t, 3.0, ex.PriceAdjustment.NewUnitPrice)
	assert.Equal(t, "2024-07-01", ex.PriceAdjustment.Start.String())
	assert.False(t, ex.PriceAdjustment.End.Set())
	require.NotNil(t, ex.PaymentShift)
	assert.True(t, ex.PaymentShift.Active)
	assert.Equal(t, calendar.YearMonth{Year: 2024, Month: time.May}, ex.PaymentShift.To)
	assert.Contains(t, describeAssumption(ex), "shift")
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, calendar.YearMonth{Year: 2024, Month: time.March}, currentMonth(2024, now))
	assert.Equal(t, calendar.YearMonth{Year: 2025, Month: time.January}, currentMonth(2025, now))
}

func TestDescribeLead(t *testing.T) {
	assert.Equal(t, "1 month", describeLead(1))
	assert.Equal(t, "3 months", describeLead(3))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2.0 KB", formatBytes(2048))
	assert.Equal(t, "1.5 MB", formatBytes(3<<19))
}

func TestSettleDepositUpdatesTenantAndPayments(t *testing.T) {
	doc := model.Document{
		Tenants: []model.Tenant{
			{ID: "t1", Name: "Acme", DepositAmount: 6000, DepositStatus: model.DepositPaid, Status: model.StatusTerminated},
			{ID: "t2", Name: "Globex"},
		},
		Payments: []model.PaymentRecord{{ID: "p1", TenantID: "t1", Amount: 6000, Type: model.PaymentDeposit}},
	}
	day := calendar.New(2024, time.May, 15)

	out, ok := settleDeposit(doc, "t1", pipeline.DepositRefund, day, "r1")
	require.True(t, ok)
	assert.Equal(t, model.DepositRefunded, out.Tenants[0].DepositStatus)
	assert.Equal(t, model.DepositPaid, doc.Tenants[0].DepositStatus)
	require.Len(t, out.Payments, 2)
	assert.Equal(t, "r1", out.Payments[1].ID)
	assert.Empty(t, pipeline.DepositPool(out.Tenants, out.Payments).PendingRefund)

	_, ok = settleDeposit(out, "t1", pipeline.DepositDeduct, day, "r2")
	assert.False(t, ok)
	_, ok = settleDeposit(doc, "t2", pipeline.DepositRefund, day, "r3")
	assert.False(t, ok)
	_, ok = settleDeposit(doc, "missing", pipeline.DepositRefund, day, "r4")
	assert.False(t, ok)
}

func TestFormatGrowth(t *testing.T) {
	v := -12.34
	assert.Equal(t, "-", formatGrowth(nil, "%+.1f%%"))
	assert.Equal(t, "-12.3%", formatGrowth(&v, "%+.1f%%"))
	v = 2
	assert.Equal(t, "+2.0 pt", formatGrowth(&v, "%+.1f pt"))
}
