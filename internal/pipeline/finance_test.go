package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

func TestAnnualComparison(t *testing.T) {
	doc := park()
	doc.YearlyTargets = map[int]model.YearTarget{2024: {Revenue: 41000, Occupancy: 90}}

	rows := AnnualComparison(doc, 2024)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{2023, 2024, 2025}, []int{rows[0].Year, rows[1].Year, rows[2].Year})

	// 2023 ends with t2 on 200 of 350 leasable m2; the self-use unit is left out.
	first := rows[0]
	assert.Equal(t, 0.0, first.RevenueActual)
	assert.Equal(t, 0.0, first.CompletionRate)
	assert.Equal(t, 57.1, first.OccupancyRate)
	assert.Nil(t, first.RevenueYoY)
	assert.Nil(t, first.OccupancyYoY)

	// The 5000 deposit is not revenue.
	cur := rows[1]
	assert.Equal(t, 41000.0, cur.RevenueTarget)
	assert.Equal(t, 20500.0, cur.RevenueActual)
	assert.InDelta(t, 50.0, cur.CompletionRate, 1e-9)
	assert.Equal(t, 28.6, cur.OccupancyRate)
	assert.Nil(t, cur.RevenueYoY, "no growth against a year with no revenue")
	require.NotNil(t, cur.OccupancyYoY)
	assert.InDelta(t, -28.5, *cur.OccupancyYoY, 1e-9)

	next := rows[2]
	assert.Equal(t, 0.0, next.RevenueTarget)
	assert.Equal(t, 0.0, next.OccupancyRate)
	require.NotNil(t, next.RevenueYoY)
	assert.InDelta(t, -100.0, *next.RevenueYoY, 1e-9)
}

func TestYearEndOccupancy_SkipsEndedLeases(t *testing.T) {
	doc := park()
	doc.Tenants[0].Status = model.StatusTerminated

	assert.Equal(t, 0.0, YearEndOccupancy(doc.Buildings, doc.Tenants, 2024))
	assert.Equal(t, 57.1, YearEndOccupancy(doc.Buildings, doc.Tenants, 2023))
	assert.Equal(t, 0.0, YearEndOccupancy(nil, doc.Tenants, 2023))
}

func TestDepositPool(t *testing.T) {
	tenants := []model.Tenant{
		{ID: "a", Name: "Acme", DepositAmount: 3000, DepositStatus: model.DepositUnpaid, Status: model.StatusActive},
		{ID: "b", Name: "Globex", DepositAmount: 5000, DepositStatus: model.DepositPaid, Status: model.StatusTerminated},
		{ID: "c", Name: "Initech", DepositAmount: 4000, DepositStatus: model.DepositRefunded, Status: model.StatusTerminated},
		{ID: "d", Name: "Umbrella", DepositAmount: 1000, DepositStatus: model.DepositUnpaid, Status: model.StatusTerminated},
		{ID: "e", Name: "Hooli", DepositStatus: model.DepositPaid, Status: model.StatusTerminated},
	}
	payments := []model.PaymentRecord{
		{ID: "p1", Amount: 5000, Type: model.PaymentDeposit},
		{ID: "p2", Amount: 3000, Type: model.PaymentDeposit},
		{ID: "p3", Amount: -1000, Type: model.PaymentDepositRefund},
		{ID: "p4", Amount: 500, Type: model.PaymentDepositRefund},
		{ID: "p5", Amount: 2000, Type: model.PaymentDepositToRent},
		{ID: "p6", Amount: 9999, Type: model.PaymentRent},
	}

	pool := DepositPool(tenants, payments)
	assert.Equal(t, 8000.0, pool.Received)
	assert.Equal(t, 1500.0, pool.Refunded)
	assert.Equal(t, 2000.0, pool.Deducted)
	assert.Equal(t, 4500.0, pool.Balance)
	assert.Equal(t, 4000.0, pool.Receivable)

	require.Len(t, pool.PendingRefund, 2)
	assert.Equal(t, "b", pool.PendingRefund[0].TenantID)
	assert.Equal(t, "d", pool.PendingRefund[1].TenantID)
	assert.Equal(t, model.DepositUnpaid, pool.PendingRefund[1].Status)
	assert.Equal(t, 6000.0, pool.PendingRefundTotal)
}

func TestDepositPool_Empty(t *testing.T) {
	pool := DepositPool(nil, nil)
	assert.Zero(t, pool.Balance)
	assert.NotNil(t, pool.PendingRefund)
}

func TestSettleDeposit(t *testing.T) {
	day := calendar.New(2024, time.July, 2)
	tenant := model.Tenant{ID: "t2", Name: "Globex", DepositAmount: 5000, DepositStatus: model.DepositPaid}
	before := []model.PaymentRecord{{ID: "p1", TenantID: "t2", Amount: 5000, Type: model.PaymentDeposit}}

	payments, refunded, ok := SettleDeposit(before, tenant, DepositRefund, day, "r1")
	require.True(t, ok)
	require.Len(t, payments, 2)
	assert.Len(t, before, 1)
	assert.Equal(t, model.DepositRefunded, refunded.DepositStatus)
	assert.Equal(t, -5000.0, payments[1].Amount)
	assert.Equal(t, model.PaymentDepositRefund, payments[1].Type)
	assert.Equal(t, "2024-07-02", payments[1].Date)
	assert.Equal(t, 0.0, DepositPool(nil, payments).Balance)

	payments, deducted, ok := SettleDeposit(before, tenant, DepositDeduct, day, "r2")
	require.True(t, ok)
	assert.Equal(t, model.DepositDeducted, deducted.DepositStatus)
	assert.Equal(t, 5000.0, payments[1].Amount)
	assert.Equal(t, 5000.0, CollectedInYear(payments, 2024), "deposit applied to rent is revenue")

	_, _, ok = SettleDeposit(before, refunded, DepositDeduct, day, "r3")
	assert.False(t, ok, "already settled")
	_, _, ok = SettleDeposit(before, model.Tenant{ID: "x"}, DepositRefund, day, "r4")
	assert.False(t, ok, "no deposit")
	_, _, ok = SettleDeposit(before, tenant, DepositAction("burn"), day, "r5")
	assert.False(t, ok)
}
