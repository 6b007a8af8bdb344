package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/model"
)

func TestBillingDetails(t *testing.T) {
	details := BillingDetails(parkInput(), ym(2024, time.March))
	require.Len(t, details, 2)

	assert.Equal(t, "t1", details[0].TenantID)
	assert.Equal(t, 27000.0, details[0].AmountDue)
	assert.Equal(t, 20000.0, details[0].AmountPaid)
	assert.Equal(t, model.BillPartial, details[0].Status)
	assert.Equal(t, 7000.0, details[0].Outstanding())

	assert.Equal(t, "t2", details[1].TenantID)
	assert.Equal(t, model.BillUnpaid, details[1].Status)
}

func TestBillingDetails_NothingDue(t *testing.T) {
	assert.Empty(t, BillingDetails(parkInput(), ym(2024, time.July)))
}

func TestBillingStatusFor(t *testing.T) {
	tests := []struct {
		due, paid float64
		want      model.BillingStatus
	}{
		{100, 100, model.BillPaid},
		{100, 150, model.BillPaid},
		{100, 40, model.BillPartial},
		{100, 0, model.BillUnpaid},
		{0, 20, model.BillPaid},
		{0, 0, model.BillUnpaid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BillingStatusFor(tt.due, tt.paid), "due=%v paid=%v", tt.due, tt.paid)
	}
}

func TestCollect(t *testing.T) {
	in := parkInput()
	march := ym(2024, time.March)
	detail := BillingDetails(in, march)[0]

	payments, ok := Collect(in.Payments, detail, march, "p9")
	require.True(t, ok)
	require.Len(t, payments, len(in.Payments)+1)
	assert.Len(t, in.Payments, 3, "input is not modified")

	p := payments[len(payments)-1]
	assert.Equal(t, "p9", p.ID)
	assert.Equal(t, 7000.0, p.Amount)
	assert.Equal(t, "2024-03-15", p.Date)
	assert.Equal(t, model.PaymentRent, p.Type)

	in.Payments = payments
	after := BillingDetails(in, march)[0]
	assert.Equal(t, model.BillPaid, after.Status)

	_, ok = Collect(payments, after, march, "p10")
	assert.False(t, ok)
}

func TestRevoke(t *testing.T) {
	in := parkInput()
	kept, removed := Revoke(in.Payments, "t1", ym(2024, time.March))
	require.Len(t, removed, 1)
	assert.Equal(t, "p1", removed[0].ID)
	assert.Len(t, kept, 2, "parking and deposit payments stay")

	kept, removed = Revoke(in.Payments, "t2", ym(2024, time.March))
	assert.Empty(t, removed)
	assert.Len(t, kept, 3)
}

func TestActuals(t *testing.T) {
	payments := parkInput().Payments
	assert.Equal(t, 20500.0, CollectedInMonth(payments, "2024-03"))
	assert.Equal(t, 20000.0, RentPaid(payments, "t1", "2024-03"))
	assert.Zero(t, CollectedInMonth(payments, "2024-01"))

	byTenant := ActualsByTenant(payments, 2024)
	require.Contains(t, byTenant, "t1")
	assert.Equal(t, 20500.0, byTenant["t1"][time.March-1])
	assert.Empty(t, ActualsByTenant(payments, 2023))
}

func TestSumPayments_DecimalExact(t *testing.T) {
	payments := []model.PaymentRecord{
		{TenantID: "t", Amount: 0.1, Type: model.PaymentRent, Date: "2024-01-02"},
		{TenantID: "t", Amount: 0.2, Type: model.PaymentRent, Date: "2024-01-03"},
	}
	assert.Equal(t, 0.3, CollectedInMonth(payments, "2024-01"))
}
