package model

import (
	"strings"

	"github.com/theirongolddev/rentroll/internal/calendar"
)

// PaymentType classifies a recorded payment.
type PaymentType string

const (
	PaymentRent          PaymentType = "Rent"
	PaymentDeposit       PaymentType = "Deposit"
	PaymentDepositRefund PaymentType = "DepositRefund"
	PaymentDepositToRent PaymentType = "DepositToRent"
	PaymentParkingFee    PaymentType = "ParkingFee"
	PaymentManagementFee PaymentType = "ManagementFee"
)

// CountsAsRent reports whether the payment settles a rent bill.
func (p PaymentType) CountsAsRent() bool {
	return p == PaymentRent || p == PaymentDepositToRent
}

// CountsAsRevenue reports whether the payment counts toward collected
// revenue.
func (p PaymentType) CountsAsRevenue() bool {
	return p.CountsAsRent() || p == PaymentParkingFee
}

// PaymentRecord is one received payment. Date is kept as entered; it is
// matched by its YYYY-MM prefix and parsed only for range checks.
type PaymentRecord struct {
	ID         string      `json:"id"`
	TenantID   string      `json:"tenantId"`
	TenantName string      `json:"tenantName,omitempty"`
	Amount     float64     `json:"amount"`
	Type       PaymentType `json:"type"`
	Date       string      `json:"date"`
	Status     string      `json:"status,omitempty"`
	Remarks    string      `json:"remarks,omitempty"`
}

// InMonth reports whether the payment date starts with the YYYY-MM key.
func (p PaymentRecord) InMonth(key string) bool {
	return strings.HasPrefix(p.Date, key)
}

// Day parses the payment date. ok is false for unparseable dates.
func (p PaymentRecord) Day() (d calendar.Date, ok bool) {
	t, err := calendar.Parse(p.Date)
	if err != nil {
		return calendar.Date{}, false
	}
	return calendar.DateOf(t), true
}
