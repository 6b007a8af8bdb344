// Package model defines the domain types for leases, units, payments and
// budget scenarios.
package model

import (
	"sort"
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
)

// ContractStatus is the lifecycle state of a lease.
type ContractStatus string

const (
	StatusActive     ContractStatus = "Active"
	StatusExpiring   ContractStatus = "Expiring"
	StatusExpired    ContractStatus = "Expired"
	StatusTerminated ContractStatus = "Terminated"
	StatusPending    ContractStatus = "Pending"
)

// DepositStatus tracks a lease's security deposit.
type DepositStatus string

const (
	DepositUnpaid   DepositStatus = "Unpaid"
	DepositPaid     DepositStatus = "Paid"
	DepositRefunded DepositStatus = "Refunded"
	DepositDeducted DepositStatus = "Deducted"
)

// Settled reports whether the deposit has been handed back or applied to
// rent.
func (s DepositStatus) Settled() bool {
	return s == DepositRefunded || s == DepositDeducted
}

// PaymentCycle is the nominal billing frequency of a lease.
type PaymentCycle string

const (
	CycleMonthly    PaymentCycle = "Monthly"
	CycleQuarterly  PaymentCycle = "Quarterly"
	CycleSemiAnnual PaymentCycle = "SemiAnnual"
	CycleAnnual     PaymentCycle = "Annual"
)

// Months maps the nominal cycle to its length. Unknown cycles return 0.
func (c PaymentCycle) Months() int {
	switch c {
	case CycleMonthly:
		return 1
	case CycleQuarterly:
		return 3
	case CycleSemiAnnual:
		return 6
	case CycleAnnual:
		return 12
	}
	return 0
}

// TerminationType records whether a lease ended on schedule or early.
type TerminationType string

const (
	TerminationNormal TerminationType = "Normal"
	TerminationEarly  TerminationType = "Early"
)

// DefaultLeaseEnd stands in for a missing lease end date.
var DefaultLeaseEnd = calendar.New(2099, time.December, 31)

// RentFreePeriod is an inclusive range during which no rent accrues.
type RentFreePeriod struct {
	Start calendar.Date `json:"start"`
	End   calendar.Date `json:"end"`
}

// Tenant is one lease contract. Renewals are separate tenants sharing a
// RootID with the contract they renew.
type Tenant struct {
	ID         string   `json:"id"`
	RootID     string   `json:"rootId,omitempty"`
	Name       string   `json:"name"`
	BuildingID string   `json:"buildingId"`
	UnitIDs    []string `json:"unitIds"`
	TotalArea  float64  `json:"totalArea"`

	LeaseStart      calendar.Date   `json:"leaseStart"`
	LeaseEnd        calendar.Date   `json:"leaseEnd"`
	TerminationDate calendar.Date   `json:"terminationDate,omitempty"`
	TerminationType TerminationType `json:"terminationType,omitempty"`

	// UnitPrice is the daily price per square metre. MonthlyRent is the
	// rent for the whole leased area.
	UnitPrice   float64 `json:"unitPrice,omitempty"`
	MonthlyRent float64 `json:"monthlyRent"`

	PaymentCycle       PaymentCycle     `json:"paymentCycle"`
	PaymentCycleMonths int              `json:"paymentCycleMonths,omitempty"`
	FirstPaymentMonths int              `json:"firstPaymentMonths,omitempty"`
	FirstPaymentDate   calendar.Date    `json:"firstPaymentDate,omitempty"`
	RentFreePeriods    []RentFreePeriod `json:"rentFreePeriods,omitempty"`

	Status        ContractStatus `json:"status"`
	IsRisk        bool           `json:"isRisk,omitempty"`
	DepositAmount float64        `json:"depositAmount,omitempty"`
	DepositStatus DepositStatus  `json:"depositStatus,omitempty"`

	ParkingSpaces         int  `json:"parkingSpaces,omitempty"`
	ContractParkingSpaces *int `json:"contractParkingSpaces,omitempty"`
	ActualParkingSpaces   *int `json:"actualParkingSpaces,omitempty"`
}

// EffectiveEnd is the earlier of the lease end and the termination date.
// A missing lease end counts as open-ended.
func (t Tenant) EffectiveEnd() time.Time {
	end := DefaultLeaseEnd
	if t.LeaseEnd.Set() {
		end = t.LeaseEnd.Time
	}
	if t.TerminationDate.Set() && t.TerminationDate.Before(end) {
		return t.TerminationDate.Time
	}
	return end
}

// Live reports whether the contract still counts toward billing.
func (t Tenant) Live() bool {
	return t.Status != StatusExpired && t.Status != StatusTerminated
}

// Holds reports whether the lease occupies its units, which is the case
// for running and signed-but-not-started contracts.
func (t Tenant) Holds() bool {
	return t.Status == StatusActive || t.Status == StatusExpiring || t.Status == StatusPending
}

// OccupiesAny reports whether any of the tenant's units are in set.
func (t Tenant) OccupiesAny(set map[string]struct{}) bool {
	for _, id := range t.UnitIDs {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// HasUnit reports whether the lease covers unitID.
func (t Tenant) HasUnit(unitID string) bool {
	for _, id := range t.UnitIDs {
		if id == unitID {
			return true
		}
	}
	return false
}

// ActiveOn reports whether the lease runs on day d.
func (t Tenant) ActiveOn(d time.Time) bool {
	return calendar.InRange(d, t.LeaseStart.Time, t.EffectiveEnd())
}

// ActiveDuring reports whether the lease overlaps [from, to].
func (t Tenant) ActiveDuring(from, to time.Time) bool {
	return !t.LeaseStart.After(to) && !t.EffectiveEnd().Before(from)
}

// DailyUnitPrice returns the recorded unit price, or derives one from the
// monthly rent when none is recorded.
func (t Tenant) DailyUnitPrice(daysPerYear float64) float64 {
	if t.UnitPrice > 0 {
		return t.UnitPrice
	}
	if t.TotalArea <= 0 || daysPerYear <= 0 {
		return 0
	}
	return t.MonthlyRent / t.TotalArea * 12 / daysPerYear
}

// ContractSpaces is the number of parking spaces in the contract.
func (t Tenant) ContractSpaces() int {
	if t.ContractParkingSpaces != nil {
		return *t.ContractParkingSpaces
	}
	return t.ParkingSpaces
}

// ActualSpaces is the number of parking spaces actually in use.
func (t Tenant) ActualSpaces() int {
	if t.ActualParkingSpaces != nil {
		return *t.ActualParkingSpaces
	}
	return t.ParkingSpaces
}

// Root returns the id of the first contract in the renewal chain.
func (t Tenant) Root() string {
	if t.RootID != "" {
		return t.RootID
	}
	return t.ID
}

// FindTenant looks up a tenant by id.
func FindTenant(tenants []Tenant, id string) (Tenant, bool) {
	for _, t := range tenants {
		if t.ID == id {
			return t, true
		}
	}
	return Tenant{}, false
}

// RenewalChain returns every contract sharing id's root, oldest first.
func RenewalChain(tenants []Tenant, id string) []Tenant {
	self, ok := FindTenant(tenants, id)
	if !ok {
		return nil
	}
	root := self.Root()
	var chain []Tenant
	for _, t := range tenants {
		if t.Root() == root {
			chain = append(chain, t)
		}
	}
	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].LeaseStart.Before(chain[j].LeaseStart.Time)
	})
	return chain
}
