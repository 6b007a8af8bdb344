package model

import "time"

// Document is everything the data file persists. Dashboard figures are
// never stored; they are recomputed from a Document on demand.
type Document struct {
	Buildings         []Building         `json:"buildings"`
	Tenants           []Tenant           `json:"tenants"`
	Payments          []PaymentRecord    `json:"payments"`
	BudgetAssumptions AssumptionList     `json:"budgetAssumptions"`
	BudgetAdjustments []Adjustment       `json:"budgetAdjustments"`
	BudgetScenarios   []Scenario         `json:"budgetScenarios"`
	YearlyTargets     map[int]YearTarget `json:"yearlyTargets"`
	BudgetAnalysis    BudgetAnalysis     `json:"budgetAnalysis"`
}

// DefaultDocument is an empty park with targets for the years around now.
func DefaultDocument(now time.Time) Document {
	year := now.Year()
	return Document{
		Buildings:         []Building{},
		Tenants:           []Tenant{},
		Payments:          []PaymentRecord{},
		BudgetAssumptions: AssumptionList{},
		BudgetAdjustments: []Adjustment{},
		BudgetScenarios:   []Scenario{},
		YearlyTargets: map[int]YearTarget{
			year - 1: {Revenue: 10000000, Occupancy: 88},
			year:     {Revenue: 12000000, Occupancy: 92},
			year + 1: {Revenue: 15000000, Occupancy: 95},
		},
	}
}

// Target returns the goals for year, zero when none are set.
func (d Document) Target(year int) YearTarget {
	return d.YearlyTargets[year]
}

// Clone copies every collection so the result can be modified without
// touching d. Tenants and buildings are copied deeply.
func (d Document) Clone() Document {
	out := d
	out.Buildings = CloneBuildings(d.Buildings)
	out.Tenants = CloneTenants(d.Tenants)
	out.Payments = append([]PaymentRecord{}, d.Payments...)
	out.BudgetAssumptions = d.BudgetAssumptions.Clone()
	out.BudgetAdjustments = CloneAdjustments(d.BudgetAdjustments)
	out.BudgetScenarios = make([]Scenario, len(d.BudgetScenarios))
	for i, s := range d.BudgetScenarios {
		out.BudgetScenarios[i] = s.Clone()
	}
	out.YearlyTargets = make(map[int]YearTarget, len(d.YearlyTargets))
	for y, t := range d.YearlyTargets {
		out.YearlyTargets[y] = t
	}
	return out
}

// Clone copies the scenario, including its snapshot.
func (s Scenario) Clone() Scenario {
	out := s
	out.Assumptions = s.Assumptions.Clone()
	out.Adjustments = CloneAdjustments(s.Adjustments)
	if s.BaseDataSnapshot != nil {
		out.BaseDataSnapshot = &BaseSnapshot{
			Tenants:   CloneTenants(s.BaseDataSnapshot.Tenants),
			Buildings: CloneBuildings(s.BaseDataSnapshot.Buildings),
		}
	}
	return out
}

// CloneTenants deep-copies a tenant list.
func CloneTenants(in []Tenant) []Tenant {
	out := make([]Tenant, len(in))
	for i, t := range in {
		t.UnitIDs = append([]string(nil), t.UnitIDs...)
		t.RentFreePeriods = append([]RentFreePeriod(nil), t.RentFreePeriods...)
		if t.ContractParkingSpaces != nil {
			v := *t.ContractParkingSpaces
			t.ContractParkingSpaces = &v
		}
		if t.ActualParkingSpaces != nil {
			v := *t.ActualParkingSpaces
			t.ActualParkingSpaces = &v
		}
		out[i] = t
	}
	return out
}

// CloneBuildings deep-copies a building list.
func CloneBuildings(in []Building) []Building {
	out := make([]Building, len(in))
	for i, b := range in {
		b.Units = append([]Unit(nil), b.Units...)
		out[i] = b
	}
	return out
}

// NormalizeCollections replaces nil collections with empty ones so the
// document always encodes arrays rather than null.
func (d *Document) NormalizeCollections() {
	if d.Buildings == nil {
		d.Buildings = []Building{}
	}
	if d.Tenants == nil {
		d.Tenants = []Tenant{}
	}
	if d.Payments == nil {
		d.Payments = []PaymentRecord{}
	}
	if d.BudgetAssumptions == nil {
		d.BudgetAssumptions = AssumptionList{}
	}
	if d.BudgetAdjustments == nil {
		d.BudgetAdjustments = []Adjustment{}
	}
	if d.BudgetScenarios == nil {
		d.BudgetScenarios = []Scenario{}
	}
	if d.YearlyTargets == nil {
		d.YearlyTargets = map[int]YearTarget{}
	}
}

// UnitStatusesSynced returns buildings with unit status derived from the
// leases: units held by a running or pending lease become Occupied, and
// occupied units with no such lease revert to Vacant. Self-use units keep
// their recorded status.
func UnitStatusesSynced(buildings []Building, tenants []Tenant) []Building {
	out := CloneBuildings(buildings)
	for bi, b := range out {
		for ui, u := range b.Units {
			held := false
			for _, t := range tenants {
				if t.BuildingID == b.ID && t.HasUnit(u.ID) && t.Holds() {
					held = true
					break
				}
			}
			switch {
			case held:
				out[bi].Units[ui].Status = UnitOccupied
			case u.Status == UnitOccupied && !u.IsSelfUse:
				out[bi].Units[ui].Status = UnitVacant
			}
		}
	}
	return out
}
