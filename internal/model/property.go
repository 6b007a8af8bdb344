package model

// UnitStatus is the occupancy state of a unit.
type UnitStatus string

const (
	UnitVacant   UnitStatus = "Vacant"
	UnitOccupied UnitStatus = "Occupied"
	UnitReserved UnitStatus = "Reserved"
)

// Unit is a leasable space inside a building.
type Unit struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Area      float64    `json:"area"`
	Floor     int        `json:"floor,omitempty"`
	Status    UnitStatus `json:"status"`
	IsSelfUse bool       `json:"isSelfUse,omitempty"`
}

// Building groups units.
type Building struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Units []Unit `json:"units"`
}

// SelfUseUnits collects the ids of units the operator uses itself. They
// carry no rent and are excluded from leasable area.
func SelfUseUnits(buildings []Building) map[string]struct{} {
	set := make(map[string]struct{})
	for _, b := range buildings {
		for _, u := range b.Units {
			if u.IsSelfUse {
				set[u.ID] = struct{}{}
			}
		}
	}
	return set
}

// LeasableArea sums the area of every unit that is not self-use.
func LeasableArea(buildings []Building) float64 {
	var total float64
	for _, b := range buildings {
		for _, u := range b.Units {
			if !u.IsSelfUse {
				total += u.Area
			}
		}
	}
	return total
}

// UnitRef locates a unit together with its building.
type UnitRef struct {
	Building Building
	Unit     Unit
}

// FindUnit searches every building for unitID.
func FindUnit(buildings []Building, unitID string) (UnitRef, bool) {
	for _, b := range buildings {
		for _, u := range b.Units {
			if u.ID == unitID {
				return UnitRef{Building: b, Unit: u}, true
			}
		}
	}
	return UnitRef{}, false
}

// FindBuilding looks up a building by id.
func FindBuilding(buildings []Building, id string) (Building, bool) {
	for _, b := range buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}

// UnitNames resolves the tenant's unit ids to display names, falling back to
// the id for units that no longer exist.
func UnitNames(buildings []Building, t Tenant) []string {
	b, _ := FindBuilding(buildings, t.BuildingID)
	names := make([]string, 0, len(t.UnitIDs))
	for _, id := range t.UnitIDs {
		name := id
		for _, u := range b.Units {
			if u.ID == id {
				name = u.Name
				break
			}
		}
		names = append(names, name)
	}
	return names
}
