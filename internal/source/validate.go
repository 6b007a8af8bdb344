package source

import (
	"fmt"

	"github.com/theirongolddev/rentroll/internal/model"
)

// Validate reports data-entry problems that skew computed figures. It
// never fails: the engine falls back to documented defaults for each.
func Validate(doc model.Document) []Issue {
	var issues []Issue

	units := make(map[string]struct{})
	for _, b := range doc.Buildings {
		for _, u := range b.Units {
			if _, dup := units[u.ID]; dup {
				issues = append(issues, Issue{Field: "units", Message: "duplicate unit id " + u.ID})
			}
			units[u.ID] = struct{}{}
			if u.Area <= 0 {
				issues = append(issues, Issue{Field: "units", Message: "unit " + u.ID + " has no area"})
			}
		}
	}

	seen := make(map[string]struct{}, len(doc.Tenants))
	for _, t := range doc.Tenants {
		add := func(field, msg string) {
			issues = append(issues, Issue{TenantID: t.ID, Field: field, Message: msg})
		}
		if _, dup := seen[t.ID]; dup {
			add("id", "duplicate tenant id")
		}
		seen[t.ID] = struct{}{}

		if !t.LeaseStart.Set() {
			add("leaseStart", "missing, the lease bills nothing")
		}
		if !t.LeaseEnd.Set() {
			add("leaseEnd", "missing, treated as open-ended")
		} else if t.LeaseStart.Set() && t.LeaseEnd.Before(t.LeaseStart.Time) {
			add("leaseEnd", "before lease start")
		}
		if t.PaymentCycleMonths < 0 || (t.PaymentCycleMonths == 0 && t.PaymentCycle.Months() == 0) {
			add("paymentCycle", "no usable cycle length, quarterly assumed")
		}
		if t.UnitPrice <= 0 && t.MonthlyRent <= 0 && t.Status != model.StatusTerminated {
			add("unitPrice", "no unit price or monthly rent")
		}
		for _, id := range t.UnitIDs {
			if _, ok := units[id]; !ok {
				add("unitIds", "unknown unit "+id)
			}
		}
		for _, p := range t.RentFreePeriods {
			if p.Start.Set() && p.End.Set() && p.End.Before(p.Start.Time) {
				add("rentFreePeriods", "period ends before it starts")
			}
		}
	}

	unknown := func(field string, l model.AssumptionList) {
		for _, u := range l.Unknown() {
			issues = append(issues, Issue{
				TenantID: u.TargetID,
				Field:    field,
				Message:  fmt.Sprintf("assumption %s has unknown target type %q, ignored", u.ID, u.TargetType),
			})
		}
	}
	unknown("budgetAssumptions", doc.BudgetAssumptions)
	for _, sc := range doc.BudgetScenarios {
		unknown("budgetScenarios."+sc.ID, sc.Assumptions)
	}

	for _, a := range doc.BudgetAdjustments {
		if a.Amount <= 0 {
			issues = append(issues, Issue{TenantID: a.TenantID, Field: "budgetAdjustments", Message: "non-positive amount in " + a.ID})
		}
		if !a.Original.Valid() || !a.Adjusted.Valid() {
			issues = append(issues, Issue{TenantID: a.TenantID, Field: "budgetAdjustments", Message: "invalid month in " + a.ID})
		}
	}
	return issues
}
