// Package scenario selects which budget book the engine runs over: the live
// one, or a named what-if scenario with its own assumptions, adjustments and
// optionally a frozen copy of the leases and buildings.
//
// Every function takes a document and returns a new one. Inputs are never
// modified, so a caller can keep the previous document for undo.
package scenario

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
)

// Current selects the live data.
const Current = "current"

var (
	// ErrNotFound is returned when a selector names no scenario.
	ErrNotFound = errors.New("scenario not found")
	// ErrUnknownTenant is returned when a tenant id is not in the view.
	ErrUnknownTenant = errors.New("tenant not found")
	// ErrNothingDue is returned when deferring a month with no receivable.
	ErrNothingDue = errors.New("nothing due in that month")
	// ErrNoAdjustments is returned when undoing on an empty adjustment list.
	ErrNoAdjustments = errors.New("no adjustments to undo")
	// ErrEmptyName is returned when a scenario name is blank.
	ErrEmptyName = errors.New("scenario name is required")
)

// View is the data a selector resolves to.
type View struct {
	Selector    string
	Name        string
	Buildings   []model.Building
	Tenants     []model.Tenant
	Assumptions model.AssumptionList
	Adjustments []model.Adjustment
	// Frozen is set when leases and buildings come from the scenario's
	// snapshot rather than the live data.
	Frozen bool
	Active bool
}

// Input pairs the view with payments for the aggregation engine.
func (v View) Input(payments []model.PaymentRecord, conv billing.Conventions) pipeline.Input {
	return pipeline.Input{
		Buildings:   v.Buildings,
		Tenants:     v.Tenants,
		Payments:    payments,
		Assumptions: v.Assumptions,
		Adjustments: v.Adjustments,
		Conventions: conv,
	}
}

// Resolve returns the data selector points at. Current, an empty selector
// and unknown scenario ids all resolve to the live data.
func Resolve(doc model.Document, selector string) View {
	live := View{
		Selector:    Current,
		Name:        "Live data",
		Buildings:   doc.Buildings,
		Tenants:     doc.Tenants,
		Assumptions: doc.BudgetAssumptions,
		Adjustments: doc.BudgetAdjustments,
	}
	s, _, ok := Find(doc, selector)
	if !ok {
		return live
	}

	v := View{
		Selector:    s.ID,
		Name:        s.Name,
		Buildings:   doc.Buildings,
		Tenants:     doc.Tenants,
		Assumptions: s.Assumptions,
		Adjustments: s.Adjustments,
		Active:      s.IsActive,
	}
	if snap := s.BaseDataSnapshot; snap != nil {
		if snap.Tenants != nil {
			v.Tenants = snap.Tenants
			v.Frozen = true
		}
		if snap.Buildings != nil {
			v.Buildings = snap.Buildings
			v.Frozen = true
		}
	}
	return v
}

// Find looks a scenario up by id.
func Find(doc model.Document, id string) (model.Scenario, int, bool) {
	if id == "" || id == Current {
		return model.Scenario{}, -1, false
	}
	for i, s := range doc.BudgetScenarios {
		if s.ID == id {
			return s, i, true
		}
	}
	return model.Scenario{}, -1, false
}

// ActiveID is the selector a session starts on: the active scenario when
// there is one, the live data otherwise.
func ActiveID(doc model.Document) string {
	for _, s := range doc.BudgetScenarios {
		if s.IsActive {
			return s.ID
		}
	}
	return Current
}

// update routes an edit of the budget book to the selected owner.
func update(doc model.Document, selector string, edit func(model.AssumptionList, []model.Adjustment) (model.AssumptionList, []model.Adjustment)) (model.Document, error) {
	out := doc.Clone()
	if selector == "" || selector == Current {
		out.BudgetAssumptions, out.BudgetAdjustments = edit(out.BudgetAssumptions, out.BudgetAdjustments)
		return out, nil
	}
	_, i, ok := Find(out, selector)
	if !ok {
		return doc, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	s := &out.BudgetScenarios[i]
	s.Assumptions, s.Adjustments = edit(s.Assumptions, s.Adjustments)
	return out, nil
}

// SetAssumptions replaces the selected owner's assumptions.
func SetAssumptions(doc model.Document, selector string, list model.AssumptionList) (model.Document, error) {
	return update(doc, selector, func(_ model.AssumptionList, adj []model.Adjustment) (model.AssumptionList, []model.Adjustment) {
		return list.Clone(), adj
	})
}

// SetAdjustments replaces the selected owner's adjustments.
func SetAdjustments(doc model.Document, selector string, list []model.Adjustment) (model.Document, error) {
	return update(doc, selector, func(a model.AssumptionList, _ []model.Adjustment) (model.AssumptionList, []model.Adjustment) {
		return a, model.CloneAdjustments(list)
	})
}

// UpsertAssumption stores a in the selected owner, replacing any
// assumption for the same target and slot.
func UpsertAssumption(doc model.Document, selector string, a model.Assumption) (model.Document, error) {
	return update(doc, selector, func(list model.AssumptionList, adj []model.Adjustment) (model.AssumptionList, []model.Adjustment) {
		return list.Upsert(a), adj
	})
}

// AddAdjustment appends adj to the selected owner's adjustments.
func AddAdjustment(doc model.Document, selector string, adj model.Adjustment) (model.Document, error) {
	return update(doc, selector, func(a model.AssumptionList, list []model.Adjustment) (model.AssumptionList, []model.Adjustment) {
		return a, append(list, adj)
	})
}

// UndoAdjustment drops the most recent adjustment of the selected owner
// and returns it.
func UndoAdjustment(doc model.Document, selector string) (model.Document, model.Adjustment, error) {
	adjustments := Resolve(doc, selector).Adjustments
	if len(adjustments) == 0 {
		return doc, model.Adjustment{}, ErrNoAdjustments
	}
	last := adjustments[len(adjustments)-1]
	out, err := update(doc, selector, func(a model.AssumptionList, list []model.Adjustment) (model.AssumptionList, []model.Adjustment) {
		return a, list[:len(list)-1]
	})
	if err != nil {
		return doc, model.Adjustment{}, err
	}
	return out, last, nil
}

// Defer moves the tenant's whole receivable for month to the following
// month, as an adjustment on the selected owner. The receivable already
// reflects earlier overrides.
func Defer(doc model.Document, selector, tenantID string, month calendar.YearMonth, conv billing.Conventions, id string) (model.Document, model.Adjustment, error) {
	if selector != "" && selector != Current {
		if _, _, ok := Find(doc, selector); !ok {
			return doc, model.Adjustment{}, fmt.Errorf("%w: %s", ErrNotFound, selector)
		}
	}
	v := Resolve(doc, selector)
	t, ok := model.FindTenant(v.Tenants, tenantID)
	if !ok {
		return doc, model.Adjustment{}, fmt.Errorf("%w: %s", ErrUnknownTenant, tenantID)
	}

	in := v.Input(doc.Payments, conv)
	due := pipeline.PeriodReceivable(in, []model.Tenant{t}, month.Start(), month.End())
	if due <= 0 {
		return doc, model.Adjustment{}, fmt.Errorf("%w: %s %s", ErrNothingDue, t.Name, month)
	}

	adj := model.Adjustment{
		ID:         id,
		TenantID:   t.ID,
		TenantName: t.Name,
		Original:   month,
		Adjusted:   month.Next(),
		Amount:     due,
		Reason:     model.DeferReason,
	}
	out, err := AddAdjustment(doc, selector, adj)
	return out, adj, err
}

// CreateOptions describe a new scenario.
type CreateOptions struct {
	Name        string
	Description string
	// Snapshot freezes a copy of the live leases and buildings into the
	// scenario.
	Snapshot bool
}

// Create adds an inactive scenario seeded with copies of the live
// assumptions and adjustments.
func Create(doc model.Document, opts CreateOptions, id string, now time.Time) (model.Document, model.Scenario, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return doc, model.Scenario{}, ErrEmptyName
	}
	s := model.Scenario{
		ID:          id,
		Name:        name,
		Description: opts.Description,
		CreatedAt:   now.UTC(),
		Assumptions: doc.BudgetAssumptions.Clone(),
		Adjustments: model.CloneAdjustments(doc.BudgetAdjustments),
	}
	if opts.Snapshot {
		s.BaseDataSnapshot = &model.BaseSnapshot{
			Tenants:   model.CloneTenants(doc.Tenants),
			Buildings: model.CloneBuildings(doc.Buildings),
		}
	}
	out := doc.Clone()
	out.BudgetScenarios = append(out.BudgetScenarios, s)
	return out, s, nil
}

// Rename changes a scenario's name.
func Rename(doc model.Document, id, name string) (model.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return doc, ErrEmptyName
	}
	out := doc.Clone()
	_, i, ok := Find(out, id)
	if !ok {
		return doc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out.BudgetScenarios[i].Name = name
	return out, nil
}

// Delete removes a scenario. The live budget book is untouched, even when
// the deleted scenario was the active one.
func Delete(doc model.Document, id string) (model.Document, error) {
	out := doc.Clone()
	_, i, ok := Find(out, id)
	if !ok {
		return doc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out.BudgetScenarios = append(out.BudgetScenarios[:i], out.BudgetScenarios[i+1:]...)
	return out, nil
}

// Activate copies the scenario's assumptions and adjustments into the live
// data and makes it the only active scenario. A frozen snapshot is not
// copied: leases and buildings stay live.
func Activate(doc model.Document, id string) (model.Document, error) {
	out := doc.Clone()
	s, _, ok := Find(out, id)
	if !ok {
		return doc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for i := range out.BudgetScenarios {
		out.BudgetScenarios[i].IsActive = out.BudgetScenarios[i].ID == id
	}
	out.BudgetAssumptions = s.Assumptions.Clone()
	out.BudgetAdjustments = model.CloneAdjustments(s.Adjustments)
	return out, nil
}
