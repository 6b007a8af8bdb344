package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

var now = time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)

func baseDoc() model.Document {
	doc := model.DefaultDocument(now)
	doc.Buildings = []model.Building{{ID: "b1", Name: "Tower A", Units: []model.Unit{
		{ID: "u1", Name: "101", Area: 100, Status: model.UnitOccupied},
		{ID: "u2", Name: "102", Area: 80, Status: model.UnitVacant},
	}}}
	doc.Tenants = []model.Tenant{{
		ID: "t1", Name: "Acme", BuildingID: "b1", UnitIDs: []string{"u1"}, TotalArea: 100,
		LeaseStart: calendar.D("2024-01-01"), LeaseEnd: calendar.D("2024-12-31"),
		MonthlyRent: 9000, PaymentCycle: model.CycleQuarterly, Status: model.StatusActive,
	}}
	doc.BudgetAssumptions = model.AssumptionList{
		model.DefaultAssumption(model.TargetVacancy, "u2", "102", 2024),
	}
	doc.BudgetAdjustments = []model.Adjustment{{
		ID: "a0", TenantID: "t1",
		Original: calendar.YearMonth{Year: 2024, Month: time.June},
		Adjusted: calendar.YearMonth{Year: 2024, Month: time.July},
		Amount:   1000,
	}}
	return doc
}

func withScenario(t *testing.T, doc model.Document, snapshot bool) (model.Document, model.Scenario) {
	t.Helper()
	out, s, err := Create(doc, CreateOptions{Name: "Downside", Description: "slow leasing", Snapshot: snapshot}, "s1", now)
	require.NoError(t, err)
	return out, s
}

func TestResolve_Current(t *testing.T) {
	doc := baseDoc()
	for _, sel := range []string{Current, "", "missing"} {
		v := Resolve(doc, sel)
		assert.Equal(t, Current, v.Selector, sel)
		assert.Equal(t, doc.Tenants, v.Tenants)
		assert.Equal(t, doc.BudgetAdjustments, v.Adjustments)
		assert.False(t, v.Frozen)
	}
}

func TestResolve_ScenarioWithSnapshot(t *testing.T) {
	doc, _ := withScenario(t, baseDoc(), true)
	doc.Tenants[0].MonthlyRent = 1

	v := Resolve(doc, "s1")
	assert.Equal(t, "s1", v.Selector)
	assert.Equal(t, "Downside", v.Name)
	assert.True(t, v.Frozen)
	assert.Equal(t, 9000.0, v.Tenants[0].MonthlyRent, "snapshot tenants win over live")
	assert.Len(t, v.Adjustments, 1)
}

func TestResolve_ScenarioWithoutSnapshot(t *testing.T) {
	doc, _ := withScenario(t, baseDoc(), false)
	doc.Tenants[0].MonthlyRent = 1

	v := Resolve(doc, "s1")
	assert.False(t, v.Frozen)
	assert.Equal(t, 1.0, v.Tenants[0].MonthlyRent)
}

func TestCreate(t *testing.T) {
	doc := baseDoc()
	out, s, err := Create(doc, CreateOptions{Name: "  Upside  ", Snapshot: true}, "s9", now)
	require.NoError(t, err)

	assert.Equal(t, "Upside", s.Name)
	assert.False(t, s.IsActive)
	assert.Equal(t, now, s.CreatedAt)
	require.NotNil(t, s.BaseDataSnapshot)
	assert.Len(t, out.BudgetScenarios, 1)
	assert.Empty(t, doc.BudgetScenarios, "input is not modified")

	out.BudgetScenarios[0].Adjustments[0].Amount = 5
	assert.Equal(t, 1000.0, out.BudgetAdjustments[0].Amount, "scenario copies are independent")

	_, _, err = Create(doc, CreateOptions{Name: " "}, "s10", now)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestMutationsRouteToOwner(t *testing.T) {
	doc, _ := withScenario(t, baseDoc(), false)
	adj := model.Adjustment{ID: "a1", TenantID: "t1",
		Original: calendar.YearMonth{Year: 2024, Month: time.September},
		Adjusted: calendar.YearMonth{Year: 2024, Month: time.October},
		Amount:   500,
	}

	scen, err := AddAdjustment(doc, "s1", adj)
	require.NoError(t, err)
	assert.Len(t, scen.BudgetAdjustments, 1, "live untouched")
	assert.Len(t, scen.BudgetScenarios[0].Adjustments, 2)

	live, err := AddAdjustment(doc, Current, adj)
	require.NoError(t, err)
	assert.Len(t, live.BudgetAdjustments, 2)
	assert.Len(t, live.BudgetScenarios[0].Adjustments, 1, "scenario untouched")

	_, err = AddAdjustment(doc, "nope", adj)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, doc.BudgetAdjustments, 1)
	assert.Len(t, doc.BudgetScenarios[0].Adjustments, 1)
}

func TestUpsertAssumption_LastWriteWins(t *testing.T) {
	doc := baseDoc()
	a := model.VacancyAssumption{
		AssumptionBase: model.AssumptionBase{ID: "v2", TargetID: "u2"},
		Projection:     model.Projection{SignDate: calendar.D("2024-07-01"), UnitPrice: 4},
	}
	out, err := UpsertAssumption(doc, Current, a)
	require.NoError(t, err)
	require.Len(t, out.BudgetAssumptions, 1)
	got, ok := out.BudgetAssumptions.Find("u2", model.TargetVacancy)
	require.True(t, ok)
	assert.Equal(t, 4.0, got.(model.VacancyAssumption).UnitPrice)

	out, err = UpsertAssumption(out, Current, model.DefaultAssumption(model.TargetRenewal, "t1", "Acme", 2024))
	require.NoError(t, err)
	assert.Len(t, out.BudgetAssumptions, 2)
}

func TestSetAssumptionsAndAdjustments(t *testing.T) {
	doc, _ := withScenario(t, baseDoc(), false)
	out, err := SetAssumptions(doc, "s1", model.AssumptionList{})
	require.NoError(t, err)
	assert.Empty(t, out.BudgetScenarios[0].Assumptions)
	assert.Len(t, out.BudgetAssumptions, 1)

	out, err = SetAdjustments(out, Current, nil)
	require.NoError(t, err)
	assert.NotNil(t, out.BudgetAdjustments)
	assert.Empty(t, out.BudgetAdjustments)
}

func TestUndoAdjustment(t *testing.T) {
	doc := baseDoc()
	out, undone, err := UndoAdjustment(doc, Current)
	require.NoError(t, err)
	assert.Equal(t, "a0", undone.ID)
	assert.Empty(t, out.BudgetAdjustments)
	assert.Len(t, doc.BudgetAdjustments, 1)

	_, _, err = UndoAdjustment(out, Current)
	assert.ErrorIs(t, err, ErrNoAdjustments)

	_, _, err = UndoAdjustment(doc, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefer(t *testing.T) {
	doc := baseDoc()
	march := calendar.YearMonth{Year: 2024, Month: time.March}

	out, adj, err := Defer(doc, Current, "t1", march, billing.DefaultConventions(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 27000.0, adj.Amount)
	assert.Equal(t, time.April, adj.Adjusted.Month)
	assert.Equal(t, model.DeferReason, adj.Reason)
	assert.Equal(t, "Acme", adj.TenantName)
	require.Len(t, out.BudgetAdjustments, 2)

	// The deferred month now owes nothing.
	_, _, err = Defer(out, Current, "t1", march, billing.DefaultConventions(), "d2")
	assert.ErrorIs(t, err, ErrNothingDue)

	_, _, err = Defer(doc, Current, "t1", calendar.YearMonth{Year: 2024, Month: time.April}, billing.DefaultConventions(), "d3")
	assert.ErrorIs(t, err, ErrNothingDue)

	_, _, err = Defer(doc, Current, "zz", march, billing.DefaultConventions(), "d4")
	assert.ErrorIs(t, err, ErrUnknownTenant)

	_, _, err = Defer(doc, "nope", "t1", march, billing.DefaultConventions(), "d5")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefer_DecemberRollsIntoNextYear(t *testing.T) {
	doc := baseDoc()
	doc.Tenants[0].LeaseEnd = calendar.D("2025-12-31")
	_, adj, err := Defer(doc, Current, "t1", calendar.YearMonth{Year: 2024, Month: time.December}, billing.DefaultConventions(), "d1")
	require.NoError(t, err)
	assert.Equal(t, calendar.YearMonth{Year: 2025, Month: time.January}, adj.Adjusted)
}

func TestRenameAndDelete(t *testing.T) {
	doc, _ := withScenario(t, baseDoc(), false)

	out, err := Rename(doc, "s1", "Base case")
	require.NoError(t, err)
	assert.Equal(t, "Base case", out.BudgetScenarios[0].Name)
	assert.Equal(t, "Downside", doc.BudgetScenarios[0].Name)

	_, err = Rename(doc, "s1", "")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = Rename(doc, "zz", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	out, err = Delete(out, "s1")
	require.NoError(t, err)
	assert.Empty(t, out.BudgetScenarios)
	assert.Len(t, out.BudgetAdjustments, 1)
	_, err = Delete(out, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivate(t *testing.T) {
	doc, _ := withScenario(t, baseDoc(), false)
	doc, _, err := Create(doc, CreateOptions{Name: "Second"}, "s2", now)
	require.NoError(t, err)
	doc, err = SetAdjustments(doc, "s2", nil)
	require.NoError(t, err)

	out, err := Activate(doc, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", ActiveID(out))

	out, err = Activate(out, "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", ActiveID(out))
	active := 0
	for _, s := range out.BudgetScenarios {
		if s.IsActive {
			active++
		}
	}
	assert.Equal(t, 1, active, "at most one active scenario")
	assert.Empty(t, out.BudgetAdjustments, "live book takes the scenario's adjustments")

	_, err = Activate(out, "zz")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, Current, ActiveID(baseDoc()))
}

func TestViewInput(t *testing.T) {
	doc := baseDoc()
	doc.Payments = []model.PaymentRecord{{ID: "p1", TenantID: "t1", Amount: 10, Type: model.PaymentRent, Date: "2024-03-01"}}
	in := Resolve(doc, Current).Input(doc.Payments, billing.DefaultConventions())
	assert.Len(t, in.Payments, 1)
	assert.Len(t, in.Tenants, 1)
	assert.Equal(t, 365.0, in.Conventions.DaysPerYear)
}
