package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/source"
)

var testNow = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

func testDoc() model.Document {
	doc := model.DefaultDocument(testNow)
	doc.Buildings = []model.Building{{
		ID:   "b1",
		Name: "Tower A",
		Units: []model.Unit{
			{ID: "u1", Name: "101", Area: 100, Status: model.UnitOccupied},
			{ID: "u2", Name: "102", Area: 200, Status: model.UnitOccupied},
			{ID: "u3", Name: "103", Area: 50, Status: model.UnitVacant},
			{ID: "u4", Name: "104", Area: 30, Status: model.UnitOccupied, IsSelfUse: true},
		},
	}}
	doc.Tenants = []model.Tenant{
		{
			ID: "t1", Name: "Acme", BuildingID: "b1", UnitIDs: []string{"u1"}, TotalArea: 100,
			LeaseStart: calendar.D("2024-01-01"), LeaseEnd: calendar.D("2024-12-31"),
			MonthlyRent: 9000, PaymentCycle: model.CycleQuarterly, Status: model.StatusActive,
		},
		{
			ID: "t2", Name: "Globex", BuildingID: "b1", UnitIDs: []string{"u2"}, TotalArea: 200,
			LeaseStart: calendar.D("2023-07-01"), LeaseEnd: calendar.D("2024-06-30"),
			MonthlyRent: 10000, PaymentCycle: model.CycleMonthly, Status: model.StatusExpiring,
		},
	}
	doc.Payments = []model.PaymentRecord{
		{ID: "p1", TenantID: "t1", Amount: 20000, Type: model.PaymentRent, Date: "2024-03-10"},
	}
	return doc
}

func newTestService(t *testing.T, doc *model.Document) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), source.FileName)
	if doc != nil {
		require.NoError(t, source.WriteDocument(path, *doc, false))
	}
	s := New(Config{
		DataFile:     path,
		Year:         2024,
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		Now:          func() time.Time { return testNow },
	})
	return s, path
}

func get(t *testing.T, s *Service, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Tenants: 10, LeasedArea: 1000, OccupancyRate: 80, PeriodRevenueTarget: 50000, PeriodRevenueCollected: 20000}
	curr := Snapshot{Tenants: 12, LeasedArea: 1200, OccupancyRate: 96, PeriodRevenueTarget: 60000, PeriodRevenueCollected: 26000}

	delta := diffSnapshots(prev, curr)
	assert.Equal(t, 2, delta.Tenants)
	assert.InDelta(t, 200, delta.LeasedArea, 1e-9)
	assert.InDelta(t, 16, delta.OccupancyRate, 1e-9)
	assert.InDelta(t, 10000, delta.RevenueTarget, 1e-9)
	assert.InDelta(t, 6000, delta.RevenueCollected, 1e-9)
	assert.False(t, delta.isZero())
	assert.True(t, diffSnapshots(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{DataFile: "x.json", Interval: 10 * time.Second, EventsBuffer: 2})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestPollOnceLoadsAndSkipsUnchanged(t *testing.T) {
	doc := testDoc()
	s, path := newTestService(t, &doc)

	s.pollOnce()
	s.pollOnce()

	st := s.snapshotStatus()
	assert.Equal(t, int64(2), st.PollCount)
	assert.Equal(t, int64(1), st.LoadCount)
	assert.Equal(t, 2, st.Summary.Tenants)
	assert.Equal(t, 2024, st.Year)
	assert.Equal(t, 1, st.EventCount)

	doc.Tenants = doc.Tenants[:1]
	require.NoError(t, source.WriteDocument(path, doc, false))
	s.pollOnce()

	var events []Event
	rec := get(t, s, "/v1/events", &events)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, events, 2)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, EventDelta, events[1].Type)
	assert.Equal(t, -1, events[1].Delta.Tenants)
}

func TestPollOnceMissingFileUsesDefaults(t *testing.T) {
	s, _ := newTestService(t, nil)
	s.pollOnce()

	st := s.snapshotStatus()
	assert.Empty(t, st.LastError)
	assert.Zero(t, st.Summary.Tenants)
	assert.Equal(t, int64(1), st.LoadCount)
}

func TestHandlersNotReady(t *testing.T) {
	s, _ := newTestService(t, nil)
	rec := get(t, s, "/v1/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, s, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestHandleDashboard(t *testing.T) {
	doc := testDoc()
	s, _ := newTestService(t, &doc)
	s.pollOnce()

	var dash model.Dashboard
	rec := get(t, s, "/v1/dashboard", &dash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, dash.Year)
	assert.Equal(t, 100.0, dash.LeasedArea)
	assert.Equal(t, 28.6, dash.OccupancyRate)
	assert.Equal(t, 2, dash.ExpiringSoonCount)

	var q1 model.Dashboard
	rec = get(t, s, "/v1/dashboard?year=2024&quarter=q1", &q1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Q1", q1.Quarter)
	assert.Equal(t, 57000.0, q1.PeriodRevenueTarget)

	rec = get(t, s, "/v1/dashboard?quarter=q9", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = get(t, s, "/v1/dashboard?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBilling(t *testing.T) {
	doc := testDoc()
	s, _ := newTestService(t, &doc)
	s.pollOnce()

	var resp BillingResponse
	rec := get(t, s, "/v1/billing?month=2024-03", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03", resp.Month)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, 37000.0, resp.TotalDue)
	assert.Equal(t, 20000.0, resp.TotalPaid)
	assert.Equal(t, model.BillPartial, resp.Details[0].Status)
	assert.Equal(t, model.BillUnpaid, resp.Details[1].Status)

	rec = get(t, s, "/v1/billing?month=March", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBills(t *testing.T) {
	doc := testDoc()
	s, _ := newTestService(t, &doc)
	s.pollOnce()

	var resp BillsResponse
	rec := get(t, s, "/v1/tenants/t1/bills?year=2024", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", resp.Tenant)
	assert.Equal(t, 81000.0, resp.Total)
	assert.False(t, resp.Capped)
	require.Len(t, resp.Bills, 3)
	assert.Equal(t, "2024-03-01", resp.Bills[0].Date)
	assert.Equal(t, "2024-04-01", resp.Bills[0].CoverageStart)
	assert.Equal(t, "2024-06-30", resp.Bills[0].CoverageEnd)
	assert.Empty(t, resp.Bills[0].OriginalDate)

	rec = get(t, s, "/v1/tenants/nobody/bills", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBudget(t *testing.T) {
	doc := testDoc()
	s, _ := newTestService(t, &doc)
	s.pollOnce()

	var resp BudgetResponse
	rec := get(t, s, "/v1/budget?year=2024", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "current", resp.Scenario)
	assert.False(t, resp.Frozen)

	var total float64
	for _, v := range resp.Totals {
		total += v
	}
	assert.Equal(t, 131000.0, total)
	assert.Equal(t, 131000.0, resp.Impact.ExistingTotal+resp.Impact.Renewal+resp.Impact.ReLease+resp.Impact.RiskReLease+resp.Impact.VacancyFill)

	rec = get(t, s, "/v1/budget?scenario=missing", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "current", resp.Scenario)
}

func TestHandleStatus(t *testing.T) {
	doc := testDoc()
	s, path := newTestService(t, &doc)
	s.pollOnce()

	var st Status
	rec := get(t, s, "/v1/status", &st)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, path, st.DataFile)
	assert.Equal(t, "All", st.Quarter)
	assert.Equal(t, 10, st.PollIntervalSec)
}
