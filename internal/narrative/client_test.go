package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("RENTROLL_NARRATIVE_KEY", "test-key")
	cfg := config.DefaultConfig()
	cfg.Narrative.BaseURL = srv.URL
	cfg.Narrative.TimeoutSeconds = 5
	c := NewClient(cfg, nil)
	require.NotNil(t, c)
	return c
}

func TestNewClientWithoutKey(t *testing.T) {
	t.Setenv("RENTROLL_NARRATIVE_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	assert.Nil(t, NewClient(config.DefaultConfig(), nil))
}

func TestNilClientIsOffline(t *testing.T) {
	var c *Client
	text, err := c.AnalyzeBudget(context.Background(), KindRevenue, BudgetSummary{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, OfflineNotice, text)
}

func TestAnalyzeBudgetSendsSummary(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Occupancy dips "},{"text":"in July.\n"}]}}]}`))
	})

	text, err := c.AnalyzeBudget(context.Background(), KindOccupancy, BudgetSummary{Year: 2024, GrandTotal: 131000})
	require.NoError(t, err)
	assert.Equal(t, "Occupancy dips in July.", text)
	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	prompt := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, `"grandTotal":131000`)
	assert.Contains(t, prompt, "occupancy changes")
	assert.Equal(t, 0.5, gotBody.GenerationConfig.Temperature)
}

func TestAnalyzeExecutionPrompt(t *testing.T) {
	var prompt string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		prompt = body.Contents[0].Parts[0].Text
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	text, err := c.AnalyzeBudget(context.Background(), KindExecution, ExecutionSummary{Year: 2024, CompletionRate: 92})
	require.NoError(t, err)
	assert.Equal(t, emptyReply, text)
	assert.Contains(t, prompt, "completion rate")
	assert.Contains(t, prompt, `"completionRate":92`)
}

func TestAnalyzeBudgetStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRateLimited},
		{name: "api message", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"model not found","status":"INVALID_ARGUMENT"}}`, msg: "model not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.AnalyzeBudget(context.Background(), KindRevenue, BudgetSummary{})
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Execution ")
	assert.True(t, ok)
	assert.Equal(t, KindExecution, k)
	_, ok = ParseKind("weather")
	assert.False(t, ok)
}

func TestRecord(t *testing.T) {
	var a model.BudgetAnalysis
	Record(&a, KindOccupancy, "o")
	Record(&a, KindRevenue, "r")
	Record(&a, KindExecution, "e")
	assert.Equal(t, model.BudgetAnalysis{Occupancy: "o", Revenue: "r", Execution: "e"}, a)
}

func summaryInput() pipeline.Input {
	doc := model.DefaultDocument(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	doc.Buildings = []model.Building{{
		ID: "b1", Name: "Tower A",
		Units: []model.Unit{{ID: "u1", Name: "101", Area: 100, Status: model.UnitOccupied}},
	}}
	doc.Tenants = []model.Tenant{{
		ID: "t1", Name: "Acme", BuildingID: "b1", UnitIDs: []string{"u1"}, TotalArea: 100,
		LeaseStart: calendar.D("2024-01-01"), LeaseEnd: calendar.D("2025-12-31"),
		MonthlyRent: 9000, PaymentCycle: model.CycleMonthly, Status: model.StatusActive,
	}}
	return pipeline.FromDocument(doc, billing.DefaultConventions())
}

func TestSummarizeBudget(t *testing.T) {
	in := summaryInput()
	s := SummarizeBudget(in, 2024)

	var sum float64
	for _, v := range s.Totals {
		sum += v
	}
	assert.Equal(t, 2024, s.Year)
	assert.InDelta(t, sum, s.GrandTotal, 0.001)
	assert.Positive(t, s.GrandTotal)
	assert.Zero(t, s.AdjustmentCount)
	assert.Zero(t, s.AdjustmentImpact)
	assert.Equal(t, 100.0, s.OccupancyTrend[5])

	// Pick a billed month and push half of it into next year.
	month := -1
	for i, v := range s.Totals {
		if v > 0 {
			month = i
			break
		}
	}
	require.GreaterOrEqual(t, month, 0)
	moved := s.Totals[month] / 2
	in.Adjustments = []model.Adjustment{
		{ID: "a1", TenantID: "t1", Original: calendar.FromIndex(2024, month), Adjusted: calendar.YearMonth{Year: 2025, Month: time.January}, Amount: moved},
		{ID: "a2", TenantID: "t1", Original: calendar.FromIndex(2024, month), Adjusted: calendar.FromIndex(2024, month), Amount: 0},
	}
	adjusted := SummarizeBudget(in, 2024)
	assert.Equal(t, 2, adjusted.AdjustmentCount)
	assert.InDelta(t, -moved, adjusted.AdjustmentImpact, 0.001)
	assert.InDelta(t, s.GrandTotal-moved, adjusted.GrandTotal, 0.001)
}

func TestSummarizeExecution(t *testing.T) {
	r := model.ExecutionReport{
		Year:           2024,
		Months:         []model.ExecutionMonth{{Month: 1, Budget: 100, Actual: 80}, {Month: 2, Budget: 50, Actual: 70}},
		TotalBudget:    150,
		TotalActual:    150,
		CompletionRate: 100,
	}
	s := SummarizeExecution(r)
	assert.Equal(t, 100.0, s.Budget[0])
	assert.Equal(t, 70.0, s.Actual[1])
	assert.Equal(t, 150.0, s.ActualTotal)
	assert.Equal(t, 100.0, s.CompletionRate)
}
