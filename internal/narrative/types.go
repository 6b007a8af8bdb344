package narrative

import (
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
)

// Kind selects the topic of a budget commentary.
type Kind string

// Commentary topics.
const (
	KindOccupancy Kind = "occupancy"
	KindRevenue   Kind = "revenue"
	KindExecution Kind = "execution"
)

// ParseKind accepts a topic name in any case.
func ParseKind(s string) (Kind, bool) {
	switch Kind(lower(s)) {
	case KindOccupancy:
		return KindOccupancy, true
	case KindRevenue:
		return KindRevenue, true
	case KindExecution:
		return KindExecution, true
	}
	return "", false
}

// BudgetSummary is what the occupancy and revenue commentaries see.
type BudgetSummary struct {
	Year             int         `json:"year"`
	Totals           [12]float64 `json:"totals"`
	GrandTotal       float64     `json:"grandTotal"`
	OccupancyTrend   [12]float64 `json:"occupancyTrend"`
	AdjustmentCount  int         `json:"adjustmentCount"`
	AdjustmentImpact float64     `json:"adjustmentImpact"`
}

// ExecutionSummary is what the execution commentary sees.
type ExecutionSummary struct {
	Year           int         `json:"year"`
	Budget         [12]float64 `json:"budget"`
	Actual         [12]float64 `json:"actual"`
	BudgetTotal    float64     `json:"budgetTotal"`
	ActualTotal    float64     `json:"actualTotal"`
	CompletionRate float64     `json:"completionRate"`
}

// SummarizeBudget computes the year's budget figures for in. The
// adjustment impact is the difference the adjustments make to the year's
// total.
func SummarizeBudget(in pipeline.Input, year int) BudgetSummary {
	rows := pipeline.BudgetRows(in, year)
	s := BudgetSummary{
		Year:            year,
		Totals:          pipeline.ColumnTotals(rows),
		OccupancyTrend:  pipeline.OccupancyByMonth(rows, model.LeasableArea(in.Buildings)),
		AdjustmentCount: len(in.Adjustments),
	}
	for _, v := range s.Totals {
		s.GrandTotal += v
	}
	if len(in.Adjustments) > 0 {
		base := in
		base.Adjustments = nil
		var unadjusted float64
		for _, v := range pipeline.ColumnTotals(pipeline.BudgetRows(base, year)) {
			unadjusted += v
		}
		s.AdjustmentImpact = s.GrandTotal - unadjusted
	}
	return s
}

// SummarizeExecution copies an execution report into the numbers sent out.
func SummarizeExecution(r model.ExecutionReport) ExecutionSummary {
	s := ExecutionSummary{
		Year:           r.Year,
		BudgetTotal:    r.TotalBudget,
		ActualTotal:    r.TotalActual,
		CompletionRate: r.CompletionRate,
	}
	for i, m := range r.Months {
		if i >= 12 {
			break
		}
		s.Budget[i] = m.Budget
		s.Actual[i] = m.Actual
	}
	return s
}

// Record stores text under kind's topic.
func Record(a *model.BudgetAnalysis, kind Kind, text string) {
	switch kind {
	case KindOccupancy:
		a.Occupancy = text
	case KindRevenue:
		a.Revenue = text
	case KindExecution:
		a.Execution = text
	}
}

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

// generateResponse is the subset of the generateContent response we read.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
