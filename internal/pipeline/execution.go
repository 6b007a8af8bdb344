package pipeline

import (
	"math"

	"github.com/theirongolddev/rentroll/internal/model"
)

// Execution compares the year's budget with revenue actually collected,
// month by month.
func Execution(in Input, year int) model.ExecutionReport {
	budget := ColumnTotals(BudgetRows(in, year))
	actuals := ActualsByTenant(in.Payments, year)

	var actual [12]float64
	for _, months := range actuals {
		for i, v := range months {
			actual[i] += v
		}
	}

	r := model.ExecutionReport{Year: year, Months: make([]model.ExecutionMonth, 12)}
	for i := range r.Months {
		r.Months[i] = model.ExecutionMonth{Month: i + 1, Budget: budget[i], Actual: actual[i]}
		r.TotalBudget += budget[i]
		r.TotalActual += actual[i]
	}
	r.CompletionRate = CompletionRate(r.TotalActual, r.TotalBudget)
	return r
}

// CompletionRate is actual over budget in percent. It is not capped:
// collecting ahead of budget reads above 100.
func CompletionRate(actual, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return actual / budget * 100
}

// DisplayRate clamps a rate to 0..100 for progress bars.
func DisplayRate(rate float64) float64 {
	return math.Max(0, math.Min(100, rate))
}
