package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// largePark builds n leases spread over n units, a tenth of them monthly.
func largePark(n int) model.Document {
	doc := model.DefaultDocument(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	b := model.Building{ID: "b1", Name: "Campus"}
	for i := 0; i < n; i++ {
		unitID := fmt.Sprintf("u%d", i)
		b.Units = append(b.Units, model.Unit{ID: unitID, Name: unitID, Area: 100, Status: model.UnitOccupied})
		cycle := model.CycleQuarterly
		if i%10 == 0 {
			cycle = model.CycleMonthly
		}
		start := calendar.AddMonths(calendar.New(2021, time.January, 1), i%36)
		doc.Tenants = append(doc.Tenants, model.Tenant{
			ID:           fmt.Sprintf("t%d", i),
			Name:         fmt.Sprintf("Tenant %d", i),
			BuildingID:   "b1",
			UnitIDs:      []string{unitID},
			TotalArea:    100,
			LeaseStart:   calendar.DateOf(start),
			LeaseEnd:     calendar.DateOf(calendar.AddDays(calendar.AddMonths(start, 60), -1)),
			UnitPrice:    3,
			PaymentCycle: cycle,
			Status:       model.StatusActive,
		})
	}
	doc.Buildings = []model.Building{b}
	return doc
}

func BenchmarkBudgetRows(b *testing.B) {
	in := FromDocument(largePark(500), billing.DefaultConventions())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BudgetRows(in, 2024)
	}
}

func BenchmarkRecalculate(b *testing.B) {
	doc := largePark(500)
	opts := Options{Year: 2024, Quarter: calendar.FullYear, Conventions: billing.DefaultConventions()}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Recalculate(doc, opts)
	}
}

func BenchmarkComparativeTrend(b *testing.B) {
	in := FromDocument(largePark(500), billing.DefaultConventions())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ComparativeTrend(in, 2024)
	}
}
