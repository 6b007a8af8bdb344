package pipeline

import (
	"time"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// park is a small property used across the pipeline tests:
//
//	t1: 100 m2 on u1, all of 2024, quarterly, 9000/month
//	t2: 200 m2 on u2, 2023-07-01..2024-06-30, monthly, 10000/month
//	u3: 50 m2 vacant
//	u4: 30 m2 self-use
func park() model.Document {
	doc := model.DefaultDocument(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
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
			ParkingSpaces: 2,
		},
		{
			ID: "t2", Name: "Globex", BuildingID: "b1", UnitIDs: []string{"u2"}, TotalArea: 200,
			LeaseStart: calendar.D("2023-07-01"), LeaseEnd: calendar.D("2024-06-30"),
			MonthlyRent: 10000, PaymentCycle: model.CycleMonthly, Status: model.StatusExpiring,
		},
	}
	doc.Payments = []model.PaymentRecord{
		{ID: "p1", TenantID: "t1", Amount: 20000, Type: model.PaymentRent, Date: "2024-03-10"},
		{ID: "p2", TenantID: "t1", Amount: 500, Type: model.PaymentParkingFee, Date: "2024-03-20"},
		{ID: "p3", TenantID: "t1", Amount: 5000, Type: model.PaymentDeposit, Date: "2024-01-05"},
	}
	return doc
}

func parkInput() Input {
	return FromDocument(park(), billing.DefaultConventions())
}

func ym(year int, month time.Month) calendar.YearMonth {
	return calendar.YearMonth{Year: year, Month: month}
}

func rowByID(rows []model.BudgetRow, id string) (model.BudgetRow, bool) {
	for _, r := range rows {
		if r.ID == id {
			return r, true
		}
	}
	return model.BudgetRow{}, false
}
