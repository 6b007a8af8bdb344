package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/scenario"
)

func testView() scenario.View {
	return scenario.View{
		Selector: "s1",
		Name:     "Conservative",
		Assumptions: model.AssumptionList{
			model.VacancyAssumption{
				AssumptionBase: model.AssumptionBase{ID: "a1", TargetID: "u3", TargetName: "103"},
				Projection:     model.Projection{SignDate: calendar.D("2024-04-01"), UnitPrice: 2, RentFreeMonths: 1},
			},
			model.ReLeaseAssumption{
				AssumptionBase: model.AssumptionBase{ID: "a2", TargetID: "t2", TargetName: "Globex"},
				Projection:     model.Projection{UnitPrice: 2.5},
				GapMonths:      2,
			},
			model.ExistingAssumption{
				AssumptionBase:  model.AssumptionBase{ID: "a3", TargetID: "t1", TargetName: "Acme"},
				PriceAdjustment: &model.PriceAdjustment{NewUnitPrice: 3.2, Start: calendar.D("2024-07-01")},
				PaymentShift: &model.PaymentShift{
					Active: true,
					From:   calendar.YearMonth{Year: 2024, Month: time.April},
					To:     calendar.YearMonth{Year: 2024, Month: time.June},
					Amount: 5000,
				},
			},
		},
		Adjustments: []model.Adjustment{{
			ID: "j1", TenantID: "t1", TenantName: "Acme",
			Original: calendar.YearMonth{Year: 2024, Month: time.March},
			Adjusted: calendar.YearMonth{Year: 2024, Month: time.April},
			Amount:   7000, Reason: model.DeferReason,
		}},
	}
}

func testRows() []model.BudgetRow {
	a := model.BudgetRow{ID: "t1", Name: "Acme", Area: 100, Category: model.CategoryExisting}
	a.Months[0].Amount = 27000
	a.Months[3].Amount = 27000
	v := model.BudgetRow{ID: "u3", Name: "Vacant unit", Units: "103", Area: 50, Category: model.CategoryVacancy, Vacant: true}
	v.Months[3].Amount = 6083
	return []model.BudgetRow{a, v}
}

func TestWorkbookSheets(t *testing.T) {
	f, err := Workbook(testView(), testRows(), 2024, time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetAssumptions, SheetAdjustments, SheetMonthly}, f.GetSheetList())

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Budget scenario: Conservative", props.Title)
}

func TestWorkbookAssumptions(t *testing.T) {
	f, err := Workbook(testView(), nil, 2024, time.Now())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetAssumptions)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, AssumptionHeader, rows[0])

	assert.Equal(t, []string{"Vacancy", "103", "-", "2024-04-01", "2", "1", "-", "-", "-"}, rows[1])
	assert.Equal(t, []string{"Renewal", "Globex", "ReLease", "-", "2.5", "0", "2", "-", "-"}, rows[2])
	assert.Equal(t, "Existing", rows[3][0])
	assert.Equal(t, "3.2 from 2024-07-01", rows[3][7])
	assert.Equal(t, "2024-04 -> 2024-06 (5000)", rows[3][8])
}

func TestWorkbookAdjustments(t *testing.T) {
	f, err := Workbook(testView(), nil, 2024, time.Now())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetAdjustments)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Acme", "2024-03", "2024-04", "7000", model.DeferReason}, rows[1])
}

func TestWorkbookMonthly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testView(), testRows(), 2024, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetMonthly)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, MonthlyHeader, rows[0])

	acme := rows[1]
	assert.Equal(t, "Acme", acme[0])
	assert.Equal(t, "27000", acme[2])
	assert.Equal(t, "", acme[3])
	assert.Equal(t, "54000", acme[14])

	assert.Equal(t, "Vacant unit (103)", rows[2][0])
	assert.Equal(t, "Vacancy fill", rows[2][1])

	total := rows[3]
	assert.Equal(t, "Total", total[0])
	assert.Equal(t, "33083", total[5])
	assert.Equal(t, "60083", total[14])
}

func TestWorkbookEmptyMonthly(t *testing.T) {
	f, err := Workbook(scenario.View{Name: "Empty"}, nil, 2024, time.Now())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetMonthly)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Budget_Scenario_current_2024-05-02.xlsx",
		FileName(scenario.Current, time.Date(2024, time.May, 2, 23, 0, 0, 0, time.UTC)))
}
