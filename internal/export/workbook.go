// Package export writes a budget scenario to an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/scenario"
)

// Sheet names.
const (
	SheetAssumptions = "Assumptions"
	SheetAdjustments = "Adjustments"
	SheetMonthly     = "Monthly detail"
)

// AssumptionHeader is the header row of the Assumptions sheet.
var AssumptionHeader = []string{
	"Type", "Target", "Strategy", "Date", "Unit Price",
	"Rent-free Months", "Gap Months", "Price Adjustment", "Payment Shift",
}

// AdjustmentHeader is the header row of the Adjustments sheet.
var AdjustmentHeader = []string{"Tenant", "Original", "Adjusted", "Amount", "Reason"}

// MonthlyHeader is the header row of the Monthly detail sheet.
var MonthlyHeader = []string{
	"Tenant / Unit", "Category",
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	"Total",
}

// FileName is the default workbook name for a scenario export.
func FileName(selector string, now time.Time) string {
	return fmt.Sprintf("Budget_Scenario_%s_%s.xlsx", selector, now.Format("2006-01-02"))
}

// Workbook lays out view's assumptions and adjustments and the year's
// budget rows. The caller owns the returned file and must Close it.
func Workbook(view scenario.View, rows []model.BudgetRow, year int, exportedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
		}
	}()

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Budget scenario: " + view.Name,
		Description: fmt.Sprintf("%d budget, exported %s", year, exportedAt.Format(time.RFC3339)),
		Created:     exportedAt.UTC().Format(time.RFC3339),
		Creator:     "rentroll",
	}); err != nil {
		return nil, fmt.Errorf("setting properties: %w", err)
	}

	header, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetAssumptions); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeSheet(f, SheetAssumptions, AssumptionHeader, assumptionRows(view.Assumptions), header); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetAdjustments); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeSheet(f, SheetAdjustments, AdjustmentHeader, adjustmentRows(view.Adjustments), header); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetMonthly); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeSheet(f, SheetMonthly, MonthlyHeader, monthlyRows(rows), header); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	ok = true
	return f, nil
}

// Write renders the workbook to w.
func Write(w io.Writer, view scenario.View, rows []model.BudgetRow, year int, exportedAt time.Time) error {
	f, err := Workbook(view, rows, year, exportedAt)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("creating header style: %w", err)
	}
	return style, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell, last, style); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", lastCol, 14)
}

func assumptionRows(list model.AssumptionList) [][]any {
	out := make([][]any, 0, len(list))
	for _, a := range list {
		base := a.Base()
		row := []any{string(a.Slot()), base.TargetName, "-", "-", "-", 0, "-", "-", "-"}
		if a.Slot() == model.TargetRenewal {
			row[2] = string(a.Kind())
		}
		if p, ok := billing.ProjectionOf(a); ok {
			if p.SignDate.Set() {
				row[3] = p.SignDate.String()
			}
			if p.UnitPrice > 0 {
				row[4] = p.UnitPrice
			}
			row[5] = p.RentFreeMonths
		}
		switch v := a.(type) {
		case model.ReLeaseAssumption:
			row[6] = v.GapMonths
		case model.RiskTerminationAssumption:
			if v.TerminationDate.Set() {
				row[3] = v.TerminationDate.String()
			}
			row[6] = v.GapMonths
		case model.ExistingAssumption:
			if pa := v.PriceAdjustment; pa != nil {
				row[7] = fmt.Sprintf("%s from %s", strconv.FormatFloat(pa.NewUnitPrice, 'f', -1, 64), pa.Start)
				if pa.End.Set() {
					row[7] = fmt.Sprintf("%s to %s", row[7], pa.End)
				}
			}
			if ps := v.PaymentShift; ps != nil && ps.Active {
				row[8] = fmt.Sprintf("%s -> %s (%s)", ps.From.Key(), ps.To.Key(), strconv.FormatFloat(ps.Amount, 'f', -1, 64))
			}
		}
		out = append(out, row)
	}
	return out
}

func adjustmentRows(list []model.Adjustment) [][]any {
	out := make([][]any, 0, len(list))
	for _, adj := range list {
		name := adj.TenantName
		if name == "" {
			name = adj.TenantID
		}
		out = append(out, []any{name, adj.Original.Key(), adj.Adjusted.Key(), adj.Amount, adj.Reason})
	}
	return out
}

// monthlyRows renders one row per budget row plus a totals row. Empty
// months are left blank.
func monthlyRows(rows []model.BudgetRow) [][]any {
	out := make([][]any, 0, len(rows)+1)
	var totals [12]float64
	var grand float64
	for _, r := range rows {
		row := make([]any, 0, len(MonthlyHeader))
		name := r.Name
		if r.Vacant {
			name = fmt.Sprintf("%s (%s)", r.Name, r.Units)
		}
		row = append(row, name, string(r.Category))
		for i, m := range r.Months {
			totals[i] += m.Amount
			if m.Amount > 0 {
				row = append(row, m.Amount)
			} else {
				row = append(row, "")
			}
		}
		total := r.Total()
		grand += total
		out = append(out, append(row, total))
	}
	if len(rows) == 0 {
		return out
	}
	row := []any{"Total", ""}
	for _, v := range totals {
		row = append(row, v)
	}
	return append(out, append(row, grand))
}
