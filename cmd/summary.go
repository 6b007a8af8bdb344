package cmd

import (
	"fmt"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Occupancy, receivable and collection summary",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}

	if len(w.doc.Tenants) == 0 && len(w.doc.Buildings) == 0 {
		fmt.Println("\n  No buildings or tenants yet.")
		fmt.Printf("  Add them to %s, then come back!\n", w.path)
		return nil
	}

	d, err := w.dashboard(currentMonth(w.year, w.now))
	if err != nil {
		return err
	}
	q, _ := w.quarter()

	// Same period a year earlier for comparison.
	prev := q.Bounds(w.year - 1)
	prevReceivable := pipeline.PeriodReceivable(pipeline.FromDocument(w.doc, w.conv), w.doc.Tenants, prev.Start, prev.End)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RENT ROLL  %d %s", d.Year, q.Label())))
	fmt.Println()

	receivable := cli.FormatMoney(d.PeriodRevenueTarget)
	if prevReceivable > 0 {
		receivable += fmt.Sprintf("  (%s vs %d)", cli.FormatDelta(d.PeriodRevenueTarget, prevReceivable), w.year-1)
	}

	rows := [][]string{
		{"Buildings", formatNumber(int64(len(d.Buildings)))},
		{"Leasable area", cli.FormatArea(d.TotalArea)},
		{"Leased area", cli.FormatArea(d.LeasedArea)},
		{"Occupancy", cli.FormatPercent(d.OccupancyRate)},
		cli.SeparatorRow,
		{"Receivable", receivable},
		{"Collected", cli.FormatMoney(d.PeriodRevenueCollected)},
		{"Collection rate", cli.RenderRateBar(d.CollectionRate, 20)},
		cli.SeparatorRow,
		{fmt.Sprintf("Collected %d", d.Year), cli.FormatMoney(d.AnnualRevenueCollected)},
	}
	if d.AnnualRevenueTarget > 0 {
		rows = append(rows, []string{"Revenue target", cli.FormatMoney(d.AnnualRevenueTarget)})
	}
	if d.AnnualOccupancyTarget > 0 {
		rows = append(rows, []string{"Occupancy target", cli.FormatPercent(d.AnnualOccupancyTarget)})
	}
	rows = append(rows,
		cli.SeparatorRow,
		[]string{"New contracts", formatNumber(int64(d.NewContractsCount))},
		[]string{"Expiring", formatNumber(int64(d.ExpiringSoonCount))},
	)
	if p := d.ParkingStats; p.TotalContractSpaces > 0 || p.TotalRevenue > 0 {
		rows = append(rows,
			[]string{"Parking spaces", fmt.Sprintf("%d contracted, %d used", p.TotalContractSpaces, p.TotalActualSpaces)},
			[]string{"Parking fees", cli.FormatMoney(p.TotalRevenue)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(d.ExpiringSoon) > 0 {
		expRows := make([][]string, 0, len(d.ExpiringSoon))
		for _, t := range d.ExpiringSoon {
			expRows = append(expRows, []string{t.Name, cli.FormatArea(t.TotalArea), t.LeaseEnd.String(), string(t.Status)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Expiring in Period",
			Headers: []string{"Tenant", "Area", "Lease End", "Status"},
			Rows:    expRows,
		}))
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Units",
		Headers: []string{"Building", "Units", "Occupied", "Vacant", "Self-use"},
		Rows:    unitRows(d.Buildings),
	}))

	for _, msg := range d.Warnings {
		fmt.Println(cli.RenderWarning(msg))
	}
	w.printIssues()
	return nil
}

// unitRows counts units by synced status per building.
func unitRows(buildings []model.Building) [][]string {
	rows := make([][]string, 0, len(buildings))
	for _, b := range buildings {
		var occupied, vacant, self int
		for _, u := range b.Units {
			switch {
			case u.IsSelfUse:
				self++
			case u.Status == model.UnitOccupied:
				occupied++
			default:
				vacant++
			}
		}
		rows = append(rows, []string{
			b.Name,
			formatNumber(int64(len(b.Units))),
			formatNumber(int64(occupied)),
			formatNumber(int64(vacant)),
			formatNumber(int64(self)),
		})
	}
	return rows
}
