package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagBudgetMonthly bool

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Yearly budget detail per tenant and vacant unit",
	RunE:  runBudget,
}

func init() {
	budgetCmd.Flags().BoolVar(&flagBudgetMonthly, "monthly", false, "One column per month instead of per quarter")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	view := w.view()
	in := w.input()
	rows := pipeline.BudgetRows(in, w.year)

	title := fmt.Sprintf("BUDGET  %d  %s", w.year, view.Name)
	if view.Frozen {
		title += " (frozen leases)"
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println("  No tenants or vacant units to budget.")
		return nil
	}

	groups := quarterGroups
	headers := []string{"Tenant", "Area", "Category", "Q1", "Q2", "Q3", "Q4", "Total"}
	if flagBudgetMonthly {
		groups = monthGroups
		headers = []string{"Tenant", "Area", "Category"}
		for m := time.January; m <= time.December; m++ {
			headers = append(headers, m.String()[:3])
		}
		headers = append(headers, "Total")
	}

	var grand float64
	table := make([][]string, 0, len(rows)+2)
	for _, r := range rows {
		name := r.Name
		if r.Vacant {
			name = r.Name + " " + r.Units
		}
		line := []string{name, cli.FormatArea(r.Area), string(r.Category)}
		var amounts [12]float64
		for i, m := range r.Months {
			amounts[i] = m.Amount
		}
		line = append(line, groupCells(amounts, groups)...)
		line = append(line, cli.FormatAmountCell(r.Total()))
		table = append(table, line)
		grand += r.Total()
	}
	totals := pipeline.ColumnTotals(rows)
	footer := append([]string{"TOTAL", "", ""}, groupCells(totals, groups)...)
	footer = append(footer, cli.FormatAmountCell(grand))
	table = append(table, cli.SeparatorRow, footer)

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: table}))

	occupancy := pipeline.OccupancyByMonth(rows, model.LeasableArea(view.Buildings))
	fmt.Printf("  Occupancy  %s  %s .. %s\n\n",
		cli.RenderSparkline(occupancy[:]), cli.FormatPercent(occupancy[0]), cli.FormatPercent(occupancy[11]))

	impact := pipeline.Impact(rows, w.year)
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Impact",
		Headers: []string{"Source", "Revenue"},
		Rows: [][]string{
			{"Existing leases", cli.FormatMoney(impact.ExistingTotal)},
			{"Renewals", cli.FormatMoney(impact.Renewal)},
			{"Re-leases", cli.FormatMoney(impact.ReLease)},
			{"Risk re-lets", cli.FormatMoney(impact.RiskReLease)},
			{"Vacancy fills", cli.FormatMoney(impact.VacancyFill)},
		},
	}))

	if n := len(view.Adjustments); n > 0 {
		last := view.Adjustments[n-1]
		fmt.Printf("  %d adjustments, last: %s %s -> %s %s\n\n",
			n, last.TenantName, last.Original, last.Adjusted, cli.FormatMoney(last.Amount))
	}
	return nil
}

var (
	quarterGroups = [][2]int{{0, 3}, {3, 6}, {6, 9}, {9, 12}}
	monthGroups   = func() [][2]int {
		g := make([][2]int, 12)
		for i := range g {
			g[i] = [2]int{i, i + 1}
		}
		return g
	}()
)

// groupCells sums amounts over each [from, to) month range.
func groupCells(amounts [12]float64, groups [][2]int) []string {
	cells := make([]string, len(groups))
	for i, g := range groups {
		var sum float64
		for _, v := range amounts[g[0]:g[1]] {
			sum += v
		}
		cells[i] = cli.FormatAmountCell(sum)
	}
	return cells
}
