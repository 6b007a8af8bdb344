package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTrendSpan int

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Monthly trend and multi-year budget comparison",
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&flagTrendSpan, "span", 2, "Years either side of the reporting year")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	d, err := w.dashboard(currentMonth(w.year, w.now))
	if err != nil {
		return err
	}
	q, _ := w.quarter()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TREND  %d %s", w.year, q.Label())))
	fmt.Println()

	monthRows := make([][]string, 0, len(d.MonthlyTrends))
	targets := make([]float64, 0, len(d.MonthlyTrends))
	for _, m := range d.MonthlyTrends {
		monthRows = append(monthRows, []string{
			m.Label,
			cli.FormatMoney(m.RevenueTarget),
			cli.FormatMoney(m.RevenueCollected),
			cli.FormatPercent(m.OccupancyRate),
			cli.FormatUnitPrice(m.AvgUnitPrice),
		})
		targets = append(targets, m.RevenueTarget)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly",
		Headers: []string{"Month", "Receivable", "Collected", "Occupancy", "Avg Price"},
		Rows:    monthRows,
	}))
	fmt.Printf("  Receivable  %s\n\n", cli.RenderSparkline(targets))

	span := max(0, flagTrendSpan)
	years := make([]int, 0, 2*span+1)
	for y := w.year - span; y <= w.year+span; y++ {
		years = append(years, y)
	}
	progressFn := func(current, total int) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  Computing [%d/%d]", current, total)
		}
	}
	metrics := pipeline.YearRange(w.input(), years, progressFn)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r%30s\r", "")
	}

	var peak float64
	for _, m := range metrics {
		peak = max(peak, m.TotalRevenue)
	}
	yearRows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		label := fmt.Sprintf("%d", m.Year)
		if m.Year == w.year {
			label += " *"
		}
		yearRows = append(yearRows, []string{
			label,
			cli.FormatMoney(m.TotalRevenue),
			cli.FormatPercent(m.AvgOccupancy),
			fmt.Sprintf("%.2f", m.AvgPrice),
			cli.RenderHorizontalBar("", m.TotalRevenue, peak, 20),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Budget by Year (" + w.view().Name + ")",
		Headers: []string{"Year", "Revenue", "Avg Occupancy", "Price/m²/day", ""},
		Rows:    yearRows,
	}))
	return nil
}
