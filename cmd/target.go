package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/theirongolddev/rentroll/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagTargetRevenue   float64
	flagTargetOccupancy float64
)

var targetCmd = &cobra.Command{
	Use:   "target [year]",
	Short: "Show or set yearly revenue and occupancy targets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTarget,
}

func init() {
	targetCmd.Flags().Float64Var(&flagTargetRevenue, "revenue", 0, "Revenue target")
	targetCmd.Flags().Float64Var(&flagTargetOccupancy, "occupancy", 0, "Occupancy target in percent")
	rootCmd.AddCommand(targetCmd)
}

func runTarget(cmd *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		years := make([]int, 0, len(w.doc.YearlyTargets))
		for y := range w.doc.YearlyTargets {
			years = append(years, y)
		}
		sort.Ints(years)
		rows := make([][]string, 0, len(years))
		for _, y := range years {
			t := w.doc.YearlyTargets[y]
			rows = append(rows, []string{strconv.Itoa(y), cli.FormatMoney(t.Revenue), cli.FormatPercent(t.Occupancy)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Yearly Targets",
			Headers: []string{"Year", "Revenue", "Occupancy"},
			Rows:    rows,
		}))
		return nil
	}

	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}
	doc := w.doc.Clone()
	t := doc.YearlyTargets[year]
	if cmd.Flags().Changed("revenue") {
		t.Revenue = flagTargetRevenue
	}
	if cmd.Flags().Changed("occupancy") {
		t.Occupancy = flagTargetOccupancy
	}
	doc.YearlyTargets[year] = t
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  %d target: %s revenue, %s occupancy\n", year, cli.FormatMoney(t.Revenue), cli.FormatPercent(t.Occupancy))
	return nil
}
