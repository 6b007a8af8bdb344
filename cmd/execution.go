package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/spf13/cobra"
)

var executionCmd = &cobra.Command{
	Use:   "execution",
	Short: "Budget versus collected revenue by month",
	RunE:  runExecution,
}

func init() {
	rootCmd.AddCommand(executionCmd)
}

func runExecution(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	r := pipeline.Execution(w.input(), w.year)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("EXECUTION  %d  %s", w.year, w.view().Name)))
	fmt.Println()

	rows := make([][]string, 0, len(r.Months)+2)
	for _, m := range r.Months {
		rate := ""
		if m.Budget > 0 {
			rate = cli.FormatPercent(pipeline.CompletionRate(m.Actual, m.Budget))
		}
		rows = append(rows, []string{
			time.Month(m.Month).String()[:3],
			cli.FormatMoney(m.Budget),
			cli.FormatMoney(m.Actual),
			cli.FormatDelta(m.Actual, m.Budget),
			rate,
		})
	}
	rows = append(rows, cli.SeparatorRow, []string{
		"TOTAL",
		cli.FormatMoney(r.TotalBudget),
		cli.FormatMoney(r.TotalActual),
		cli.FormatDelta(r.TotalActual, r.TotalBudget),
		cli.FormatPercent(r.CompletionRate),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Budget", "Collected", "Difference", "Rate"},
		Rows:    rows,
	}))
	fmt.Printf("  Completion %s\n\n", cli.RenderRateBar(r.CompletionRate, 30))

	if text := w.doc.BudgetAnalysis.Execution; text != "" {
		fmt.Println("  Commentary")
		fmt.Println(cli.RenderMuted("  " + text))
		fmt.Println()
	}
	return nil
}
