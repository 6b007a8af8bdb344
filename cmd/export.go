package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/rentroll/internal/export"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the selected scenario's budget to an Excel workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default Budget_Scenario_<id>_<date>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	view := w.view()
	rows := pipeline.BudgetRows(w.input(), w.year)

	out := flagExportOut
	if out == "" {
		out = export.FileName(view.Selector, w.now)
	}
	//nolint:gosec // output path is chosen by the local user
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := export.Write(f, view, rows, w.year, w.now); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("  Exported %s (%d rows, %d assumptions, %d adjustments) to %s\n",
		view.Name, len(rows), len(view.Assumptions), len(view.Adjustments), out)
	return nil
}
