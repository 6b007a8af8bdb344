package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/narrative"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagNarrateSave bool

var narrateCmd = &cobra.Command{
	Use:   "narrate <occupancy|revenue|execution>",
	Short: "Ask for a written commentary on the budget",
	Long: `Send the year's precomputed budget figures to the text-generation API
and print its commentary. Only totals and rates are sent, never tenant data.`,
	Args: cobra.ExactArgs(1),
	RunE: runNarrate,
}

func init() {
	narrateCmd.Flags().BoolVar(&flagNarrateSave, "save", false, "Store the commentary in the data file")
	rootCmd.AddCommand(narrateCmd)
}

func runNarrate(cmd *cobra.Command, args []string) error {
	kind, ok := narrative.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown topic %q (want occupancy, revenue or execution)", args[0])
	}
	w, err := loadData()
	if err != nil {
		return err
	}
	log := newLogger(w.cfg)
	defer func() { _ = log.Sync() }()

	client := narrative.NewClient(w.cfg, log)
	in := w.input()

	var summary any
	if kind == narrative.KindExecution {
		summary = narrative.SummarizeExecution(pipeline.Execution(in, w.year))
	} else {
		summary = narrative.SummarizeBudget(in, w.year)
	}

	if !flagQuiet && client != nil {
		fmt.Fprintf(os.Stderr, "  Requesting %s commentary...\n", kind)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	text, err := client.AnalyzeBudget(ctx, kind, summary)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COMMENTARY  %s %d", kind, w.year)))
	fmt.Println()
	fmt.Println(text)
	fmt.Println()

	if flagNarrateSave && client != nil {
		doc := w.doc.Clone()
		narrative.Record(&doc.BudgetAnalysis, kind, text)
		if err := w.save(doc); err != nil {
			return err
		}
		fmt.Println(cli.RenderMuted("  Saved to " + w.path))
	}
	return nil
}
