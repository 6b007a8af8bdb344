package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/scenario"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagAdjustFrom   string
	flagAdjustTo     string
	flagAdjustAmount float64
	flagAdjustReason string
)

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "List and edit receivable adjustments of the selected scenario",
	RunE:  runAdjustList,
}

var adjustAddCmd = &cobra.Command{
	Use:   "add <tenant>",
	Short: "Move an amount of a tenant's receivable between months",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdjustAdd,
}

var adjustUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the most recent adjustment",
	Args:  cobra.NoArgs,
	RunE:  runAdjustUndo,
}

var adjustDeferCmd = &cobra.Command{
	Use:   "defer <tenant>",
	Short: "Defer a tenant's whole receivable for a month to the next month",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdjustDefer,
}

func init() {
	adjustAddCmd.Flags().StringVar(&flagAdjustFrom, "from", "", "Original month YYYY-MM")
	adjustAddCmd.Flags().StringVar(&flagAdjustTo, "to", "", "Target month YYYY-MM")
	adjustAddCmd.Flags().Float64Var(&flagAdjustAmount, "amount", 0, "Amount to move")
	adjustAddCmd.Flags().StringVar(&flagAdjustReason, "reason", "", "Reason")
	_ = adjustAddCmd.MarkFlagRequired("from")
	_ = adjustAddCmd.MarkFlagRequired("to")
	_ = adjustAddCmd.MarkFlagRequired("amount")

	adjustDeferCmd.Flags().StringVar(&flagMonth, "month", "", "Month to defer YYYY-MM (default: current month)")

	adjustCmd.AddCommand(adjustAddCmd, adjustUndoCmd, adjustDeferCmd)
	rootCmd.AddCommand(adjustCmd)
}

func runAdjustList(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	view := w.view()

	fmt.Println()
	fmt.Println(cli.RenderTitle("ADJUSTMENTS  " + view.Name))
	fmt.Println()

	if len(view.Adjustments) == 0 {
		fmt.Println("  No adjustments.")
		return nil
	}
	rows := make([][]string, 0, len(view.Adjustments))
	for _, a := range view.Adjustments {
		rows = append(rows, []string{
			a.TenantName,
			cli.FormatMonth(a.Original),
			cli.FormatMonth(a.Adjusted),
			cli.FormatMoney(a.Amount),
			a.Reason,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Tenant", "From", "To", "Amount", "Reason"},
		Rows:    rows,
	}))
	return nil
}

func runAdjustAdd(_ *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	t, err := findTenant(w.view().Tenants, args[0])
	if err != nil {
		return err
	}
	from, err := calendar.ParseYearMonth(flagAdjustFrom)
	if err != nil {
		return err
	}
	to, err := calendar.ParseYearMonth(flagAdjustTo)
	if err != nil {
		return err
	}
	if flagAdjustAmount <= 0 {
		return errors.New("--amount must be positive")
	}

	adj := model.Adjustment{
		ID:         uuid.NewString(),
		TenantID:   t.ID,
		TenantName: t.Name,
		Original:   from,
		Adjusted:   to,
		Amount:     flagAdjustAmount,
		Reason:     flagAdjustReason,
	}
	doc, err := scenario.AddAdjustment(w.doc, w.selector(), adj)
	if err != nil {
		return err
	}
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  Moved %s of %s from %s to %s\n", cli.FormatMoney(adj.Amount), t.Name, cli.FormatMonth(from), cli.FormatMonth(to))
	return nil
}

func runAdjustUndo(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	doc, adj, err := scenario.UndoAdjustment(w.doc, w.selector())
	if err != nil {
		return err
	}
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  Removed adjustment: %s %s -> %s %s\n",
		adj.TenantName, cli.FormatMonth(adj.Original), cli.FormatMonth(adj.Adjusted), cli.FormatMoney(adj.Amount))
	return nil
}

func runAdjustDefer(_ *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	month, err := monthFlag(flagMonth, w)
	if err != nil {
		return err
	}
	t, err := findTenant(w.view().Tenants, args[0])
	if err != nil {
		return err
	}
	doc, adj, err := scenario.Defer(w.doc, w.selector(), t.ID, month, w.conv, uuid.NewString())
	if err != nil {
		return err
	}
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  Deferred %s of %s from %s to %s\n",
		cli.FormatMoney(adj.Amount), adj.TenantName, cli.FormatMonth(adj.Original), cli.FormatMonth(adj.Adjusted))
	return nil
}
