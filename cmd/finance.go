package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var flagSettleDate string

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Year-over-year revenue and occupancy, and the deposit pool",
	RunE:  runFinance,
}

var financeRefundCmd = &cobra.Command{
	Use:   "refund <tenant>",
	Short: "Refund a tenant's deposit",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSettleDeposit(args[0], pipeline.DepositRefund)
	},
}

var financeDeductCmd = &cobra.Command{
	Use:   "deduct <tenant>",
	Short: "Apply a tenant's deposit to rent",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSettleDeposit(args[0], pipeline.DepositDeduct)
	},
}

func init() {
	for _, c := range []*cobra.Command{financeRefundCmd, financeDeductCmd} {
		c.Flags().StringVar(&flagSettleDate, "date", "", "Payment date YYYY-MM-DD (default today)")
	}
	financeCmd.AddCommand(financeRefundCmd, financeDeductCmd)
	rootCmd.AddCommand(financeCmd)
}

func runFinance(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FINANCE  %d", w.year)))
	fmt.Println()

	comparison := pipeline.AnnualComparison(w.doc, w.year)
	rows := make([][]string, 0, len(comparison))
	for _, c := range comparison {
		rows = append(rows, []string{
			strconv.Itoa(c.Year),
			cli.FormatMoney(c.RevenueTarget),
			cli.FormatMoney(c.RevenueActual),
			cli.FormatPercent(c.CompletionRate),
			formatGrowth(c.RevenueYoY, "%+.1f%%"),
			cli.FormatPercent(c.OccupancyRate),
			formatGrowth(c.OccupancyYoY, "%+.1f pt"),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Annual Comparison",
		Headers: []string{"Year", "Target", "Collected", "Rate", "Growth", "Occupancy", "Change"},
		Rows:    rows,
	}))

	pool := pipeline.DepositPool(w.doc.Tenants, w.doc.Payments)
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Deposit Pool",
		Headers: []string{"", "Amount"},
		Rows: [][]string{
			{"Received", cli.FormatMoney(pool.Received)},
			{"Refunded", cli.FormatMoney(pool.Refunded)},
			{"Applied to rent", cli.FormatMoney(pool.Deducted)},
			cli.SeparatorRow,
			{"Held", cli.FormatMoney(pool.Balance)},
			{"Still due", cli.FormatMoney(pool.Receivable)},
		},
	}))

	if len(pool.PendingRefund) == 0 {
		fmt.Println(cli.RenderMuted("  No terminated lease is waiting for its deposit."))
		fmt.Println()
		return nil
	}
	pending := make([][]string, 0, len(pool.PendingRefund)+2)
	for _, h := range pool.PendingRefund {
		pending = append(pending, []string{h.TenantName, h.TenantID, string(h.Status), cli.FormatMoney(h.Amount)})
	}
	pending = append(pending, cli.SeparatorRow, []string{"TOTAL", "", "", cli.FormatMoney(pool.PendingRefundTotal)})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Pending Refunds",
		Headers: []string{"Tenant", "ID", "Deposit", "Amount"},
		Rows:    pending,
	}))
	return nil
}

func runSettleDeposit(ref string, action pipeline.DepositAction) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	t, err := findTenant(w.doc.Tenants, ref)
	if err != nil {
		return err
	}
	day := w.now
	if flagSettleDate != "" {
		if day, err = calendar.Parse(flagSettleDate); err != nil {
			return err
		}
	}

	doc, ok := settleDeposit(w.doc, t.ID, action, day, uuid.NewString())
	if !ok {
		return fmt.Errorf("%s has no deposit left to %s", t.Name, action)
	}
	if err := w.save(doc); err != nil {
		return err
	}
	verb := "Refunded"
	if action == pipeline.DepositDeduct {
		verb = "Applied to rent"
	}
	fmt.Printf("  %s: %s deposit of %s\n", verb, cli.FormatMoney(t.DepositAmount), t.Name)
	return nil
}

// settleDeposit applies pipeline.SettleDeposit to a copy of doc.
func settleDeposit(doc model.Document, tenantID string, action pipeline.DepositAction, day time.Time, id string) (model.Document, bool) {
	out := doc.Clone()
	for i, t := range out.Tenants {
		if t.ID != tenantID {
			continue
		}
		payments, settled, ok := pipeline.SettleDeposit(out.Payments, t, action, day, id)
		if !ok {
			return doc, false
		}
		out.Payments = payments
		out.Tenants[i] = settled
		return out, true
	}
	return doc, false
}

// formatGrowth renders an optional change, or a dash when there is none.
func formatGrowth(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
