package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/spf13/cobra"
)

var billsCmd = &cobra.Command{
	Use:   "bills <tenant>",
	Short: "A tenant's bill schedule for the year",
	Args:  cobra.ExactArgs(1),
	RunE:  runBills,
}

func init() {
	rootCmd.AddCommand(billsCmd)
}

func runBills(_ *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	view := w.view()
	t, err := findTenant(view.Tenants, args[0])
	if err != nil {
		return err
	}

	from, to := calendar.YearStart(w.year), calendar.YearEnd(w.year)
	s := pipeline.TenantBills(w.input(), t, from, to)
	bills := billing.InRange(s.Bills, from, to)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BILLS  %s  %d", t.Name, w.year)))
	fmt.Println()

	fmt.Printf("  Lease %s .. %s   %s   %s %s\n",
		t.LeaseStart, calendar.Format(t.EffectiveEnd()), cli.FormatArea(t.TotalArea),
		cli.FormatMoney(t.MonthlyRent), cli.RenderMuted("/month"))
	fmt.Printf("  Cycle %s   %s   %s\n\n",
		t.PaymentCycle, cli.FormatUnitPrice(t.DailyUnitPrice(w.conv.DaysPerYear)), t.Status)

	rows := make([][]string, 0, len(bills)+2)
	for _, b := range bills {
		rows = append(rows, []string{
			calendar.Format(b.Date),
			coverage(b),
			cli.FormatMoney(b.Amount),
		})
	}
	rows = append(rows, cli.SeparatorRow, []string{"TOTAL", "", cli.FormatMoney(billing.Total(bills))})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Schedule (" + view.Name + ")",
		Headers: []string{"Bill Date", "Covers", "Amount"},
		Rows:    rows,
	}))

	// Unadjusted contract month by month, for comparison with the
	// scenario's overrides above.
	slots := billing.Timeline(billing.ContractFromTenant(t, w.conv), w.year, w.conv)
	months := make([][]string, 0, 12)
	for i, slot := range slots {
		months = append(months, []string{
			time.Month(i + 1).String()[:3],
			cli.FormatAmountCell(slot.Amount),
			string(slot.Status),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Contract Timeline",
		Headers: []string{"Month", "Billed", "Status"},
		Rows:    months,
	}))

	if s.Capped {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("schedule truncated at %d cycles", w.conv.MaxCycles)))
	}

	if chain := model.RenewalChain(view.Tenants, t.ID); len(chain) > 1 {
		fmt.Println("  Renewal chain")
		for _, c := range chain {
			marker := " "
			if c.ID == t.ID {
				marker = "*"
			}
			fmt.Printf("   %s %s  %s .. %s  %s\n", marker, c.ID, c.LeaseStart, c.LeaseEnd, c.Status)
		}
		fmt.Println()
	}
	return nil
}

func coverage(b billing.Bill) string {
	if b.Relocated() {
		return "moved from " + calendar.Format(b.OriginalDate)
	}
	if b.CoverageStart.IsZero() {
		return ""
	}
	return calendar.Format(b.CoverageStart) + " .. " + calendar.Format(b.CoverageEnd)
}
