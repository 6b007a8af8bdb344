package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var flagMonth string

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Monthly receivable and collection status per tenant",
	RunE:  runBilling,
}

var billingCollectCmd = &cobra.Command{
	Use:   "collect <tenant>",
	Short: "Record the month's outstanding rent as collected",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillingCollect,
}

var billingRevokeCmd = &cobra.Command{
	Use:   "revoke <tenant>",
	Short: "Remove the tenant's rent payments in the month",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillingRevoke,
}

func init() {
	billingCmd.PersistentFlags().StringVar(&flagMonth, "month", "", "Billing month YYYY-MM (default: current month)")
	billingCmd.AddCommand(billingCollectCmd, billingRevokeCmd)
	rootCmd.AddCommand(billingCmd)
}

func runBilling(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	month, err := monthFlag(flagMonth, w)
	if err != nil {
		return err
	}
	details := pipeline.BillingDetails(pipeline.FromDocument(w.doc, w.conv), month)

	fmt.Println()
	fmt.Println(cli.RenderTitle("BILLING  " + cli.FormatMonth(month)))
	fmt.Println()

	if len(details) == 0 {
		fmt.Println("  Nothing due or paid this month.")
		return nil
	}

	var due, paid float64
	rows := make([][]string, 0, len(details)+2)
	for _, d := range details {
		due += d.AmountDue
		paid += d.AmountPaid
		rows = append(rows, []string{
			d.TenantName,
			cli.FormatMoney(d.AmountDue),
			cli.FormatMoney(d.AmountPaid),
			cli.FormatMoney(d.Outstanding()),
			cli.BillingStatusStyle(d.Status).Render(string(d.Status)),
		})
	}
	rows = append(rows, cli.SeparatorRow, []string{
		"TOTAL", cli.FormatMoney(due), cli.FormatMoney(paid), cli.FormatMoney(max(0, due-paid)), "",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Tenant", "Due", "Paid", "Outstanding", "Status"},
		Rows:    rows,
	}))
	fmt.Printf("  Collected %s\n\n", cli.RenderRateBar(pipeline.CollectionRate(paid, due), 30))
	return nil
}

func runBillingCollect(_ *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	month, err := monthFlag(flagMonth, w)
	if err != nil {
		return err
	}
	detail, err := findDetail(w, args[0], month)
	if err != nil {
		return err
	}

	payments, ok := pipeline.Collect(w.doc.Payments, detail, month, uuid.NewString())
	if !ok {
		fmt.Printf("  %s has nothing outstanding for %s\n", detail.TenantName, cli.FormatMonth(month))
		return nil
	}
	doc := w.doc.Clone()
	doc.Payments = payments
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  Collected %s from %s for %s\n", cli.FormatMoney(detail.Outstanding()), detail.TenantName, cli.FormatMonth(month))
	return nil
}

func runBillingRevoke(_ *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	month, err := monthFlag(flagMonth, w)
	if err != nil {
		return err
	}
	t, err := findTenant(w.doc.Tenants, args[0])
	if err != nil {
		return err
	}

	kept, removed := pipeline.Revoke(w.doc.Payments, t.ID, month)
	if len(removed) == 0 {
		fmt.Printf("  No rent payments from %s in %s\n", t.Name, cli.FormatMonth(month))
		return nil
	}
	doc := w.doc.Clone()
	doc.Payments = kept
	if err := w.save(doc); err != nil {
		return err
	}
	var total float64
	for _, p := range removed {
		total += p.Amount
	}
	fmt.Printf("  Revoked %d payments (%s) from %s\n", len(removed), cli.FormatMoney(total), t.Name)
	return nil
}

func findDetail(w *workspace, ref string, month calendar.YearMonth) (model.BillingDetail, error) {
	t, err := findTenant(w.doc.Tenants, ref)
	if err != nil {
		return model.BillingDetail{}, err
	}
	for _, d := range pipeline.BillingDetails(pipeline.FromDocument(w.doc, w.conv), month) {
		if d.TenantID == t.ID {
			return d, nil
		}
	}
	return model.BillingDetail{}, fmt.Errorf("%s has no bill in %s", t.Name, cli.FormatMonth(month))
}

// findTenant resolves a tenant by id, or by a case-insensitive name
// substring when that matches exactly one tenant.
func findTenant(tenants []model.Tenant, ref string) (model.Tenant, error) {
	if t, ok := model.FindTenant(tenants, ref); ok {
		return t, nil
	}
	var matches []model.Tenant
	needle := strings.ToLower(ref)
	for _, t := range tenants {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Tenant{}, fmt.Errorf("no tenant matches %q", ref)
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, t := range matches {
		names[i] = fmt.Sprintf("%s (%s)", t.Name, t.ID)
	}
	return model.Tenant{}, errors.New("ambiguous tenant: " + strings.Join(names, ", "))
}
