package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/scenario"

	"github.com/spf13/cobra"
)

var (
	flagAssumeSign        string
	flagAssumePrice       float64
	flagAssumeFree        int
	flagAssumeGap         int
	flagAssumeTermination string
	flagAssumeNewPrice    float64
	flagAssumePriceStart  string
	flagAssumePriceEnd    string
	flagAssumeShiftFrom   string
	flagAssumeShiftTo     string
	flagAssumeShiftAmount float64
)

var assumeCmd = &cobra.Command{
	Use:   "assume",
	Short: "List and edit budget assumptions of the selected scenario",
	RunE:  runAssumeList,
}

var assumeSetCmd = &cobra.Command{
	Use:   "set <vacancy|renewal|release|risk|existing> <target>",
	Short: "Create or update an assumption",
	Long: `Create or update the assumption for a vacant unit (vacancy) or a tenant
(renewal, release, risk, existing). Unset flags keep the current values,
or the defaults for a new assumption.`,
	Args: cobra.ExactArgs(2),
	RunE: runAssumeSet,
}

var assumeRemoveCmd = &cobra.Command{
	Use:   "remove <vacancy|renewal|release|risk|existing> <target>",
	Short: "Remove an assumption",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssumeRemove,
}

func init() {
	f := assumeSetCmd.Flags()
	f.StringVar(&flagAssumeSign, "sign", "", "Projected sign date YYYY-MM-DD")
	f.Float64Var(&flagAssumePrice, "price", 0, "Projected daily price per m²")
	f.IntVar(&flagAssumeFree, "free", 0, "Projected rent-free months")
	f.IntVar(&flagAssumeGap, "gap", 0, "Months vacant before re-letting (release, risk)")
	f.StringVar(&flagAssumeTermination, "termination", "", "Early termination date YYYY-MM-DD (risk)")
	f.Float64Var(&flagAssumeNewPrice, "new-price", 0, "Adjusted daily price per m² (existing)")
	f.StringVar(&flagAssumePriceStart, "price-start", "", "Price adjustment start YYYY-MM-DD (existing)")
	f.StringVar(&flagAssumePriceEnd, "price-end", "", "Price adjustment end YYYY-MM-DD (existing)")
	f.StringVar(&flagAssumeShiftFrom, "shift-from", "", "Move receivable from month YYYY-MM (existing)")
	f.StringVar(&flagAssumeShiftTo, "shift-to", "", "Move receivable to month YYYY-MM (existing)")
	f.Float64Var(&flagAssumeShiftAmount, "shift-amount", 0, "Amount to move (existing)")

	assumeCmd.AddCommand(assumeSetCmd, assumeRemoveCmd)
	rootCmd.AddCommand(assumeCmd)
}

func runAssumeList(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	view := w.view()

	fmt.Println()
	fmt.Println(cli.RenderTitle("ASSUMPTIONS  " + view.Name))
	fmt.Println()

	if len(view.Assumptions) == 0 {
		fmt.Println("  No assumptions. Add one with `rentroll assume set`.")
		return nil
	}
	rows := make([][]string, 0, len(view.Assumptions))
	for _, a := range view.Assumptions {
		rows = append(rows, []string{string(a.Kind()), a.Base().TargetName, a.Base().TargetID, describeAssumption(a)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Kind", "Target", "ID", "Terms"},
		Rows:    rows,
	}))
	return nil
}

func runAssumeSet(cmd *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	kind, slot, err := parseAssumptionKind(args[0])
	if err != nil {
		return err
	}
	view := w.view()
	targetID, targetName, err := resolveTarget(view, slot, args[1])
	if err != nil {
		return err
	}

	current, ok := view.Assumptions.Find(targetID, slot)
	if !ok {
		current = model.DefaultAssumption(slot, targetID, targetName, w.year)
	}
	a, err := applyAssumptionFlags(cmd.Flags().Changed, kind, current)
	if err != nil {
		return err
	}

	doc, err := scenario.UpsertAssumption(w.doc, w.selector(), a)
	if err != nil {
		return err
	}
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  %s assumption for %s: %s\n", a.Kind(), targetName, describeAssumption(a))
	return nil
}

func runAssumeRemove(_ *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	_, slot, err := parseAssumptionKind(args[0])
	if err != nil {
		return err
	}
	view := w.view()
	targetID, targetName, err := resolveTarget(view, slot, args[1])
	if err != nil {
		return err
	}

	kept := make(model.AssumptionList, 0, len(view.Assumptions))
	for _, a := range view.Assumptions {
		if a.Base().TargetID == targetID && a.Slot() == slot {
			continue
		}
		kept = append(kept, a)
	}
	if len(kept) == len(view.Assumptions) {
		fmt.Printf("  No %s assumption for %s\n", slot, targetName)
		return nil
	}
	doc, err := scenario.SetAssumptions(w.doc, w.selector(), kept)
	if err != nil {
		return err
	}
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  Removed %s assumption for %s\n", slot, targetName)
	return nil
}

func parseAssumptionKind(s string) (model.AssumptionKind, model.TargetType, error) {
	switch strings.ToLower(s) {
	case "vacancy":
		return model.KindVacancy, model.TargetVacancy, nil
	case "renewal":
		return model.KindRenewal, model.TargetRenewal, nil
	case "release", "re-lease":
		return model.KindReLease, model.TargetRenewal, nil
	case "risk":
		return model.KindRiskTermination, model.TargetRiskTermination, nil
	case "existing":
		return model.KindExisting, model.TargetExisting, nil
	}
	return "", "", fmt.Errorf("unknown assumption kind %q", s)
}

// resolveTarget finds the unit (vacancy) or tenant an assumption is about.
func resolveTarget(view scenario.View, slot model.TargetType, ref string) (id, name string, err error) {
	if slot == model.TargetVacancy {
		u, ok := model.FindUnit(view.Buildings, ref)
		if !ok {
			return "", "", fmt.Errorf("no unit %q", ref)
		}
		return u.Unit.ID, u.Building.Name + " " + u.Unit.Name, nil
	}
	t, err := findTenant(view.Tenants, ref)
	if err != nil {
		return "", "", err
	}
	return t.ID, t.Name, nil
}

// applyAssumptionFlags builds a kind assumption from current and the flags
// the user set.
func applyAssumptionFlags(changed func(string) bool, kind model.AssumptionKind, current model.Assumption) (model.Assumption, error) {
	base := current.Base()
	proj, _ := billing.ProjectionOf(current)

	if changed("sign") {
		d, err := calendar.Parse(flagAssumeSign)
		if err != nil {
			return nil, err
		}
		proj.SignDate = calendar.DateOf(d)
	}
	if changed("price") {
		proj.UnitPrice = flagAssumePrice
	}
	if changed("free") {
		proj.RentFreeMonths = flagAssumeFree
	}

	gap, termination := 2, calendar.Date{}
	switch v := current.(type) {
	case model.ReLeaseAssumption:
		gap = v.GapMonths
	case model.RiskTerminationAssumption:
		gap, termination = v.GapMonths, v.TerminationDate
	}
	if changed("gap") {
		gap = flagAssumeGap
	}
	if changed("termination") {
		d, err := calendar.Parse(flagAssumeTermination)
		if err != nil {
			return nil, err
		}
		termination = calendar.DateOf(d)
	}

	switch kind {
	case model.KindVacancy:
		return model.VacancyAssumption{AssumptionBase: base, Projection: proj}, nil
	case model.KindRenewal:
		return model.RenewalAssumption{AssumptionBase: base, Projection: proj}, nil
	case model.KindReLease:
		return model.ReLeaseAssumption{AssumptionBase: base, Projection: proj, GapMonths: gap}, nil
	case model.KindRiskTermination:
		if !termination.Set() {
			return nil, errors.New("risk assumptions need --termination")
		}
		return model.RiskTerminationAssumption{AssumptionBase: base, Projection: proj, TerminationDate: termination, GapMonths: gap}, nil
	}
	return existingFromFlags(changed, base, current)
}

func existingFromFlags(changed func(string) bool, base model.AssumptionBase, current model.Assumption) (model.Assumption, error) {
	ex, _ := current.(model.ExistingAssumption)
	ex.AssumptionBase = base

	if changed("new-price") || changed("price-start") || changed("price-end") {
		pa := model.PriceAdjustment{}
		if ex.PriceAdjustment != nil {
			pa = *ex.PriceAdjustment
		}
		if changed("new-price") {
			pa.NewUnitPrice = flagAssumeNewPrice
		}
		if changed("price-start") {
			d, err := calendar.Parse(flagAssumePriceStart)
			if err != nil {
				return nil, err
			}
			pa.Start = calendar.DateOf(d)
		}
		if changed("price-end") {
			d, err := calendar.Parse(flagAssumePriceEnd)
			if err != nil {
				return nil, err
			}
			pa.End = calendar.DateOf(d)
		}
		ex.PriceAdjustment = &pa
	}

	if changed("shift-from") || changed("shift-to") || changed("shift-amount") {
		ps := model.PaymentShift{Active: true}
		if ex.PaymentShift != nil {
			ps = *ex.PaymentShift
			ps.Active = true
		}
		if changed("shift-from") {
			ym, err := calendar.ParseYearMonth(flagAssumeShiftFrom)
			if err != nil {
				return nil, err
			}
			ps.From = ym
		}
		if changed("shift-to") {
			ym, err := calendar.ParseYearMonth(flagAssumeShiftTo)
			if err != nil {
				return nil, err
			}
			ps.To = ym
		}
		if changed("shift-amount") {
			ps.Amount = flagAssumeShiftAmount
		}
		ex.PaymentShift = &ps
	}
	return ex, nil
}

func describeAssumption(a model.Assumption) string {
	var parts []string
	if p, ok := billing.ProjectionOf(a); ok {
		parts = append(parts,
			"sign "+p.SignDate.String(),
			cli.FormatUnitPrice(p.UnitPrice),
			fmt.Sprintf("%d free", p.RentFreeMonths))
	}
	switch v := a.(type) {
	case model.ReLeaseAssumption:
		parts = append(parts, fmt.Sprintf("gap %dm", v.GapMonths))
	case model.RiskTerminationAssumption:
		parts = append(parts, "ends "+v.TerminationDate.String(), fmt.Sprintf("gap %dm", v.GapMonths))
	case model.ExistingAssumption:
		if pa := v.PriceAdjustment; pa != nil {
			s := fmt.Sprintf("price %s from %s", cli.FormatUnitPrice(pa.NewUnitPrice), pa.Start)
			if pa.End.Set() {
				s += " to " + pa.End.String()
			}
			parts = append(parts, s)
		}
		if ps := v.PaymentShift; ps != nil && ps.Active {
			parts = append(parts, fmt.Sprintf("shift %s %s -> %s", cli.FormatMoney(ps.Amount), ps.From, ps.To))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
