package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
	"github.com/theirongolddev/rentroll/internal/scenario"
	"github.com/theirongolddev/rentroll/internal/tui/components"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

// billingState holds the billing tab state.
type billingState struct {
	cursor int
}

func (a App) updateBillingKey(key string) (tea.Model, tea.Cmd, bool) {
	details := a.dash.CurrentMonthBilling
	switch key {
	case "j", "down":
		a.bills.cursor = clampIndex(a.bills.cursor+1, len(details))
	case "k", "up":
		a.bills.cursor = clampIndex(a.bills.cursor-1, len(details))
	case "h", "l":
		if key == "h" {
			a.billingMonth = a.billingMonth.Prev()
		} else {
			a.billingMonth = a.billingMonth.Next()
		}
		a.bills = billingState{}
		yearChanged := a.year != a.billingMonth.Year
		a.year = a.billingMonth.Year
		a.recompute()
		if yearChanged {
			a.recomputeTrend()
		}
	case "c", "v", "d":
		if len(details) == 0 {
			a.message = "no bills this month"
			return a, nil, true
		}
		return a, a.billingAction(key, details[a.bills.cursor]), true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// billingAction applies collect, revoke or defer to the selected bill and
// saves the result.
func (a *App) billingAction(key string, detail model.BillingDetail) tea.Cmd {
	month := a.billingMonth
	doc := a.doc.Clone()

	switch key {
	case "c":
		payments, ok := pipeline.Collect(doc.Payments, detail, month, newID())
		if !ok {
			a.message = detail.TenantName + " has nothing outstanding"
			return nil
		}
		doc.Payments = payments
		return saveDocCmd(a.opts, doc, fmt.Sprintf("collected %s from %s", money(detail.Outstanding()), detail.TenantName))
	case "v":
		kept, removed := pipeline.Revoke(doc.Payments, detail.TenantID, month)
		if len(removed) == 0 {
			a.message = "no payments to revoke"
			return nil
		}
		doc.Payments = kept
		return saveDocCmd(a.opts, doc, fmt.Sprintf("revoked %d payments of %s", len(removed), detail.TenantName))
	case "d":
		out, adj, err := scenario.Defer(doc, a.selector, detail.TenantID, month, a.opts.Conventions, newID())
		if err != nil {
			a.message = describeErr(err)
			return nil
		}
		return saveDocCmd(a.opts, out, fmt.Sprintf("deferred %s of %s to %s", money(adj.Amount), adj.TenantName, adj.Adjusted))
	}
	return nil
}

func (a App) renderBillingTab(cw, h int) string {
	t := theme.Active
	details := a.dash.CurrentMonthBilling

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	var due, paid float64
	for _, d := range details {
		due += d.AmountDue
		paid += d.AmountPaid
	}
	summary := components.MetricCardRow([]components.Metric{
		{Label: "Month", Value: cli.FormatMonth(a.billingMonth)},
		{Label: "Due", Value: cli.FormatMoney(due)},
		{Label: "Paid", Value: cli.FormatMoney(paid), Color: components.ColorForRate(pipeline.CompletionRate(paid, due))},
		{Label: "Outstanding", Value: cli.FormatMoney(max(0, due-paid))},
	}, cw)

	inner := components.CardInnerWidth(cw)
	nameW := max(12, inner-46)
	var body strings.Builder
	body.WriteString(header.Render(fmt.Sprintf("%-*s %14s %14s %10s", nameW, "Tenant", "Due", "Paid", "Status")))
	body.WriteString("\n")
	if len(details) == 0 {
		body.WriteString(muted.Render("Nothing is due or paid this month."))
	}

	visible := max(1, h-lipgloss.Height(summary)-6)
	offset := max(0, a.bills.cursor-visible+1)
	for i := offset; i < len(details) && i < offset+visible; i++ {
		d := details[i]
		line := fmt.Sprintf("%-*s %14s %14s ", nameW, truncStr(d.TenantName, nameW), cli.FormatMoney(d.AmountDue), cli.FormatMoney(d.AmountPaid))
		status := lipgloss.NewStyle().Foreground(t.ForBilling(d.Status)).Bold(true)
		style := row
		if i == a.bills.cursor {
			style = selected
			status = status.Background(t.SurfaceHover)
		} else {
			status = status.Background(t.Surface)
		}
		body.WriteString(style.Render(line))
		body.WriteString(status.Render(fmt.Sprintf("%10s", d.Status)))
		body.WriteString("\n")
	}
	body.WriteString(muted.Render("[h/l] month  [j/k] select  [c] collect  [v] revoke  [d] defer"))

	return summary + "\n" + components.ContentCard("Bills "+cli.FormatMonth(a.billingMonth), body.String(), cw)
}
