package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/tui/components"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

func (a App) renderFinanceTab(cw int) string {
	p := a.deposits
	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Deposits held", Value: cli.FormatCompactMoney(p.Balance),
			Note: cli.FormatCompactMoney(p.Received) + " received"},
		{Label: "Refunded", Value: cli.FormatCompactMoney(p.Refunded)},
		{Label: "Applied to rent", Value: cli.FormatCompactMoney(p.Deducted)},
		{Label: "Still due", Value: cli.FormatCompactMoney(p.Receivable)},
	}, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Annual comparison", a.comparisonBody(), cw))
	b.WriteString("\n")
	title := fmt.Sprintf("Pending refunds (%d)", len(p.PendingRefund))
	b.WriteString(components.ContentCard(title, a.pendingRefundBody(cw), cw))
	return b.String()
}

func (a App) comparisonBody() string {
	t := theme.Active
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	current := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-6s %12s %12s %8s %9s %10s %9s",
		"Year", "Target", "Collected", "Rate", "Growth", "Occupancy", "Change")))
	for _, c := range a.comparison {
		style := value
		if c.Year == a.year {
			style = current
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%-6d %12s %12s %8s %9s %10s %9s",
			c.Year,
			cli.FormatCompactMoney(c.RevenueTarget),
			cli.FormatCompactMoney(c.RevenueActual),
			cli.FormatPercent(c.CompletionRate),
			growth(c.RevenueYoY, "%+.1f%%"),
			cli.FormatPercent(c.OccupancyRate),
			growth(c.OccupancyYoY, "%+.1fpt"),
		)))
	}
	return b.String()
}

func (a App) pendingRefundBody(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	p := a.deposits
	if len(p.PendingRefund) == 0 {
		return muted.Render("No terminated lease is waiting for its deposit.")
	}
	nameW := max(10, components.CardInnerWidth(w)-24)
	var b strings.Builder
	for _, h := range p.PendingRefund {
		b.WriteString(value.Render(fmt.Sprintf("%-*s", nameW, truncStr(h.TenantName, nameW))))
		b.WriteString(muted.Render(fmt.Sprintf(" %8s %14s", h.Status, cli.FormatMoney(h.Amount))))
		b.WriteString("\n")
	}
	b.WriteString(muted.Render(fmt.Sprintf("%-*s %8s %14s", nameW, "Total", "", cli.FormatMoney(p.PendingRefundTotal))))
	return b.String()
}

func growth(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
