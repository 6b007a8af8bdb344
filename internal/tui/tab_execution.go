package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/tui/components"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

func (a App) renderExecutionTab(cw int) string {
	t := theme.Active
	r := a.exec
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: fmt.Sprintf("Budget %d", r.Year), Value: cli.FormatCompactMoney(r.TotalBudget), Note: a.view.Name},
		{Label: "Collected", Value: cli.FormatCompactMoney(r.TotalActual)},
		{Label: "Completion", Value: cli.FormatPercent(r.CompletionRate), Color: components.ColorForRate(r.CompletionRate)},
		{Label: "Gap", Value: cli.FormatCompactMoney(r.TotalBudget - r.TotalActual)},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	labels := make([]string, len(r.Months))
	planned := make([]float64, len(r.Months))
	actual := make([]float64, len(r.Months))
	for i, m := range r.Months {
		labels[i] = monthAbbr[m.Month-1]
		planned[i] = m.Budget
		actual[i] = m.Actual
	}
	body := components.RateBar(r.CompletionRate, max(10, inner-10)) + "\n\n" +
		components.PairedBars(labels, planned, actual, inner) + "\n" +
		muted.Render("█ collected  ░ still budgeted")
	b.WriteString(components.ContentCard("Budget vs collected", body, cw))

	if analysis := a.doc.BudgetAnalysis.Execution; analysis != "" {
		b.WriteString("\n")
		wrapped := lipgloss.NewStyle().Width(inner).Render(analysis)
		b.WriteString(components.ContentCard("Commentary", text.Render(wrapped), cw))
	}
	return b.String()
}
