package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/tui/components"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

// expiringListLimit caps the expiring-leases card.
const expiringListLimit = 8

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	d := a.dash
	var b strings.Builder

	occNote := fmt.Sprintf("%s of %s", cli.FormatArea(d.LeasedArea), cli.FormatArea(d.TotalArea))
	if d.AnnualOccupancyTarget > 0 {
		occNote += fmt.Sprintf(" · target %s", cli.FormatPercent(d.AnnualOccupancyTarget))
	}
	annualNote := ""
	if d.AnnualRevenueTarget > 0 {
		annualNote = "target " + cli.FormatCompactMoney(d.AnnualRevenueTarget)
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Occupancy", Value: cli.FormatPercent(d.OccupancyRate), Note: occNote},
		{Label: "Receivable (" + a.quarter.Label() + ")", Value: cli.FormatCompactMoney(d.PeriodRevenueTarget),
			Note: cli.FormatCompactMoney(d.PeriodRevenueCollected) + " collected"},
		{Label: "Collection rate", Value: cli.FormatPercent(d.CollectionRate), Color: components.ColorForRate(d.CollectionRate)},
		{Label: fmt.Sprintf("Collected %d", d.Year), Value: cli.FormatCompactMoney(d.AnnualRevenueCollected), Note: annualNote},
	}, cw))
	b.WriteString("\n")

	if len(d.MonthlyTrends) > 0 {
		targets := make([]float64, len(d.MonthlyTrends))
		labels := make([]string, len(d.MonthlyTrends))
		occupancy := make([]float64, len(d.MonthlyTrends))
		for i, m := range d.MonthlyTrends {
			targets[i] = m.RevenueTarget
			labels[i] = m.Label
			occupancy[i] = m.OccupancyRate
		}
		chartH := 8
		if a.isCompactLayout() {
			chartH = 5
		}
		body := components.BarChart(targets, labels, t.Blue, components.CardInnerWidth(cw), chartH)
		body += "\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("occupancy ") +
			components.Sparkline(occupancy, t.Green)
		b.WriteString(components.ContentCard(fmt.Sprintf("Monthly receivable %d %s", d.Year, a.quarter.Label()), body, cw))
		b.WriteString("\n")
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard(fmt.Sprintf("Expiring in period (%d)", d.ExpiringSoonCount), a.expiringBody(halves[0]), halves[0]),
		components.ContentCard("Five-year budget", a.trendBody(), halves[1]),
	}))

	if len(d.Warnings) > 0 || len(a.issues) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		var w strings.Builder
		for _, msg := range d.Warnings {
			w.WriteString(warn.Render(truncStr(msg, components.CardInnerWidth(cw))) + "\n")
		}
		for _, issue := range a.issues {
			w.WriteString(warn.Render(truncStr(issue.String(), components.CardInnerWidth(cw))) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Warnings", strings.TrimRight(w.String(), "\n"), cw))
	}
	return b.String()
}

func (a App) expiringBody(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	risk := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	if len(a.dash.ExpiringSoon) == 0 {
		return muted.Render("No leases end in this period.")
	}
	inner := components.CardInnerWidth(w)
	nameW := max(10, inner-26)

	var b strings.Builder
	for i, tn := range a.dash.ExpiringSoon {
		if i == expiringListLimit {
			b.WriteString(muted.Render(fmt.Sprintf("… %d more", len(a.dash.ExpiringSoon)-i)))
			break
		}
		style := value
		if tn.IsRisk {
			style = risk
		}
		b.WriteString(style.Render(fmt.Sprintf("%-*s", nameW, truncStr(tn.Name, nameW))))
		b.WriteString(muted.Render(fmt.Sprintf(" %10s %12s", calendar.Format(tn.LeaseEnd.Time), cli.FormatArea(tn.TotalArea))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) trendBody() string {
	t := theme.Active
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	current := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-6s %10s %10s %10s", "Year", "Revenue", "Occupancy", "Price/day")))
	for _, m := range a.trend {
		style := value
		if m.Year == a.year {
			style = current
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%-6d %10s %10s %10s",
			m.Year, cli.FormatCompactMoney(m.TotalRevenue), cli.FormatPercent(m.AvgOccupancy), fmt.Sprintf("%.2f", m.AvgPrice))))
	}
	return b.String()
}

// tenantLabel names a budget row for tables.
func tenantLabel(r model.BudgetRow) string {
	if r.Vacant {
		return fmt.Sprintf("%s (%s)", r.Name, r.Units)
	}
	return r.Name
}
