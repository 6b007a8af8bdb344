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

// budgetState holds the budget tab state.
type budgetState struct {
	cursor int
}

func (a App) updateBudgetKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.budget.cursor = clampIndex(a.budget.cursor+1, len(a.rows))
	case "k", "up":
		a.budget.cursor = clampIndex(a.budget.cursor-1, len(a.rows))
	case "g":
		a.budget.cursor = 0
	case "G":
		a.budget.cursor = clampIndex(len(a.rows)-1, len(a.rows))
	case "z":
		out, adj, err := scenario.UndoAdjustment(a.doc, a.selector)
		if err != nil {
			a.message = describeErr(err)
			return a, nil, true
		}
		return a, saveDocCmd(a.opts, out, fmt.Sprintf("undid %s %s -> %s", adj.TenantName, adj.Original, adj.Adjusted)), true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// budgetColumns groups the twelve months into the columns that fit: every
// month on wide terminals, quarters otherwise.
func budgetColumns(wide bool) (labels []string, groups [][2]int) {
	if wide {
		for m := 0; m < 12; m++ {
			labels = append(labels, monthAbbr[m])
			groups = append(groups, [2]int{m, m})
		}
		return labels, groups
	}
	return []string{"Q1", "Q2", "Q3", "Q4"}, [][2]int{{0, 2}, {3, 5}, {6, 8}, {9, 11}}
}

var monthAbbr = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func (a App) renderBudgetTab(cw, h int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	totals := pipeline.ColumnTotals(a.rows)
	var grand float64
	for _, v := range totals {
		grand += v
	}

	impact := a.impact
	cards := components.MetricCardRow([]components.Metric{
		{Label: fmt.Sprintf("Budget %d", a.year), Value: cli.FormatCompactMoney(grand), Note: a.view.Name},
		{Label: "Existing", Value: cli.FormatCompactMoney(impact.ExistingTotal)},
		{Label: "Renewal + re-lease", Value: cli.FormatCompactMoney(impact.Renewal + impact.ReLease)},
		{Label: "Vacancy fill", Value: cli.FormatCompactMoney(impact.VacancyFill)},
		{Label: "Risk re-lease", Value: cli.FormatCompactMoney(impact.RiskReLease), Color: t.Orange},
	}, cw)

	inner := components.CardInnerWidth(cw)
	labels, groups := budgetColumns(!a.isCompactLayout())
	colW := 8
	if len(groups) == 4 {
		colW = 10
	}
	nameW := max(12, inner-len(groups)*(colW+1)-12)

	var body strings.Builder
	var head strings.Builder
	fmt.Fprintf(&head, "%-*s", nameW, "Tenant")
	for _, l := range labels {
		fmt.Fprintf(&head, " %*s", colW, l)
	}
	fmt.Fprintf(&head, " %11s", "Total")
	body.WriteString(header.Render(head.String()))
	body.WriteString("\n")

	if len(a.rows) == 0 {
		body.WriteString(muted.Render("No tenants or vacant units in this year."))
		body.WriteString("\n")
	}

	visible := max(1, h-lipgloss.Height(cards)-8)
	offset := max(0, a.budget.cursor-visible+1)
	for i := offset; i < len(a.rows) && i < offset+visible; i++ {
		r := a.rows[i]
		bg := t.Surface
		if i == a.budget.cursor {
			bg = t.SurfaceHover
		}
		name := lipgloss.NewStyle().Foreground(t.ForCategory(r.Category)).Background(bg)
		cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(bg)

		body.WriteString(name.Render(fmt.Sprintf("%-*s", nameW, truncStr(tenantLabel(r), nameW))))
		for _, g := range groups {
			var sum float64
			occupied := false
			for m := g[0]; m <= g[1]; m++ {
				sum += r.Months[m].Amount
				occupied = occupied || r.Months[m].Status.Occupied()
			}
			switch {
			case sum != 0:
				body.WriteString(cell.Render(fmt.Sprintf(" %*s", colW, compactCell(sum))))
			case occupied:
				body.WriteString(dim.Render(fmt.Sprintf(" %*s", colW, "free")))
			default:
				body.WriteString(dim.Render(fmt.Sprintf(" %*s", colW, "·")))
			}
		}
		body.WriteString(cell.Bold(true).Render(fmt.Sprintf(" %11s", cli.FormatAmountCell(r.Total()))))
		body.WriteString("\n")
	}

	var foot strings.Builder
	fmt.Fprintf(&foot, "%-*s", nameW, "Total")
	for _, g := range groups {
		var sum float64
		for m := g[0]; m <= g[1]; m++ {
			sum += totals[m]
		}
		fmt.Fprintf(&foot, " %*s", colW, compactCell(sum))
	}
	fmt.Fprintf(&foot, " %11s", cli.FormatAmountCell(grand))
	body.WriteString(header.Render(foot.String()))
	body.WriteString("\n")
	if n := len(a.view.Adjustments); n > 0 {
		body.WriteString(muted.Render("Last adjustment: " + adjustmentLine(a.view.Adjustments[n-1])))
		body.WriteString("\n")
	}
	body.WriteString(muted.Render(fmt.Sprintf("%d rows · %d adjustments · [j/k] select  [z] undo adjustment  [s] scenario",
		len(a.rows), len(a.view.Adjustments))))

	title := fmt.Sprintf("Budget detail · %s", a.view.Name)
	if a.view.Frozen {
		title += " (frozen leases)"
	}
	return cards + "\n" + components.ContentCard(title, body.String(), cw)
}

// compactCell fits an amount into a narrow column.
func compactCell(v float64) string {
	if v >= 1_000_000 || v <= -1_000_000 {
		return fmt.Sprintf("%.1fM", v/1_000_000)
	}
	return cli.FormatAmountCell(v)
}

// adjustmentLine describes an adjustment for lists.
func adjustmentLine(adj model.Adjustment) string {
	return fmt.Sprintf("%s %s -> %s %s", adj.TenantName, adj.Original, adj.Adjusted, money(adj.Amount))
}
