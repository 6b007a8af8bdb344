package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

// Status is what the bottom bar reports.
type Status struct {
	Scenario    string
	Period      string
	DataAge     string
	Issues      int
	Message     string
	Refreshing  bool
	AutoRefresh bool
}

// RenderStatusBar renders the key hints on the left and the data state on
// the right, padded to width.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	ok := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	left := base.Render(" [?]help [q]uit [r]efresh [s]cenario ")
	if s.Message != "" {
		left += warn.Render(s.Message + " ")
	}

	var right []string
	if s.Scenario != "" {
		right = append(right, accent.Render(s.Scenario))
	}
	if s.Period != "" {
		right = append(right, base.Render(s.Period))
	}
	if s.Issues > 0 {
		right = append(right, warn.Render(fmt.Sprintf("%d issues", s.Issues)))
	}
	switch {
	case s.Refreshing:
		right = append(right, accent.Render("refreshing"))
	case s.AutoRefresh:
		right = append(right, ok.Render("auto "+s.DataAge))
	case s.DataAge != "":
		right = append(right, base.Render(s.DataAge))
	}
	rightStr := strings.Join(right, base.Render(" · ")) + base.Render(" ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if gap < 1 {
		gap = 1
	}
	return left + base.Render(strings.Repeat(" ", gap)) + rightStr
}
