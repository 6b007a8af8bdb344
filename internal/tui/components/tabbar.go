package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Name string
	Key  string
}

// Tabs are the dashboard tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: "o"},
	{Name: "Billing", Key: "b"},
	{Name: "Budget", Key: "u"},
	{Name: "Execution", Key: "e"},
	{Name: "Finance", Key: "f"},
	{Name: "Settings", Key: "x"},
}

// TabIndex returns the tab bound to key, or -1.
func TabIndex(key string) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// shortcut is the key hint shown on inactive tabs: the key letter is
// bracketed in place when the name contains it, appended otherwise.
func shortcut(tab Tab) (before, key, after string) {
	if i := strings.Index(strings.ToLower(tab.Name), tab.Key); i >= 0 {
		return tab.Name[:i], tab.Name[i : i+len(tab.Key)], tab.Name[i+len(tab.Key):]
	}
	return tab.Name, tab.Key, ""
}

// TabVisualWidth is the rendered width of tab, which differs between the
// active and inactive states.
func TabVisualWidth(tab Tab, active bool) int {
	if active {
		return lipgloss.Width(tab.Name) + 2
	}
	before, key, after := shortcut(tab)
	return lipgloss.Width(before+key+after) + 4 // padding and brackets
}

// RenderTabBar renders one line of tabs padded to width.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active

	active := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	bracket := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pad := lipgloss.NewStyle().Background(t.Surface)
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = active.Render(tab.Name)
			continue
		}
		before, key, after := shortcut(tab)
		parts[i] = pad.Render(" ") +
			inactive.Render(before) +
			bracket.Render("[") + keyStyle.Render(key) + bracket.Render("]") +
			inactive.Render(after) +
			pad.Render(" ")
	}
	row := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}
