package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

// ProgressBar renders a fraction (0..1) as a block bar with a percentage.
func ProgressBar(frac float64, width int) string {
	t := theme.Active
	frac = clamp01(frac)
	filled := int(frac * float64(width))

	barColor := t.Accent
	if frac >= 0.8 {
		barColor = t.AccentBright
	}
	fill := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pct := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)

	return fill.Render(strings.Repeat("█", filled)) +
		empty.Render(strings.Repeat("░", width-filled)) +
		pct.Render(fmt.Sprintf(" %3.0f%%", frac*100))
}

// ColorForRate colors a collection or completion rate given in percent:
// the closer to target, the greener.
func ColorForRate(rate float64) lipgloss.Color {
	t := theme.Active
	switch {
	case rate >= 95:
		return t.Green
	case rate >= 80:
		return t.Yellow
	case rate >= 50:
		return t.Orange
	default:
		return t.Red
	}
}

// RateBar renders a rate in percent with a gradient bar from the bubbles
// progress widget, capped at 100 for display.
func RateBar(rate float64, width int) string {
	t := theme.Active
	bar := progress.New(
		progress.WithGradient(string(t.Red), string(t.Green)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)
	label := lipgloss.NewStyle().Foreground(ColorForRate(rate)).Background(t.Surface).Bold(true)
	return bar.ViewAs(clamp01(rate/100)) + label.Render(fmt.Sprintf(" %5.1f%%", rate))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
