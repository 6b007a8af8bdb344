package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one line of block characters.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := maxOf(values)
	if peak <= 0 {
		peak = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(b.String())
}

// BarChart renders one vertical bar per value with a money axis on the
// left and labels underneath. It falls back to a sparkline when the area
// is too small.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 20 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	step := tickStep(maxOf(values))
	ceiling := math.Ceil(maxOf(values)/step) * step
	if ceiling <= 0 {
		ceiling = step
	}

	axisW := lipgloss.Width(cli.FormatCompactMoney(ceiling)) + 1
	n := len(values)
	barW := (width - axisW - 1 - (n - 1)) / n
	barW = max(1, min(barW, 5))

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = cli.FormatCompactMoney(ceiling)
		} else if row == (height+1)/2 {
			label = cli.FormatCompactMoney(ceiling / 2)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", axisW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case v >= top:
				b.WriteString(bar.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(sparkBlocks)-1))
				b.WriteString(bar.Render(strings.Repeat(string(sparkBlocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + n - 1
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))
	if len(labels) == n {
		var lb strings.Builder
		for i, l := range labels {
			if i > 0 {
				lb.WriteString(" ")
			}
			lb.WriteString(fitLabel(l, barW))
		}
		b.WriteString("\n")
		b.WriteString(axis.Render(strings.Repeat(" ", axisW+1) + lb.String()))
	}
	return b.String()
}

// PairedBars renders one line per label comparing a planned and an actual
// amount on a shared scale.
func PairedBars(labels []string, planned, actual []float64, width int) string {
	t := theme.Active
	peak := math.Max(maxOf(planned), maxOf(actual))
	if peak <= 0 {
		peak = 1
	}
	labelW := 0
	for _, l := range labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	barW := max(5, width-labelW-24)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	plan := lipgloss.NewStyle().Foreground(t.SurfaceBright).Background(t.Surface)
	done := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := make([]string, len(labels))
	for i, l := range labels {
		var p, a float64
		if i < len(planned) {
			p = planned[i]
		}
		if i < len(actual) {
			a = actual[i]
		}
		pw := int(math.Round(p / peak * float64(barW)))
		aw := min(int(math.Round(a/peak*float64(barW))), barW)
		var bar string
		if aw >= pw {
			bar = done.Render(strings.Repeat("█", aw)) + plan.Render(strings.Repeat(" ", barW-aw))
		} else {
			bar = done.Render(strings.Repeat("█", aw)) +
				plan.Render(strings.Repeat("░", pw-aw)) +
				plan.Render(strings.Repeat(" ", barW-pw))
		}
		lines[i] = label.Render(fmt.Sprintf("%-*s ", labelW, l)) + bar +
			value.Render(fmt.Sprintf(" %9s / %-9s", cli.FormatCompactMoney(a), cli.FormatCompactMoney(p)))
	}
	return strings.Join(lines, "\n")
}

func fitLabel(l string, w int) string {
	r := []rune(l)
	if len(r) > w {
		return string(r[:w])
	}
	return l + strings.Repeat(" ", w-len(r))
}

// tickStep picks a round axis step giving about five ticks.
func tickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func maxOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	return peak
}
