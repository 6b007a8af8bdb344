package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableAlignsWideCells(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Units",
		Headers: []string{"Unit", "Area"},
		Rows: [][]string{
			{"101", "100 m²"},
			SeparatorRow,
			{"Total", "1,350 m²"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "Units")

	width := lipgloss.Width(lines[1])
	for _, l := range lines[1:] {
		assert.Equal(t, width, lipgloss.Width(l), "line %q", l)
	}
	assert.Contains(t, lines[4], "   100 m²")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Equal(t, "", RenderTable(Table{}))
}

func TestRenderRateBar(t *testing.T) {
	bar := RenderRateBar(50, 10)
	assert.Contains(t, bar, strings.Repeat("█", 5)+strings.Repeat("░", 5))
	assert.Contains(t, bar, "50.0%")

	over := RenderRateBar(120, 4)
	assert.Contains(t, over, "████")
	assert.Contains(t, over, "120.0%")
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil))
	assert.Equal(t, "▁█", RenderSparkline([]float64{0, 10}))
	assert.Equal(t, "▁▁", RenderSparkline([]float64{0, 0}))
}

func TestRenderHorizontalBar(t *testing.T) {
	assert.Equal(t, "  Jan ███", RenderHorizontalBar("Jan", 30, 100, 10))
	assert.Equal(t, "  Jan", RenderHorizontalBar("Jan", 30, 0, 10))
}
