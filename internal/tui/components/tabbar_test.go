package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTabIndex(t *testing.T) {
	assert.Equal(t, 0, TabIndex("o"))
	assert.Equal(t, 2, TabIndex("u"))
	assert.Equal(t, 4, TabIndex("f"))
	assert.Equal(t, 5, TabIndex("x"))
	assert.Equal(t, -1, TabIndex("z"))
}

func TestTabVisualWidth(t *testing.T) {
	// " B[u]dget ": padding plus brackets around the key letter.
	assert.Equal(t, len("Budget")+4, TabVisualWidth(Tabs[2], false))
	// Settings has no x, so the key is appended: " Settings[x] ".
	assert.Equal(t, len("Settings")+5, TabVisualWidth(Tabs[5], false))
	assert.Equal(t, len("Settings")+2, TabVisualWidth(Tabs[5], true))
}

func TestRenderTabBarFillsWidth(t *testing.T) {
	bar := RenderTabBar(1, 90)
	assert.Equal(t, 90, lipgloss.Width(bar))
}

func TestRenderTabBarMatchesVisualWidths(t *testing.T) {
	for active := range Tabs {
		want := len(Tabs) - 1 // separators
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		bar := RenderTabBar(active, want)
		assert.Equal(t, want, lipgloss.Width(bar), "active=%d", active)
	}
}

func TestChartsRender(t *testing.T) {
	values := []float64{10000, 25000, 0, 40000}
	labels := []string{"Jan", "Feb", "Mar", "Apr"}

	assert.Equal(t, 4, lipgloss.Width(Sparkline(values, "#3AA99F")))
	assert.Empty(t, BarChart(nil, nil, "#3AA99F", 40, 5))

	chart := BarChart(values, labels, "#3AA99F", 40, 5)
	assert.Equal(t, 5+2, lipgloss.Height(chart)) // rows, axis, labels

	paired := PairedBars(labels, values, []float64{10000, 20000, 0, 50000}, 70)
	assert.Equal(t, 4, lipgloss.Height(paired))
}

func TestColorForRate(t *testing.T) {
	assert.NotEqual(t, ColorForRate(100), ColorForRate(10))
}
