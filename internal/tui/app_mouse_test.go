package tui

import (
	"testing"

	"github.com/theirongolddev/rentroll/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d: x past the last tab -> %d, want -1", active, got)
		}
	}
}

func TestTabAtXMatchesKnownLayout(t *testing.T) {
	// Overview active: "Overview" plus padding is 10 wide, then a separator,
	// then " [b]illing " starts at column 11.
	a := App{activeTab: tabOverview}
	if got := a.tabAtX(9); got != tabOverview {
		t.Fatalf("x=9 -> %d, want overview", got)
	}
	if got := a.tabAtX(10); got != -1 {
		t.Fatalf("separator column -> %d, want -1", got)
	}
	if got := a.tabAtX(11); got != tabBilling {
		t.Fatalf("x=11 -> %d, want billing", got)
	}
}
