// Package theme defines the color palettes of the rentroll dashboard.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/model"
)

// Theme maps color roles to concrete colors.
type Theme struct {
	Name          string
	Background    lipgloss.Color // app background
	Surface       lipgloss.Color // card background
	SurfaceHover  lipgloss.Color // active tab, selected row
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderBright  lipgloss.Color
	BorderAccent  lipgloss.Color // focused card
	TextDim       lipgloss.Color
	TextMuted     lipgloss.Color
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color
	Green         lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Blue          lipgloss.Color
	Yellow        lipgloss.Color
	Magenta       lipgloss.Color
	Cyan          lipgloss.Color
}

// FlexokiDark is the default palette.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    "#100F0F",
	Surface:       "#1C1B1A",
	SurfaceHover:  "#282726",
	SurfaceBright: "#343331",
	Border:        "#403E3C",
	BorderBright:  "#575653",
	BorderAccent:  "#3AA99F",
	TextDim:       "#575653",
	TextMuted:     "#878580",
	TextPrimary:   "#FFFCF0",
	Accent:        "#3AA99F",
	AccentBright:  "#5BC8BE",
	Green:         "#879A39",
	Orange:        "#DA702C",
	Red:           "#D14D41",
	Blue:          "#4385BE",
	Yellow:        "#D0A215",
	Magenta:       "#CE5D97",
	Cyan:          "#24837B",
}

// FlexokiLight is the paper-coloured variant for light terminals.
var FlexokiLight = Theme{
	Name:          "flexoki-light",
	Background:    "#FFFCF0",
	Surface:       "#F2F0E5",
	SurfaceHover:  "#E6E4D9",
	SurfaceBright: "#DAD8CE",
	Border:        "#CECDC3",
	BorderBright:  "#B7B5AC",
	BorderAccent:  "#24837B",
	TextDim:       "#B7B5AC",
	TextMuted:     "#6F6E69",
	TextPrimary:   "#100F0F",
	Accent:        "#24837B",
	AccentBright:  "#1C6C66",
	Green:         "#66800B",
	Orange:        "#BC5215",
	Red:           "#AF3029",
	Blue:          "#205EA6",
	Yellow:        "#AD8301",
	Magenta:       "#A02F6F",
	Cyan:          "#24837B",
}

// TokyoNight is a cool blue palette.
var TokyoNight = Theme{
	Name:          "tokyo-night",
	Background:    "#1A1B26",
	Surface:       "#24283B",
	SurfaceHover:  "#343A52",
	SurfaceBright: "#414868",
	Border:        "#565F89",
	BorderBright:  "#7982A9",
	BorderAccent:  "#7AA2F7",
	TextDim:       "#565F89",
	TextMuted:     "#A9B1D6",
	TextPrimary:   "#C0CAF5",
	Accent:        "#7AA2F7",
	AccentBright:  "#A9C1FF",
	Green:         "#9ECE6A",
	Orange:        "#FF9E64",
	Red:           "#F7768E",
	Blue:          "#7AA2F7",
	Yellow:        "#E0AF68",
	Magenta:       "#BB9AF7",
	Cyan:          "#7DCFFF",
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:          "terminal",
	Background:    "0",
	Surface:       "0",
	SurfaceHover:  "8",
	SurfaceBright: "8",
	Border:        "8",
	BorderBright:  "7",
	BorderAccent:  "6",
	TextDim:       "8",
	TextMuted:     "7",
	TextPrimary:   "15",
	Accent:        "6",
	AccentBright:  "14",
	Green:         "2",
	Orange:        "3",
	Red:           "1",
	Blue:          "4",
	Yellow:        "3",
	Magenta:       "5",
	Cyan:          "6",
}

// All lists the selectable palettes.
var All = []Theme{FlexokiDark, FlexokiLight, TokyoNight, Terminal}

// Active is the palette components render with.
var Active = FlexokiDark

// ByName finds a palette, falling back to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Names lists the palette names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// SetActive switches the active palette.
func SetActive(name string) {
	Active = ByName(name)
}

// ForBilling colors a billing status.
func (t Theme) ForBilling(s model.BillingStatus) lipgloss.Color {
	switch s {
	case model.BillPaid:
		return t.Green
	case model.BillPartial:
		return t.Yellow
	default:
		return t.Red
	}
}

// ForCategory colors a budget category.
func (t Theme) ForCategory(c model.BudgetCategory) lipgloss.Color {
	switch c {
	case model.CategoryRenewal:
		return t.Blue
	case model.CategoryReLease:
		return t.Magenta
	case model.CategoryRisk:
		return t.Orange
	case model.CategoryVacancy:
		return t.Yellow
	default:
		return t.TextPrimary
	}
}
