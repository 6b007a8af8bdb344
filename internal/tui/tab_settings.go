package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/tui/components"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldYear
	settingsFieldLead
	settingsFieldBackend
	settingsFieldNarrativeKey
	settingsFieldBackups
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldYear:
		ti.Placeholder = "empty for the current year"
		if cfg.General.DefaultYear > 0 {
			ti.SetValue(strconv.Itoa(cfg.General.DefaultYear))
		}
	case settingsFieldLead:
		ti.Placeholder = "months, or " + config.LeadCycle
		ti.SetValue(cfg.Billing.BillLeadMonths)
	case settingsFieldBackend:
		ti.Placeholder = config.BackendSQLite + " or " + config.BackendS3
		ti.SetValue(cfg.Snapshot.Backend)
	case settingsFieldNarrativeKey:
		ti.Placeholder = "API key"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(config.GetNarrativeKey(cfg))
	case settingsFieldBackups:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(cfg.General.KeepBackups))
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "seconds, minimum 10"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func parseBool(s string) bool {
	if s == "yes" {
		return true
	}
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	a.settings.saveErr = nil

	switch a.settings.cursor {
	case settingsFieldTheme:
		if theme.ByName(val).Name != val {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldYear:
		if val == "" {
			cfg.General.DefaultYear = 0
			break
		}
		y, err := strconv.Atoi(val)
		if err != nil || y < 1900 {
			a.settings.saveErr = fmt.Errorf("invalid year %q", val)
			return
		}
		cfg.General.DefaultYear = y
	case settingsFieldLead:
		cfg.Billing.BillLeadMonths = val
		conv, err := config.Conventions(cfg)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		a.opts.Conventions = conv
		a.recompute()
		a.recomputeTrend()
	case settingsFieldBackend:
		if val != config.BackendSQLite && val != config.BackendS3 {
			a.settings.saveErr = fmt.Errorf("unknown snapshot backend %q", val)
			return
		}
		cfg.Snapshot.Backend = val
	case settingsFieldNarrativeKey:
		cfg.Narrative.APIKey = val
	case settingsFieldBackups:
		cfg.General.KeepBackups = parseBool(val)
		a.opts.KeepBackups = cfg.General.KeepBackups
	case settingsFieldAutoRefresh:
		cfg.TUI.AutoRefresh = parseBool(val)
		a.autoRefresh = cfg.TUI.AutoRefresh
	case settingsFieldRefreshInterval:
		sec, err := strconv.Atoi(val)
		if err != nil || time.Duration(sec)*time.Second < minRefresh {
			a.settings.saveErr = fmt.Errorf("refresh interval must be at least %s", minRefresh)
			return
		}
		cfg.TUI.RefreshIntervalSec = sec
		a.refreshInterval = time.Duration(sec) * time.Second
	}

	a.settings.saveErr = config.Save(cfg)
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) > 12:
		return key[:6] + "..." + key[len(key)-4:]
	default:
		return "****"
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selValue := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	accent := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	green := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	year := "(current year)"
	if cfg.General.DefaultYear > 0 {
		year = strconv.Itoa(cfg.General.DefaultYear)
	}
	fields := [settingsFieldCount][2]string{
		{"Theme", cfg.Appearance.Theme},
		{"Default year", year},
		{"Bill lead", leadLabel(cfg.Billing.BillLeadMonths)},
		{"Snapshot backend", cfg.Snapshot.Backend},
		{"Narrative API key", maskKey(config.GetNarrativeKey(cfg))},
		{"Keep backups", strconv.FormatBool(cfg.General.KeepBackups)},
		{"Auto refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(marker.Render("▸ "))
			form.WriteString(accent.Render(fmt.Sprintf("%-19s ", f[0])))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			line := marker.Render("▸ ") + selLabel.Render(fmt.Sprintf("%-19s ", f[0]+":")) + selValue.Render(f[1])
			form.WriteString(line)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(label.Render("  " + fmt.Sprintf("%-19s ", f[0]+":")))
			form.WriteString(value.Render(f[1]))
		}
		form.WriteString("\n")
	}

	switch {
	case a.settings.saveErr != nil:
		form.WriteString("\n" + warn.Render("Not saved: "+a.settings.saveErr.Error()) + "\n")
	case a.settings.saved:
		form.WriteString("\n" + green.Render("Saved") + "\n")
	}
	form.WriteString(label.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	rows := [][2]string{
		{"Data file", a.opts.DataPath},
		{"Tenants", cli.FormatNumber(int64(len(a.doc.Tenants)))},
		{"Payments", cli.FormatNumber(int64(len(a.doc.Payments)))},
		{"Scenarios", cli.FormatNumber(int64(len(a.doc.BudgetScenarios)))},
		{"Load time", fmt.Sprintf("%.2fs", a.loadTime.Seconds())},
		{"Config file", config.ConfigPath()},
	}
	for i, r := range rows {
		info.WriteString(label.Render(fmt.Sprintf("%-12s ", r[0])) + value.Render(truncStr(r[1], innerW-13)))
		if i < len(rows)-1 {
			info.WriteString("\n")
		}
	}

	return components.ContentCard("Settings", form.String(), cw) + "\n" +
		components.ContentCard("General", info.String(), cw)
}
