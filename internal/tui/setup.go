package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

// setupValues holds what the first-run form collects. The form writes
// through pointers, so App keeps it behind one.
type setupValues struct {
	dataFile  string
	projectID string
	leadMonth string
	theme     string
	backups   bool
}

func setupValuesFrom(cfg config.Config, dataPath string) *setupValues {
	lead := cfg.Billing.BillLeadMonths
	if lead == "" {
		lead = "1"
	}
	return &setupValues{
		dataFile:  dataPath,
		projectID: cfg.General.ProjectID,
		leadMonth: lead,
		theme:     theme.ByName(cfg.Appearance.Theme).Name,
		backups:   cfg.General.KeepBackups,
	}
}

// newSetupForm builds the first-run wizard.
func newSetupForm(tenantCount int, vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to rentroll").
				Description(fmt.Sprintf("Found %d tenants. A few settings and you're set.", tenantCount)),
			huh.NewInput().
				Title("Data file").
				Description("The JSON document holding buildings, leases and payments.").
				Value(&vals.dataFile),
			huh.NewInput().
				Title("Project ID").
				Description("Snapshots are filed under this name.").
				Value(&vals.projectID).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" || strings.Contains(s, "/") {
						return errors.New("use a non-empty name without slashes")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Bill lead").
				Description("How far ahead of coverage a bill is issued.").
				Options(
					huh.NewOption("Same month", "0"),
					huh.NewOption("One month ahead", "1"),
					huh.NewOption("One regular cycle ahead", config.LeadCycle),
				).
				Value(&vals.leadMonth),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
			huh.NewConfirm().
				Title("Keep a backup before every save?").
				Value(&vals.backups),
		),
	).WithShowHelp(false)
}

func (a *App) saveSetupConfig() error {
	if a.setupVals == nil {
		return nil
	}
	v := a.setupVals
	cfg := loadConfigOrDefault()
	if f := strings.TrimSpace(v.dataFile); f != "" {
		cfg.General.DataFile = f
	}
	cfg.General.ProjectID = strings.TrimSpace(v.projectID)
	cfg.General.KeepBackups = v.backups
	a.opts.KeepBackups = v.backups

	cfg.Billing.BillLeadMonths = v.leadMonth
	if conv, err := config.Conventions(cfg); err == nil {
		a.opts.Conventions = conv
		a.recompute()
	}

	cfg.Appearance.Theme = v.theme
	theme.SetActive(v.theme)
	return config.Save(cfg)
}

// leadLabel renders the configured bill lead for display.
func leadLabel(lead string) string {
	switch lead {
	case "":
		return "1 month (default)"
	case config.LeadCycle:
		return "one regular cycle"
	}
	if n, err := strconv.Atoi(lead); err == nil {
		if n == 1 {
			return "1 month"
		}
		return fmt.Sprintf("%d months", n)
	}
	return lead
}
