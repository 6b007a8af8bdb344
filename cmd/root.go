package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/logger"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
	"github.com/theirongolddev/rentroll/internal/scenario"
	"github.com/theirongolddev/rentroll/internal/source"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagData     string
	flagYear     int
	flagQuarter  string
	flagScenario string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:           "rentroll",
	Short:         "Lease billing and budget CLI",
	Long:          "Compute bill schedules, receivables, occupancy and budget scenarios for a leased property portfolio.",
	SilenceUsage:  true,
	RunE:          runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	// A .env next to the working directory may carry API keys.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagData, "data", "d", "", "Data file (default from config)")
	rootCmd.PersistentFlags().IntVarP(&flagYear, "year", "y", 0, "Reporting year (default from config, else current year)")
	rootCmd.PersistentFlags().StringVar(&flagQuarter, "quarter", "all", "Reporting period: all, q1, q2, q3 or q4")
	rootCmd.PersistentFlags().StringVarP(&flagScenario, "scenario", "s", "", "Budget scenario id (default: the active one)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// workspace is what every command runs against: configuration, billing
// conventions and the loaded data file.
type workspace struct {
	cfg    config.Config
	conv   billing.Conventions
	path   string
	year   int
	now    time.Time
	doc    model.Document
	issues []source.Issue
}

// loadConfig reads the config file and resolves the billing conventions.
func loadConfig() (config.Config, billing.Conventions, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, billing.Conventions{}, err
	}
	conv, err := config.Conventions(cfg)
	if err != nil {
		return cfg, conv, fmt.Errorf("config: %w", err)
	}
	return cfg, conv, nil
}

// loadData is the shared data loading path used by all commands.
func loadData() (*workspace, error) {
	cfg, conv, err := loadConfig()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	path := dataPath(cfg)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", path)
	}
	res, err := pipeline.Load(path, now)
	if err != nil {
		return nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %s tenants, %s payments, %d scenarios\n",
			formatNumber(int64(len(res.Document.Tenants))),
			formatNumber(int64(len(res.Document.Payments))),
			len(res.Document.BudgetScenarios),
		)
	}

	year := flagYear
	if year == 0 {
		year = config.Year(cfg, now)
	}
	return &workspace{
		cfg:    cfg,
		conv:   conv,
		path:   path,
		year:   year,
		now:    now,
		doc:    res.Document,
		issues: res.Issues,
	}, nil
}

func dataPath(cfg config.Config) string {
	if flagData != "" {
		return flagData
	}
	return config.DataPath(cfg)
}

// selector is the scenario the command works on: --scenario, else the
// active scenario, else the live data.
func (w *workspace) selector() string {
	if flagScenario != "" {
		return flagScenario
	}
	return scenario.ActiveID(w.doc)
}

func (w *workspace) view() scenario.View {
	return scenario.Resolve(w.doc, w.selector())
}

func (w *workspace) input() pipeline.Input {
	return w.view().Input(w.doc.Payments, w.conv)
}

func (w *workspace) quarter() (calendar.Quarter, error) {
	return calendar.ParseQuarter(flagQuarter)
}

func (w *workspace) dashboard(billingMonth calendar.YearMonth) (model.Dashboard, error) {
	q, err := w.quarter()
	if err != nil {
		return model.Dashboard{}, err
	}
	return pipeline.Recalculate(w.doc, pipeline.Options{
		Year:         w.year,
		Quarter:      q,
		BillingMonth: billingMonth,
		Conventions:  w.conv,
	}), nil
}

// save writes doc back to the data file and keeps it as the workspace
// document.
func (w *workspace) save(doc model.Document) error {
	if err := source.WriteDocument(w.path, doc, w.cfg.General.KeepBackups); err != nil {
		return err
	}
	w.doc = doc
	return nil
}

// printIssues lists validation findings on stderr.
func (w *workspace) printIssues() {
	if flagQuiet || len(w.issues) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr)
	for _, issue := range w.issues {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(issue.String()))
	}
}

// newLogger builds the command's structured logger. --quiet drops
// everything below warn.
func newLogger(cfg config.Config) *zap.Logger {
	lc := cfg.Log
	if flagQuiet {
		lc.Level = "warn"
	}
	return logger.New(lc)
}

// currentMonth is the billing month commands default to: this month when
// it falls in year, January otherwise.
func currentMonth(year int, now time.Time) calendar.YearMonth {
	if now.Year() == year {
		return calendar.MonthOf(now)
	}
	return calendar.YearMonth{Year: year, Month: time.January}
}

// monthFlag parses a YYYY-MM flag, defaulting to currentMonth.
func monthFlag(value string, w *workspace) (calendar.YearMonth, error) {
	if value == "" {
		return currentMonth(w.year, w.now), nil
	}
	return calendar.ParseYearMonth(value)
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
