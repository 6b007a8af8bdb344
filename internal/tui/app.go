// Package tui provides the interactive Bubble Tea dashboard for rentroll.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
	"github.com/theirongolddev/rentroll/internal/scenario"
	"github.com/theirongolddev/rentroll/internal/source"
	"github.com/theirongolddev/rentroll/internal/tui/components"
	"github.com/theirongolddev/rentroll/internal/tui/theme"
)

// DataLoadedMsg is sent when the data file has been read and the
// comparative trend computed.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Trend    []model.YearMetrics
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports how many trend years have been computed.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// DocumentSavedMsg is sent after an edit has been written to the data file.
type DocumentSavedMsg struct {
	Doc  model.Document
	Note string
	Err  error
}

// Options configure a dashboard session.
type Options struct {
	DataPath        string
	Year            int
	Quarter         calendar.Quarter
	Scenario        string
	Conventions     billing.Conventions
	KeepBackups     bool
	AutoRefresh     bool
	RefreshInterval time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	doc      model.Document
	issues   []source.Issue
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Selection
	year         int
	quarter      calendar.Quarter
	billingMonth calendar.YearMonth
	selector     string

	// Derived for the current selection
	dash   model.Dashboard
	view   scenario.View
	rows   []model.BudgetRow
	impact model.ImpactSummary
	exec   model.ExecutionReport
	trend  []model.YearMetrics

	comparison []model.AnnualComparison
	deposits   model.DepositPool

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	message   string

	// Per-tab state
	bills    billingState
	budget   budgetState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading: progress and completion arrive through loadSub
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	minRefresh       = 10 * time.Second
	defaultRefresh   = 30 * time.Second
)

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabBilling
	tabBudget
	tabExecution
	tabFinance
	tabSettings
)

var quarters = []calendar.Quarter{calendar.FullYear, calendar.Q1, calendar.Q2, calendar.Q3, calendar.Q4}

// loadConfigOrDefault keeps the dashboard usable when the config file is
// unreadable.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	interval := opts.RefreshInterval
	if interval < minRefresh {
		interval = defaultRefresh
	}
	quarter := opts.Quarter
	if quarter == "" {
		quarter = calendar.FullYear
	}
	if opts.Conventions.MaxCycles == 0 {
		opts.Conventions = billing.DefaultConventions()
	}

	return App{
		opts:            opts,
		year:            opts.Year,
		quarter:         quarter,
		billingMonth:    defaultBillingMonth(opts.Year, time.Now()),
		selector:        opts.Scenario,
		needSetup:       !config.Exists(),
		autoRefresh:     opts.AutoRefresh,
		refreshInterval: interval,
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// defaultBillingMonth is the current month when it falls in year, January
// otherwise.
func defaultBillingMonth(year int, now time.Time) calendar.YearMonth {
	if now.Year() == year {
		return calendar.MonthOf(now)
	}
	return calendar.YearMonth{Year: year, Month: time.January}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.year, a.selector, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// recompute derives every figure the tabs show from the document and the
// current selection.
func (a *App) recompute() {
	a.dash = pipeline.Recalculate(a.doc, pipeline.Options{
		Year:         a.year,
		Quarter:      a.quarter,
		BillingMonth: a.billingMonth,
		Conventions:  a.opts.Conventions,
	})
	a.view = scenario.Resolve(a.doc, a.selector)
	in := a.input()
	a.rows = pipeline.BudgetRows(in, a.year)
	a.impact = pipeline.Impact(a.rows, a.year)
	a.exec = pipeline.Execution(in, a.year)
	a.comparison = pipeline.AnnualComparison(a.doc, a.year)
	a.deposits = pipeline.DepositPool(a.doc.Tenants, a.doc.Payments)

	if n := len(a.dash.CurrentMonthBilling); a.bills.cursor >= n {
		a.bills.cursor = max(0, n-1)
	}
	if a.budget.cursor >= len(a.rows) {
		a.budget.cursor = max(0, len(a.rows)-1)
	}
}

// recomputeTrend refreshes the five-year comparison after a change of
// year or scenario.
func (a *App) recomputeTrend() {
	a.trend = pipeline.ComparativeTrend(a.input(), a.year)
}

func (a App) input() pipeline.Input {
	return a.view.Input(a.doc.Payments, a.opts.Conventions)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.applyResult(msg.Result)
		a.trend = msg.Trend
		a.recompute()

		if a.needSetup {
			a.setupVals = setupValuesFrom(loadConfigOrDefault(), a.opts.DataPath)
			a.setupForm = newSetupForm(len(a.doc.Tenants), a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			a.message = "reload failed: " + msg.Err.Error()
			return a, nil
		}
		a.loadErr = nil
		a.loadTime = msg.LoadTime
		a.applyResult(msg.Result)
		a.recompute()
		a.recomputeTrend()
		return a, nil

	case DocumentSavedMsg:
		if msg.Err != nil {
			a.message = "save failed: " + msg.Err.Error()
			return a, nil
		}
		a.doc = msg.Doc
		a.issues = source.Validate(a.doc)
		a.message = msg.Note
		a.recompute()
		a.recomputeTrend()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts.DataPath))
		}
		return a, tea.Batch(cmds...)
	}

	// Unhandled messages (cursor blinks and the like) go to the setup form.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) applyResult(r *pipeline.LoadResult) {
	a.doc = r.Document
	a.issues = r.Issues
	if a.selector == "" {
		a.selector = scenario.ActiveID(a.doc)
	}
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	a.message = ""

	if m, cmd, handled := a.updateTabKey(key); handled {
		return m, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts.DataPath)
		}
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
	case "s":
		a.selector = nextScenario(a.doc, a.selector)
		a.recompute()
		a.recomputeTrend()
	case "p":
		a.quarter = nextQuarter(a.quarter)
		a.recompute()
	case "[", "]":
		if key == "[" {
			a.year--
		} else {
			a.year++
		}
		a.billingMonth = calendar.YearMonth{Year: a.year, Month: a.billingMonth.Month}
		a.recompute()
		a.recomputeTrend()
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if i := components.TabIndex(key); i >= 0 {
			a.activeTab = i
		}
	}
	return a, nil
}

// updateTabKey handles the keys a tab binds itself.
func (a App) updateTabKey(key string) (tea.Model, tea.Cmd, bool) {
	switch a.activeTab {
	case tabBilling:
		return a.updateBillingKey(key)
	case tabBudget:
		return a.updateBudgetKey(key)
	case tabSettings:
		switch key {
		case "j", "down":
			a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
			return a, nil, true
		case "k", "up":
			a.settings.cursor = max(a.settings.cursor-1, 0)
			return a, nil, true
		case "enter":
			m, cmd := a.settingsStartEdit()
			return m, cmd, true
		}
	}
	return a, nil, false
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabBilling:
		a.bills.cursor = clampIndex(a.bills.cursor+delta, len(a.dash.CurrentMonthBilling))
	case tabBudget:
		a.budget.cursor = clampIndex(a.budget.cursor+delta, len(a.rows))
	}
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(i, n-1))
}

// nextScenario cycles live data, then every scenario in document order.
func nextScenario(doc model.Document, current string) string {
	ids := []string{scenario.Current}
	for _, s := range doc.BudgetScenarios {
		ids = append(ids, s.ID)
	}
	for i, id := range ids {
		if id == current {
			return ids[(i+1)%len(ids)]
		}
	}
	return scenario.Current
}

func nextQuarter(q calendar.Quarter) calendar.Quarter {
	for i, v := range quarters {
		if v == q {
			return quarters[(i+1)%len(quarters)]
		}
	}
	return calendar.FullYear
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.message = "could not save config: " + err.Error()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	switch {
	case a.width == 0:
		return ""
	case a.width < minTerminalWidth:
		return a.viewTooNarrow()
	case !a.loaded:
		return a.viewLoading()
	case a.needSetup && a.setupForm != nil:
		return a.setupForm.View()
	case a.showHelp:
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  rentroll needs at least %d columns.\n",
		a.width, minTerminalWidth)
	h := max(a.height, 5)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spin := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logo.Render("◈ rentroll"))
	b.WriteString(muted.Render(" · Lease billing and budget"))
	b.WriteString("\n\n")
	b.WriteString(spin.Render(a.spinner.View()))
	if a.progressMax > 0 {
		b.WriteString(muted.Render(fmt.Sprintf(" Projecting years %d/%d\n\n", a.progress, a.progressMax)))
		barW := max(20, min(40, a.width-30))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
	} else {
		b.WriteString(muted.Render(" Reading " + a.opts.DataPath))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	groups := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o b u e f x", "Jump to tab"},
			{"← →", "Previous / next tab"},
			{"j k", "Move through lists"},
			{"[ ]", "Previous / next year"},
			{"p", "Cycle quarter"},
			{"s", "Cycle scenario"},
		}},
		{"Billing", [][2]string{
			{"h l", "Previous / next month"},
			{"c", "Collect the selected bill"},
			{"v", "Revoke the month's payments"},
			{"d", "Defer the bill to next month"},
		}},
		{"Budget", [][2]string{
			{"z", "Undo the last adjustment"},
		}},
		{"General", [][2]string{
			{"r", "Reload the data file"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, g := range groups {
		b.WriteString("\n")
		b.WriteString(section.Render(g.name))
		b.WriteString("\n")
		for _, kb := range g.bindings {
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", kb[0])), desc.Render(kb[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w, cw, h := a.width, a.contentWidth(), a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, components.Status{
		Scenario:    a.view.Name,
		Period:      fmt.Sprintf("%d %s", a.year, a.quarter.Label()),
		DataAge:     fmt.Sprintf("%.0fs ago", time.Since(a.lastRefresh).Seconds()),
		Issues:      len(a.issues),
		Message:     a.message,
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard("Could not load data",
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.loadErr.Error()), cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabBilling:
		content = a.renderBillingTab(cw, contentH)
	case a.activeTab == tabBudget:
		content = a.renderBudgetTab(cw, contentH)
	case a.activeTab == tabExecution:
		content = a.renderExecutionTab(cw)
	case a.activeTab == tabFinance:
		content = a.renderFinanceTab(cw)
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Loading ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd reads the data file and computes the comparative trend in a
// background goroutine, streaming ProgressMsg updates and a final
// DataLoadedMsg through sub.
func loadDataCmd(opts Options, year int, selector string, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()
			res, err := pipeline.Load(opts.DataPath, start)
			if err != nil {
				sub <- DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}
			if selector == "" {
				selector = scenario.ActiveID(res.Document)
			}

			// Non-blocking: a dropped update is superseded by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			in := scenario.Resolve(res.Document, selector).Input(res.Document.Payments, opts.Conventions)
			years := make([]int, 0, 5)
			for y := year - 2; y <= year+2; y++ {
				years = append(years, y)
			}
			trend := pipeline.YearRange(in, years, progressFn)

			sub <- DataLoadedMsg{Result: res, Trend: trend, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the loader goroutine sends again.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads the data file without progress reporting.
func refreshDataCmd(path string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := pipeline.Load(path, start)
		return RefreshDataMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

// saveDocCmd writes doc to the data file.
func saveDocCmd(opts Options, doc model.Document, note string) tea.Cmd {
	return func() tea.Msg {
		if err := source.WriteDocument(opts.DataPath, doc, opts.KeepBackups); err != nil {
			return DocumentSavedMsg{Err: err}
		}
		return DocumentSavedMsg{Doc: doc, Note: note}
	}
}

// newID names payments and adjustments created from the dashboard.
func newID() string {
	return uuid.NewString()
}

// describeErr shortens scenario errors for the status bar.
func describeErr(err error) string {
	switch {
	case errors.Is(err, scenario.ErrNothingDue):
		return "nothing due that month"
	case errors.Is(err, scenario.ErrNoAdjustments):
		return "no adjustments to undo"
	}
	return err.Error()
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads every line to w so gaps between cards keep
// the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// money is the status-bar and table form of an amount.
func money(v float64) string {
	return cli.FormatMoney(v)
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab under column x, or -1. Hitboxes follow the widths
// RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}
