// Package tui provides the interactive Bubble Tea dashboard for bkcost.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/logging"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/pipeline"
	"github.com/theirongolddev/bkcost/internal/tui/components"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

// PlansLoadedMsg is sent when the plan file finishes loading.
type PlansLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports plan file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Options configures a new App.
type Options struct {
	PlanFile      string // loaded asynchronously when set
	Plans         []model.Plan
	Months        int
	GrowthPercent float64
	DataSizeGB    float64
	MaxMonths     int
	Projector     *pipeline.Projector
	NeedSetup     bool

	// Months and GrowthPercent were given explicitly and win over values
	// set by the plan file.
	KeepMonths bool
	KeepGrowth bool
}

const (
	tabInput = iota
	tabDetailed
	tabSummary
	tabConfig
)

// formKind identifies which huh form is on screen.
type formKind int

const (
	formNone formKind = iota
	formAddPlan
	formHorizon
	formSetup
)

// App is the root Bubble Tea model.
type App struct {
	projector *pipeline.Projector

	// Inputs
	plans         []model.Plan
	months        int
	growthPercent float64
	dataSizeGB    float64
	maxMonths     int
	planFile      string
	keepMonths    bool
	keepGrowth    bool

	// Derived on every input change
	portfolio  model.Portfolio
	cacheStats pipeline.CacheStats
	projErr    error

	loaded   bool
	loadErr  error
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int // selected plan on the Input tab
	notice    string
	detail    viewport.Model
	settings  settingsState

	// Active huh form. Values live behind pointers so they survive the
	// model being copied between updates.
	form        *huh.Form
	formKind    formKind
	planVals    *planValues
	horizonVals *horizonValues
	setupVals   *setupValues
	needSetup   bool

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start even if the config file is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Warn("config unreadable, using defaults", zap.Error(err))
		return config.DefaultConfig()
	}
	return cfg
}

// loadFileConfigOrDefault loads the config file without environment
// overrides. Anything that is written back with config.Save starts here.
func loadFileConfigOrDefault() config.Config {
	cfg, err := config.LoadFile()
	if err != nil {
		logging.Logger.Warn("config unreadable, using defaults", zap.Error(err))
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.Projector == nil {
		opts.Projector = pipeline.NewProjector(nil, nil)
	}
	if opts.MaxMonths < 1 {
		opts.MaxMonths = config.MaxMonthsLimit
	}
	if opts.Months < 1 {
		opts.Months = 12
	}

	plans := make([]model.Plan, len(opts.Plans))
	for i, p := range opts.Plans {
		if p.ID() == "" {
			p = p.WithNewID()
		}
		plans[i] = p
	}

	a := App{
		projector:     opts.Projector,
		plans:         plans,
		months:        opts.Months,
		growthPercent: opts.GrowthPercent,
		dataSizeGB:    opts.DataSizeGB,
		maxMonths:     opts.MaxMonths,
		planFile:      opts.PlanFile,
		keepMonths:    opts.KeepMonths,
		keepGrowth:    opts.KeepGrowth,
		needSetup:     opts.NeedSetup,
		detail:        viewport.New(0, 0),
		spinner:       sp,
		loadSub:       make(chan tea.Msg, 1),
	}
	if a.planFile == "" {
		a.loaded = true
		a.recompute()
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.planFile != "" {
		cmds = append(cmds, loadPlansCmd(a.planFile, a.dataSizeGB, a.loadSub), a.spinner.Tick)
	} else if a.needSetup {
		cmds = append(cmds, func() tea.Msg { return setupStartMsg{} })
	}
	return tea.Batch(cmds...)
}

// recompute projects the current plans and refreshes derived views.
func (a *App) recompute() {
	a.portfolio, a.cacheStats, a.projErr = a.projector.Project(a.plans, a.months, a.growthPercent/100)
	if a.projErr != nil {
		logging.Logger.Warn("projection failed", zap.Error(a.projErr))
	}
	if a.cursor >= len(a.plans) {
		a.cursor = len(a.plans) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.refreshDetail()
}

type setupStartMsg struct{}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth()).WithHeight(msg.Height)
		}
		a.resizeDetail()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scroll(-1)
		case tea.MouseButtonWheelDown:
			a.scroll(1)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case setupStartMsg:
		return a.openForm(formSetup)

	case PlansLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			logging.Logger.Warn("plan file load failed", zap.String("path", a.planFile), zap.Error(msg.Err))
		} else {
			a.applyLoadResult(msg.Result)
		}
		a.recompute()
		if a.needSetup {
			return a.openForm(formSetup)
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a *App) applyLoadResult(res *pipeline.LoadResult) {
	if res == nil {
		return
	}
	a.plans = append(a.plans, res.Plans...)
	if !a.keepMonths && res.Months != nil && *res.Months >= 1 && *res.Months <= a.maxMonths {
		a.months = *res.Months
	}
	if !a.keepGrowth && res.GrowthPercent != nil && *res.GrowthPercent >= 0 && *res.GrowthPercent <= 100 {
		a.growthPercent = *res.GrowthPercent
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

	// Forms intercept all keys
	if a.form != nil {
		return a.updateForm(msg)
	}

	// Config tab has its own text input
	if a.activeTab == tabConfig && a.settings.editing {
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

	a.notice = ""

	switch a.activeTab {
	case tabInput:
		switch key {
		case "j", "down":
			if a.cursor < len(a.plans)-1 {
				a.cursor++
			}
			return a, nil
		case "k", "up":
			if a.cursor > 0 {
				a.cursor--
			}
			return a, nil
		case "a":
			return a.openForm(formAddPlan)
		case "e":
			return a.openForm(formHorizon)
		case "x", "delete":
			a.deleteSelected()
			return a, nil
		}

	case tabDetailed:
		switch key {
		case "j", "k", "up", "down", "pgup", "pgdown", "ctrl+d", "ctrl+u":
			var cmd tea.Cmd
			a.detail, cmd = a.detail.Update(msg)
			return a, cmd
		case "g", "home":
			a.detail.GotoTop()
			return a, nil
		case "G", "end":
			a.detail.GotoBottom()
			return a, nil
		}

	case tabConfig:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

// deleteSelected removes the plan under the cursor by ID.
func (a *App) deleteSelected() {
	if len(a.plans) == 0 {
		return
	}
	id := a.plans[a.cursor].ID()
	label := a.plans[a.cursor].Label()

	kept := a.plans[:0:0]
	for _, p := range a.plans {
		if p.ID() != id {
			kept = append(kept, p)
		}
	}
	a.plans = kept
	a.notice = "Removed " + label
	a.recompute()
}

func (a *App) scroll(delta int) {
	switch a.activeTab {
	case tabInput:
		a.cursor = max(0, min(a.cursor+delta, len(a.plans)-1))
	case tabDetailed:
		a.detail.SetYOffset(a.detail.YOffset + delta)
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) formWidth() int {
	return min(a.width, 72)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  bkcost needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ bkcost"))
	b.WriteString(subtitleStyle.Render(" · Backup Cost Projection"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())

	if a.progressMax > 0 {
		barW := max(20, min(40, a.width-30))
		b.WriteString(subtitleStyle.Render(" Parsing plan files\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(subtitleStyle.Render(" Loading " + a.planFile))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"i d s c", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move selection / scroll"},
			{"g G", "Top / bottom of detail table"},
		}},
		{"Plans", [][2]string{
			{"a", "Add a plan"},
			{"x", "Delete selected plan"},
			{"e", "Edit horizon, growth and size"},
		}},
		{"General", [][2]string{
			{"Enter", "Edit setting"},
			{"Esc", "Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusInfo() string {
	info := fmt.Sprintf("%s · %s/yr growth · %s",
		cli.FormatHorizon(a.months),
		cli.FormatPercent(a.growthPercent/100),
		cli.FormatUSD(a.portfolio.TotalCost))
	if a.loadTime > 0 {
		info += fmt.Sprintf(" · loaded in %.1fs", a.loadTime.Seconds())
	}
	return info
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabInput:
		return "[a]dd  [x] delete  [e]dit horizon  [?]help  [q]uit"
	case tabDetailed:
		return "[j/k] scroll  [g/G] top/bottom  [?]help  [q]uit"
	case tabConfig:
		return "[j/k] move  [Enter] edit  [?]help  [q]uit"
	default:
		return "[?]help  [q]uit"
	}
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusInfo())

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case tabInput:
		content = a.renderInputTab(cw)
	case tabDetailed:
		content = a.renderDetailedTab(cw)
	case tabSummary:
		content = a.renderSummaryTab(cw)
	case tabConfig:
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

// ─── Helpers ────────────────────────────────────────────────────

// loadPlansCmd loads the plan file in a background goroutine. It streams
// ProgressMsg updates and a final PlansLoadedMsg through sub.
func loadPlansCmd(path string, defaultSizeGB float64, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update
			// catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			res, err := pipeline.LoadDir(context.Background(), path, defaultSizeGB, progressFn)
			if err == nil && res.TotalFiles == 0 {
				err = fmt.Errorf("no plan files found at %s", path)
			}
			sub <- PlansLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

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

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
