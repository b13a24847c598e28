// Package tui provides the interactive Bubble Tea dashboard for costwatch.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/costapi"
	"github.com/costwatch/costwatch/internal/dashboard"
	"github.com/costwatch/costwatch/internal/prefs"
	"github.com/costwatch/costwatch/internal/report"
	"github.com/costwatch/costwatch/internal/tui/components"
	"github.com/costwatch/costwatch/internal/tui/theme"
)

// ReportMsg delivers the outcome of a background report fetch.
type ReportMsg struct {
	Token dashboard.Token
	Rep   *report.CostReport
	Err   error
}

// ExportDoneMsg is sent when a CSV export to disk finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

type tickMsg struct{}

const (
	minTerminalWidth = 70
	maxContentWidth  = 140
	trendChartHeight = 10
	fetchTimeout     = 30 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	client *costapi.Client
	store  *prefs.Store // nil when the preference db could not be opened
	ctrl   *dashboard.Controller
	charts *ChartSet

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time

	// UI state
	width    int
	height   int
	showHelp bool
	spinner  spinner.Model
}

// NewApp creates the dashboard model. Persisted preferences decide the
// startup timeframe and data source; absent preferences fall back to
// daily mock data.
func NewApp(client *costapi.Client, store *prefs.Store, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	charts := NewChartSet()

	refreshInterval := time.Duration(cfg.Dashboard.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 60 * time.Second
	}

	return App{
		client:          client,
		store:           store,
		ctrl:            dashboard.New(client, charts),
		charts:          charts,
		autoRefresh:     cfg.Dashboard.AutoRefresh,
		refreshInterval: refreshInterval,
		lastRefresh:     time.Now(),
	}
}

// startupMode reads the persisted timeframe and mock preference.
func (a App) startupMode() (report.Timeframe, bool) {
	tf := report.Daily
	useMock := true
	if a.store == nil {
		return tf, useMock
	}
	if v, ok, err := a.store.Get(prefs.KeyTimeframe); err == nil && ok {
		if parsed, err := report.ParseTimeframe(v); err == nil {
			tf = parsed
		}
	}
	useMock = a.store.GetBool(prefs.KeyUseMockData, true)
	return tf, useMock
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	tf, useMock := a.startupMode()
	tok := a.ctrl.Begin(tf, useMock)

	return tea.Batch(
		a.spinner.Tick,
		tickCmd(),
		fetchCmd(a.client, tok, tf, useMock),
	)
}

// refresh issues a new fetch for the given display mode.
func (a *App) refresh(tf report.Timeframe, useMock bool) tea.Cmd {
	tok := a.ctrl.Begin(tf, useMock)
	a.lastRefresh = time.Now()
	return fetchCmd(a.client, tok, tf, useMock)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case ReportMsg:
		a.ctrl.Apply(msg.Token, msg.Rep, msg.Err)
		return a, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			a.ctrl.ShowNotice("Export failed: " + msg.Err.Error())
		} else {
			a.ctrl.ShowNotice("Exported " + msg.Path)
		}
		return a, nil

	case spinner.TickMsg:
		if a.ctrl.State().Loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		st := a.ctrl.State()
		if a.autoRefresh && !st.Loading && time.Since(a.lastRefresh) >= a.refreshInterval {
			cmds = append(cmds, a.refresh(st.Timeframe, st.UseMockData))
		}
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return a, tea.Quit
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	st := a.ctrl.State()

	if len(key) == 1 {
		if tf, ok := components.TimeframeByKey(rune(key[0])); ok {
			if a.store != nil {
				_ = a.store.Set(prefs.KeyTimeframe, string(tf))
			}
			return a, tea.Batch(a.refresh(tf, st.UseMockData), a.spinner.Tick)
		}
	}

	switch key {
	case "u":
		useMock := !st.UseMockData
		if a.store != nil {
			_ = a.store.SetBool(prefs.KeyUseMockData, useMock)
		}
		return a, tea.Batch(a.refresh(st.Timeframe, useMock), a.spinner.Tick)

	case "r":
		if st.Loading {
			return a, nil
		}
		return a, tea.Batch(a.refresh(st.Timeframe, st.UseMockData), a.spinner.Tick)

	case "R":
		a.autoRefresh = !a.autoRefresh
		if a.autoRefresh {
			a.ctrl.ShowNotice("Auto-refresh on")
		} else {
			a.ctrl.ShowNotice("Auto-refresh off")
		}
		return a, nil

	case "e":
		if st.ExportURL == "" {
			a.ctrl.ShowNotice("Nothing to export yet.")
			return a, nil
		}
		return a, exportCmd(a.client, st.Timeframe)
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf(
			"\n  Terminal too narrow (%d cols)\n\n  costwatch needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) viewMain() string {
	t := theme.Active
	st := a.ctrl.State()
	cw := a.contentWidth()

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	var b strings.Builder

	// Header row: title, timeframe selector, data source badge.
	header := titleStyle.Render(" ◈ costwatch") +
		subtitleStyle.Render(" · Cloud Cost Dashboard")
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(components.RenderTimeframeBar(st.Timeframe))
	b.WriteString("  ")
	b.WriteString(components.MockBadge(st.UseMockData))
	if st.Loading {
		b.WriteString("  ")
		b.WriteString(a.spinner.View())
	}
	b.WriteString("\n")

	if st.SubtitleVisible {
		b.WriteString(subtitleStyle.Render(" Live Azure cost data"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Metric cards.
	cards := []struct{ Label, Value string }{
		{"Total Cost", st.TotalCost},
		{"Avg Daily Cost", st.AverageDailyCost},
		{"Forecasted Monthly", st.ForecastedMonthlyCost},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Trend chart.
	inner := components.CardInnerWidth(cw)
	trendBody := a.trendBody(inner)
	b.WriteString(components.ContentCard(st.TrendTitle, trendBody, cw))
	b.WriteString("\n")

	// Distribution chart.
	distBody := a.distributionBody(inner)
	b.WriteString(components.ContentCard(st.DistributionTitle, distBody, cw))
	b.WriteString("\n")

	if st.ExportURL != "" {
		b.WriteString(subtitleStyle.Render(" Export CSV: " + st.ExportURL))
		b.WriteString("\n")
	}

	notice, _ := a.ctrl.Notice()
	b.WriteString(components.RenderStatusBar(a.width, notice, st.Loading))

	return b.String()
}

func (a App) trendBody(width int) string {
	t := theme.Active
	ch := a.charts.Chart(dashboard.AreaTrend)
	if ch == nil || len(ch.Data) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("no data")
	}

	chart := components.BarChart(ch.Data, ch.Labels, width, trendChartHeight)
	legend := lipgloss.NewStyle().Foreground(t.TextMuted).
		Render("■ " + ch.SeriesLabel)
	return chart + "\n" + legend
}

func (a App) distributionBody(width int) string {
	t := theme.Active
	ch := a.charts.Chart(dashboard.AreaDistribution)
	if ch == nil || len(ch.Data) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("no data")
	}
	return components.HBarList(ch.Labels, ch.Data, width)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	bindings := []struct{ key, desc string }{
		{"d w m", "Daily / Weekly / Monthly timeframe"},
		{"u", "Toggle mock data"},
		{"r", "Refresh now"},
		{"R", "Toggle auto-refresh"},
		{"e", "Export CSV to current directory"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-6s", bind.key)),
			descStyle.Render(bind.desc))
	}

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// fetchCmd fetches a cost report in a background goroutine and delivers
// the outcome tagged with its request token.
func fetchCmd(client *costapi.Client, tok dashboard.Token, tf report.Timeframe, useMock bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		rep, err := client.FetchReport(ctx, tf, useMock)
		return ReportMsg{Token: tok, Rep: rep, Err: err}
	}
}

// exportCmd downloads the CSV export and writes it to the working
// directory.
func exportCmd(client *costapi.Client, tf report.Timeframe) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		data, err := client.ExportCSV(ctx, tf)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}

		path := fmt.Sprintf("cost_data_%s.csv", tf)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}
