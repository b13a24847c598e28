// Package dashboard implements the cost dashboard controller: it issues
// report fetches, pushes results into the chart renderer and metric fields,
// and recovers locally from every failure.
package dashboard

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/costwatch/costwatch/internal/cli"
	"github.com/costwatch/costwatch/internal/costapi"
	"github.com/costwatch/costwatch/internal/report"
)

// ChartArea identifies one of the two chart widgets.
type ChartArea int

const (
	// AreaTrend is the spending-trend chart.
	AreaTrend ChartArea = iota
	// AreaDistribution is the resource-distribution chart.
	AreaDistribution
)

// ChartRenderer is the create-or-update contract for chart widgets: the
// first Upsert for an area creates its chart, later calls mutate the same
// chart in place. Implementations never destroy and recreate.
type ChartRenderer interface {
	Upsert(area ChartArea, labels []string, data []float64, seriesLabel string)
}

// DataSource issues cost report requests and knows the export link shape.
// *costapi.Client satisfies this.
type DataSource interface {
	FetchReport(ctx context.Context, tf report.Timeframe, useMock bool) (*report.CostReport, error)
	ExportURL(tf report.Timeframe) string
}

// Default titles shown when no report is on display.
const (
	defaultTrendTitle        = "Spending Trend"
	defaultDistributionTitle = "Cost Distribution"
)

// Fixed notification messages for the failure paths.
const (
	msgRealDataUnavailable = "Real cost data is unavailable."
	msgMockDataFailed      = "Failed to generate mock data."
	msgGenericError        = "Could not load cost data."
)

const noticeDuration = 5 * time.Second

// State is the observable display state owned by the controller.
type State struct {
	Timeframe   report.Timeframe
	UseMockData bool

	TotalCost             string
	AverageDailyCost      string
	ForecastedMonthlyCost string

	TrendTitle        string
	DistributionTitle string

	SubtitleVisible bool
	ExportURL       string
	Loading         bool
}

// Token identifies one in-flight refresh request. Responses carrying a
// token older than the most recently issued one are discarded, so a slow
// stale response can never overwrite a fresher render.
type Token struct {
	seq     uint64
	tf      report.Timeframe
	useMock bool
}

type notice struct {
	text  string
	until time.Time
}

// Controller owns the display mode and drives the two chart areas and
// three scalar metrics. All methods must be called from a single
// goroutine; fetches run elsewhere and report back through Apply.
type Controller struct {
	source DataSource
	charts ChartRenderer

	state  State
	seq    uint64
	notice notice

	now func() time.Time // stubbed in tests
}

// New creates a controller in the zero display state.
// The persisted mock-data preference and startup timeframe are the
// caller's concern; pass them to the first Refresh or Begin.
func New(source DataSource, charts ChartRenderer) *Controller {
	c := &Controller{
		source: source,
		charts: charts,
		now:    time.Now,
	}
	c.state = State{
		Timeframe:             report.Daily,
		UseMockData:           true,
		TotalCost:             cli.FormatMoney(0),
		AverageDailyCost:      cli.FormatMoney(0),
		ForecastedMonthlyCost: cli.FormatMoney(0),
		TrendTitle:            defaultTrendTitle,
		DistributionTitle:     defaultDistributionTitle,
	}
	return c
}

// State returns a snapshot of the current display state.
func (c *Controller) State() State {
	return c.state
}

// Notice returns the active notification text, or ok=false when none is
// visible. Expired notices disappear without explicit dismissal.
func (c *Controller) Notice() (string, bool) {
	if c.notice.text == "" || c.now().After(c.notice.until) {
		return "", false
	}
	return c.notice.text, true
}

// ShowNotice displays a transient notification, replacing any prior one.
func (c *Controller) ShowNotice(text string) {
	c.notice = notice{text: text, until: c.now().Add(noticeDuration)}
}

// Begin starts a refresh for the given display mode: it records the mode,
// sets the subtitle visibility (the real-data caption makes no sense over
// mock data), and issues a new request token. The caller performs the
// fetch and hands the outcome to Apply with the same token.
func (c *Controller) Begin(tf report.Timeframe, useMock bool) Token {
	c.state.Timeframe = tf
	c.state.UseMockData = useMock
	c.state.SubtitleVisible = !useMock
	c.state.Loading = true
	c.seq++
	return Token{seq: c.seq, tf: tf, useMock: useMock}
}

// Apply completes the refresh identified by tok. Stale tokens are ignored.
func (c *Controller) Apply(tok Token, rep *report.CostReport, err error) {
	if tok.seq != c.seq {
		return // superseded by a newer request
	}
	c.state.Loading = false

	if err == nil {
		c.applyReport(rep, tok.tf)
		return
	}

	var apiErr *costapi.APIError
	switch {
	case errors.As(err, &apiErr) && !tok.useMock:
		msg := apiErr.Message
		if msg == "" {
			msg = msgRealDataUnavailable
		}
		c.ShowNotice(msg)
		c.Clear()
		// No valid real data to caption.
		c.state.SubtitleVisible = false

	case errors.As(err, &apiErr):
		c.ShowNotice(msgMockDataFailed)
		c.Clear()

	default:
		log.Printf("dashboard: refresh failed: %v", err)
		c.ShowNotice(msgGenericError)
		c.Clear()
	}
}

// Refresh runs a full Begin/fetch/Apply cycle synchronously.
func (c *Controller) Refresh(ctx context.Context, tf report.Timeframe, useMock bool) {
	tok := c.Begin(tf, useMock)
	rep, err := c.source.FetchReport(ctx, tf, useMock)
	c.Apply(tok, rep, err)
}

// applyReport renders a successful report.
func (c *Controller) applyReport(rep *report.CostReport, tf report.Timeframe) {
	c.state.TotalCost = cli.FormatMoney(rep.TotalCost)
	c.state.AverageDailyCost = cli.FormatMoney(rep.AverageDailyCost)
	c.state.ForecastedMonthlyCost = cli.FormatMoney(rep.ForecastedMonthlyCost)

	c.state.TrendTitle = rep.SpendingTrend.Title
	c.charts.Upsert(AreaTrend, rep.SpendingTrend.Labels, rep.SpendingTrend.Data, tf.SeriesLabel())

	c.state.DistributionTitle = rep.ResourceDistribution.Title
	c.charts.Upsert(AreaDistribution, rep.ResourceDistribution.Labels, rep.ResourceDistribution.Data, "")

	c.state.ExportURL = c.source.ExportURL(tf)
}

// Clear resets the display to the zero state: zeroed metrics, default
// titles, empty chart series. Calling it repeatedly is a no-op after the
// first call.
func (c *Controller) Clear() {
	c.state.TotalCost = cli.FormatMoney(0)
	c.state.AverageDailyCost = cli.FormatMoney(0)
	c.state.ForecastedMonthlyCost = cli.FormatMoney(0)

	c.state.TrendTitle = defaultTrendTitle
	c.charts.Upsert(AreaTrend, nil, nil, report.Daily.SeriesLabel())

	c.state.DistributionTitle = defaultDistributionTitle
	c.charts.Upsert(AreaDistribution, nil, nil, "")
}
