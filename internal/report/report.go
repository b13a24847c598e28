// Package report defines the cost report payload exchanged between the
// costwatch server and its dashboard clients.
package report

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Timeframe is a named aggregation window for cost data.
type Timeframe string

// Supported timeframes.
const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
)

// Timeframes lists all supported timeframes in display order.
var Timeframes = []Timeframe{Daily, Weekly, Monthly}

// ParseTimeframe validates a timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case Daily, Weekly, Monthly:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("invalid timeframe %q", s)
}

// Capitalized returns the timeframe with its first letter upper-cased,
// e.g. "daily" -> "Daily".
func (t Timeframe) Capitalized() string {
	s := string(t)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// SeriesLabel returns the trend chart series label for this timeframe,
// e.g. "daily" -> "Daily Spending".
func (t Timeframe) SeriesLabel() string {
	return t.Capitalized() + " Spending"
}

// Series is an ordered labelled data series. Labels and Data correspond
// positionally: Labels[i] describes Data[i].
type Series struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// CostReport is the aggregate cost payload for one timeframe.
type CostReport struct {
	TotalCost             float64 `json:"total_cost"`
	AverageDailyCost      float64 `json:"average_daily_cost"`
	ForecastedMonthlyCost float64 `json:"forecasted_monthly_cost"`
	SpendingTrend         Series  `json:"spending_trend"`
	ResourceDistribution  Series  `json:"resource_distribution"`
}

// Validate checks that both series are internally consistent.
func (r *CostReport) Validate() error {
	if len(r.SpendingTrend.Labels) != len(r.SpendingTrend.Data) {
		return fmt.Errorf("spending_trend: %d labels, %d data points",
			len(r.SpendingTrend.Labels), len(r.SpendingTrend.Data))
	}
	if len(r.ResourceDistribution.Labels) != len(r.ResourceDistribution.Data) {
		return fmt.Errorf("resource_distribution: %d labels, %d data points",
			len(r.ResourceDistribution.Labels), len(r.ResourceDistribution.Data))
	}
	return nil
}
