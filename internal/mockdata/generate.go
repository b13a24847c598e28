// Package mockdata generates synthetic cost data for dashboard display
// when no cloud provider is configured.
package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/costwatch/costwatch/internal/report"
)

// Resource groups used for the synthetic distribution, with their fixed
// share of total spend.
var distributionSplit = []struct {
	Name  string
	Share float64
}{
	{"rg-prod-01", 0.60},
	{"rg-dev-01", 0.25},
	{"rg-staging-01", 0.15},
}

// Data is one generated dataset: a chronological cost series plus a
// resource-group distribution derived from its total.
type Data struct {
	Labels    []string
	Costs     []float64
	GroupName []string
	GroupCost []float64
}

// Total returns the sum of the cost series.
func (d Data) Total() float64 {
	var sum float64
	for _, c := range d.Costs {
		sum += c
	}
	return sum
}

// Generate produces synthetic cost data for the given timeframe, ending at
// now: 30 daily points at $150-250, 12 weekly points at $1000-1800, or
// 12 monthly points at $4000-8000.
func Generate(tf report.Timeframe, now time.Time) Data {
	var d Data

	switch tf {
	case report.Daily:
		const days = 30
		for i := days - 1; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			d.Labels = append(d.Labels, day.Format("2006-01-02"))
			d.Costs = append(d.Costs, randCost(150, 250))
		}

	case report.Weekly:
		const weeks = 12
		for i := weeks - 1; i >= 0; i-- {
			week := now.AddDate(0, 0, -7*i)
			year, wk := week.ISOWeek()
			d.Labels = append(d.Labels, fmt.Sprintf("Week %d, %d", wk, year))
			d.Costs = append(d.Costs, randCost(1000, 1800))
		}

	case report.Monthly:
		const months = 12
		for i := months - 1; i >= 0; i-- {
			month := now.AddDate(0, -i, 0)
			d.Labels = append(d.Labels, month.Format("January 2006"))
			d.Costs = append(d.Costs, randCost(4000, 8000))
		}
	}

	total := d.Total()
	for _, g := range distributionSplit {
		d.GroupName = append(d.GroupName, g.Name)
		d.GroupCost = append(d.GroupCost, round2(total*g.Share))
	}

	return d
}

// randCost draws a uniform cost from [lo, hi) rounded to cents.
func randCost(lo, hi float64) float64 {
	return round2(lo + rand.Float64()*(hi-lo))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
