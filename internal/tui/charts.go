package tui

import "github.com/costwatch/costwatch/internal/dashboard"

// Chart is the mutable state behind one chart widget. A chart is created
// on the first Upsert for its area and mutated in place from then on, so
// the view always renders through the same handle.
type Chart struct {
	Labels      []string
	Data        []float64
	SeriesLabel string
}

// ChartSet implements dashboard.ChartRenderer over a fixed set of areas.
type ChartSet struct {
	charts map[dashboard.ChartArea]*Chart
}

// NewChartSet returns an empty chart set.
func NewChartSet() *ChartSet {
	return &ChartSet{charts: make(map[dashboard.ChartArea]*Chart)}
}

// Upsert creates the chart for area on first call and updates it in
// place afterwards.
func (s *ChartSet) Upsert(area dashboard.ChartArea, labels []string, data []float64, seriesLabel string) {
	ch, ok := s.charts[area]
	if !ok {
		ch = &Chart{}
		s.charts[area] = ch
	}
	ch.Labels = labels
	ch.Data = data
	ch.SeriesLabel = seriesLabel
}

// Chart returns the handle for area, or nil before its first Upsert.
func (s *ChartSet) Chart(area dashboard.ChartArea) *Chart {
	return s.charts[area]
}
