package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/costwatch/costwatch/internal/tui/theme"
)

var barBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4)
	for _, v := range values {
		idx := 1 + int(v/peak*float64(len(barBlocks)-2))
		if idx >= len(barBlocks) {
			idx = len(barBlocks) - 1
		}
		buf.WriteRune(barBlocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart renders a vertical bar chart with a y-axis and sparse x-axis
// labels. Empty values render an empty chart frame of the same height.
func BarChart(values []float64, labels []string, width, height int) string {
	t := theme.Active

	if height < 3 {
		height = 3
	}
	if width < 20 {
		return Sparkline(values, t.Accent)
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	ceiling := niceCeiling(maxVal)

	yLabelW := len(axisLabel(ceiling)) + 1
	if yLabelW < 5 {
		yLabelW = 5
	}
	chartW := width - yLabelW - 1
	if chartW < 10 {
		chartW = 10
	}

	// Downsample when there are more points than columns allow.
	values, labels = sampleSeries(values, labels, chartW/2)
	n := len(values)

	barW, gap := 1, 1
	if n > 0 {
		barW = chartW / n
		if barW > 4 {
			barW = 4
		}
		if barW < 1 {
			barW = 1
		}
		if barW == 1 {
			gap = 0
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	gapStyle := lipgloss.NewStyle().Background(t.Surface)

	axisLen := chartW
	if n > 0 {
		axisLen = n*barW + (n-1)*gap
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(height)
		rowBottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = axisLabel(ceiling)
		} else if row == height/2 {
			label = axisLabel(ceiling / 2)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(gapStyle.Render(" "))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				frac := (v - rowBottom) / (rowTop - rowBottom)
				idx := int(frac * 8)
				if idx < 1 {
					idx = 1
				}
				if idx > 8 {
					idx = 8
				}
				b.WriteString(barStyle.Render(strings.Repeat(string(barBlocks[idx]), barW)))
			default:
				b.WriteString(gapStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if n > 0 && len(labels) == n {
		b.WriteString("\n")
		b.WriteString(gapStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(edgeLabels(labels, axisLen)))
	}

	return b.String()
}

// HBarList renders one horizontal bar per labeled value, used for the
// resource distribution chart. Bars scale against the largest value.
func HBarList(labels []string, values []float64, width int) string {
	t := theme.Active
	if len(values) == 0 || len(labels) != len(values) {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("no data")
	}

	maxVal := values[0]
	var total float64
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
		total += v
	}
	if maxVal == 0 {
		maxVal = 1
	}

	nameW := 0
	for _, l := range labels {
		if len(l) > nameW {
			nameW = len(l)
		}
	}
	if nameW > 24 {
		nameW = 24
	}

	// name + space + bar + space + amount + share
	amountW := 12
	barW := width - nameW - amountW - 10
	if barW < 8 {
		barW = 8
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i, v := range values {
		name := labels[i]
		if len(name) > nameW {
			name = name[:nameW-1] + "…"
		}

		filled := int(v / maxVal * float64(barW))
		if filled < 1 && v > 0 {
			filled = 1
		}

		share := 0.0
		if total > 0 {
			share = v / total * 100
		}

		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, name)))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(trackStyle.Render(strings.Repeat("░", barW-filled)))
		b.WriteString(" ")
		b.WriteString(valStyle.Render(fmt.Sprintf("%*s", amountW, fmt.Sprintf("$%.2f", v))))
		b.WriteString(pctStyle.Render(fmt.Sprintf(" %5.1f%%", share)))
		if i < len(values)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// sampleSeries reduces a series to at most maxN evenly spaced points.
func sampleSeries(values []float64, labels []string, maxN int) ([]float64, []string) {
	n := len(values)
	if maxN < 2 {
		maxN = 2
	}
	if n <= maxN {
		return values, labels
	}

	sampled := make([]float64, maxN)
	var sampledLabels []string
	if len(labels) == n {
		sampledLabels = make([]string, maxN)
	}
	for i := range sampled {
		srcIdx := i * (n - 1) / (maxN - 1)
		sampled[i] = values[srcIdx]
		if sampledLabels != nil {
			sampledLabels[i] = labels[srcIdx]
		}
	}
	return sampled, sampledLabels
}

// edgeLabels places the first label left-aligned and the last label
// right-aligned on a single axis-width line.
func edgeLabels(labels []string, axisLen int) string {
	first := labels[0]
	last := labels[len(labels)-1]
	if len(first) > axisLen {
		first = first[:axisLen]
	}

	pad := axisLen - len(first) - len(last)
	if pad < 1 {
		return first
	}
	return first + strings.Repeat(" ", pad) + last
}

// niceCeiling rounds max up to a round number for the y-axis top tick.
func niceCeiling(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(maxVal))
	base := math.Pow(10, exp)
	frac := maxVal / base

	switch {
	case frac <= 1:
		return base
	case frac <= 2:
		return 2 * base
	case frac <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

func axisLabel(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
