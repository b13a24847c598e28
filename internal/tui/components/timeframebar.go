package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/costwatch/costwatch/internal/report"
	"github.com/costwatch/costwatch/internal/tui/theme"
)

// timeframeKeys maps shortcut keys to timeframes; the shortcut letter is
// the first letter of the name.
var timeframeKeys = map[rune]report.Timeframe{
	'd': report.Daily,
	'w': report.Weekly,
	'm': report.Monthly,
}

// TimeframeByKey returns the timeframe for a key press, or ok=false.
func TimeframeByKey(key rune) (report.Timeframe, bool) {
	tf, ok := timeframeKeys[key]
	return tf, ok
}

// RenderTimeframeBar renders the timeframe selector with the active
// timeframe highlighted and shortcut keys bracketed on inactive ones.
func RenderTimeframeBar(active report.Timeframe) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var parts []string
	for _, tf := range report.Timeframes {
		name := tf.Capitalized()
		if tf == active {
			parts = append(parts, activeStyle.Render(name))
			continue
		}
		parts = append(parts,
			dimStyle.Render("[")+keyStyle.Render(name[:1])+dimStyle.Render("]")+
				inactiveStyle.Render(name[1:]))
	}

	return " " + strings.Join(parts, "  ")
}

// MockBadge renders the data source indicator shown next to the
// timeframe bar.
func MockBadge(useMock bool) string {
	t := theme.Active

	if useMock {
		return lipgloss.NewStyle().
			Foreground(t.Yellow).
			Render("◦ mock data")
	}
	return lipgloss.NewStyle().
		Foreground(t.Green).
		Render("● live data")
}
