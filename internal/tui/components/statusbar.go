package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/costwatch/costwatch/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. notice, when non-empty,
// is shown highlighted in the middle of the bar.
func RenderStatusBar(width int, notice string, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	noticeStyle := lipgloss.NewStyle().
		Foreground(t.Yellow).
		Bold(true)

	left := " [d/w/m]timeframe  [u]se mock  [r]efresh  [e]xport  [q]uit"
	right := ""
	if refreshing {
		right = "refreshing… "
	}

	middle := ""
	if notice != "" {
		middle = noticeStyle.Render(notice)
	}

	padTotal := width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if padTotal < 2 {
		padTotal = 2
	}
	lpad := padTotal / 2
	rpad := padTotal - lpad

	bar := left + spaces(lpad) + middle + spaces(rpad) + right
	return style.Render(bar)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
