package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the current horizon summary on the right.
func RenderStatusBar(width int, hints, info string) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := hintStyle.Render(" " + hints)
	right := infoStyle.Render(info + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + hintStyle.Render(strings.Repeat(" ", padding)) + right
}
