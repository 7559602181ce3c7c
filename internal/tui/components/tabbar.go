package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs in display order.
var Tabs = []Tab{
	{Name: "Input", Key: 'i', KeyPos: 0},
	{Name: "Detailed", Key: 'd', KeyPos: 0},
	{Name: "Summary", Key: 's', KeyPos: 0},
	{Name: "Config", Key: 'c', KeyPos: 0},
}

// tab padding on each side
const tabPad = 1

// TabVisualWidth returns the rendered width of a tab, including padding.
// Inactive tabs show their shortcut as "[k]", which adds two columns.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2*tabPad
	if !active {
		w += 2
	}
	return w
}

// RenderTabBar renders a single-row tab bar with the given active index.
// Tabs are separated by one column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceBright).
		Bold(true).
		Padding(0, tabPad)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)
	padStr := inactiveStyle.Render(strings.Repeat(" ", tabPad))

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		before := tab.Name[:tab.KeyPos]
		key := tab.Name[tab.KeyPos : tab.KeyPos+1]
		after := tab.Name[tab.KeyPos+1:]
		parts = append(parts, padStr+
			inactiveStyle.Render(before)+
			dimStyle.Render("[")+keyStyle.Render(key)+dimStyle.Render("]")+
			inactiveStyle.Render(after)+
			padStr)
	}

	row := strings.Join(parts, dimStyle.Render("│"))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
