package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/pipeline"
	"github.com/theirongolddev/bkcost/internal/tui/components"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

// renderBreakdownRow renders the by-tier and by-schedule cards side by side.
func (a App) renderBreakdownRow(cw int) string {
	halves := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("By Storage Tier", a.renderTierBreakdown(halves[0]), halves[0]),
		components.ContentCard("By Schedule", a.renderScheduleBreakdown(halves[1]), halves[1]),
	})
}

func (a App) renderTierBreakdown(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	tiers := pipeline.AggregateTiers(a.portfolio)
	if len(tiers) == 0 {
		return mutedStyle.Render("No plans")
	}

	peak := tiers[0].Cost
	barMax := max(4, innerW-18-14-2)

	var b strings.Builder
	for i, tt := range tiers {
		if i > 0 {
			b.WriteString("\n")
		}
		tierStyle := lipgloss.NewStyle().Foreground(t.TierColor(tt.Tier)).Background(t.Surface)
		barLen := 0
		if peak > 0 {
			barLen = int(tt.Cost / peak * float64(barMax))
		}
		b.WriteString(tierStyle.Render(fmt.Sprintf("%-18s", fmt.Sprintf("%s (%d)", tt.Tier.Label(), tt.Plans))))
		b.WriteString(tierStyle.Render(strings.Repeat("█", barLen)))
		b.WriteString(valueStyle.Render(strings.Repeat(" ", barMax-barLen+2)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%14s", cli.FormatCost(tt.Cost))))
	}
	return b.String()
}

func (a App) renderScheduleBreakdown(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)

	schedules := pipeline.AggregateSchedules(a.portfolio)
	if len(schedules) == 0 {
		return mutedStyle.Render("No plans")
	}

	gap := max(1, innerW-12-8-14)
	var b strings.Builder
	for i, st := range schedules {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", st.Schedule.String())))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-8s", fmt.Sprintf("%d plan", st.Plans)+plural(st.Plans))))
		b.WriteString(mutedStyle.Render(strings.Repeat(" ", gap)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%14s", cli.FormatCost(st.Cost))))
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
