package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/engine"
	"github.com/theirongolddev/bkcost/internal/tui/components"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

// renderInputTab shows the horizon settings and the editable plan list.
func (a App) renderInputTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	var horizon strings.Builder
	row := func(label, value string) {
		horizon.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", label)))
		horizon.WriteString(valueStyle.Render(value))
		horizon.WriteString("\n")
	}
	row("Horizon", cli.FormatHorizon(a.months))
	row("Yearly growth", cli.FormatPercent(a.growthPercent/100))
	row("Default data size", cli.FormatGB(a.dataSizeGB))
	if a.planFile != "" {
		row("Plan file", a.planFile)
	}
	if a.loadErr != nil {
		horizon.WriteString(warnStyle.Render("Load failed: " + a.loadErr.Error()))
		horizon.WriteString("\n")
	}
	if a.notice != "" {
		horizon.WriteString(noticeStyle.Render(a.notice))
		horizon.WriteString("\n")
	}
	horizon.WriteString(labelStyle.Render("[e] edit"))

	var b strings.Builder
	b.WriteString(components.ContentCard("Projection", horizon.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(fmt.Sprintf("Plans (%d)", len(a.plans)), a.renderPlanList(cw), cw))
	return b.String()
}

func (a App) renderPlanList(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	if len(a.plans) == 0 {
		return mutedStyle.Render("No plans yet. Press [a] to add one.")
	}

	// Name column absorbs the remaining width.
	const fixedW = 2 + 9 + 10 + 2 + 16 + 14 + 10 + 14
	nameW := max(12, innerW-fixedW)
	format := fmt.Sprintf("%%-%ds%%-9s%%10s  %%-16s%%14s%%10s%%14s", nameW)

	var b strings.Builder
	b.WriteString(headerStyle.Render("  " + fmt.Sprintf(format,
		"Name", "Schedule", "Retention", "Tier", "Size", "Backups/mo", "Total")))
	b.WriteString("\n")

	totals := make(map[string]float64, len(a.portfolio.Plans))
	for _, pp := range a.portfolio.Plans {
		totals[pp.Plan.ID()] += pp.TotalCost
	}

	for i, p := range a.plans {
		bpm, _ := engine.BackupsPerMonth(p.Schedule())
		line := fmt.Sprintf(format,
			truncStr(p.Label(), nameW-1),
			p.Schedule().String(),
			cli.FormatNumber(int64(p.Retention())),
			p.StorageTier().Label(),
			cli.FormatGB(p.DataSizeGB()),
			cli.FormatBackups(bpm),
			cli.FormatUSD(totals[p.ID()]),
		)

		if i == a.cursor {
			b.WriteString(markerStyle.Render("▸ "))
			b.WriteString(selectedStyle.Render(line))
			if pad := innerW - 2 - lipgloss.Width(line); pad > 0 {
				b.WriteString(selectedStyle.Render(strings.Repeat(" ", pad)))
			}
		} else {
			tierStyle := rowStyle.Foreground(t.TierColor(p.StorageTier()))
			b.WriteString(rowStyle.Render(" "))
			b.WriteString(tierStyle.Render("│"))
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[j/k] select  [a] add  [x] delete"))
	return b.String()
}
