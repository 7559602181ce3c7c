package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/tui/components"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

const (
	detailChartH = 8
	// tab bar + status bar + chart card + table card borders and header
	detailOverhead = 1 + 1 + (detailChartH + 4) + 4
)

// resizeDetail fits the month table viewport to the window.
func (a *App) resizeDetail() {
	a.detail.Width = components.CardInnerWidth(a.contentWidth())
	a.detail.Height = max(3, a.height-detailOverhead)
	a.refreshDetail()
}

// refreshDetail rebuilds the month-by-month table rows.
func (a *App) refreshDetail() {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	yearStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)

	var b strings.Builder
	for i, m := range a.portfolio.Months {
		style := rowStyle
		if m.Month > 1 && (m.Month-1)%12 == 0 {
			style = yearStyle
		}
		b.WriteString(style.Render(detailRow(fmt.Sprintf("%d", m.Month), cli.FormatGB(m.SizeGB), cli.FormatUSD(m.Cost))))
		if i < len(a.portfolio.Months)-1 {
			b.WriteString("\n")
		}
	}
	a.detail.SetContent(b.String())
}

func detailRow(month, storage, total string) string {
	return fmt.Sprintf("%6s  %18s  %20s", month, storage, total)
}

// renderDetailedTab shows the monthly cost chart and the scrollable table.
func (a App) renderDetailedTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	if a.projErr != nil {
		return components.ContentCard("Detailed Results",
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.projErr.Error()), cw)
	}

	values := make([]float64, len(a.portfolio.Months))
	for i, m := range a.portfolio.Months {
		values[i] = m.Cost
	}

	var b strings.Builder
	chart := components.BarChart(values, components.MonthLabels(len(values)), t.Accent,
		components.CardInnerWidth(cw), detailChartH)
	if len(a.plans) == 0 {
		chart = mutedStyle.Render("No plans. Add one on the Input tab.")
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Monthly Cost · peak %s", cli.FormatUSD(a.portfolio.PeakMonthlyCost())),
		chart, cw))
	b.WriteString("\n")

	scroll := ""
	if a.detail.TotalLineCount() > a.detail.Height {
		scroll = fmt.Sprintf(" · %3.0f%%", a.detail.ScrollPercent()*100)
	}

	var table strings.Builder
	table.WriteString(headerStyle.Render(detailRow("Month", "Storage", "Total Monthly Cost")))
	table.WriteString("\n")
	table.WriteString(a.detail.View())

	b.WriteString(components.ContentCard(
		fmt.Sprintf("Detailed Results (%s)%s", cli.FormatHorizon(a.portfolio.TotalMonths), scroll),
		table.String(), cw))
	return b.String()
}
