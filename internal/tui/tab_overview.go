package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/engine"
	"github.com/theirongolddev/bkcost/internal/pipeline"
	"github.com/theirongolddev/bkcost/internal/tui/components"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

// summaryMetrics returns the headline figures of the Summary tab.
func (a App) summaryMetrics() []components.Metric {
	pf := a.portfolio
	years := engine.YearsSpanned(pf.TotalMonths)
	yearsUnit := "yrs"
	if years == 1 {
		yearsUnit = "yr"
	}

	return []components.Metric{
		{Label: "Total Cost", Value: cli.FormatUSD(pf.TotalCost), Note: cli.FormatHorizon(pf.TotalMonths)},
		{Label: "Avg / year", Value: cli.FormatUSD(pf.AverageYearlyCost), Note: fmt.Sprintf("over %d %s", years, yearsUnit)},
		{Label: "Run rate / year", Value: cli.FormatUSD(pf.AnnualizedCost), Note: "total × 12 / months"},
		{Label: "Plans", Value: cli.FormatNumber(int64(len(pf.Plans))), Note: "final size " + cli.FormatGB(pf.FinalSizeGB())},
	}
}

// renderSummaryTab shows headline metrics, per-plan totals and breakdowns.
func (a App) renderSummaryTab(cw int) string {
	t := theme.Active

	if a.projErr != nil {
		return components.ContentCard("Summary",
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.projErr.Error()), cw)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(a.summaryMetrics(), cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Cost by Plan", a.renderPlanShares(halves[0]), halves[0]),
		components.ContentCard("Cost by Year", a.renderYearTotals(halves[1]), halves[1]),
	}))
	b.WriteString("\n")
	b.WriteString(a.renderBreakdownRow(cw))
	return b.String()
}

func (a App) renderPlanShares(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	costStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	split, plans := pipeline.AggregateCostBreakdown(a.portfolio)
	if len(plans) == 0 {
		return mutedStyle.Render("No plans")
	}

	const costW = 14
	labelW := min(24, innerW/3)
	barW := max(6, innerW-labelW-costW-9)

	var b strings.Builder
	for i, pc := range plans {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.ShareBar(pc.Plan.Label(), pc.SharePercent/100,
			t.TierColor(pc.Plan.StorageTier()), labelW, barW))
		b.WriteString(costStyle.Render(fmt.Sprintf("%*s", costW, cli.FormatUSD(pc.TotalCost))))
	}
	if split.TransferCost > 0 {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Storage %s · Transfer %s",
			cli.FormatUSD(split.StorageCost), cli.FormatUSD(split.TransferCost))))
	}
	return b.String()
}

func (a App) renderYearTotals(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	years := pipeline.AggregateYears(a.portfolio)
	if len(years) == 0 {
		return labelStyle.Render("No months projected")
	}

	costs := make([]float64, len(years))
	var b strings.Builder
	for i, y := range years {
		costs[i] = y.Cost
		label := fmt.Sprintf("Year %d", y.Year)
		if y.Months < 12 {
			label += fmt.Sprintf(" (%dmo)", y.Months)
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%14s  %s", cli.FormatUSD(y.Cost), cli.FormatGB(y.EndSizeGB))))
		b.WriteString("\n")
	}
	if len(costs) > 1 && innerW > 20 {
		b.WriteString(components.Sparkline(costs, t.Accent))
	}
	return strings.TrimRight(b.String(), "\n")
}
