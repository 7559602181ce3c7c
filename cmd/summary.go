package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/engine"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Total, yearly average and per-plan costs",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	in, pf, err := project(cmd)
	if err != nil {
		return err
	}
	if len(in.plans) == 0 {
		printNoPlans()
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BACKUP COST  %s  ·  %s/yr growth",
		cli.FormatHorizon(pf.TotalMonths), cli.FormatPercent(pf.YearlyGrowth))))
	fmt.Println()

	years := engine.YearsSpanned(pf.TotalMonths)
	rows := [][]string{
		{"Plans", cli.FormatNumber(int64(len(pf.Plans)))},
		{"Horizon", cli.FormatHorizon(pf.TotalMonths)},
		{"Yearly growth", cli.FormatPercent(pf.YearlyGrowth)},
		{"---"},
		{"Total Cost", cli.FormatUSD(pf.TotalCost)},
		{"Avg / year", fmt.Sprintf("%s  (over %d yr)", cli.FormatUSD(pf.AverageYearlyCost), years)},
		{"Run rate / year", cli.FormatUSD(pf.AnnualizedCost)},
		{"---"},
		{"Peak month", cli.FormatUSD(pf.PeakMonthlyCost())},
		{"Final data size", cli.FormatGB(pf.FinalSizeGB())},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	planRows := make([][]string, 0, len(pf.Plans)+2)
	for _, pp := range pf.Plans {
		planRows = append(planRows, []string{
			truncate(pp.Plan.Label(), 28),
			pp.Plan.Schedule().String(),
			cli.FormatNumber(int64(pp.Plan.Retention())),
			pp.Plan.StorageTier().Label(),
			cli.FormatGB(pp.Plan.DataSizeGB()),
			cli.FormatUSD(pp.AverageYearlyCost),
			cli.FormatUSD(pp.TotalCost),
		})
	}
	planRows = append(planRows, []string{"---"})
	planRows = append(planRows, []string{"TOTAL", "", "", "", "",
		cli.FormatUSD(pf.AverageYearlyCost), cli.FormatUSD(pf.TotalCost)})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Plan",
		Headers: []string{"Plan", "Schedule", "Retention", "Tier", "Size", "Avg / year", "Total"},
		Rows:    planRows,
	}))

	if len(pf.Months) > 1 {
		values := make([]float64, len(pf.Months))
		for i, m := range pf.Months {
			values[i] = m.Cost
		}
		fmt.Printf("  Monthly cost  %s\n\n", cli.RenderSparkline(values))
	}
	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
