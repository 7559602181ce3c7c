package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/pipeline"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Cost breakdown by plan, storage tier and schedule",
	RunE:  runCosts,
}

func init() {
	rootCmd.AddCommand(costsCmd)
}

func runCosts(cmd *cobra.Command, _ []string) error {
	in, pf, err := project(cmd)
	if err != nil {
		return err
	}
	if len(in.plans) == 0 {
		printNoPlans()
		return nil
	}

	split, plans := pipeline.AggregateCostBreakdown(pf)
	tiers := pipeline.AggregateTiers(pf)
	schedules := pipeline.AggregateSchedules(pf)
	years := pipeline.AggregateYears(pf)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COST BREAKDOWN  %s", cli.FormatHorizon(pf.TotalMonths))))
	fmt.Println()

	share := func(v float64) string {
		if split.TotalCost <= 0 {
			return ""
		}
		return cli.FormatPercent(v / split.TotalCost)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Charge",
		Headers: []string{"Charge", "Cost", "Share"},
		Rows: [][]string{
			{"Storage", cli.FormatUSD(split.StorageCost), share(split.StorageCost)},
			{"Transfer", cli.FormatUSD(split.TransferCost), share(split.TransferCost)},
			{"---"},
			{"TOTAL", cli.FormatUSD(split.TotalCost), ""},
		},
	}))

	planRows := make([][]string, 0, len(plans)+2)
	for _, pc := range plans {
		planRows = append(planRows, []string{
			truncate(pc.Plan.Label(), 28),
			cli.FormatUSD(pc.StorageCost),
			cli.FormatUSD(pc.TransferCost),
			cli.FormatUSD(pc.TotalCost),
			cli.FormatPercent(pc.SharePercent / 100),
		})
	}
	planRows = append(planRows, []string{"---"})
	planRows = append(planRows, []string{
		"TOTAL",
		cli.FormatUSD(split.StorageCost),
		cli.FormatUSD(split.TransferCost),
		cli.FormatUSD(split.TotalCost),
		"",
	})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Plan",
		Headers: []string{"Plan", "Storage", "Transfer", "Total", "Share"},
		Rows:    planRows,
	}))

	if len(tiers) > 0 {
		fmt.Printf("  By Storage Tier\n")
		maxCost := tiers[0].Cost
		for _, tt := range tiers {
			fmt.Println(cli.RenderHorizontalBar(
				fmt.Sprintf("%s (%d)", tt.Tier.Label(), tt.Plans), 22,
				tt.Cost, maxCost, 30, cli.FormatUSD(tt.Cost)))
		}
		fmt.Println()
	}

	schedRows := make([][]string, 0, len(schedules))
	for _, st := range schedules {
		schedRows = append(schedRows, []string{
			st.Schedule.String(),
			cli.FormatNumber(int64(st.Plans)),
			cli.FormatUSD(st.Cost),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Schedule",
		Headers: []string{"Schedule", "Plans", "Cost"},
		Rows:    schedRows,
	}))

	yearRows := make([][]string, 0, len(years))
	var prev float64
	for i, y := range years {
		delta := ""
		if i > 0 && y.Months == 12 {
			delta = cli.FormatDelta(y.Cost, prev)
		}
		prev = y.Cost
		yearRows = append(yearRows, []string{
			fmt.Sprintf("Year %d", y.Year),
			cli.FormatNumber(int64(y.Months)),
			cli.FormatGB(y.EndSizeGB),
			cli.FormatUSD(y.Cost),
			delta,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Year",
		Headers: []string{"Year", "Months", "End size", "Cost", "vs prev"},
		Rows:    yearRows,
	}))

	return nil
}
