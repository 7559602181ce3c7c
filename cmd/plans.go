package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/engine"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List parsed backup plans",
	RunE:  runPlans,
}

func init() {
	rootCmd.AddCommand(plansCmd)
}

func runPlans(cmd *cobra.Command, _ []string) error {
	in, err := resolveInputs(cmd)
	if err != nil {
		return err
	}
	if len(in.plans) == 0 {
		printNoPlans()
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BACKUP PLANS  (%d)", len(in.plans))))
	fmt.Println()

	rows := make([][]string, 0, len(in.plans))
	for _, p := range in.plans {
		bpm, err := engine.BackupsPerMonth(p.Schedule())
		if err != nil {
			return err
		}
		retained, err := engine.RetainedBackups(p)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			truncate(p.Label(), 28),
			p.Schedule().String(),
			cli.FormatNumber(int64(p.Retention())),
			p.StorageTier().Label(),
			cli.FormatGB(p.DataSizeGB()),
			cli.FormatBackups(bpm),
			cli.FormatBackups(retained),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Plan", "Schedule", "Retention", "Tier", "Size", "Backups/mo", "Retained"},
		Rows:    rows,
	}))

	if in.loaded != nil && len(in.loaded.Files) > 0 {
		fileRows := make([][]string, 0, len(in.loaded.Files))
		for _, f := range in.loaded.Files {
			months, growth := "", ""
			if f.Months != nil {
				months = cli.FormatHorizon(*f.Months)
			}
			if f.GrowthPercent != nil {
				growth = cli.FormatPercent(*f.GrowthPercent / 100)
			}
			fileRows = append(fileRows, []string{f.Path, string(f.Format), months, growth})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Plan Files",
			Headers: []string{"File", "Format", "Horizon", "Growth"},
			Rows:    fileRows,
		}))
	}

	fmt.Printf("  Horizon %s · growth %s/yr\n\n",
		cli.FormatHorizon(in.months), cli.FormatPercent(in.growthPercent/100))
	return nil
}
