package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	general := [][2]string{
		{"Default horizon", cli.FormatHorizon(cfg.General.DefaultMonths)},
		{"Max horizon", cli.FormatHorizon(cfg.General.MaxMonths)},
		{"Yearly growth", cli.FormatPercent(cfg.General.GrowthPercent / 100)},
		{"Default data size", cli.FormatGB(cfg.General.DataSizeGB)},
	}
	if cfg.General.PlanFile != "" {
		general = append(general, [2]string{"Plan file", cfg.General.PlanFile})
	}
	printSection("General", general)

	if cfg.Pricing.IsZero() {
		fmt.Println("  [Pricing]")
		fmt.Println("    Reference prices (run `bkcost pricing` to see them)")
		fmt.Println()
	} else {
		printSection("Pricing", [][2]string{
			{"Standard", overrideValue(cfg.Pricing.StandardPerGB)},
			{"Infrequent Access", overrideValue(cfg.Pricing.InfrequentAccessPerGB)},
			{"Archive", overrideValue(cfg.Pricing.ArchivePerGB)},
			{"Transfer", overrideValue(cfg.Pricing.TransferPerGB)},
		})
	}

	printSection("Appearance", [][2]string{{"Theme", cfg.Appearance.Theme}})
	printSection("Serve", [][2]string{
		{"Address", cfg.Serve.Addr},
		{"Interval", fmt.Sprintf("%ds", cfg.Serve.IntervalSec)},
	})
	printSection("Log", [][2]string{
		{"Level", cfg.Log.Level},
		{"Format", cfg.Log.Format},
	})

	fmt.Println("  Run `bkcost setup` to reconfigure.")
	return nil
}

func printSection(name string, pairs [][2]string) {
	fmt.Printf("  [%s]\n", name)
	fmt.Print(cli.RenderKeyValue(pairs))
	fmt.Println()
}

func overrideValue(v *float64) string {
	if v == nil {
		return "reference"
	}
	return fmt.Sprintf("$%g", *v)
}
