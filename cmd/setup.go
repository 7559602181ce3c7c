package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := tui.RunSetupWizard(appCfg.General.MaxMonths)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("\n  Setup cancelled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Default horizon: %s\n", cli.FormatHorizon(cfg.General.DefaultMonths))
	fmt.Printf("  Yearly growth:   %s\n", cli.FormatPercent(cfg.General.GrowthPercent/100))
	fmt.Printf("  Data size:       %s\n", cli.FormatGB(cfg.General.DataSizeGB))
	fmt.Printf("  Theme:           %s\n", cfg.Appearance.Theme)
	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `bkcost setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
