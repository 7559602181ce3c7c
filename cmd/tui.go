package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/tui"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	months, growth, size, planFile := horizonFlags(cmd)
	if size < 0 {
		return fmt.Errorf("--size must not be negative, got %g", size)
	}
	if err := validateHorizon(months, growth, appCfg.General.MaxMonths); err != nil {
		return err
	}
	plans, err := parseInlinePlans(flagPlans, size)
	if err != nil {
		return err
	}

	projector, closeFn, err := newProjector()
	if err != nil {
		return err
	}
	defer closeFn()

	app := tui.NewApp(tui.Options{
		PlanFile:      planFile,
		Plans:         plans,
		Months:        months,
		GrowthPercent: growth,
		DataSizeGB:    size,
		MaxMonths:     appCfg.General.MaxMonths,
		Projector:     projector,
		NeedSetup:     !config.Exists(),
		KeepMonths:    cmd.Flags().Changed("months"),
		KeepGrowth:    cmd.Flags().Changed("growth"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
