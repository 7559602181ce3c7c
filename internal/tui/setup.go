package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

// setupValues backs the first-run setup form.
type setupValues struct {
	months    int
	growth    string
	size      string
	themeName string
	saveErr   error
}

var horizonChoices = []int{12, 24, 36, 60, 72}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		months:    cfg.General.DefaultMonths,
		growth:    strconv.FormatFloat(cfg.General.GrowthPercent, 'f', -1, 64),
		size:      strconv.FormatFloat(cfg.General.DataSizeGB, 'f', -1, 64),
		themeName: cfg.Appearance.Theme,
	}
}

func newSetupForm(vals *setupValues, maxMonths int) *huh.Form {
	monthOpts := make([]huh.Option[int], 0, len(horizonChoices))
	for _, m := range horizonChoices {
		if m <= maxMonths {
			monthOpts = append(monthOpts, huh.NewOption(cli.FormatHorizon(m), m))
		}
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to bkcost!").
				Description("Let's set up a few defaults.\nYou can change them later in the Config tab or with `bkcost setup`."),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default projection horizon").
				Options(monthOpts...).
				Value(&vals.months),
			huh.NewInput().
				Title("Yearly data growth (%)").
				Validate(validateGrowth).
				Value(&vals.growth),
			huh.NewInput().
				Title("Default data size (GB)").
				Validate(validateSize(false)).
				Value(&vals.size),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.themeName),
		),
	).WithTheme(huh.ThemeCharm())
}

// applySetup copies the setup answers into cfg.
func applySetup(cfg *config.Config, v *setupValues) {
	cfg.General.DefaultMonths = v.months
	if g, err := cli.ParseFixed(strings.TrimSuffix(v.growth, "%")); err == nil {
		cfg.General.GrowthPercent = g
	}
	if s, err := cli.ParseFixed(v.size); err == nil {
		cfg.General.DataSizeGB = s
	}
	if theme.Valid(v.themeName) {
		cfg.Appearance.Theme = v.themeName
	}
}

// RunSetupWizard runs the setup form outside the dashboard and saves the
// answers to the config file.
func RunSetupWizard(maxMonths int) (config.Config, error) {
	cfg := loadFileConfigOrDefault()
	vals := newSetupValues(cfg)
	if err := newSetupForm(vals, maxMonths).Run(); err != nil {
		return cfg, err
	}
	applySetup(&cfg, vals)
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}

// saveSetup persists the setup answers and applies them to the session.
func (a *App) saveSetup() {
	v := a.setupVals
	cfg := loadFileConfigOrDefault()
	applySetup(&cfg, v)
	theme.SetActive(cfg.Appearance.Theme)

	v.saveErr = config.Save(cfg)
	if v.saveErr != nil {
		a.notice = "Could not save config: " + v.saveErr.Error()
	} else {
		a.notice = "Saved to " + config.Path()
	}

	if !a.keepMonths {
		a.months = cfg.General.DefaultMonths
	}
	if !a.keepGrowth {
		a.growthPercent = cfg.General.GrowthPercent
	}
	a.dataSizeGB = cfg.General.DataSizeGB
}
