package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/model"
)

// planValues backs the add-plan form.
type planValues struct {
	name      string
	schedule  model.Schedule
	retention string
	tier      model.StorageTier
	size      string // empty means the default data size
}

// horizonValues backs the horizon form.
type horizonValues struct {
	months string
	growth string
	size   string
}

func validateRetention(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 1 {
		return errors.New("retention must be at least 1")
	}
	return nil
}

func validateSize(optional bool) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			if optional {
				return nil
			}
			return errors.New("enter a size in GB")
		}
		v, err := cli.ParseFixed(s)
		if err != nil {
			return errors.New("enter a number")
		}
		if v < 0 {
			return errors.New("size cannot be negative")
		}
		return nil
	}
}

func validateMonths(maxMonths int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number of months")
		}
		if n < 1 || n > maxMonths {
			return fmt.Errorf("months must be between 1 and %d", maxMonths)
		}
		return nil
	}
}

func validateGrowth(s string) error {
	v, err := cli.ParseFixed(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return errors.New("enter a percentage")
	}
	if v < 0 || v > 100 {
		return errors.New("growth must be between 0 and 100")
	}
	return nil
}

func scheduleOptions() []huh.Option[model.Schedule] {
	opts := make([]huh.Option[model.Schedule], len(model.Schedules))
	for i, s := range model.Schedules {
		opts[i] = huh.NewOption(s.String(), s)
	}
	return opts
}

func tierOptions() []huh.Option[model.StorageTier] {
	opts := make([]huh.Option[model.StorageTier], len(model.StorageTiers))
	for i, t := range model.StorageTiers {
		opts[i] = huh.NewOption(t.Label(), t)
	}
	return opts
}

func newPlanForm(vals *planValues, defaultSizeGB float64) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Add backup plan"),
			huh.NewInput().
				Title("Name").
				Description("Optional label shown in tables.").
				Value(&vals.name),
			huh.NewSelect[model.Schedule]().
				Title("Backup schedule").
				Options(scheduleOptions()...).
				Value(&vals.schedule),
			huh.NewInput().
				Title("Retention").
				Description("How many backups are kept.").
				Placeholder("7").
				Validate(validateRetention).
				Value(&vals.retention),
			huh.NewSelect[model.StorageTier]().
				Title("Storage tier").
				Options(tierOptions()...).
				Value(&vals.tier),
			huh.NewInput().
				Title("Data size (GB)").
				Description("Leave empty for the default of "+cli.FormatGB(defaultSizeGB)+".").
				Validate(validateSize(true)).
				Value(&vals.size),
		),
	).WithTheme(huh.ThemeCharm())
}

func newHorizonForm(vals *horizonValues, maxMonths int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Projection horizon"),
			huh.NewInput().
				Title("Months").
				Description(fmt.Sprintf("1 to %d.", maxMonths)).
				Validate(validateMonths(maxMonths)).
				Value(&vals.months),
			huh.NewInput().
				Title("Yearly growth (%)").
				Description("Data size grows by this much every 12 months.").
				Validate(validateGrowth).
				Value(&vals.growth),
			huh.NewInput().
				Title("Default data size (GB)").
				Description("Used by plans added without a size.").
				Validate(validateSize(false)).
				Value(&vals.size),
		),
	).WithTheme(huh.ThemeCharm())
}

// openForm shows a form of the given kind, seeded from current state.
func (a App) openForm(kind formKind) (tea.Model, tea.Cmd) {
	switch kind {
	case formAddPlan:
		a.planVals = &planValues{schedule: model.ScheduleDaily, tier: model.TierStandard, retention: "7"}
		a.form = newPlanForm(a.planVals, a.dataSizeGB)
	case formHorizon:
		a.horizonVals = &horizonValues{
			months: strconv.Itoa(a.months),
			growth: strconv.FormatFloat(a.growthPercent, 'f', -1, 64),
			size:   strconv.FormatFloat(a.dataSizeGB, 'f', -1, 64),
		}
		a.form = newHorizonForm(a.horizonVals, a.maxMonths)
	case formSetup:
		a.setupVals = newSetupValues(loadFileConfigOrDefault())
		a.form = newSetupForm(a.setupVals, a.maxMonths)
	default:
		return a, nil
	}

	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(a.formWidth()).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return a.closeForm(), nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.applyForm()
		return a.closeForm(), nil
	case huh.StateAborted:
		return a.closeForm(), nil
	}
	return a, cmd
}

func (a App) closeForm() App {
	if a.formKind == formSetup {
		a.needSetup = false
	}
	a.form = nil
	a.formKind = formNone
	return a
}

// applyForm copies completed form values into the app and recomputes.
func (a *App) applyForm() {
	switch a.formKind {
	case formAddPlan:
		p, err := a.planFromForm()
		if err != nil {
			a.notice = err.Error()
			return
		}
		a.plans = append(a.plans, p)
		a.cursor = len(a.plans) - 1
		a.notice = "Added " + p.Label()

	case formHorizon:
		// Values were validated by the form.
		months, _ := strconv.Atoi(strings.TrimSpace(a.horizonVals.months))
		growth, _ := cli.ParseFixed(strings.TrimSuffix(strings.TrimSpace(a.horizonVals.growth), "%"))
		size, _ := cli.ParseFixed(a.horizonVals.size)
		a.months, a.growthPercent, a.dataSizeGB = months, growth, size

	case formSetup:
		a.saveSetup()
	}
	a.recompute()
}

func (a App) planFromForm() (model.Plan, error) {
	v := a.planVals
	retention, err := strconv.Atoi(strings.TrimSpace(v.retention))
	if err != nil {
		return model.Plan{}, fmt.Errorf("retention: %w", err)
	}
	size := a.dataSizeGB
	if strings.TrimSpace(v.size) != "" {
		if size, err = cli.ParseFixed(v.size); err != nil {
			return model.Plan{}, err
		}
	}
	p, err := model.NewPlan(v.schedule, retention, v.tier, size)
	if err != nil {
		return model.Plan{}, err
	}
	return p.WithName(v.name).WithNewID(), nil
}
