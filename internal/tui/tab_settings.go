package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/pipeline"
	"github.com/theirongolddev/bkcost/internal/tui/components"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldMonths
	settingsFieldGrowth
	settingsFieldSize
	settingsFieldLogLevel
	settingsFieldCount // sentinel
)

// settingsState tracks the Config tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadFileConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldMonths:
		ti.Placeholder = fmt.Sprintf("1-%d", cfg.General.MaxMonths)
		ti.SetValue(strconv.Itoa(cfg.General.DefaultMonths))
	case settingsFieldGrowth:
		ti.Placeholder = "0-100"
		ti.SetValue(strconv.FormatFloat(cfg.General.GrowthPercent, 'f', -1, 64))
	case settingsFieldSize:
		ti.Placeholder = "GB"
		ti.SetValue(strconv.FormatFloat(cfg.General.DataSizeGB, 'f', -1, 64))
	case settingsFieldLogLevel:
		ti.Placeholder = "debug, info, warn, error"
		ti.SetValue(cfg.Log.Level)
	}

	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value and writes it to the config file.
// Invalid values leave the config untouched and report an error.
func (a *App) settingsSave() {
	cfg := loadFileConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	var err error
	switch a.settings.cursor {
	case settingsFieldTheme:
		if !theme.Valid(val) {
			err = fmt.Errorf("unknown theme %q", val)
			break
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldMonths:
		if err = validateMonths(cfg.General.MaxMonths)(val); err == nil {
			cfg.General.DefaultMonths, _ = strconv.Atoi(val)
		}
	case settingsFieldGrowth:
		if err = validateGrowth(val); err == nil {
			cfg.General.GrowthPercent, _ = cli.ParseFixed(strings.TrimSuffix(val, "%"))
		}
	case settingsFieldSize:
		if err = validateSize(false)(val); err == nil {
			cfg.General.DataSizeGB, _ = cli.ParseFixed(val)
		}
	case settingsFieldLogLevel:
		switch val {
		case "debug", "info", "warn", "error":
			cfg.Log.Level = val
		default:
			err = fmt.Errorf("unknown log level %q", val)
		}
	}

	if err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Theme", cfg.Appearance.Theme},
		{"Default horizon", cli.FormatHorizon(cfg.General.DefaultMonths)},
		{"Yearly growth", cli.FormatPercent(cfg.General.GrowthPercent / 100)},
		{"Default data size", cli.FormatGB(cfg.General.DataSizeGB)},
		{"Log level", cfg.Log.Level},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-20s ", f.label)))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-20s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); pad > 0 {
				form.WriteString(selectedStyle.Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(valueStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render("Not saved: " + a.settings.saveErr.Error()))
		form.WriteString("\n")
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved. Defaults apply on next start."))
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	pricing := a.projector.Calculator().Pricing()
	var info strings.Builder
	kv := func(label, value string) {
		info.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)) + valueStyle.Render(value) + "\n")
	}
	kv("Config file:", config.Path())
	kv("Cache:", cacheSummary(a.cacheStats))
	for _, tier := range model.StorageTiers {
		price, _ := pricing.StorageCost(tier)
		kv(tier.Label()+":", fmt.Sprintf("$%s / GB-month", strconv.FormatFloat(price, 'f', -1, 64)))
	}
	kv("Transfer:", fmt.Sprintf("$%s / GB", strconv.FormatFloat(pricing.TransferCostPerGB, 'f', -1, 64)))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Pricing & Storage", strings.TrimRight(info.String(), "\n"), cw))
	return b.String()
}

func cacheSummary(s pipeline.CacheStats) string {
	if s.Bypassed {
		return "disabled"
	}
	return fmt.Sprintf("%d hits, %d misses (last projection)", s.Hits, s.Misses)
}
