package tui

import (
	"testing"

	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/tui/theme"
)

func TestSettingsSaveKeepsEnvOverridesOutOfConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvPlanFile, "/tmp/ephemeral-plans")
	t.Setenv(config.EnvLogLevel, "debug")
	defer theme.SetActive("flexoki-dark")

	a := App{settings: settingsState{cursor: settingsFieldTheme, input: newSettingsInput()}}
	a.settings.input.SetValue("tokyo-night")
	a.settingsSave()
	if a.settings.saveErr != nil {
		t.Fatalf("settingsSave: %v", a.settings.saveErr)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("Theme = %q, want tokyo-night", cfg.Appearance.Theme)
	}
	if cfg.General.PlanFile != "" || cfg.Log.Level != "warn" {
		t.Fatalf("saved plan_file %q level %q, want env overrides left out",
			cfg.General.PlanFile, cfg.Log.Level)
	}
}
