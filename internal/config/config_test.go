package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.DefaultMonths != 12 {
		t.Fatalf("DefaultMonths = %d, want 12", cfg.General.DefaultMonths)
	}
	if cfg.General.MaxMonths != MaxMonthsLimit {
		t.Fatalf("MaxMonths = %d, want %d", cfg.General.MaxMonths, MaxMonthsLimit)
	}
	if !cfg.Pricing.IsZero() {
		t.Fatalf("Pricing overrides = %+v, want none", cfg.Pricing)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DefaultMonths = 36
	cfg.General.GrowthPercent = 10
	cfg.General.DataSizeGB = 250
	cfg.Pricing.ArchivePerGB = ptr(0.002)
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	info, err := os.Stat(Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config mode = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.DefaultMonths != 36 || got.General.GrowthPercent != 10 || got.General.DataSizeGB != 250 {
		t.Fatalf("General = %+v", got.General)
	}
	if got.Pricing.ArchivePerGB == nil || *got.Pricing.ArchivePerGB != 0.002 {
		t.Fatalf("Pricing.ArchivePerGB = %v, want 0.002", got.Pricing.ArchivePerGB)
	}
	if got.Pricing.StandardPerGB != nil {
		t.Fatalf("Pricing.StandardPerGB = %v, want nil", *got.Pricing.StandardPerGB)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("Theme = %q", got.Appearance.Theme)
	}
}

func TestLoad_NormalizesOutOfRangeHorizon(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(t.TempDir())

	if err := os.MkdirAll(filepath.Join(dir, "bkcost"), 0o755); err != nil {
		t.Fatal(err)
	}
	raw := "[general]\ndefault_months = 500\nmax_months = 0\n"
	if err := os.WriteFile(filepath.Join(dir, "bkcost", "config.toml"), []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.MaxMonths != MaxMonthsLimit {
		t.Fatalf("MaxMonths = %d, want %d", cfg.General.MaxMonths, MaxMonthsLimit)
	}
	if cfg.General.DefaultMonths != 12 {
		t.Fatalf("DefaultMonths = %d, want 12", cfg.General.DefaultMonths)
	}
}

func TestLoad_DotEnvAndEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)

	if err := os.WriteFile(filepath.Join(work, ".env"), []byte("BKCOST_PLAN_FILE=plans.yaml\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv(EnvPlanFile, "")
	os.Unsetenv(EnvPlanFile)
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.PlanFile != "plans.yaml" {
		t.Fatalf("PlanFile = %q, want plans.yaml from .env", cfg.General.PlanFile)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestSave_DoesNotPersistEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv(EnvPlanFile, "/tmp/ephemeral-plans")
	t.Setenv(EnvLogLevel, "debug")

	effective, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if effective.General.PlanFile != "/tmp/ephemeral-plans" || effective.Log.Level != "debug" {
		t.Fatalf("Load = plan_file %q level %q, want env overrides applied",
			effective.General.PlanFile, effective.Log.Level)
	}

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.PlanFile != "" || cfg.Log.Level != "warn" {
		t.Fatalf("LoadFile = plan_file %q level %q, want file values only",
			cfg.General.PlanFile, cfg.Log.Level)
	}
	cfg.Appearance.Theme = "flexoki-light"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv(EnvPlanFile, "")
	t.Setenv(EnvLogLevel, "")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if got.Appearance.Theme != "flexoki-light" {
		t.Fatalf("Theme = %q, want flexoki-light", got.Appearance.Theme)
	}
	if got.General.PlanFile != "" {
		t.Fatalf("PlanFile = %q, want env override not persisted", got.General.PlanFile)
	}
	if got.Log.Level != "warn" {
		t.Fatalf("Log.Level = %q, want env override not persisted", got.Log.Level)
	}
}
