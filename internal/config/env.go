package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvStandardPerGB         = "BKCOST_STANDARD_PER_GB"
	EnvInfrequentAccessPerGB = "BKCOST_INFREQUENT_PER_GB"
	EnvArchivePerGB          = "BKCOST_ARCHIVE_PER_GB"
	EnvTransferPerGB         = "BKCOST_TRANSFER_COST_PER_GB"
	EnvLogLevel              = "BKCOST_LOG_LEVEL"
	EnvPlanFile              = "BKCOST_PLAN_FILE"
)

// LoadDotEnv loads variables from a .env file in the working directory.
// Variables already set in the process environment win. A missing file is
// not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// EnvPricingOverrides reads BKCOST_*_PER_GB variables. Unset or empty
// variables leave the corresponding price alone.
func EnvPricingOverrides() (PricingOverrides, error) {
	var o PricingOverrides
	fields := []struct {
		name string
		dst  **float64
	}{
		{EnvStandardPerGB, &o.StandardPerGB},
		{EnvInfrequentAccessPerGB, &o.InfrequentAccessPerGB},
		{EnvArchivePerGB, &o.ArchivePerGB},
		{EnvTransferPerGB, &o.TransferPerGB},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(os.Getenv(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return PricingOverrides{}, fmt.Errorf("%w: %s=%q", ErrInvalidPricing, f.name, raw)
		}
		*f.dst = &v
	}
	return o, nil
}

// ApplyEnv loads .env and applies BKCOST_LOG_LEVEL and BKCOST_PLAN_FILE to
// cfg in place.
func ApplyEnv(cfg *Config) error {
	if err := LoadDotEnv(); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPlanFile)); v != "" {
		cfg.General.PlanFile = v
	}
	return nil
}
