package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all bkcost configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Pricing    PricingOverrides `toml:"pricing"`
	Appearance AppearanceConfig `toml:"appearance"`
	Serve      ServeConfig      `toml:"serve"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds projection defaults used when flags are not given.
type GeneralConfig struct {
	DefaultMonths int     `toml:"default_months"`
	GrowthPercent float64 `toml:"growth_percent"`
	DataSizeGB    float64 `toml:"data_size_gb"`
	PlanFile      string  `toml:"plan_file,omitempty"`
	MaxMonths     int     `toml:"max_months"`
}

// PricingOverrides replaces individual reference prices. Nil means "use the
// reference value".
type PricingOverrides struct {
	StandardPerGB         *float64 `toml:"standard,omitempty"`
	InfrequentAccessPerGB *float64 `toml:"infrequent_access,omitempty"`
	ArchivePerGB          *float64 `toml:"archive,omitempty"`
	TransferPerGB         *float64 `toml:"transfer_per_gb,omitempty"`
}

// IsZero reports whether no override is set.
func (o PricingOverrides) IsZero() bool {
	return o.StandardPerGB == nil && o.InfrequentAccessPerGB == nil &&
		o.ArchivePerGB == nil && o.TransferPerGB == nil
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServeConfig holds HTTP service settings.
type ServeConfig struct {
	Addr        string `toml:"addr"`
	IntervalSec int    `toml:"interval_sec"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MaxMonthsLimit is the default upper bound on the projection horizon.
const MaxMonthsLimit = 72

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMonths: 12,
			MaxMonths:     MaxMonthsLimit,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Serve: ServeConfig{
			Addr:        "127.0.0.1:8788",
			IntervalSec: 15,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bkcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bkcost")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides (including a .env file) are applied on top. The
// result must not be passed to Save; use LoadFile for read-modify-write.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.normalize()
	return cfg, nil
}

// LoadFile reads only the config file, returning defaults if it doesn't
// exist. No environment overrides are applied.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.General.MaxMonths < 1 {
		c.General.MaxMonths = def.General.MaxMonths
	}
	if c.General.DefaultMonths < 1 || c.General.DefaultMonths > c.General.MaxMonths {
		c.General.DefaultMonths = def.General.DefaultMonths
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = def.Serve.Addr
	}
	if c.Serve.IntervalSec < 2 {
		c.Serve.IntervalSec = def.Serve.IntervalSec
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
