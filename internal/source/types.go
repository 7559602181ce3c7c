package source

// RawPlanFile is the on-disk shape of a plan file. TOML uses [[plan]] tables,
// YAML and JSON a "plans" list, HCL `plan "name" { ... }` blocks.
type RawPlanFile struct {
	Months        *int      `toml:"months" yaml:"months" json:"months" hcl:"months,optional"`
	GrowthPercent *float64  `toml:"growth_percent" yaml:"growth_percent" json:"growth_percent" hcl:"growth_percent,optional"`
	DataSizeGB    *float64  `toml:"data_size_gb" yaml:"data_size_gb" json:"data_size_gb" hcl:"data_size_gb,optional"`
	Plans         []RawPlan `toml:"plan" yaml:"plans" json:"plans" hcl:"plan,block"`
}

// RawPlan is one plan entry before validation.
type RawPlan struct {
	Name        string   `toml:"name" yaml:"name" json:"name" hcl:"name,label"`
	Schedule    string   `toml:"schedule" yaml:"schedule" json:"schedule" hcl:"schedule"`
	Retention   int      `toml:"retention" yaml:"retention" json:"retention" hcl:"retention"`
	StorageTier string   `toml:"storage_tier" yaml:"storage_tier" json:"storage_tier" hcl:"storage_tier"`
	DataSizeGB  *float64 `toml:"data_size_gb" yaml:"data_size_gb" json:"data_size_gb" hcl:"data_size_gb,optional"`
}

// Format identifies a plan file syntax.
type Format string

// Supported plan file formats.
const (
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatHJSON Format = "hjson"
	FormatHCL   Format = "hcl"
)

// PlanFile describes a parsed plan file. Nil pointers mean the file did not
// set that value.
type PlanFile struct {
	Path          string
	Format        Format
	Months        *int
	GrowthPercent *float64
	DataSizeGB    *float64
}

// DiscoveredFile is a plan file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Format Format
	Rel    string // path relative to the scanned root
}
