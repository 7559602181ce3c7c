// Package source discovers and parses backup plan files.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"github.com/theirongolddev/bkcost/internal/model"
)

// ErrUnsupportedFormat is returned for files whose extension is not a known
// plan file format.
var ErrUnsupportedFormat = errors.New("unsupported plan file format")

// ParseResult holds the output of parsing a single plan file.
type ParseResult struct {
	File  PlanFile
	Plans []model.Plan
	Err   error
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".hjson":
		return FormatHJSON, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ParseFile reads a plan file and validates every plan in it. Plans without
// a data size take the file's data_size_gb, then defaultSizeGB.
// A single invalid plan fails the whole file.
func ParseFile(path string, defaultSizeGB float64) ParseResult {
	format, err := DetectFormat(path)
	if err != nil {
		return ParseResult{Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	return ParseBytes(path, format, data, defaultSizeGB)
}

// ParseBytes parses plan file content in the given format.
func ParseBytes(name string, format Format, data []byte, defaultSizeGB float64) ParseResult {
	raw, err := decode(name, format, data)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("%s: %w", name, err)}
	}
	return build(name, format, raw, defaultSizeGB)
}

func decode(name string, format Format, data []byte) (RawPlanFile, error) {
	var raw RawPlanFile
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &raw)
		if err != nil {
			return raw, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return raw, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &raw); err != nil {
			return raw, err
		}
	case FormatHJSON:
		opts := hjson.DefaultDecoderOptions()
		opts.DisallowUnknownFields = true
		if err := hjson.UnmarshalWithOptions(data, &raw, opts); err != nil {
			return raw, err
		}
	case FormatHCL:
		// hclsimple picks the syntax from the file suffix.
		hclName := name
		if !strings.HasSuffix(strings.ToLower(hclName), ".hcl") {
			hclName += ".hcl"
		}
		if err := hclsimple.Decode(hclName, data, nil, &raw); err != nil {
			return raw, err
		}
	default:
		return raw, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return raw, nil
}

func build(path string, format Format, raw RawPlanFile, defaultSizeGB float64) ParseResult {
	res := ParseResult{
		File: PlanFile{
			Path:          path,
			Format:        format,
			Months:        raw.Months,
			GrowthPercent: raw.GrowthPercent,
			DataSizeGB:    raw.DataSizeGB,
		},
	}

	size := defaultSizeGB
	if raw.DataSizeGB != nil {
		size = *raw.DataSizeGB
	}

	plans := make([]model.Plan, 0, len(raw.Plans))
	for i, rp := range raw.Plans {
		planSize := size
		if rp.DataSizeGB != nil {
			planSize = *rp.DataSizeGB
		}
		p, err := model.ParsePlan(rp.Schedule, rp.Retention, rp.StorageTier, planSize)
		if err != nil {
			res.Err = fmt.Errorf("%s: plan %d%s: %w", path, i+1, quoteName(rp.Name), err)
			return res
		}
		plans = append(plans, p.WithName(rp.Name).WithNewID())
	}
	res.Plans = plans
	return res
}

func quoteName(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf(" (%q)", name)
}
