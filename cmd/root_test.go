package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/bkcost/internal/engine"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/source"
)

func TestParseInlinePlan(t *testing.T) {
	p, err := parseInlinePlan("daily:10:standard", 100)
	if err != nil {
		t.Fatalf("parseInlinePlan: %v", err)
	}
	if p.Schedule() != model.ScheduleDaily || p.Retention() != 10 || p.StorageTier() != model.TierStandard {
		t.Fatalf("plan = %s, want Daily x10 Standard", p)
	}
	if p.DataSizeGB() != 100 {
		t.Fatalf("DataSizeGB = %v, want default 100", p.DataSizeGB())
	}

	p, err = parseInlinePlan("Weekly:4:ia:250.5", 100)
	if err != nil {
		t.Fatalf("parseInlinePlan with size: %v", err)
	}
	if p.StorageTier() != model.TierInfrequentAccess || p.DataSizeGB() != 250.5 {
		t.Fatalf("plan = %s, want InfrequentAccess 250.5 GB", p)
	}
}

func TestParseInlinePlanRejects(t *testing.T) {
	tests := []struct {
		raw  string
		want error
	}{
		{"daily:10", model.ErrInvalidPlan},
		{"daily:10:standard:1:2", model.ErrInvalidPlan},
		{"daily:ten:standard", model.ErrInvalidPlan},
		{"daily:0:standard", model.ErrInvalidPlan},
		{"daily:10:standard:-5", model.ErrInvalidPlan},
		{"hourly:10:standard", model.ErrInvalidSchedule},
		{"daily:10:glacier", model.ErrInvalidStorageTier},
	}
	for _, tt := range tests {
		if _, err := parseInlinePlan(tt.raw, 0); !errors.Is(err, tt.want) {
			t.Errorf("parseInlinePlan(%q) error = %v, want %v", tt.raw, err, tt.want)
		}
	}
}

func TestParseInlinePlansAssignsIDs(t *testing.T) {
	plans, err := parseInlinePlans([]string{"monthly:1:archive", "monthly:1:archive"}, 10)
	if err != nil {
		t.Fatalf("parseInlinePlans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("len = %d, want 2", len(plans))
	}
	if plans[0].ID() == "" || plans[0].ID() == plans[1].ID() {
		t.Fatalf("IDs = %q, %q, want distinct non-empty", plans[0].ID(), plans[1].ID())
	}

	_, err = parseInlinePlans([]string{"monthly:1:archive", "bogus"}, 10)
	if err == nil || !strings.Contains(err.Error(), "#2") {
		t.Fatalf("error = %v, want it to name plan #2", err)
	}
}

func TestValidateHorizon(t *testing.T) {
	if err := validateHorizon(12, 5, 72); err != nil {
		t.Fatalf("validateHorizon(12, 5) = %v", err)
	}
	if err := validateHorizon(0, 0, 72); !errors.Is(err, engine.ErrInvalidHorizon) {
		t.Fatalf("validateHorizon(0) = %v, want ErrInvalidHorizon", err)
	}
	if err := validateHorizon(73, 0, 72); !errors.Is(err, engine.ErrInvalidHorizon) {
		t.Fatalf("validateHorizon(73) = %v, want ErrInvalidHorizon", err)
	}
	if err := validateHorizon(12, 101, 72); err == nil {
		t.Fatal("validateHorizon(growth 101) = nil, want error")
	}
	if err := validateHorizon(12, -1, 72); err == nil {
		t.Fatal("validateHorizon(growth -1) = nil, want error")
	}
}

func TestWriteProjectCSV(t *testing.T) {
	p, err := model.NewPlan(model.ScheduleMonthly, 6, model.TierStandard, 100)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	pf, err := engine.ProjectPortfolio([]model.Plan{p.WithName("db")}, 2, 0)
	if err != nil {
		t.Fatalf("ProjectPortfolio: %v", err)
	}

	var buf bytes.Buffer
	if err := writeProjectCSV(&buf, pf, true); err != nil {
		t.Fatalf("writeProjectCSV: %v", err)
	}

	want := "Month,Storage GB,db,Total Monthly Cost\n" +
		"1,100.00,2.55,2.55\n" +
		"2,100.00,2.55,2.55\n"
	if got := buf.String(); got != want {
		t.Fatalf("csv =\n%s\nwant\n%s", got, want)
	}
}

func TestDescribeFormats(t *testing.T) {
	got := describeFormats(map[source.Format]int{source.FormatYAML: 1, source.FormatTOML: 2})
	if got != "2 toml, 1 yaml" {
		t.Fatalf("describeFormats = %q, want %q", got, "2 toml, 1 yaml")
	}
	if got := describeFormats(nil); got != "" {
		t.Fatalf("describeFormats(nil) = %q, want empty", got)
	}
}
