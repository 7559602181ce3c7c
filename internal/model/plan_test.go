package model

import (
	"errors"
	"math"
	"testing"
)

func TestNewPlan_Validation(t *testing.T) {
	tests := []struct {
		name      string
		schedule  Schedule
		retention int
		tier      StorageTier
		size      float64
		wantErr   error
	}{
		{"valid", ScheduleDaily, 7, TierStandard, 10, nil},
		{"zero size allowed", ScheduleYearly, 1, TierArchive, 0, nil},
		{"retention zero", ScheduleDaily, 0, TierStandard, 10, ErrInvalidPlan},
		{"negative retention", ScheduleDaily, -3, TierStandard, 10, ErrInvalidPlan},
		{"negative size", ScheduleWeekly, 4, TierStandard, -1, ErrInvalidPlan},
		{"nan size", ScheduleWeekly, 4, TierStandard, math.NaN(), ErrInvalidPlan},
		{"unset schedule", 0, 4, TierStandard, 1, ErrInvalidSchedule},
		{"unknown tier", ScheduleMonthly, 4, StorageTier(9), 1, ErrInvalidStorageTier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlan(tt.schedule, tt.retention, tt.tier, tt.size)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewPlan: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSchedule(t *testing.T) {
	tests := map[string]Schedule{
		"Daily":    ScheduleDaily,
		"weekly":   ScheduleWeekly,
		" MONTHLY": ScheduleMonthly,
		"Yearly":   ScheduleYearly,
		"annual":   ScheduleYearly,
	}
	for raw, want := range tests {
		got, err := ParseSchedule(raw)
		if err != nil {
			t.Fatalf("ParseSchedule(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseSchedule(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := ParseSchedule("hourly"); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("ParseSchedule(hourly) err = %v, want ErrInvalidSchedule", err)
	}
}

func TestParseStorageTier(t *testing.T) {
	tests := map[string]StorageTier{
		"Standard":          TierStandard,
		"InfrequentAccess":  TierInfrequentAccess,
		"infrequent-access": TierInfrequentAccess,
		"IA":                TierInfrequentAccess,
		"archive":           TierArchive,
	}
	for raw, want := range tests {
		got, err := ParseStorageTier(raw)
		if err != nil {
			t.Fatalf("ParseStorageTier(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseStorageTier(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := ParseStorageTier("glacier"); !errors.Is(err, ErrInvalidStorageTier) {
		t.Fatalf("ParseStorageTier(glacier) err = %v, want ErrInvalidStorageTier", err)
	}
}

func TestPlan_WithersReturnCopies(t *testing.T) {
	p, err := ParsePlan("weekly", 4, "standard", 10)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}

	bigger, err := p.WithDataSize(20)
	if err != nil {
		t.Fatalf("WithDataSize: %v", err)
	}
	if p.DataSizeGB() != 10 || bigger.DataSizeGB() != 20 {
		t.Fatalf("sizes = %v / %v, want 10 / 20", p.DataSizeGB(), bigger.DataSizeGB())
	}
	if _, err := p.WithDataSize(-5); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("WithDataSize(-5) err = %v, want ErrInvalidPlan", err)
	}

	a, b := p.WithNewID(), p.WithNewID()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("ids = %q / %q, want distinct non-empty", a.ID(), b.ID())
	}
	if p.ID() != "" {
		t.Fatalf("original ID = %q, want empty", p.ID())
	}
}

func TestPlan_Label(t *testing.T) {
	p, _ := NewPlan(ScheduleDaily, 14, TierArchive, 1)
	if got := p.Label(); got != "Daily x14 Archive" {
		t.Fatalf("Label() = %q", got)
	}
	if got := p.WithName("  nightly ").Label(); got != "nightly" {
		t.Fatalf("named Label() = %q, want nightly", got)
	}
}
