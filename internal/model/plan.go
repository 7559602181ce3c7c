// Package model defines domain types for backup plans and cost projections.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Schedule is how often a plan creates a backup.
type Schedule int

// Schedule values. The zero value is deliberately invalid so an unset
// schedule can never be mistaken for a real one.
const (
	ScheduleDaily Schedule = iota + 1
	ScheduleWeekly
	ScheduleMonthly
	ScheduleYearly
)

// Schedules lists every valid schedule in display order.
var Schedules = []Schedule{ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleYearly}

// String returns the canonical schedule name.
func (s Schedule) String() string {
	switch s {
	case ScheduleDaily:
		return "Daily"
	case ScheduleWeekly:
		return "Weekly"
	case ScheduleMonthly:
		return "Monthly"
	case ScheduleYearly:
		return "Yearly"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// Valid reports whether s is one of the known schedules.
func (s Schedule) Valid() bool {
	return s >= ScheduleDaily && s <= ScheduleYearly
}

// ParseSchedule converts a schedule name (case-insensitive) to a Schedule.
func ParseSchedule(raw string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily":
		return ScheduleDaily, nil
	case "weekly":
		return ScheduleWeekly, nil
	case "monthly":
		return ScheduleMonthly, nil
	case "yearly", "annual", "annually":
		return ScheduleYearly, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, raw)
}

// StorageTier is the pricing category a plan's backups are stored in.
type StorageTier int

// StorageTier values. As with Schedule, zero is invalid.
const (
	TierStandard StorageTier = iota + 1
	TierInfrequentAccess
	TierArchive
)

// StorageTiers lists every valid tier in display order.
var StorageTiers = []StorageTier{TierStandard, TierInfrequentAccess, TierArchive}

// String returns the canonical tier name.
func (t StorageTier) String() string {
	switch t {
	case TierStandard:
		return "Standard"
	case TierInfrequentAccess:
		return "InfrequentAccess"
	case TierArchive:
		return "Archive"
	default:
		return fmt.Sprintf("StorageTier(%d)", int(t))
	}
}

// Label returns a human-friendly tier name.
func (t StorageTier) Label() string {
	if t == TierInfrequentAccess {
		return "Infrequent Access"
	}
	return t.String()
}

// Valid reports whether t is one of the known tiers.
func (t StorageTier) Valid() bool {
	return t >= TierStandard && t <= TierArchive
}

// ParseStorageTier converts a tier name (case-insensitive) to a StorageTier.
// "infrequent-access", "infrequent_access" and "ia" are accepted aliases.
func ParseStorageTier(raw string) (StorageTier, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "standard":
		return TierStandard, nil
	case "infrequentaccess", "infrequent-access", "infrequent_access", "infrequent access", "ia":
		return TierInfrequentAccess, nil
	case "archive":
		return TierArchive, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStorageTier, raw)
}

// Plan is one backup configuration. It is immutable once built by NewPlan;
// use WithDataSize / WithName to derive variants.
type Plan struct {
	id         string
	name       string
	schedule   Schedule
	retention  int
	tier       StorageTier
	dataSizeGB float64
}

// NewPlan validates its arguments and returns a Plan.
func NewPlan(schedule Schedule, retention int, tier StorageTier, dataSizeGB float64) (Plan, error) {
	if !schedule.Valid() {
		return Plan{}, fmt.Errorf("%w: %d", ErrInvalidSchedule, int(schedule))
	}
	if !tier.Valid() {
		return Plan{}, fmt.Errorf("%w: %d", ErrInvalidStorageTier, int(tier))
	}
	if retention < 1 {
		return Plan{}, fmt.Errorf("%w: retention must be at least 1, got %d", ErrInvalidPlan, retention)
	}
	if math.IsNaN(dataSizeGB) || math.IsInf(dataSizeGB, 0) || dataSizeGB < 0 {
		return Plan{}, fmt.Errorf("%w: data size must be a non-negative number, got %v", ErrInvalidPlan, dataSizeGB)
	}
	return Plan{
		schedule:   schedule,
		retention:  retention,
		tier:       tier,
		dataSizeGB: dataSizeGB,
	}, nil
}

// ParsePlan builds a Plan from textual schedule and tier names.
func ParsePlan(schedule string, retention int, tier string, dataSizeGB float64) (Plan, error) {
	s, err := ParseSchedule(schedule)
	if err != nil {
		return Plan{}, err
	}
	t, err := ParseStorageTier(tier)
	if err != nil {
		return Plan{}, err
	}
	return NewPlan(s, retention, t, dataSizeGB)
}

func (p Plan) ID() string               { return p.id }
func (p Plan) Name() string             { return p.name }
func (p Plan) Schedule() Schedule       { return p.schedule }
func (p Plan) Retention() int           { return p.retention }
func (p Plan) StorageTier() StorageTier { return p.tier }
func (p Plan) DataSizeGB() float64      { return p.dataSizeGB }

// WithDataSize returns a copy of p with a different starting data size.
func (p Plan) WithDataSize(sizeGB float64) (Plan, error) {
	if math.IsNaN(sizeGB) || math.IsInf(sizeGB, 0) || sizeGB < 0 {
		return Plan{}, fmt.Errorf("%w: data size must be a non-negative number, got %v", ErrInvalidPlan, sizeGB)
	}
	p.dataSizeGB = sizeGB
	return p, nil
}

// WithName returns a copy of p carrying a display name.
func (p Plan) WithName(name string) Plan {
	p.name = strings.TrimSpace(name)
	return p
}

// WithID returns a copy of p carrying an identifier. Identifiers are only
// used by callers that list and remove plans; cost figures ignore them.
func (p Plan) WithID(id string) Plan {
	p.id = id
	return p
}

// WithNewID returns a copy of p with a freshly generated identifier.
func (p Plan) WithNewID() Plan {
	p.id = uuid.NewString()
	return p
}

// Label returns the display name, falling back to a description of the plan.
func (p Plan) Label() string {
	if p.name != "" {
		return p.name
	}
	return fmt.Sprintf("%s x%d %s", p.schedule, p.retention, p.tier)
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	return fmt.Sprintf("Schedule: %s, Retention: %d, Tier: %s, Size: %g GB",
		p.schedule, p.retention, p.tier, p.dataSizeGB)
}
