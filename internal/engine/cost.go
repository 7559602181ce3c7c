// Package engine computes backup cost projections. It is pure: no I/O, no
// logging and no shared mutable state, so every function is safe for
// concurrent use.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/model"
)

var (
	// ErrMismatchedLength is returned by Aggregate when the per-plan series
	// do not cover the same number of months.
	ErrMismatchedLength = errors.New("projections have mismatched lengths")
	// ErrInvalidHorizon is returned when a projection is asked for fewer
	// than one month.
	ErrInvalidHorizon = errors.New("projection horizon must be at least one month")
	// ErrCostOverflow is returned when a cost or size leaves the range of
	// finite float64 values.
	ErrCostOverflow = errors.New("projected cost is not a finite number")
)

// BackupsPerMonth returns the average number of backups a schedule creates
// in one month. Yearly returns exactly 1/12.
func BackupsPerMonth(s model.Schedule) (float64, error) {
	switch s {
	case model.ScheduleDaily:
		return 30, nil
	case model.ScheduleWeekly:
		return 4, nil
	case model.ScheduleMonthly:
		return 1, nil
	case model.ScheduleYearly:
		return 1.0 / 12.0, nil
	}
	return 0, fmt.Errorf("%w: %d", model.ErrInvalidSchedule, int(s))
}

// RetainedBackups returns how many stored copies accrue storage cost in a
// month: the backups created, capped by the plan's retention.
func RetainedBackups(p model.Plan) (float64, error) {
	backups, err := BackupsPerMonth(p.Schedule())
	if err != nil {
		return 0, err
	}
	return math.Min(backups, float64(p.Retention())), nil
}

// Calculator applies a fixed pricing table to plans.
type Calculator struct {
	pricing config.PricingTable
}

// Default uses the reference price list.
var Default = &Calculator{pricing: config.DefaultPricing.Clone()}

// NewCalculator validates the table and returns a Calculator holding its
// own copy of it.
func NewCalculator(pricing config.PricingTable) (*Calculator, error) {
	if err := pricing.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{pricing: pricing.Clone()}, nil
}

// Pricing returns a copy of the table the calculator was built with.
func (c *Calculator) Pricing() config.PricingTable {
	return c.pricing.Clone()
}

// MonthlyCost computes one month's cost for a plan given the data size in
// effect that month. Storage is charged on retained copies; transfer is
// charged on every backup created, regardless of retention.
func (c *Calculator) MonthlyCost(p model.Plan, effectiveSizeGB float64) (model.MonthlyProjection, error) {
	backups, err := BackupsPerMonth(p.Schedule())
	if err != nil {
		return model.MonthlyProjection{}, err
	}
	price, ok := c.pricing.StorageCost(p.StorageTier())
	if !ok {
		return model.MonthlyProjection{}, fmt.Errorf("%w: %s", model.ErrInvalidStorageTier, p.StorageTier())
	}

	retained := math.Min(backups, float64(p.Retention()))
	storage := retained * (effectiveSizeGB * price)
	transfer := backups * (effectiveSizeGB * c.pricing.TransferCostPerGB)
	cost := storage + transfer
	if !isFinite(effectiveSizeGB) || !isFinite(cost) {
		return model.MonthlyProjection{}, fmt.Errorf("%w: %s at %g GB", ErrCostOverflow, p.Label(), effectiveSizeGB)
	}

	return model.MonthlyProjection{
		EffectiveSizeGB: effectiveSizeGB,
		StorageCost:     storage,
		TransferCost:    transfer,
		Cost:            cost,
	}, nil
}

// MonthlyCost computes one month's cost using the reference prices.
func MonthlyCost(p model.Plan, effectiveSizeGB float64) (model.MonthlyProjection, error) {
	return Default.MonthlyCost(p, effectiveSizeGB)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
