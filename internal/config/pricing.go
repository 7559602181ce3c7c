package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/bkcost/internal/model"
)

// ErrInvalidPricing is returned when a pricing table has a missing tier or a
// negative price.
var ErrInvalidPricing = errors.New("invalid pricing table")

// PricingTable holds storage and transfer prices in USD.
type PricingTable struct {
	StorageCostPerGBMonth map[model.StorageTier]float64
	TransferCostPerGB     float64 // charged per GB for every backup created
}

// DefaultPricing is the reference price list.
var DefaultPricing = PricingTable{
	StorageCostPerGBMonth: map[model.StorageTier]float64{
		model.TierStandard:         0.0255,
		model.TierInfrequentAccess: 0.0100,
		model.TierArchive:          0.0026,
	},
	TransferCostPerGB: 0.00,
}

// StorageCost returns the per-GB monthly price for a tier.
func (p PricingTable) StorageCost(tier model.StorageTier) (float64, bool) {
	v, ok := p.StorageCostPerGBMonth[tier]
	return v, ok
}

// Clone returns a deep copy so callers can hold the table without sharing
// the underlying map.
func (p PricingTable) Clone() PricingTable {
	out := PricingTable{
		StorageCostPerGBMonth: make(map[model.StorageTier]float64, len(p.StorageCostPerGBMonth)),
		TransferCostPerGB:     p.TransferCostPerGB,
	}
	for k, v := range p.StorageCostPerGBMonth {
		out.StorageCostPerGBMonth[k] = v
	}
	return out
}

// Validate checks every tier has a finite, non-negative price.
func (p PricingTable) Validate() error {
	for _, tier := range model.StorageTiers {
		v, ok := p.StorageCostPerGBMonth[tier]
		if !ok {
			return fmt.Errorf("%w: no storage price for tier %s", ErrInvalidPricing, tier)
		}
		if !validPrice(v) {
			return fmt.Errorf("%w: storage price for tier %s is %v", ErrInvalidPricing, tier, v)
		}
	}
	if !validPrice(p.TransferCostPerGB) {
		return fmt.Errorf("%w: transfer price is %v", ErrInvalidPricing, p.TransferCostPerGB)
	}
	return nil
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ApplyOverrides returns a copy of p with any non-nil override applied.
func (p PricingTable) ApplyOverrides(o PricingOverrides) PricingTable {
	out := p.Clone()
	if o.StandardPerGB != nil {
		out.StorageCostPerGBMonth[model.TierStandard] = *o.StandardPerGB
	}
	if o.InfrequentAccessPerGB != nil {
		out.StorageCostPerGBMonth[model.TierInfrequentAccess] = *o.InfrequentAccessPerGB
	}
	if o.ArchivePerGB != nil {
		out.StorageCostPerGBMonth[model.TierArchive] = *o.ArchivePerGB
	}
	if o.TransferPerGB != nil {
		out.TransferCostPerGB = *o.TransferPerGB
	}
	return out
}

// ResolvePricing builds the effective pricing table: reference prices, then
// the config file's [pricing] section, then BKCOST_* environment overrides.
func ResolvePricing(cfg Config) (PricingTable, error) {
	env, err := EnvPricingOverrides()
	if err != nil {
		return PricingTable{}, err
	}
	p := DefaultPricing.ApplyOverrides(cfg.Pricing).ApplyOverrides(env)
	if err := p.Validate(); err != nil {
		return PricingTable{}, err
	}
	return p, nil
}
