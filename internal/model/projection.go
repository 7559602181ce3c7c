package model

// MonthlyProjection holds one month of a single plan's projected cost.
// Month is 1-based. All figures are unrounded.
type MonthlyProjection struct {
	Month           int
	EffectiveSizeGB float64
	StorageCost     float64
	TransferCost    float64
	Cost            float64 // StorageCost + TransferCost
}

// MonthTotal is the sum across plans for one month.
type MonthTotal struct {
	Month  int
	Cost   float64
	SizeGB float64
}

// PlanProjection pairs a plan with its month-by-month series and totals.
type PlanProjection struct {
	Plan              Plan
	Months            []MonthlyProjection
	TotalCost         float64
	AverageYearlyCost float64
}

// Portfolio is the result of projecting a set of plans over a shared
// horizon and growth rate.
type Portfolio struct {
	TotalMonths  int
	YearlyGrowth float64 // fraction, e.g. 0.05 for 5%/year

	Plans  []PlanProjection
	Months []MonthTotal

	TotalCost         float64
	AverageYearlyCost float64 // TotalCost / ceil(TotalMonths/12)
	AnnualizedCost    float64 // TotalCost / (TotalMonths/12)
}

// FinalSizeGB returns the combined effective size in the last month.
func (p Portfolio) FinalSizeGB() float64 {
	if len(p.Months) == 0 {
		return 0
	}
	return p.Months[len(p.Months)-1].SizeGB
}

// PeakMonthlyCost returns the highest combined monthly cost.
func (p Portfolio) PeakMonthlyCost() float64 {
	peak := 0.0
	for _, m := range p.Months {
		if m.Cost > peak {
			peak = m.Cost
		}
	}
	return peak
}
