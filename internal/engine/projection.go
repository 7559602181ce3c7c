package engine

import (
	"fmt"
	"math"

	"github.com/theirongolddev/bkcost/internal/model"
)

// effectiveSize returns the data size in effect during a 1-based month.
// Growth is stepped: the size is flat within each 12-month year and is
// multiplied by (1+yearlyGrowth) once per year boundary crossed.
func effectiveSize(baseGB float64, month int, yearlyGrowth float64) float64 {
	if month < 1 {
		month = 1
	}
	steps := (month - 1) / 12
	if steps == 0 || yearlyGrowth == 0 {
		return baseGB
	}
	return baseGB * math.Pow(1+yearlyGrowth, float64(steps))
}

// ProjectPlan returns totalMonths entries, entry i describing month i+1.
func (c *Calculator) ProjectPlan(p model.Plan, totalMonths int, yearlyGrowth float64) ([]model.MonthlyProjection, error) {
	if totalMonths < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, totalMonths)
	}

	out := make([]model.MonthlyProjection, 0, totalMonths)
	for m := 1; m <= totalMonths; m++ {
		mp, err := c.MonthlyCost(p, effectiveSize(p.DataSizeGB(), m, yearlyGrowth))
		if err != nil {
			return nil, err
		}
		mp.Month = m
		out = append(out, mp)
	}
	return out, nil
}

// ProjectPlan projects a plan using the reference prices.
func ProjectPlan(p model.Plan, totalMonths int, yearlyGrowth float64) ([]model.MonthlyProjection, error) {
	return Default.ProjectPlan(p, totalMonths, yearlyGrowth)
}

// TotalCost sums the unrounded monthly costs of a series.
func TotalCost(series []model.MonthlyProjection) float64 {
	var total float64
	for _, m := range series {
		total += m.Cost
	}
	return total
}

// YearsSpanned counts partial and full years in a horizon: 13 months is 2.
func YearsSpanned(totalMonths int) int {
	if totalMonths < 1 {
		return 0
	}
	return (totalMonths + 11) / 12
}

// AverageYearlyCost divides total by the number of years spanned, counting a
// partial year as a whole one.
func AverageYearlyCost(total float64, totalMonths int) float64 {
	years := YearsSpanned(totalMonths)
	if years == 0 {
		return 0
	}
	return total / float64(years)
}

// AnnualizedCost is the yearly run rate: total / (totalMonths/12).
func AnnualizedCost(total float64, totalMonths int) float64 {
	if totalMonths < 1 {
		return 0
	}
	return total * 12 / float64(totalMonths)
}
