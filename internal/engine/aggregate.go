package engine

import (
	"fmt"

	"github.com/theirongolddev/bkcost/internal/model"
)

// Aggregate sums cost and effective size across independently projected
// series, month by month. An empty input yields an empty slice.
func Aggregate(projections [][]model.MonthlyProjection) ([]model.MonthTotal, error) {
	if len(projections) == 0 {
		return []model.MonthTotal{}, nil
	}

	months := len(projections[0])
	for i, series := range projections[1:] {
		if len(series) != months {
			return nil, fmt.Errorf("%w: series 0 has %d months, series %d has %d",
				ErrMismatchedLength, months, i+1, len(series))
		}
	}

	out := zeroTotals(months)
	for _, series := range projections {
		for i, m := range series {
			out[i].Cost += m.Cost
			out[i].SizeGB += m.EffectiveSizeGB
		}
	}
	return out, nil
}

func zeroTotals(months int) []model.MonthTotal {
	out := make([]model.MonthTotal, months)
	for i := range out {
		out[i].Month = i + 1
	}
	return out
}

// ProjectPortfolio projects every plan over the same horizon and growth rate
// and aggregates them. With no plans the result still carries totalMonths
// zero-valued rows.
func (c *Calculator) ProjectPortfolio(plans []model.Plan, totalMonths int, yearlyGrowth float64) (model.Portfolio, error) {
	if totalMonths < 1 {
		return model.Portfolio{}, fmt.Errorf("%w: got %d", ErrInvalidHorizon, totalMonths)
	}

	pf := model.Portfolio{
		TotalMonths:  totalMonths,
		YearlyGrowth: yearlyGrowth,
		Plans:        make([]model.PlanProjection, 0, len(plans)),
	}

	series := make([][]model.MonthlyProjection, 0, len(plans))
	for i, p := range plans {
		months, err := c.ProjectPlan(p, totalMonths, yearlyGrowth)
		if err != nil {
			return model.Portfolio{}, fmt.Errorf("plan %d (%s): %w", i+1, p.Label(), err)
		}
		total := TotalCost(months)
		pf.Plans = append(pf.Plans, model.PlanProjection{
			Plan:              p,
			Months:            months,
			TotalCost:         total,
			AverageYearlyCost: AverageYearlyCost(total, totalMonths),
		})
		series = append(series, months)
	}

	return finishPortfolio(pf, series)
}

// ProjectPortfolio projects plans using the reference prices.
func ProjectPortfolio(plans []model.Plan, totalMonths int, yearlyGrowth float64) (model.Portfolio, error) {
	return Default.ProjectPortfolio(plans, totalMonths, yearlyGrowth)
}

// AssemblePortfolio builds a portfolio from per-plan series that were
// projected elsewhere (for example read back from a cache).
func AssemblePortfolio(plans []model.Plan, series [][]model.MonthlyProjection, totalMonths int, yearlyGrowth float64) (model.Portfolio, error) {
	if totalMonths < 1 {
		return model.Portfolio{}, fmt.Errorf("%w: got %d", ErrInvalidHorizon, totalMonths)
	}
	if len(plans) != len(series) {
		return model.Portfolio{}, fmt.Errorf("%w: %d plans, %d series", ErrMismatchedLength, len(plans), len(series))
	}

	pf := model.Portfolio{
		TotalMonths:  totalMonths,
		YearlyGrowth: yearlyGrowth,
		Plans:        make([]model.PlanProjection, 0, len(plans)),
	}
	for i, p := range plans {
		if len(series[i]) != totalMonths {
			return model.Portfolio{}, fmt.Errorf("%w: plan %d has %d months, want %d",
				ErrMismatchedLength, i+1, len(series[i]), totalMonths)
		}
		total := TotalCost(series[i])
		pf.Plans = append(pf.Plans, model.PlanProjection{
			Plan:              p,
			Months:            series[i],
			TotalCost:         total,
			AverageYearlyCost: AverageYearlyCost(total, totalMonths),
		})
	}
	return finishPortfolio(pf, series)
}

func finishPortfolio(pf model.Portfolio, series [][]model.MonthlyProjection) (model.Portfolio, error) {
	if len(series) == 0 {
		pf.Months = zeroTotals(pf.TotalMonths)
	} else {
		months, err := Aggregate(series)
		if err != nil {
			return model.Portfolio{}, err
		}
		pf.Months = months
	}

	for _, m := range pf.Months {
		pf.TotalCost += m.Cost
		if !isFinite(m.Cost) || !isFinite(m.SizeGB) {
			return model.Portfolio{}, fmt.Errorf("%w: month %d", ErrCostOverflow, m.Month)
		}
	}
	for _, pp := range pf.Plans {
		if !isFinite(pp.TotalCost) {
			return model.Portfolio{}, fmt.Errorf("%w: plan %s", ErrCostOverflow, pp.Plan.Label())
		}
	}
	if !isFinite(pf.TotalCost) {
		return model.Portfolio{}, fmt.Errorf("%w: portfolio total", ErrCostOverflow)
	}
	pf.AverageYearlyCost = AverageYearlyCost(pf.TotalCost, pf.TotalMonths)
	pf.AnnualizedCost = AnnualizedCost(pf.TotalCost, pf.TotalMonths)
	return pf, nil
}
