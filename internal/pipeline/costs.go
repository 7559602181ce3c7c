package pipeline

import (
	"sort"

	"github.com/theirongolddev/bkcost/internal/model"
)

// CostSplit holds aggregate costs split by charge type.
type CostSplit struct {
	StorageCost  float64
	TransferCost float64
	TotalCost    float64
}

// PlanCostBreakdown holds cost components for one plan.
type PlanCostBreakdown struct {
	Plan         model.Plan
	StorageCost  float64
	TransferCost float64
	TotalCost    float64
	SharePercent float64 // of the portfolio total, 0-100
}

// AggregateCostBreakdown computes the storage/transfer split overall and
// per plan. Plans are returned most expensive first.
func AggregateCostBreakdown(pf model.Portfolio) (CostSplit, []PlanCostBreakdown) {
	var totals CostSplit
	plans := make([]PlanCostBreakdown, 0, len(pf.Plans))

	for _, pp := range pf.Plans {
		b := PlanCostBreakdown{Plan: pp.Plan}
		for _, m := range pp.Months {
			b.StorageCost += m.StorageCost
			b.TransferCost += m.TransferCost
		}
		b.TotalCost = b.StorageCost + b.TransferCost

		totals.StorageCost += b.StorageCost
		totals.TransferCost += b.TransferCost
		plans = append(plans, b)
	}
	totals.TotalCost = totals.StorageCost + totals.TransferCost

	if totals.TotalCost > 0 {
		for i := range plans {
			plans[i].SharePercent = plans[i].TotalCost / totals.TotalCost * 100
		}
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].TotalCost > plans[j].TotalCost
	})

	return totals, plans
}
