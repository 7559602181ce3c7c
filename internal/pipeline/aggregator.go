package pipeline

import (
	"sort"

	"github.com/theirongolddev/bkcost/internal/model"
)

// YearTotal is one projection year (12 months, or fewer for the last).
type YearTotal struct {
	Year      int // 1-based
	Months    int
	Cost      float64
	EndSizeGB float64 // combined effective size in the year's last month
}

// AggregateYears groups a portfolio's monthly totals into years.
func AggregateYears(pf model.Portfolio) []YearTotal {
	var years []YearTotal
	for _, m := range pf.Months {
		idx := (m.Month - 1) / 12
		for len(years) <= idx {
			years = append(years, YearTotal{Year: len(years) + 1})
		}
		y := &years[idx]
		y.Months++
		y.Cost += m.Cost
		y.EndSizeGB = m.SizeGB
	}
	return years
}

// TierTotal sums plans sharing a storage tier.
type TierTotal struct {
	Tier      model.StorageTier
	Plans     int
	Cost      float64
	EndSizeGB float64
}

// AggregateTiers computes per-tier totals, sorted by cost descending.
func AggregateTiers(pf model.Portfolio) []TierTotal {
	byTier := make(map[model.StorageTier]*TierTotal)
	for _, pp := range pf.Plans {
		tier := pp.Plan.StorageTier()
		tt, ok := byTier[tier]
		if !ok {
			tt = &TierTotal{Tier: tier}
			byTier[tier] = tt
		}
		tt.Plans++
		tt.Cost += pp.TotalCost
		if n := len(pp.Months); n > 0 {
			tt.EndSizeGB += pp.Months[n-1].EffectiveSizeGB
		}
	}

	tiers := make([]TierTotal, 0, len(byTier))
	for _, tt := range byTier {
		tiers = append(tiers, *tt)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].Cost != tiers[j].Cost {
			return tiers[i].Cost > tiers[j].Cost
		}
		return tiers[i].Tier < tiers[j].Tier
	})
	return tiers
}

// ScheduleTotal sums plans sharing a backup schedule.
type ScheduleTotal struct {
	Schedule model.Schedule
	Plans    int
	Cost     float64
}

// AggregateSchedules computes per-schedule totals in schedule order,
// omitting schedules no plan uses.
func AggregateSchedules(pf model.Portfolio) []ScheduleTotal {
	bySchedule := make(map[model.Schedule]*ScheduleTotal)
	for _, pp := range pf.Plans {
		s := pp.Plan.Schedule()
		st, ok := bySchedule[s]
		if !ok {
			st = &ScheduleTotal{Schedule: s}
			bySchedule[s] = st
		}
		st.Plans++
		st.Cost += pp.TotalCost
	}

	out := make([]ScheduleTotal, 0, len(bySchedule))
	for _, s := range model.Schedules {
		if st, ok := bySchedule[s]; ok {
			out = append(out, *st)
		}
	}
	return out
}
