package pipeline

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/theirongolddev/bkcost/internal/engine"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/source"
	"github.com/theirongolddev/bkcost/internal/store"
)

func writeFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatal(err)
	}
	return path
}

func mustPlan(t *testing.T, s model.Schedule, retention int, tier model.StorageTier, size float64) model.Plan {
	t.Helper()
	p, err := model.NewPlan(s, retention, tier, size)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDir_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.toml", `
months = 24
[[plan]]
schedule = "Daily"
retention = 7
storage_tier = "Standard"
`)
	writeFile(t, dir, "b/b.yaml", `
months: 60
growth_percent: 10
plans:
  - schedule: monthly
    retention: 12
    storage_tier: archive
    data_size_gb: 900
`)

	var calls atomic.Int64
	res, err := LoadDir(context.Background(), dir, 50, func(current, total int) {
		calls.Add(1)
		if total != 2 || current < 1 || current > 2 {
			t.Errorf("progress(%d, %d)", current, total)
		}
	})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if res.TotalFiles != 2 || res.ParsedFiles != 2 {
		t.Fatalf("files = %d/%d, want 2/2", res.ParsedFiles, res.TotalFiles)
	}
	if res.Formats[source.FormatTOML] != 1 || res.Formats[source.FormatYAML] != 1 {
		t.Fatalf("formats = %v, want 1 toml, 1 yaml", res.Formats)
	}
	if calls.Load() != 2 {
		t.Fatalf("progress called %d times, want 2", calls.Load())
	}
	if len(res.Plans) != 2 {
		t.Fatalf("len(Plans) = %d, want 2", len(res.Plans))
	}
	if res.Plans[0].DataSizeGB() != 50 || res.Plans[1].DataSizeGB() != 900 {
		t.Fatalf("sizes = %v, %v", res.Plans[0].DataSizeGB(), res.Plans[1].DataSizeGB())
	}
	// a.toml sorts first and wins the horizon; only b sets growth.
	if res.Months == nil || *res.Months != 24 {
		t.Fatalf("Months = %v, want 24", res.Months)
	}
	if res.GrowthPercent == nil || *res.GrowthPercent != 10 {
		t.Fatalf("GrowthPercent = %v, want 10", res.GrowthPercent)
	}
}

func TestLoadDir_FailsOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.toml", "[[plan]]\nschedule = \"Daily\"\nretention = 7\nstorage_tier = \"Standard\"\n")
	writeFile(t, dir, "bad.toml", "[[plan]]\nschedule = \"Hourly\"\nretention = 7\nstorage_tier = \"Standard\"\n")

	_, err := LoadDir(context.Background(), dir, 1, nil)
	if !errors.Is(err, model.ErrInvalidSchedule) {
		t.Fatalf("err = %v, want ErrInvalidSchedule", err)
	}
}

func TestLoadDir_Empty(t *testing.T) {
	res, err := LoadDir(context.Background(), t.TempDir(), 0, nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if res.TotalFiles != 0 || len(res.Plans) != 0 {
		t.Fatalf("res = %+v, want empty", res)
	}
}

func TestProjector_CacheMatchesEngine(t *testing.T) {
	cache, err := store.Open(filepath.Join(t.TempDir(), "p.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	plans := []model.Plan{
		mustPlan(t, model.ScheduleDaily, 10, model.TierStandard, 100),
		mustPlan(t, model.ScheduleWeekly, 8, model.TierArchive, 400),
	}
	want, err := engine.ProjectPortfolio(plans, 30, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	p := NewProjector(nil, cache)
	first, stats, err := p.Project(plans, 30, 0.1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if stats.Misses != 2 || stats.Hits != 0 {
		t.Fatalf("first stats = %+v, want 2 misses", stats)
	}

	second, stats, err := p.Project(plans, 30, 0.1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if stats.Hits != 2 || stats.Misses != 0 {
		t.Fatalf("second stats = %+v, want 2 hits", stats)
	}

	for _, got := range []model.Portfolio{first, second} {
		if math.Abs(got.TotalCost-want.TotalCost) > 1e-9 {
			t.Fatalf("TotalCost = %v, want %v", got.TotalCost, want.TotalCost)
		}
		if len(got.Months) != 30 || got.Months[29] != want.Months[29] {
			t.Fatalf("month 30 = %+v, want %+v", got.Months[29], want.Months[29])
		}
	}
}

func TestProjector_NoCache(t *testing.T) {
	p := NewProjector(nil, nil)
	pf, stats, err := p.Project(nil, 6, 0)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !stats.Bypassed || len(pf.Months) != 6 {
		t.Fatalf("stats = %+v, months = %d", stats, len(pf.Months))
	}

	if _, _, err := p.Project(nil, 0, 0); !errors.Is(err, engine.ErrInvalidHorizon) {
		t.Fatalf("err = %v, want ErrInvalidHorizon", err)
	}
}

func TestAggregateYears(t *testing.T) {
	plan := mustPlan(t, model.ScheduleMonthly, 1, model.TierStandard, 100)
	pf, err := engine.ProjectPortfolio([]model.Plan{plan}, 13, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	years := AggregateYears(pf)
	if len(years) != 2 {
		t.Fatalf("len = %d, want 2", len(years))
	}
	if years[0].Months != 12 || years[1].Months != 1 {
		t.Fatalf("months = %d/%d, want 12/1", years[0].Months, years[1].Months)
	}
	if math.Abs(years[0].Cost-12*2.55) > 1e-9 || math.Abs(years[1].Cost-5.1) > 1e-9 {
		t.Fatalf("costs = %v / %v", years[0].Cost, years[1].Cost)
	}
	if years[1].EndSizeGB != 200 {
		t.Fatalf("year 2 end size = %v, want 200", years[1].EndSizeGB)
	}
}

func TestAggregateTiersAndSchedules(t *testing.T) {
	plans := []model.Plan{
		mustPlan(t, model.ScheduleDaily, 10, model.TierStandard, 100),
		mustPlan(t, model.ScheduleMonthly, 6, model.TierStandard, 100),
		mustPlan(t, model.ScheduleYearly, 7, model.TierArchive, 1200),
	}
	pf, err := engine.ProjectPortfolio(plans, 12, 0)
	if err != nil {
		t.Fatal(err)
	}

	tiers := AggregateTiers(pf)
	if len(tiers) != 2 || tiers[0].Tier != model.TierStandard || tiers[0].Plans != 2 {
		t.Fatalf("tiers = %+v", tiers)
	}
	if tiers[1].EndSizeGB != 1200 {
		t.Fatalf("archive end size = %v", tiers[1].EndSizeGB)
	}

	schedules := AggregateSchedules(pf)
	if len(schedules) != 3 || schedules[0].Schedule != model.ScheduleDaily || schedules[2].Schedule != model.ScheduleYearly {
		t.Fatalf("schedules = %+v", schedules)
	}
}

func TestAggregateCostBreakdown(t *testing.T) {
	v := 0.02
	pricing := engine.Default.Pricing()
	pricing.TransferCostPerGB = v
	calc, err := engine.NewCalculator(pricing)
	if err != nil {
		t.Fatal(err)
	}

	plans := []model.Plan{
		mustPlan(t, model.ScheduleMonthly, 6, model.TierStandard, 100),
		mustPlan(t, model.ScheduleDaily, 10, model.TierStandard, 100),
	}
	pf, err := calc.ProjectPortfolio(plans, 2, 0)
	if err != nil {
		t.Fatal(err)
	}

	totals, byPlan := AggregateCostBreakdown(pf)
	wantTransfer := 2 * (1*100*0.02 + 30*100*0.02)
	if math.Abs(totals.TransferCost-wantTransfer) > 1e-9 {
		t.Fatalf("TransferCost = %v, want %v", totals.TransferCost, wantTransfer)
	}
	if math.Abs(totals.TotalCost-pf.TotalCost) > 1e-9 {
		t.Fatalf("TotalCost = %v, want %v", totals.TotalCost, pf.TotalCost)
	}
	if byPlan[0].Plan.Schedule() != model.ScheduleDaily {
		t.Fatalf("most expensive plan = %s, want daily", byPlan[0].Plan)
	}
	share := byPlan[0].SharePercent + byPlan[1].SharePercent
	if math.Abs(share-100) > 1e-9 {
		t.Fatalf("shares sum to %v, want 100", share)
	}
}
