package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/model"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < 4; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < 4; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < 3 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d x past last tab -> %d, want -1", active, got)
		}
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	nameWidths := []int{
		len("Input"),
		len("Detailed"),
		len("Summary"),
		len("Config"),
	}

	w := nameWidths[tabIdx] + 2 // horizontal padding in tab renderer
	if tabIdx != activeIdx {
		w += 2 // inactive tabs show "[k]"
	}
	return w
}

func testPlan(t *testing.T, schedule model.Schedule, retention int, tier model.StorageTier, size float64) model.Plan {
	t.Helper()
	p, err := model.NewPlan(schedule, retention, tier, size)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	return p
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewAppProjectsInitialPlans(t *testing.T) {
	a := NewApp(Options{
		Plans: []model.Plan{
			testPlan(t, model.ScheduleMonthly, 1, model.TierStandard, 100),
			testPlan(t, model.ScheduleMonthly, 1, model.TierStandard, 100),
		},
		Months: 1,
	})

	if !a.loaded {
		t.Fatal("app without plan file should start loaded")
	}
	if a.projErr != nil {
		t.Fatalf("projErr = %v", a.projErr)
	}
	if got := cli.Fixed2(a.portfolio.TotalCost); got != "5.10" {
		t.Fatalf("TotalCost = %s, want 5.10", got)
	}
	if a.plans[0].ID() == "" || a.plans[0].ID() == a.plans[1].ID() {
		t.Fatalf("plans need distinct IDs, got %q and %q", a.plans[0].ID(), a.plans[1].ID())
	}
}

func TestDeleteRemovesOnlySelectedPlan(t *testing.T) {
	a := NewApp(Options{
		Plans: []model.Plan{
			testPlan(t, model.ScheduleMonthly, 1, model.TierStandard, 100),
			testPlan(t, model.ScheduleMonthly, 1, model.TierStandard, 100),
		},
		Months: 1,
	})
	keep := a.plans[1].ID()

	m, _ := a.Update(runeKey('x'))
	a = m.(App)

	if len(a.plans) != 1 {
		t.Fatalf("len(plans) = %d, want 1", len(a.plans))
	}
	if a.plans[0].ID() != keep {
		t.Fatalf("remaining plan = %q, want %q", a.plans[0].ID(), keep)
	}
	if got := cli.Fixed2(a.portfolio.TotalCost); got != "2.55" {
		t.Fatalf("TotalCost after delete = %s, want 2.55", got)
	}
	if a.notice == "" {
		t.Fatal("expected a removal notice")
	}
}

func TestDeleteLastPlanLeavesZeroTotals(t *testing.T) {
	a := NewApp(Options{
		Plans:  []model.Plan{testPlan(t, model.ScheduleDaily, 30, model.TierArchive, 10)},
		Months: 12,
	})

	m, _ := a.Update(runeKey('x'))
	a = m.(App)

	if len(a.plans) != 0 {
		t.Fatalf("len(plans) = %d, want 0", len(a.plans))
	}
	if len(a.portfolio.Months) != 12 {
		t.Fatalf("len(Months) = %d, want 12", len(a.portfolio.Months))
	}
	if a.portfolio.TotalCost != 0 {
		t.Fatalf("TotalCost = %v, want 0", a.portfolio.TotalCost)
	}
}

func TestTabShortcutKeys(t *testing.T) {
	a := NewApp(Options{Months: 12})

	tests := []struct {
		key  rune
		want int
	}{
		{'d', tabDetailed},
		{'s', tabSummary},
		{'c', tabConfig},
		{'i', tabInput},
	}
	for _, tt := range tests {
		m, _ := a.Update(runeKey(tt.key))
		a = m.(App)
		if a.activeTab != tt.want {
			t.Fatalf("after %q activeTab = %d, want %d", tt.key, a.activeTab, tt.want)
		}
	}
}

func TestApplyHorizonForm(t *testing.T) {
	a := NewApp(Options{
		Plans:  []model.Plan{testPlan(t, model.ScheduleMonthly, 12, model.TierStandard, 100)},
		Months: 12,
	})
	a.formKind = formHorizon
	a.horizonVals = &horizonValues{months: "36", growth: "10", size: "50"}
	a.applyForm()

	if a.months != 36 {
		t.Fatalf("months = %d, want 36", a.months)
	}
	if a.growthPercent != 10 {
		t.Fatalf("growthPercent = %v, want 10", a.growthPercent)
	}
	if len(a.portfolio.Months) != 36 {
		t.Fatalf("len(Months) = %d, want 36", len(a.portfolio.Months))
	}
	// Year 3 runs at 100 GB grown twice by 10%.
	if got := cli.Fixed2(a.portfolio.Months[35].SizeGB); got != "121.00" {
		t.Fatalf("month 36 size = %s, want 121.00", got)
	}
}

func TestApplyPlanFormUsesDefaultSize(t *testing.T) {
	a := NewApp(Options{Months: 1, DataSizeGB: 200})
	a.formKind = formAddPlan
	a.planVals = &planValues{
		name:      "nightly",
		schedule:  model.ScheduleMonthly,
		retention: "1",
		tier:      model.TierInfrequentAccess,
	}
	a.applyForm()

	if len(a.plans) != 1 {
		t.Fatalf("len(plans) = %d, want 1", len(a.plans))
	}
	p := a.plans[0]
	if p.Name() != "nightly" || p.DataSizeGB() != 200 {
		t.Fatalf("plan = %s size %v, want nightly size 200", p.Name(), p.DataSizeGB())
	}
	if got := cli.Fixed2(a.portfolio.TotalCost); got != "2.00" {
		t.Fatalf("TotalCost = %s, want 2.00", got)
	}
}
