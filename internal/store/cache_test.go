package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "projections.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testPlan(t *testing.T, size float64) model.Plan {
	t.Helper()
	p, err := model.NewPlan(model.ScheduleDaily, 14, model.TierStandard, size)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestKey_StableAndSensitive(t *testing.T) {
	p := testPlan(t, 100)

	k1, err := Key(p, 12, 0.1, config.DefaultPricing)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	k2, _ := Key(p.WithNewID().WithName("renamed"), 12, 0.1, config.DefaultPricing.Clone())
	if k1 != k2 {
		t.Fatalf("key changed with ID/name/map copy: %s vs %s", k1, k2)
	}

	variants := map[string]func() (string, error){
		"size":   func() (string, error) { return Key(testPlan(t, 101), 12, 0.1, config.DefaultPricing) },
		"months": func() (string, error) { return Key(p, 13, 0.1, config.DefaultPricing) },
		"growth": func() (string, error) { return Key(p, 12, 0.2, config.DefaultPricing) },
		"pricing": func() (string, error) {
			v := 0.05
			return Key(p, 12, 0.1, config.DefaultPricing.ApplyOverrides(config.PricingOverrides{TransferPerGB: &v}))
		},
	}
	for name, fn := range variants {
		k, err := fn()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if k == k1 {
			t.Fatalf("changing %s did not change the key", name)
		}
	}
}

func TestCache_PutGet(t *testing.T) {
	c := openTestCache(t)

	series := []model.MonthlyProjection{
		{Month: 1, EffectiveSizeGB: 100, StorageCost: 35.7, TransferCost: 0.3, Cost: 36},
		{Month: 2, EffectiveSizeGB: 100, StorageCost: 35.7, TransferCost: 0.3, Cost: 36},
	}

	if _, ok, err := c.Get("abc"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok %v, err %v", ok, err)
	}
	if err := c.Put("abc", series); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get("abc")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if len(got) != 2 || got[1] != series[1] {
		t.Fatalf("Get = %+v, want %+v", got, series)
	}

	// Replacing keeps exactly one copy of the rows.
	if err := c.Put("abc", series[:1]); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, ok, _ = c.Get("abc")
	if !ok || len(got) != 1 {
		t.Fatalf("after replace len = %d, ok %v", len(got), ok)
	}
}

func TestCache_StatsAndClear(t *testing.T) {
	c := openTestCache(t)

	one := []model.MonthlyProjection{{Month: 1, Cost: 1}}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Put(k, one); err != nil {
			t.Fatalf("Put(%s): %v", k, err)
		}
	}
	_, _, _ = c.Get("a")
	_, _, _ = c.Get("a")

	s, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Entries != 3 || s.MonthRows != 3 || s.Hits != 2 {
		t.Fatalf("Stats = %+v, want 3 entries, 3 rows, 2 hits", s)
	}
	if s.Newest.IsZero() || s.Oldest.After(s.Newest) {
		t.Fatalf("Stats times = %v .. %v", s.Oldest, s.Newest)
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v, want 3", n, err)
	}
	s, _ = c.Stats()
	if s.Entries != 0 || s.MonthRows != 0 {
		t.Fatalf("after Clear Stats = %+v", s)
	}
}

func TestCache_Prune(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put("old", []model.MonthlyProjection{{Month: 1}}); err != nil {
		t.Fatal(err)
	}

	n, err := c.Prune(time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("Prune(past) = %d, %v, want 0", n, err)
	}
	n, err = c.Prune(time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("Prune(future) = %d, %v, want 1", n, err)
	}
}
