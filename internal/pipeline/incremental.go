package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/theirongolddev/bkcost/internal/engine"
	"github.com/theirongolddev/bkcost/internal/logging"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/store"
)

// CacheStats reports how a cached projection was served.
type CacheStats struct {
	Hits      int
	Misses    int
	Failures  int // cache reads or writes that failed and fell back to the engine
	Bypassed  bool
	TotalPlan int
}

// Projector projects portfolios, consulting a projection cache per plan.
// A nil cache projects directly. Concurrent requests for the same plan
// projection share one computation.
type Projector struct {
	calc  *engine.Calculator
	cache *store.Cache
	group singleflight.Group
}

// NewProjector returns a Projector. cache may be nil.
func NewProjector(calc *engine.Calculator, cache *store.Cache) *Projector {
	if calc == nil {
		calc = engine.Default
	}
	return &Projector{calc: calc, cache: cache}
}

// Calculator returns the engine calculator in use.
func (p *Projector) Calculator() *engine.Calculator { return p.calc }

// Project projects every plan over totalMonths at yearlyGrowth. Cache
// failures degrade to direct computation and are logged at warn.
func (p *Projector) Project(plans []model.Plan, totalMonths int, yearlyGrowth float64) (model.Portfolio, CacheStats, error) {
	stats := CacheStats{TotalPlan: len(plans), Bypassed: p.cache == nil}
	if p.cache == nil {
		pf, err := p.calc.ProjectPortfolio(plans, totalMonths, yearlyGrowth)
		return pf, stats, err
	}
	if totalMonths < 1 {
		return model.Portfolio{}, stats, fmt.Errorf("%w: got %d", engine.ErrInvalidHorizon, totalMonths)
	}

	pricing := p.calc.Pricing()
	series := make([][]model.MonthlyProjection, len(plans))
	for i, plan := range plans {
		key, err := store.Key(plan, totalMonths, yearlyGrowth, pricing)
		if err != nil {
			stats.Failures++
			logging.Logger.Warn("cache key failed", zap.Error(err))
			s, perr := p.calc.ProjectPlan(plan, totalMonths, yearlyGrowth)
			if perr != nil {
				return model.Portfolio{}, stats, perr
			}
			series[i] = s
			continue
		}

		v, err, _ := p.group.Do(key, func() (any, error) {
			return p.projectOne(key, plan, totalMonths, yearlyGrowth, &stats)
		})
		if err != nil {
			return model.Portfolio{}, stats, err
		}
		series[i] = v.([]model.MonthlyProjection)
	}

	pf, err := engine.AssemblePortfolio(plans, series, totalMonths, yearlyGrowth)
	return pf, stats, err
}

func (p *Projector) projectOne(key string, plan model.Plan, totalMonths int, yearlyGrowth float64, stats *CacheStats) ([]model.MonthlyProjection, error) {
	cached, ok, err := p.cache.Get(key)
	switch {
	case err != nil:
		stats.Failures++
		logging.Logger.Warn("projection cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		stats.Hits++
		return cached, nil
	}

	stats.Misses++
	s, err := p.calc.ProjectPlan(plan, totalMonths, yearlyGrowth)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Put(key, s); err != nil {
		stats.Failures++
		logging.Logger.Warn("projection cache write failed", zap.String("key", key), zap.Error(err))
	}
	return s, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "bkcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "bkcost")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "projections.db")
}
