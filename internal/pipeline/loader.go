// Package pipeline orchestrates plan loading, cached projection and
// breakdown aggregation on top of the cost engine.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/bkcost/internal/logging"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/source"
)

// LoadResult holds the output of loading every plan file under a path.
type LoadResult struct {
	Plans       []model.Plan
	Files       []source.PlanFile
	TotalFiles  int
	ParsedFiles int
	Formats     map[source.Format]int

	// Horizon and growth from the first file (in path order) that sets them.
	Months        *int
	GrowthPercent *float64
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// LoadDir discovers and parses every plan file under path (a directory or a
// single file). Files are parsed concurrently; the first failure cancels the
// rest and is returned, since a partial plan set would misstate the total.
func LoadDir(ctx context.Context, path string, defaultSizeGB float64, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files), Formats: source.CountFormats(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}

	results := make([]source.ParseResult, len(files))
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i] = source.ParseFile(files[i].Path, defaultSizeGB)
			logging.Logger.Debug("parsed plan file",
				zap.String("path", files[i].Path),
				zap.Int("plans", len(results[i].Plans)),
				zap.Duration("took", time.Since(start)))

			n := processed.Add(1)
			if progressFn != nil {
				progressFn(int(n), len(files))
			}
			return results[i].Err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, pr := range results {
		result.ParsedFiles++
		result.Files = append(result.Files, pr.File)
		result.Plans = append(result.Plans, pr.Plans...)
		if result.Months == nil && pr.File.Months != nil {
			result.Months = pr.File.Months
		}
		if result.GrowthPercent == nil && pr.File.GrowthPercent != nil {
			result.GrowthPercent = pr.File.GrowthPercent
		}
	}

	return result, nil
}
