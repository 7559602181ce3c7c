// Package cmd implements the bkcost CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/engine"
	"github.com/theirongolddev/bkcost/internal/logging"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/pipeline"
	"github.com/theirongolddev/bkcost/internal/source"
	"github.com/theirongolddev/bkcost/internal/store"
)

var (
	flagMonths   int
	flagGrowth   float64
	flagSize     float64
	flagPlanFile string
	flagPlans    []string
	flagNoCache  bool
	flagQuiet    bool
	flagVerbose  bool
)

// appCfg is loaded once before any command runs.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "bkcost",
	Short: "Backup storage cost projection",
	Long: "Project the monthly and yearly storage cost of backup plans over a " +
		"horizon of months, with optional yearly data growth.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "m", 0, "Projection horizon in months (default from config)")
	rootCmd.PersistentFlags().Float64VarP(&flagGrowth, "growth", "g", 0, "Yearly data growth in percent")
	rootCmd.PersistentFlags().Float64VarP(&flagSize, "size", "s", 0, "Default data size in GB for plans without one")
	rootCmd.PersistentFlags().StringVarP(&flagPlanFile, "plan-file", "f", "", "Plan file or directory of plan files")
	rootCmd.PersistentFlags().StringArrayVar(&flagPlans, "plan", nil, "Inline plan SCHEDULE:RETENTION:TIER[:SIZE] (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite projection cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// Still usable: Load returns defaults alongside the error.
		fmt.Fprintf(os.Stderr, "  Config unreadable, using defaults: %v\n", err)
	}
	appCfg = cfg

	opts := logging.FromConfig(cfg.Log)
	if flagVerbose {
		opts.Level = "debug"
	}
	logging.Init(opts)
	logging.Sugar.Debugf("config %s: horizon %d months, max %d, log level %s",
		config.Path(), cfg.General.DefaultMonths, cfg.General.MaxMonths, opts.Level)
	return nil
}

// inputs holds the resolved projection inputs shared by all commands.
type inputs struct {
	plans         []model.Plan
	months        int
	growthPercent float64
	dataSizeGB    float64
	planFile      string
	loaded        *pipeline.LoadResult
}

// horizonFlags resolves months, growth and size from flags, falling back to
// config defaults for any flag not given.
func horizonFlags(cmd *cobra.Command) (months int, growthPercent, sizeGB float64, planFile string) {
	months = appCfg.General.DefaultMonths
	if cmd.Flags().Changed("months") {
		months = flagMonths
	}
	growthPercent = appCfg.General.GrowthPercent
	if cmd.Flags().Changed("growth") {
		growthPercent = flagGrowth
	}
	sizeGB = appCfg.General.DataSizeGB
	if cmd.Flags().Changed("size") {
		sizeGB = flagSize
	}
	planFile = appCfg.General.PlanFile
	if cmd.Flags().Changed("plan-file") {
		planFile = flagPlanFile
	}
	return months, growthPercent, sizeGB, planFile
}

// resolveInputs loads the plan file (if any), parses inline plans and
// validates the horizon. Explicit flags win over values in the plan file.
func resolveInputs(cmd *cobra.Command) (*inputs, error) {
	months, growth, size, planFile := horizonFlags(cmd)
	in := &inputs{months: months, growthPercent: growth, dataSizeGB: size, planFile: planFile}

	if size < 0 {
		return nil, fmt.Errorf("--size must not be negative, got %g", size)
	}

	if planFile != "" {
		res, err := loadPlanFile(cmd.Context(), planFile, size)
		if err != nil {
			return nil, err
		}
		in.loaded = res
		in.plans = append(in.plans, res.Plans...)
		if res.Months != nil && !cmd.Flags().Changed("months") {
			in.months = *res.Months
		}
		if res.GrowthPercent != nil && !cmd.Flags().Changed("growth") {
			in.growthPercent = *res.GrowthPercent
		}
	}

	inline, err := parseInlinePlans(flagPlans, size)
	if err != nil {
		return nil, err
	}
	in.plans = append(in.plans, inline...)

	if err := validateHorizon(in.months, in.growthPercent, appCfg.General.MaxMonths); err != nil {
		return nil, err
	}
	return in, nil
}

func loadPlanFile(ctx context.Context, path string, defaultSizeGB float64) (*pipeline.LoadResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", path)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%25 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	res, err := pipeline.LoadDir(ctx, path, defaultSizeGB, progressFn)
	if err != nil {
		if !flagQuiet {
			fmt.Fprintln(os.Stderr)
		}
		return nil, err
	}
	if res.TotalFiles == 0 {
		return nil, fmt.Errorf("no plan files found at %s", path)
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s plans from %d files (%s)    \n",
			cli.FormatNumber(int64(len(res.Plans))), res.ParsedFiles, describeFormats(res.Formats))
	}
	return res, nil
}

// describeFormats renders per-format file counts, e.g. "2 toml, 1 yaml".
func describeFormats(counts map[source.Format]int) string {
	formats := make([]string, 0, len(counts))
	for f := range counts {
		formats = append(formats, string(f))
	}
	sort.Strings(formats)

	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		parts = append(parts, fmt.Sprintf("%d %s", counts[source.Format(f)], f))
	}
	return strings.Join(parts, ", ")
}

// parseInlinePlans parses --plan values of the form
// SCHEDULE:RETENTION:TIER[:SIZE].
func parseInlinePlans(raw []string, defaultSizeGB float64) ([]model.Plan, error) {
	plans := make([]model.Plan, 0, len(raw))
	for i, s := range raw {
		p, err := parseInlinePlan(s, defaultSizeGB)
		if err != nil {
			return nil, fmt.Errorf("--plan #%d %q: %w", i+1, s, err)
		}
		plans = append(plans, p.WithNewID())
	}
	return plans, nil
}

func parseInlinePlan(raw string, defaultSizeGB float64) (model.Plan, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return model.Plan{}, fmt.Errorf("%w: want SCHEDULE:RETENTION:TIER[:SIZE]", model.ErrInvalidPlan)
	}

	retention, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.Plan{}, fmt.Errorf("%w: retention %q is not a whole number", model.ErrInvalidPlan, parts[1])
	}

	size := defaultSizeGB
	if len(parts) == 4 {
		if size, err = cli.ParseFixed(parts[3]); err != nil {
			return model.Plan{}, fmt.Errorf("%w: size %q is not a number", model.ErrInvalidPlan, parts[3])
		}
	}

	return model.ParsePlan(parts[0], retention, parts[2], size)
}

func validateHorizon(months int, growthPercent float64, maxMonths int) error {
	if months < 1 || months > maxMonths {
		return fmt.Errorf("%w: months must be between 1 and %d, got %d", engine.ErrInvalidHorizon, maxMonths, months)
	}
	if growthPercent < 0 || growthPercent > 100 {
		return fmt.Errorf("growth must be between 0 and 100 percent, got %g", growthPercent)
	}
	return nil
}

// newProjector builds the projector from resolved pricing. The returned
// close func releases the cache; it is never nil.
func newProjector() (*pipeline.Projector, func(), error) {
	pricing, err := config.ResolvePricing(appCfg)
	if err != nil {
		return nil, func() {}, err
	}
	calc, err := engine.NewCalculator(pricing)
	if err != nil {
		return nil, func() {}, err
	}

	if flagNoCache {
		return pipeline.NewProjector(calc, nil), func() {}, nil
	}

	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		logging.Logger.Warn("projection cache unavailable", zap.String("path", pipeline.CachePath()), zap.Error(err))
		return pipeline.NewProjector(calc, nil), func() {}, nil
	}
	return pipeline.NewProjector(calc, cache), func() { _ = cache.Close() }, nil
}

// project resolves inputs and projects them in one step.
func project(cmd *cobra.Command) (*inputs, model.Portfolio, error) {
	in, err := resolveInputs(cmd)
	if err != nil {
		return nil, model.Portfolio{}, err
	}

	projector, closeFn, err := newProjector()
	if err != nil {
		return nil, model.Portfolio{}, err
	}
	defer closeFn()

	pf, stats, err := projector.Project(in.plans, in.months, in.growthPercent/100)
	if err != nil {
		return nil, model.Portfolio{}, err
	}
	logging.Logger.Debug("projected",
		zap.Int("plans", stats.TotalPlan),
		zap.Int("cache_hits", stats.Hits),
		zap.Int("cache_misses", stats.Misses),
		zap.Bool("cache_bypassed", stats.Bypassed))
	return in, pf, nil
}

var errNoPlans = errors.New("no backup plans given (use --plan or --plan-file)")

func printNoPlans() {
	fmt.Println("\n  No backup plans given.")
	fmt.Println("  Add one with --plan Daily:7:Standard:100 or point --plan-file at a plan file.")
}
