package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/pipeline"
	"github.com/theirongolddev/bkcost/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the projection cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and age",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached projections",
	RunE:  runCacheClear,
}

var cacheOlderThan time.Duration

func init() {
	cacheClearCmd.Flags().DurationVar(&cacheOlderThan, "older-than", 0, "Only remove entries older than this (e.g. 720h)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(_ *cobra.Command, _ []string) error {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	s, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}

	fmt.Printf("  Cache: %s\n", pipeline.CachePath())
	fmt.Printf("  Projections: %s (%s month rows)\n",
		cli.FormatNumber(int64(s.Entries)), cli.FormatNumber(int64(s.MonthRows)))
	fmt.Printf("  Hits: %s\n", cli.FormatNumber(int64(s.Hits)))
	if s.Entries > 0 {
		fmt.Printf("  Oldest: %s\n", humanize.Time(s.Oldest))
		fmt.Printf("  Newest: %s\n", humanize.Time(s.Newest))
	}
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	var n int
	if cacheOlderThan > 0 {
		n, err = cache.Prune(time.Now().Add(-cacheOlderThan))
	} else {
		n, err = cache.Clear()
	}
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	fmt.Printf("  Removed %s cached projections\n", cli.FormatNumber(int64(n)))
	return nil
}
