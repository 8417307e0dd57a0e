package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-match/internal/observability"
	"github.com/jonathan/candidate-match/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate match statistics from the store",
	Long: "Reads every stats shard from the configured store and prints the anonymized public summary, " +
		"or the per-candidate breakdown with --disclosed.",
	RunE: runStats,
}

var (
	statsDisclosed bool
	statsFormat    string
)

func init() {
	statsCmd.Flags().BoolVar(&statsDisclosed, "disclosed", false, "Print per-candidate counts with names")
	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "Output format: text or json")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := checkFormat(statsFormat); err != nil {
		return err
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(s)

	router := stats.NewRouter(appCfg.Stats.Shards)
	cache := stats.NewCache(s, router, appCfg.Stats.CacheTTL,
		stats.WithFetchTimeout(appCfg.Stats.FetchTimeout),
		stats.WithLogger(appLog.Named("stats")))

	agg, err := cache.GetAggregated(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	if !statsDisclosed {
		public := stats.Format(agg)
		if statsFormat == "json" {
			return writeJSON(out, public)
		}
		printer.PrintPublicStats(public)
		return nil
	}

	ids := make([]string, 0, len(agg.CandidateStats))
	for id := range agg.CandidateStats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	candidates, err := s.GetCandidates(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}

	disclosed := stats.Disclose(agg, candidates)
	if statsFormat == "json" {
		return writeJSON(out, disclosed)
	}
	printer.PrintDisclosedStats(disclosed)
	return nil
}
