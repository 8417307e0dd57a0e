// Package main provides the candidate_match CLI: the quiz API server and the
// catalog ingestion and inspection commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/config"
	"github.com/jonathan/candidate-match/internal/logger"
	"github.com/jonathan/candidate-match/internal/store"
)

var (
	// Used for flags.
	cfgFile string

	appCfg *config.Config
	appLog = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "candidate_match",
	Short: "Candidate Match quiz server and catalog tools",
	Long: "Candidate Match scores quiz answers against candidates' documented policy positions " +
		"and keeps anonymized aggregate statistics of the results.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is candidate-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}

// initConfig loads .env, the config file and the environment, then builds
// the logger every command uses.
func initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	v := config.New()
	if err := v.BindPFlag("log.debug", cmd.Flags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := v.BindPFlag("log.json", cmd.Flags().Lookup("json")); err != nil {
		return fmt.Errorf("failed to bind json flag: %w", err)
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}

	appCfg = cfg
	appLog = l
	return nil
}

// openStore opens the configured backend.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, appCfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

func closeStore(s store.Store) {
	if err := s.Close(); err != nil {
		appLog.Warn("failed to close store", zap.Error(err))
	}
}

func main() {
	err := rootCmd.Execute()
	_ = appLog.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
