package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/store"
	"github.com/jonathan/candidate-match/internal/validation"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a candidate and question catalog",
	Long: "Validates a catalog JSON file against the catalog schema and the import rules " +
		"(unique ids, one position per candidate and area, known stance options), then upserts it.",
	RunE: runImport,
}

var (
	importFile string
)

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Path to catalog JSON file (required)")

	if err := importCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	catalog, err := loadCatalogFile(importFile)
	if err != nil {
		return err
	}
	if err := validation.Catalog(catalog); err != nil {
		return err
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(s)

	if err := s.CreateSchema(ctx); err != nil {
		return err
	}
	if err := store.Import(ctx, s, catalog); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	appLog.Info("catalog imported",
		zap.String("file", importFile),
		zap.Int("candidates", len(catalog.Candidates)),
		zap.Int("questions", len(catalog.Questions)),
		zap.Int("positions", len(catalog.Positions)))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d candidates, %d questions, %d positions\n",
		len(catalog.Candidates), len(catalog.Questions), len(catalog.Positions))
	return nil
}
