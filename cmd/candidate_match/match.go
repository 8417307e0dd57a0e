package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-match/internal/observability"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score an answers file against a catalog file",
	Long:  "Scores quiz answers offline against a catalog JSON file, using the same validation and ranking as the API.",
	RunE:  runMatch,
}

var (
	matchAnswers string
	matchCatalog string
	matchTop     int
	matchFormat  string
)

func init() {
	matchCmd.Flags().StringVarP(&matchAnswers, "answers", "a", "", "Path to answers JSON file (required)")
	matchCmd.Flags().StringVarP(&matchCatalog, "catalog", "c", "", "Path to catalog JSON file (required)")
	matchCmd.Flags().IntVar(&matchTop, "top", 0, "Number of candidates to return (default server.top_k)")
	matchCmd.Flags().StringVar(&matchFormat, "format", "text", "Output format: text or json")

	if err := matchCmd.MarkFlagRequired("answers"); err != nil {
		panic(fmt.Sprintf("failed to mark answers flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("catalog"); err != nil {
		panic(fmt.Sprintf("failed to mark catalog flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(matchFormat); err != nil {
		return err
	}

	catalog, err := loadCatalogFile(matchCatalog)
	if err != nil {
		return err
	}
	answers, err := loadAnswersFile(matchAnswers)
	if err != nil {
		return err
	}

	topK := appCfg.Server.TopK
	if matchTop > 0 {
		topK = matchTop
	}
	resp, err := scoreCatalog(catalog, answers, appCfg.Matching.EmbeddingDim, topK)
	if err != nil {
		return err
	}

	if matchFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(resp)
	return nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
