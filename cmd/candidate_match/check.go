package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-match/internal/observability"
	"github.com/jonathan/candidate-match/internal/schemas"
	"github.com/jonathan/candidate-match/internal/validation"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which catalog records scoring would drop",
	Long: "Runs the scoring-time catalog filters over a catalog file, or the configured store when " +
		"--catalog is omitted, and prints how many records survive and why the rest are dropped. " +
		"--schema additionally checks the catalog file against a caller-supplied JSON Schema, " +
		"such as a stricter profile required before publishing.",
	RunE: runCheck,
}

var (
	checkCatalog string
	checkSchema  string
)

func init() {
	checkCmd.Flags().StringVarP(&checkCatalog, "catalog", "c", "", "Path to catalog JSON file")
	checkCmd.Flags().StringVar(&checkSchema, "schema", "", "Extra JSON Schema file the catalog file must satisfy (requires --catalog)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var (
		questionsReport validation.Report
		positionsReport validation.Report
	)

	if checkSchema != "" {
		if checkCatalog == "" {
			return fmt.Errorf("--schema requires --catalog")
		}
		if err := schemas.ValidateJSON(checkSchema, checkCatalog); err != nil {
			return fmt.Errorf("catalog %s does not satisfy %s: %w", checkCatalog, checkSchema, err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Schema %s: ok\n", checkSchema)
	}

	dim := appCfg.Matching.EmbeddingDim
	if checkCatalog != "" {
		catalog, err := loadCatalogFile(checkCatalog)
		if err != nil {
			return err
		}
		if dim == 0 {
			dim = validation.InferDimension(catalog.Questions)
		}
		v := validation.New(dim)
		_, questionsReport = v.Questions(catalog.Questions)
		_, positionsReport = v.Positions(catalog.Positions)
	} else {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(s)

		questions, err := s.ListQuestions(ctx)
		if err != nil {
			return err
		}
		positions, err := s.GetAllCandidatePositions(ctx)
		if err != nil {
			return err
		}
		if dim == 0 {
			dim = validation.InferDimension(questions)
		}
		v := validation.New(dim)
		_, questionsReport = v.Questions(questions)
		_, positionsReport = v.Positions(positions)
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	printer.PrintValidationReport("questions", questionsReport)
	printer.PrintValidationReport("candidate positions", positionsReport)
	_, _ = fmt.Fprintf(out, "Questions: %d of %d usable\nPositions: %d of %d usable\n",
		questionsReport.Valid, questionsReport.Total, positionsReport.Valid, positionsReport.Total)

	if questionsReport.AllInvalid() || positionsReport.AllInvalid() {
		return fmt.Errorf("catalog cannot be scored: every %s record is invalid", allInvalidKind(questionsReport))
	}
	return nil
}

func allInvalidKind(questions validation.Report) string {
	if questions.AllInvalid() {
		return "question"
	}
	return "position"
}
