package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/fetch"
	"github.com/jonathan/candidate-match/internal/types"
)

var ingestPageCmd = &cobra.Command{
	Use:   "ingest-page",
	Short: "Extract a candidate's positions from their policy page",
	Long: "Fetches a campaign issues page, splits it into policy areas by its headings and stores " +
		"one position per area. Run embed afterwards to score the new text.",
	RunE: runIngestPage,
}

var (
	ingestPageURL       string
	ingestPageCandidate string
	ingestPageName      string
	ingestPageParty     string
	ingestPageTimeout   time.Duration
)

func init() {
	ingestPageCmd.Flags().StringVarP(&ingestPageURL, "url", "u", "", "URL of the candidate's issues page (required)")
	ingestPageCmd.Flags().StringVarP(&ingestPageCandidate, "candidate", "c", "", "Candidate id (required)")
	ingestPageCmd.Flags().StringVar(&ingestPageName, "name", "", "Candidate display name, creates or renames the candidate")
	ingestPageCmd.Flags().StringVar(&ingestPageParty, "party", "", "Candidate party, used with --name")
	ingestPageCmd.Flags().DurationVar(&ingestPageTimeout, "timeout", fetch.DefaultTimeout, "HTTP request timeout")

	if err := ingestPageCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}
	if err := ingestPageCmd.MarkFlagRequired("candidate"); err != nil {
		panic(fmt.Sprintf("failed to mark candidate flag as required: %v", err))
	}

	rootCmd.AddCommand(ingestPageCmd)
}

func runIngestPage(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	opts := fetch.DefaultOptions()
	opts.Timeout = ingestPageTimeout
	page, err := fetch.URL(ctx, ingestPageURL, opts)
	if err != nil {
		return err
	}

	sections, err := fetch.ExtractPositions(page.HTML)
	if err != nil {
		return err
	}
	positions := sections.Positions(ingestPageCandidate)
	if len(positions) == 0 {
		return fmt.Errorf("no policy sections found on %s", ingestPageURL)
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(s)

	if err := s.CreateSchema(ctx); err != nil {
		return err
	}

	if ingestPageName != "" {
		candidate := types.Candidate{ID: ingestPageCandidate, Name: ingestPageName, Party: ingestPageParty}
		if err := s.UpsertCandidate(ctx, candidate); err != nil {
			return err
		}
	} else {
		known, err := s.GetCandidates(ctx, []string{ingestPageCandidate})
		if err != nil {
			return err
		}
		if len(known) == 0 {
			return fmt.Errorf("candidate %q not found, pass --name to create it", ingestPageCandidate)
		}
	}

	extractedAt := time.Now().UTC()
	out := cmd.OutOrStdout()
	for _, p := range positions {
		p.ExtractedAt = &extractedAt
		if err := s.UpsertPosition(ctx, p); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "  %-15s %d chars\n", p.PolicyArea, len(p.Position))
	}

	appLog.Info("page ingested",
		zap.String("url", ingestPageURL),
		zap.String("candidate", ingestPageCandidate),
		zap.String("platform", string(sections.Platform)),
		zap.Int("positions", len(positions)))

	_, _ = fmt.Fprintf(out, "Stored %d positions for %s\n", len(positions), ingestPageCandidate)
	return nil
}
