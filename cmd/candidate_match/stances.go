package main

import (
	"fmt"
	"maps"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-match/internal/types"
)

var stancesCmd = &cobra.Command{
	Use:   "stances",
	Short: "Classify candidate positions against specific-choice questions",
	Long: "For every specific-choice question, asks the language model which option each candidate's " +
		"position in the same policy area supports, and stores the answer on the position.",
	RunE: runStances,
}

var (
	stancesForce bool
)

func init() {
	stancesCmd.Flags().BoolVar(&stancesForce, "force", false, "Reclassify stances that are already recorded")
	rootCmd.AddCommand(stancesCmd)
}

func runStances(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(s)

	questions, err := s.ListQuestions(ctx)
	if err != nil {
		return err
	}
	byArea := make(map[types.PolicyArea][]types.Question)
	for _, q := range questions {
		if q.Type == types.QuestionSpecificChoice && len(q.Options) > 0 {
			byArea[q.PolicyArea] = append(byArea[q.PolicyArea], q)
		}
	}

	out := cmd.OutOrStdout()
	if len(byArea) == 0 {
		_, _ = fmt.Fprintln(out, "No specific-choice questions to classify.")
		return nil
	}

	positions, err := s.GetAllCandidatePositions(ctx)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, appCfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create language model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var classified, updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(appCfg.Embedding.Concurrency)
	for _, p := range positions {
		area := byArea[p.PolicyArea]
		if len(area) == 0 || p.Position == "" {
			continue
		}
		g.Go(func() error {
			stances := maps.Clone(p.Stances)
			if stances == nil {
				stances = make(map[string]string)
			}
			changed := false
			for _, q := range area {
				if _, ok := stances[q.QuestionID]; ok && !stancesForce {
					continue
				}
				option, err := client.ClassifyStance(gctx, q.Text, q.Options, p.Position)
				if err != nil {
					return fmt.Errorf("classify %s/%s for %s: %w", p.CandidateID, p.PolicyArea, q.QuestionID, err)
				}
				classified.Add(1)
				if option == "" {
					appLog.Debug("no clear stance",
						zap.String("candidate", p.CandidateID),
						zap.String("question", q.QuestionID))
					if _, ok := stances[q.QuestionID]; ok {
						delete(stances, q.QuestionID)
						changed = true
					}
					continue
				}
				if stances[q.QuestionID] != option {
					stances[q.QuestionID] = option
					changed = true
				}
			}
			if !changed {
				return nil
			}
			p.Stances = stances
			if err := s.UpsertPosition(gctx, p); err != nil {
				return err
			}
			updated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Classified %d stances, updated %d positions\n", classified.Load(), updated.Load())
	return nil
}
