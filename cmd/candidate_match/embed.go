package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-match/internal/llm"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate missing embeddings for questions and positions",
	Long: "Embeds question text and candidate position text that has no stored embedding yet. " +
		"With --force every record is embedded again.",
	RunE: runEmbed,
}

var (
	embedForce bool
)

func init() {
	embedCmd.Flags().BoolVar(&embedForce, "force", false, "Re-embed records that already have an embedding")
	rootCmd.AddCommand(embedCmd)
}

// embedTarget is one record waiting for a vector.
type embedTarget struct {
	question bool
	text     string
	save     func(ctx context.Context, embedding []float64) error
}

func runEmbed(cmd *cobra.Command, _ []string) error {
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
	positions, err := s.GetAllCandidatePositions(ctx)
	if err != nil {
		return err
	}

	targets := make([]embedTarget, 0, len(questions)+len(positions))
	for _, q := range questions {
		if !needsEmbedding(q.Text, q.Embedding) {
			continue
		}
		id := q.QuestionID
		targets = append(targets, embedTarget{
			question: true,
			text:     llm.NormalizeText(q.Text),
			save: func(ctx context.Context, e []float64) error {
				return s.UpdateQuestionEmbedding(ctx, id, e)
			},
		})
	}
	for _, p := range positions {
		if !needsEmbedding(p.Position, p.Embedding) {
			continue
		}
		candidateID, area := p.CandidateID, p.PolicyArea
		targets = append(targets, embedTarget{
			text: llm.NormalizeText(p.Position),
			save: func(ctx context.Context, e []float64) error {
				return s.UpdatePositionEmbedding(ctx, candidateID, area, e)
			},
		})
	}

	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing to embed.")
		return nil
	}

	client, err := newLLMClient(ctx, appCfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var embeddedQuestions, embeddedPositions atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(appCfg.Embedding.Concurrency)
	for _, batch := range llm.Chunk(targets, llm.MaxBatchSize) {
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, t := range batch {
				texts[i] = t.text
			}
			vectors, err := client.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embedding failed: %w", err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embedding returned %d vectors for %d texts", len(vectors), len(batch))
			}
			for i, t := range batch {
				if err := checkDimension(vectors[i]); err != nil {
					return err
				}
				if err := t.save(gctx, vectors[i]); err != nil {
					return err
				}
				if t.question {
					embeddedQuestions.Add(1)
				} else {
					embeddedPositions.Add(1)
				}
			}
			return nil
		})
	}
	err = g.Wait()

	appLog.Info("embedding finished",
		zap.Int("targets", len(targets)),
		zap.Int64("questions", embeddedQuestions.Load()),
		zap.Int64("positions", embeddedPositions.Load()),
		zap.Error(err))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Embedded %d questions and %d positions\n",
		embeddedQuestions.Load(), embeddedPositions.Load())
	return nil
}

func needsEmbedding(text string, embedding []float64) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return embedForce || len(embedding) == 0
}

// checkDimension rejects vectors that scoring would drop as corrupt.
func checkDimension(embedding []float64) error {
	dim := appCfg.Matching.EmbeddingDim
	if dim > 0 && len(embedding) != dim {
		return fmt.Errorf("embedding has %d values but matching.embedding_dim is %d", len(embedding), dim)
	}
	return nil
}
