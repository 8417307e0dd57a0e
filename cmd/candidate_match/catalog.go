package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/matching"
	"github.com/jonathan/candidate-match/internal/schemas"
	"github.com/jonathan/candidate-match/internal/types"
	"github.com/jonathan/candidate-match/internal/validation"
)

// loadCatalogFile reads a catalog JSON file and checks it against the
// catalog schema before decoding.
func loadCatalogFile(path string) (*types.Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	if err := schemas.ValidateCatalog(content); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	var catalog types.Catalog
	if err := json.Unmarshal(content, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}
	return &catalog, nil
}

// loadAnswersFile reads a {"answers": [...]} file.
func loadAnswersFile(path string) ([]types.UserAnswer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}
	if err := schemas.ValidateAnswers(content); err != nil {
		return nil, fmt.Errorf("answers %s: %w", path, err)
	}

	var req types.MatchRequest
	if err := json.Unmarshal(content, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers JSON: %w", err)
	}
	return req.Answers, nil
}

// scoreCatalog runs the same validation and ranking as the match endpoint
// against an in-memory catalog.
func scoreCatalog(catalog *types.Catalog, answers []types.UserAnswer, dim, topK int) (*types.MatchResponse, error) {
	if len(catalog.Positions) == 0 {
		return nil, fmt.Errorf("catalog has no candidate positions")
	}
	if dim == 0 {
		dim = validation.InferDimension(catalog.Questions)
	}
	v := validation.New(dim)

	questions, qReport := v.Questions(catalog.Questions)
	if qReport.AllInvalid() {
		return nil, fmt.Errorf("catalog questions are all invalid (%d dropped)", qReport.Dropped)
	}
	logDropped("questions", qReport)

	positions, pReport := v.Positions(catalog.Positions)
	if pReport.AllInvalid() {
		return nil, fmt.Errorf("catalog positions are all invalid (%d dropped)", pReport.Dropped)
	}
	logDropped("candidate positions", pReport)

	index := make(map[string]types.Question, len(questions))
	for _, q := range questions {
		index[q.QuestionID] = q
	}
	resolved, aReport := v.Answers(answers, index)
	if len(resolved) == 0 {
		return nil, fmt.Errorf("no answer matches a known question with a valid value")
	}
	logDropped("answers", aReport)

	results := matching.CalculateMatches(resolved, positions, questions)
	top := matching.Top(results, topK)
	matching.Annotate(top, catalog.Candidates)

	return &types.MatchResponse{
		Matches:           top,
		QuestionsAnswered: len(resolved),
		TotalCandidates:   matching.CountCandidates(positions),
	}, nil
}

func logDropped(what string, report validation.Report) {
	if report.Dropped == 0 {
		return
	}
	appLog.Warn("dropped invalid records",
		zap.String("kind", what),
		zap.Int("total", report.Total),
		zap.Int("dropped", report.Dropped),
		zap.Any("reasons", report.Reasons))
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
