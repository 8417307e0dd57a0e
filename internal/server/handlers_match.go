package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-match/internal/matching"
	"github.com/jonathan/candidate-match/internal/types"
	"github.com/jonathan/candidate-match/internal/validation"
)

const maxMatchBodyBytes = 1 << 20

// handleMatch scores a set of quiz answers against every candidate.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeMatchRequest(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp, err := s.match(r, req)
	if err != nil {
		s.fail(w, err)
		return
	}

	// The request context is not handed over; the recorder owns the write.
	if len(resp.Matches) > 0 && s.recorder != nil {
		s.recorder.Record(resp.Matches[0].CandidateID, resp.QuestionsAnswered)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) decodeMatchRequest(w http.ResponseWriter, r *http.Request) (*types.MatchRequest, error) {
	var req types.MatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMatchBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return nil, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}

	if err := validation.Struct(&req); err != nil {
		s.logger.Debug("rejected match request", zap.String("reason", validation.FirstError(err)))
		return nil, &ErrValidation{Field: "answers", Message: "answers must be a non-empty array"}
	}
	if len(req.Answers) > s.cfg.MaxAnswers {
		return nil, &ErrValidation{Field: "answers", Message: fmt.Sprintf("at most %d answers are allowed", s.cfg.MaxAnswers)}
	}
	return &req, nil
}

func (s *Server) match(r *http.Request, req *types.MatchRequest) (*types.MatchResponse, error) {
	ctx := r.Context()

	ids := make([]string, 0, len(req.Answers))
	seen := make(map[string]struct{}, len(req.Answers))
	for _, a := range req.Answers {
		if a.QuestionID == "" {
			continue
		}
		if _, ok := seen[a.QuestionID]; !ok {
			seen[a.QuestionID] = struct{}{}
			ids = append(ids, a.QuestionID)
		}
	}

	var (
		positions []types.PolicyPosition
		questions []types.Question
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		positions, err = s.catalog.GetAllCandidatePositions(gctx)
		if err != nil {
			return fmt.Errorf("failed to load positions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		questions, err = s.catalog.GetQuestionsByIDs(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load questions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(positions) == 0 {
		return nil, &ErrNoCatalogData{What: "candidate positions"}
	}
	if len(questions) == 0 {
		all, err := s.catalog.ListQuestions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		if len(all) == 0 {
			return nil, &ErrNoCatalogData{What: "questions"}
		}
	}

	dim := s.cfg.EmbeddingDim
	if dim == 0 {
		dim = validation.InferDimension(questions)
	}
	v := validation.New(dim)

	validQuestions, qReport := v.Questions(questions)
	if qReport.AllInvalid() {
		return nil, &ErrCorruptCatalog{What: "questions", Dropped: qReport.Dropped}
	}
	s.warnDropped("questions", qReport)

	validPositions, pReport := v.Positions(positions)
	if pReport.AllInvalid() {
		return nil, &ErrCorruptCatalog{What: "candidate positions", Dropped: pReport.Dropped}
	}
	s.warnDropped("candidate positions", pReport)

	questionIndex := make(map[string]types.Question, len(validQuestions))
	for _, q := range validQuestions {
		questionIndex[q.QuestionID] = q
	}
	answers, aReport := v.Answers(req.Answers, questionIndex)
	if len(answers) == 0 {
		return nil, &ErrValidation{Field: "answers", Message: "no answer matches a known question with a valid value"}
	}
	if aReport.Dropped > 0 {
		s.logger.Debug("ignored invalid answers",
			zap.Int("dropped", aReport.Dropped),
			zap.Any("reasons", aReport.Reasons))
	}

	results := matching.CalculateMatches(answers, validPositions, validQuestions)
	top := matching.Top(results, s.cfg.TopK)
	s.annotate(r, top)

	return &types.MatchResponse{
		Matches:           top,
		QuestionsAnswered: len(answers),
		TotalCandidates:   matching.CountCandidates(validPositions),
	}, nil
}

// annotate adds display names. A lookup failure leaves the ids bare.
func (s *Server) annotate(r *http.Request, results []types.MatchResult) {
	if len(results) == 0 {
		return
	}
	ids := make([]string, len(results))
	for i, m := range results {
		ids[i] = m.CandidateID
	}
	candidates, err := s.catalog.GetCandidates(r.Context(), ids)
	if err != nil {
		s.logger.Warn("failed to load candidate names", zap.Error(err))
		return
	}
	matching.Annotate(results, candidates)
}

func (s *Server) warnDropped(what string, report validation.Report) {
	if report.Dropped == 0 {
		return
	}
	s.logger.Warn("dropped invalid catalog records",
		zap.String("kind", what),
		zap.Int("total", report.Total),
		zap.Int("dropped", report.Dropped),
		zap.Any("reasons", report.Reasons))
}
