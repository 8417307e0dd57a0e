package server

import (
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/server/middleware"
	"github.com/jonathan/candidate-match/internal/stats"
	"github.com/jonathan/candidate-match/internal/types"
)

// handleStats serves the anonymized aggregate. A failed read is served as
// zeroed stats, never as an error.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	agg, err := s.stats.GetAggregated(r.Context())
	if err != nil {
		s.logger.Warn("failed to read aggregated stats", zap.Error(err))
		agg = types.AggregatedStats{}
	}
	s.jsonResponse(w, http.StatusOK, stats.Format(agg))
}

// handleDisclosedStats serves per-candidate counts once results are unsealed,
// or to admins at any time.
func (s *Server) handleDisclosedStats(w http.ResponseWriter, r *http.Request) {
	if !s.disclosed(r) {
		s.fail(w, &ErrResultsSealed{})
		return
	}

	agg, err := s.stats.GetAggregated(r.Context())
	if err != nil {
		s.logger.Warn("failed to read aggregated stats", zap.Error(err))
		s.errorResponse(w, http.StatusServiceUnavailable, "stats temporarily unavailable")
		return
	}

	ids := make([]string, 0, len(agg.CandidateStats))
	for id := range agg.CandidateStats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var candidates []types.Candidate
	if len(ids) > 0 {
		candidates, err = s.catalog.GetCandidates(r.Context(), ids)
		if err != nil {
			s.logger.Warn("failed to load candidate names", zap.Error(err))
			candidates = nil
		}
	}
	s.jsonResponse(w, http.StatusOK, stats.Disclose(agg, candidates))
}

func (s *Server) disclosed(r *http.Request) bool {
	if middleware.IsAdmin(r) {
		return true
	}
	return !s.cfg.DisclosureAt.IsZero() && !s.now().Before(s.cfg.DisclosureAt)
}
