package validation

import (
	"strings"

	"github.com/jonathan/candidate-match/internal/types"
)

// Catalog checks a catalog strictly before import. Unlike the scoring-time
// filters it rejects the whole catalog on any problem: duplicate ids or
// (candidate, area) pairs, positions for unknown candidates, stances for
// unknown questions or options, and embeddings of inconsistent length.
// Missing embeddings are allowed since they are filled in later.
func Catalog(c *types.Catalog) error {
	errs := &CatalogError{}

	candidates := make(map[string]bool, len(c.Candidates))
	for i, cand := range c.Candidates {
		if err := structs.Struct(cand); err != nil {
			errs.add("candidates[%d]: %s", i, FirstError(err))
			continue
		}
		if candidates[cand.ID] {
			errs.add("candidates[%d]: duplicate id %q", i, cand.ID)
		}
		candidates[cand.ID] = true
	}

	dim := InferDimension(c.Questions)
	questions := make(map[string]types.Question, len(c.Questions))
	for i, q := range c.Questions {
		if err := structs.Struct(q); err != nil {
			errs.add("questions[%d]: %s", i, FirstError(err))
			continue
		}
		if _, dup := questions[q.QuestionID]; dup {
			errs.add("questions[%d]: duplicate id %q", i, q.QuestionID)
		}
		if !(q.Weight > 0) {
			errs.add("questions[%d]: weight must be positive", i)
		}
		if q.Type == types.QuestionSpecificChoice && len(q.Options) < 2 {
			errs.add("questions[%d]: specific-choice question needs at least 2 options", i)
		}
		if len(q.Embedding) > 0 && len(q.Embedding) != dim {
			errs.add("questions[%d]: embedding has %d values, want %d", i, len(q.Embedding), dim)
		}
		questions[q.QuestionID] = q
	}

	seen := make(map[string]bool, len(c.Positions))
	for i, p := range c.Positions {
		if err := structs.Struct(p); err != nil {
			errs.add("positions[%d]: %s", i, FirstError(err))
			continue
		}
		if !candidates[p.CandidateID] {
			errs.add("positions[%d]: unknown candidate %q", i, p.CandidateID)
		}
		key := p.CandidateID + "\x00" + string(p.PolicyArea)
		if seen[key] {
			errs.add("positions[%d]: duplicate position for %s/%s", i, p.CandidateID, p.PolicyArea)
		}
		seen[key] = true
		if len(p.Embedding) > 0 && dim > 0 && len(p.Embedding) != dim {
			errs.add("positions[%d]: embedding has %d values, want %d", i, len(p.Embedding), dim)
		}
		for qid, option := range p.Stances {
			q, ok := questions[qid]
			switch {
			case !ok:
				errs.add("positions[%d]: stance for unknown question %q", i, qid)
			case q.Type != types.QuestionSpecificChoice:
				errs.add("positions[%d]: stance for non-choice question %q", i, qid)
			case q.PolicyArea != p.PolicyArea:
				errs.add("positions[%d]: stance for question %q in area %s", i, qid, q.PolicyArea)
			case !containsOption(q.Options, strings.TrimSpace(option)):
				errs.add("positions[%d]: stance %q is not an option of %q", i, option, qid)
			}
		}
	}

	if len(errs.Problems) > 0 {
		return errs
	}
	return nil
}
