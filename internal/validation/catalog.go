package validation

import (
	"math"

	"github.com/jonathan/candidate-match/internal/types"
)

// Drop reasons recorded in a Report.
const (
	ReasonStructure    = "structure"
	ReasonEmbedding    = "embedding"
	ReasonWeight       = "weight"
	ReasonPolicyArea   = "policy_area"
	ReasonDuplicate    = "duplicate"
	ReasonAnswerDomain = "answer_domain"
	ReasonUnknownQ     = "unknown_question"
)

// Report summarizes one validation pass over a batch of records.
type Report struct {
	Total   int
	Valid   int
	Dropped int
	Reasons map[string]int
}

func newReport(total int) Report {
	return Report{Total: total, Reasons: make(map[string]int)}
}

func (r *Report) drop(reason string) {
	r.Dropped++
	r.Reasons[reason]++
}

// AllInvalid reports whether the batch had records and none survived.
func (r Report) AllInvalid() bool {
	return r.Total > 0 && r.Valid == 0
}

// Validator filters catalog records and answers down to the well-formed subset.
// It never fails on an individual record; malformed records are dropped and
// counted in the returned Report. A Validator is safe for concurrent use.
type Validator struct {
	dim int
}

// New returns a Validator that requires embeddings of exactly dim values.
// A dim of zero accepts any non-empty embedding length.
func New(dim int) *Validator {
	return &Validator{dim: dim}
}

// Dimension returns the embedding length the Validator enforces.
func (v *Validator) Dimension() int {
	return v.dim
}

// InferDimension returns the length of the first non-empty question embedding,
// or zero when no question carries one.
func InferDimension(questions []types.Question) int {
	for _, q := range questions {
		if len(q.Embedding) > 0 {
			return len(q.Embedding)
		}
	}
	return 0
}

// Questions returns the questions that have an identifier, a known type and
// area, an embedding of the catalog dimension and a positive weight.
func (v *Validator) Questions(questions []types.Question) ([]types.Question, Report) {
	report := newReport(len(questions))
	valid := make([]types.Question, 0, len(questions))

	for _, q := range questions {
		if err := structs.Struct(q); err != nil {
			report.drop(ReasonStructure)
			continue
		}
		if !v.embeddingOK(q.Embedding) {
			report.drop(ReasonEmbedding)
			continue
		}
		if !(q.Weight > 0) || math.IsInf(q.Weight, 0) {
			report.drop(ReasonWeight)
			continue
		}
		valid = append(valid, q)
	}

	report.Valid = len(valid)
	return valid, report
}

// Positions returns the positions that belong to a candidate, name a recognized
// policy area and carry an embedding of the catalog dimension. A second
// position for the same candidate and area is dropped as a duplicate.
func (v *Validator) Positions(positions []types.PolicyPosition) ([]types.PolicyPosition, Report) {
	report := newReport(len(positions))
	valid := make([]types.PolicyPosition, 0, len(positions))
	seen := make(map[string]struct{}, len(positions))

	for _, p := range positions {
		if err := structs.Struct(p); err != nil {
			if !p.PolicyArea.IsValid() && p.CandidateID != "" {
				report.drop(ReasonPolicyArea)
			} else {
				report.drop(ReasonStructure)
			}
			continue
		}
		if !v.embeddingOK(p.Embedding) {
			report.drop(ReasonEmbedding)
			continue
		}
		key := p.CandidateID + "\x00" + string(p.PolicyArea)
		if _, dup := seen[key]; dup {
			report.drop(ReasonDuplicate)
			continue
		}
		seen[key] = struct{}{}
		valid = append(valid, p)
	}

	report.Valid = len(valid)
	return valid, report
}

func (v *Validator) embeddingOK(embedding []float64) bool {
	if len(embedding) == 0 {
		return false
	}
	if v.dim > 0 && len(embedding) != v.dim {
		return false
	}
	for _, x := range embedding {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
