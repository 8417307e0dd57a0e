// Package matching scores quiz answers against candidate policy positions and
// ranks candidates by overall alignment.
package matching

import (
	"math"
	"strings"

	"github.com/jonathan/candidate-match/internal/types"
)

// CosineSimilarity returns the cosine of the angle between a and b in [-1, 1].
// Vectors of different length or with zero magnitude have similarity 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return clamp(dot/(math.Sqrt(normA)*math.Sqrt(normB)), -1, 1)
}

// agreementMultiplier maps a scale value onto [-1, 1] with the midpoint at 0.
func agreementMultiplier(value int) float64 {
	mid := float64(types.ScaleMin+types.ScaleMax) / 2
	half := float64(types.ScaleMax-types.ScaleMin) / 2
	return clamp((float64(value)-mid)/half, -1, 1)
}

// Score returns the alignment in [0, 1] between one answer and one candidate's
// position in the question's policy area. The boolean is false when the pair
// must not count at all: a non-positive weight, an answer of the wrong kind
// for the question, or a choice question the position documents no stance on.
//
// For agreement questions the cosine similarity between question and position
// embeddings measures how directly the question probes the position; the
// user's agreement direction then pushes the alignment above or below 0.5 in
// proportion to that relevance. Choice questions compare the selected option
// with the documented stance.
func Score(answer types.ResolvedAnswer, q types.Question, p types.PolicyPosition) (float64, bool) {
	if !(q.Weight > 0) {
		return 0, false
	}

	switch a := answer.(type) {
	case types.AgreementAnswer:
		if q.Type != types.QuestionAgreementScale {
			return 0, false
		}
		relevance := CosineSimilarity(q.Embedding, p.Embedding)
		return clamp(0.5+0.5*agreementMultiplier(a.Value)*relevance, 0, 1), true

	case types.ChoiceAnswer:
		if q.Type != types.QuestionSpecificChoice {
			return 0, false
		}
		stance, ok := p.Stances[q.QuestionID]
		if !ok || strings.TrimSpace(stance) == "" {
			return 0, false
		}
		if strings.EqualFold(strings.TrimSpace(stance), strings.TrimSpace(a.Option)) {
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}
