package matching

import (
	"math"
	"sort"

	"github.com/jonathan/candidate-match/internal/types"
)

// accumulator collects weighted alignment sums for one candidate.
type accumulator struct {
	sum     float64
	weights float64
	areas   map[types.PolicyArea]*areaSum
}

type areaSum struct {
	sum     float64
	weights float64
}

// candidateEntry keeps the first-appearance index used as the final tie-break.
type candidateEntry struct {
	id     string
	order  int
	byArea map[types.PolicyArea]types.PolicyPosition
}

// CalculateMatches scores every candidate that has positions against the
// resolved answers and returns them ranked. The output depends only on the
// inputs: candidates tie-break on matched areas, then on the order their first
// position appears in positions.
//
// Answers whose question is unknown, and questions with a non-positive
// weight, contribute nothing. A candidate without a position in a question's
// area skips that question. Candidates with no scored question are omitted.
func CalculateMatches(answers []types.ResolvedAnswer, positions []types.PolicyPosition, questions []types.Question) []types.MatchResult {
	questionIndex := make(map[string]types.Question, len(questions))
	for _, q := range questions {
		if _, exists := questionIndex[q.QuestionID]; !exists {
			questionIndex[q.QuestionID] = q
		}
	}

	candidates := groupByCandidate(positions)

	type ranked struct {
		result types.MatchResult
		order  int
	}
	results := make([]ranked, 0, len(candidates))

	for _, c := range candidates {
		acc := accumulator{areas: make(map[types.PolicyArea]*areaSum)}

		for _, answer := range answers {
			q, ok := questionIndex[answer.ID()]
			if !ok || !(q.Weight > 0) {
				continue
			}
			pos, ok := c.byArea[q.PolicyArea]
			if !ok {
				continue
			}
			alignment, ok := Score(answer, q, pos)
			if !ok {
				continue
			}

			acc.sum += alignment * q.Weight
			acc.weights += q.Weight

			area, exists := acc.areas[q.PolicyArea]
			if !exists {
				area = &areaSum{}
				acc.areas[q.PolicyArea] = area
			}
			area.sum += alignment * q.Weight
			area.weights += q.Weight
		}

		if acc.weights == 0 {
			continue
		}

		byArea := make(map[types.PolicyArea]int, len(acc.areas))
		for area, s := range acc.areas {
			byArea[area] = percent(s.sum, s.weights)
		}

		results = append(results, ranked{
			result: types.MatchResult{
				CandidateID:      c.id,
				Score:            percent(acc.sum, acc.weights),
				MatchedPositions: len(acc.areas),
				AlignmentByArea:  byArea,
			},
			order: c.order,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.result.Score != b.result.Score {
			return a.result.Score > b.result.Score
		}
		if a.result.MatchedPositions != b.result.MatchedPositions {
			return a.result.MatchedPositions > b.result.MatchedPositions
		}
		return a.order < b.order
	})

	out := make([]types.MatchResult, len(results))
	for i, r := range results {
		out[i] = r.result
	}
	return out
}

// groupByCandidate indexes positions by candidate and area in first-appearance
// order. The first position for a (candidate, area) pair wins.
func groupByCandidate(positions []types.PolicyPosition) []*candidateEntry {
	index := make(map[string]*candidateEntry)
	ordered := make([]*candidateEntry, 0)

	for _, p := range positions {
		entry, ok := index[p.CandidateID]
		if !ok {
			entry = &candidateEntry{
				id:     p.CandidateID,
				order:  len(ordered),
				byArea: make(map[types.PolicyArea]types.PolicyPosition),
			}
			index[p.CandidateID] = entry
			ordered = append(ordered, entry)
		}
		if _, exists := entry.byArea[p.PolicyArea]; !exists {
			entry.byArea[p.PolicyArea] = p
		}
	}

	return ordered
}

// percent converts a weighted mean in [0, 1] into an integer percentage.
func percent(sum, weights float64) int {
	if weights <= 0 {
		return 0
	}
	v := int(math.Round(100 * sum / weights))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// CountCandidates returns the number of distinct candidates with positions.
func CountCandidates(positions []types.PolicyPosition) int {
	seen := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		seen[p.CandidateID] = struct{}{}
	}
	return len(seen)
}

// Annotate fills in display names and parties from candidates. Results for
// unknown candidates keep empty fields.
func Annotate(results []types.MatchResult, candidates []types.Candidate) {
	index := make(map[string]types.Candidate, len(candidates))
	for _, c := range candidates {
		index[c.ID] = c
	}
	for i := range results {
		if c, ok := index[results[i].CandidateID]; ok {
			results[i].Name = c.Name
			results[i].Party = c.Party
		}
	}
}

// Top returns at most k leading results. A non-positive k returns all of them.
func Top(results []types.MatchResult, k int) []types.MatchResult {
	if k <= 0 || k >= len(results) {
		return results
	}
	return results[:k]
}
