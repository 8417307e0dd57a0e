package stats

import (
	"math"
	"sort"

	"github.com/jonathan/candidate-match/internal/types"
)

// TopResultsLimit caps PublicStats.TopResults.
const TopResultsLimit = 3

// Format builds the anonymized public summary. Only counts leave this
// function; candidate ids are discarded.
func Format(s types.AggregatedStats) types.PublicStats {
	out := types.PublicStats{TopResults: []types.RankedShare{}}
	if s.TotalMatches <= 0 {
		return out
	}

	out.TotalMatches = s.TotalMatches
	out.AverageQuestions = round1(float64(s.TotalQuestions) / float64(s.TotalMatches))

	counts := make([]int, 0, len(s.CandidateStats))
	for _, n := range s.CandidateStats {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	if len(counts) > TopResultsLimit {
		counts = counts[:TopResultsLimit]
	}

	for i, n := range counts {
		out.TopResults = append(out.TopResults, types.RankedShare{
			Rank:       i + 1,
			Percentage: round1(100 * float64(n) / float64(s.TotalMatches)),
			Count:      n,
		})
	}
	return out
}

// Disclose builds the per-candidate breakdown, ordered by count and then id.
// Names and parties come from candidates when known.
func Disclose(s types.AggregatedStats, candidates []types.Candidate) types.DisclosedStats {
	out := types.DisclosedStats{
		TotalMatches: s.TotalMatches,
		Candidates:   []types.CandidateShare{},
		LastUpdated:  s.LastUpdated,
	}
	if s.TotalMatches <= 0 {
		return out
	}
	out.AverageQuestions = round1(float64(s.TotalQuestions) / float64(s.TotalMatches))

	index := make(map[string]types.Candidate, len(candidates))
	for _, c := range candidates {
		index[c.ID] = c
	}

	for id, n := range s.CandidateStats {
		share := types.CandidateShare{
			CandidateID: id,
			Count:       n,
			Percentage:  round1(100 * float64(n) / float64(s.TotalMatches)),
		}
		if c, ok := index[id]; ok {
			share.Name = c.Name
			share.Party = c.Party
		}
		out.Candidates = append(out.Candidates, share)
	}
	sort.Slice(out.Candidates, func(i, j int) bool {
		a, b := out.Candidates[i], out.Candidates[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.CandidateID < b.CandidateID
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
