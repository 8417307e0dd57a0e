package types

import "time"

// AggregatedStats is one shard's counters, or the merge of all shards.
type AggregatedStats struct {
	StatsID        string         `json:"statsId"`
	TotalMatches   int            `json:"totalMatches"`
	TotalQuestions int            `json:"totalQuestions"`
	CandidateStats map[string]int `json:"candidateStats"`
	LastUpdated    time.Time      `json:"lastUpdated"`
}

// PublicStats is the anonymized summary served to quiz takers. It carries no
// candidate identifiers.
type PublicStats struct {
	TotalMatches     int           `json:"totalMatches"`
	AverageQuestions float64       `json:"averageQuestions"`
	TopResults       []RankedShare `json:"topResults"`
}

// RankedShare is one anonymized entry of PublicStats.TopResults.
type RankedShare struct {
	Rank       int     `json:"rank"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// DisclosedStats is the per-candidate breakdown served once results are unsealed.
type DisclosedStats struct {
	TotalMatches     int              `json:"totalMatches"`
	AverageQuestions float64          `json:"averageQuestions"`
	Candidates       []CandidateShare `json:"candidates"`
	LastUpdated      time.Time        `json:"lastUpdated"`
}

// CandidateShare is one candidate's share of recorded top matches.
type CandidateShare struct {
	CandidateID string  `json:"candidateId"`
	Name        string  `json:"name,omitempty"`
	Party       string  `json:"party,omitempty"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// StatsIncrement is the delta applied to one shard when a match is recorded.
type StatsIncrement struct {
	CandidateID       string
	QuestionsAnswered int
	At                time.Time
}
