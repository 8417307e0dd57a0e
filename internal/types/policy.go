// Package types provides type definitions for structured data used throughout the candidate-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// PolicyArea is one of the fixed topical categories used to bucket questions,
// positions and per-area scores.
type PolicyArea string

// Recognized policy areas.
const (
	AreaEconomy        PolicyArea = "economy"
	AreaHealthcare     PolicyArea = "healthcare"
	AreaEducation      PolicyArea = "education"
	AreaSecurity       PolicyArea = "security"
	AreaEnvironment    PolicyArea = "environment"
	AreaSocial         PolicyArea = "social"
	AreaInfrastructure PolicyArea = "infrastructure"
)

// PolicyAreas returns all recognized policy areas in canonical order.
func PolicyAreas() []PolicyArea {
	return []PolicyArea{
		AreaEconomy,
		AreaHealthcare,
		AreaEducation,
		AreaSecurity,
		AreaEnvironment,
		AreaSocial,
		AreaInfrastructure,
	}
}

// IsValid reports whether a is one of the recognized policy areas.
func (a PolicyArea) IsValid() bool {
	for _, area := range PolicyAreas() {
		if a == area {
			return true
		}
	}
	return false
}

// QuestionType determines how a UserAnswer for the question is interpreted.
type QuestionType string

// Supported question types.
const (
	QuestionAgreementScale QuestionType = "agreement-scale"
	QuestionSpecificChoice QuestionType = "specific-choice"
)

// Agreement scale bounds. The midpoint is neutral.
const (
	ScaleMin = 1
	ScaleMax = 5
)

// Question is an immutable catalog entry.
type Question struct {
	QuestionID string       `json:"questionId" validate:"required"`
	PolicyArea PolicyArea   `json:"policyArea" validate:"required,policyarea"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type" validate:"required,oneof=agreement-scale specific-choice"`
	Options    []string     `json:"options,omitempty"`
	Embedding  []float64    `json:"embedding"`
	Weight     float64      `json:"weight"`
	BiasScore  *float64     `json:"biasScore,omitempty"`
}

// PolicyPosition is a candidate's stated position on one policy area.
type PolicyPosition struct {
	CandidateID string     `json:"candidateId" validate:"required"`
	PolicyArea  PolicyArea `json:"policyArea" validate:"required,policyarea"`
	Position    string     `json:"position"`
	Embedding   []float64  `json:"embedding"`
	// Stances maps a specific-choice question ID to the option the candidate documented.
	Stances     map[string]string `json:"stances,omitempty"`
	ExtractedAt *time.Time        `json:"extractedAt,omitempty"`
}

// Candidate carries the display data attached to match results.
type Candidate struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Party string `json:"party"`
}

// Catalog is the on-disk shape used by the import, match and quiz commands.
type Catalog struct {
	Candidates []Candidate      `json:"candidates"`
	Questions  []Question       `json:"questions"`
	Positions  []PolicyPosition `json:"positions"`
}
