package validation

import (
	"testing"

	"github.com/jonathan/candidate-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importCatalog() *types.Catalog {
	return &types.Catalog{
		Candidates: []types.Candidate{
			{ID: "a", Name: "Avery Adams", Party: "Blue"},
			{ID: "b", Name: "Blair Brooks"},
		},
		Questions: []types.Question{
			{QuestionID: "q1", PolicyArea: types.AreaEconomy, Type: types.QuestionAgreementScale, Embedding: []float64{1, 0}, Weight: 1},
			{QuestionID: "q2", PolicyArea: types.AreaSocial, Type: types.QuestionSpecificChoice, Options: []string{"yes", "no"}, Weight: 2},
		},
		Positions: []types.PolicyPosition{
			{CandidateID: "a", PolicyArea: types.AreaEconomy, Position: "Lower taxes.", Embedding: []float64{0, 1}},
			{CandidateID: "a", PolicyArea: types.AreaSocial, Position: "Yes.", Stances: map[string]string{"q2": "Yes"}},
			{CandidateID: "b", PolicyArea: types.AreaSocial, Position: "No."},
		},
	}
}

func TestCatalog_Valid(t *testing.T) {
	require.NoError(t, Catalog(importCatalog()))
}

func TestCatalog_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *types.Catalog)
		want   string
	}{
		{
			name:   "duplicate candidate",
			mutate: func(c *types.Catalog) { c.Candidates = append(c.Candidates, types.Candidate{ID: "a", Name: "Again"}) },
			want:   `candidates[2]: duplicate id "a"`,
		},
		{
			name:   "candidate without name",
			mutate: func(c *types.Catalog) { c.Candidates[1].Name = "" },
			want:   "candidates[1]: validation error",
		},
		{
			name: "duplicate question",
			mutate: func(c *types.Catalog) {
				c.Questions = append(c.Questions, c.Questions[0])
			},
			want: `questions[2]: duplicate id "q1"`,
		},
		{
			name:   "non-positive weight",
			mutate: func(c *types.Catalog) { c.Questions[0].Weight = 0 },
			want:   "questions[0]: weight must be positive",
		},
		{
			name:   "choice without options",
			mutate: func(c *types.Catalog) { c.Questions[1].Options = []string{"yes"} },
			want:   "questions[1]: specific-choice question needs at least 2 options",
		},
		{
			name:   "unknown area",
			mutate: func(c *types.Catalog) { c.Positions[0].PolicyArea = "foreign" },
			want:   "positions[0]: validation error",
		},
		{
			name:   "unknown candidate",
			mutate: func(c *types.Catalog) { c.Positions[2].CandidateID = "z" },
			want:   `positions[2]: unknown candidate "z"`,
		},
		{
			name: "duplicate position",
			mutate: func(c *types.Catalog) {
				c.Positions = append(c.Positions, types.PolicyPosition{CandidateID: "b", PolicyArea: types.AreaSocial})
			},
			want: "positions[3]: duplicate position for b/social",
		},
		{
			name:   "embedding length",
			mutate: func(c *types.Catalog) { c.Positions[0].Embedding = []float64{1, 2, 3} },
			want:   "positions[0]: embedding has 3 values, want 2",
		},
		{
			name:   "stance for unknown question",
			mutate: func(c *types.Catalog) { c.Positions[1].Stances = map[string]string{"q9": "yes"} },
			want:   `positions[1]: stance for unknown question "q9"`,
		},
		{
			name:   "stance for agreement question",
			mutate: func(c *types.Catalog) { c.Positions[1].Stances = map[string]string{"q1": "yes"} },
			want:   `positions[1]: stance for non-choice question "q1"`,
		},
		{
			name:   "stance in another area",
			mutate: func(c *types.Catalog) { c.Positions[0].Stances = map[string]string{"q2": "yes"} },
			want:   `positions[0]: stance for question "q2" in area social`,
		},
		{
			name:   "stance option unknown",
			mutate: func(c *types.Catalog) { c.Positions[1].Stances = map[string]string{"q2": "maybe"} },
			want:   `positions[1]: stance "maybe" is not an option of "q2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := importCatalog()
			tt.mutate(c)

			err := Catalog(c)
			require.Error(t, err)

			var catalogErr *CatalogError
			require.ErrorAs(t, err, &catalogErr)
			require.NotEmpty(t, catalogErr.Problems)
			assert.Contains(t, catalogErr.Problems[0], tt.want)
		})
	}
}

func TestCatalogError_Message(t *testing.T) {
	err := &CatalogError{Problems: []string{"first", "second"}}
	assert.Equal(t, "catalog rejected: 2 problem(s)\n  - first\n  - second", err.Error())
}
