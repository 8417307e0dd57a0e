package validation

import (
	"math"
	"testing"

	"github.com/jonathan/candidate-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id string, area types.PolicyArea, embedding []float64, weight float64) types.Question {
	return types.Question{
		QuestionID: id,
		PolicyArea: area,
		Type:       types.QuestionAgreementScale,
		Embedding:  embedding,
		Weight:     weight,
	}
}

func position(candidate string, area types.PolicyArea, embedding []float64) types.PolicyPosition {
	return types.PolicyPosition{
		CandidateID: candidate,
		PolicyArea:  area,
		Position:    "stance",
		Embedding:   embedding,
	}
}

func TestValidator_Questions(t *testing.T) {
	v := New(3)

	questions := []types.Question{
		question("q1", types.AreaEconomy, []float64{1, 0, 0}, 1),
		question("q2", types.AreaEconomy, []float64{1, 0}, 1),               // wrong dimension
		question("q3", types.AreaEconomy, nil, 1),                           // missing embedding
		question("q4", types.AreaEconomy, []float64{1, 0, 0}, 0),            // zero weight
		question("q5", types.AreaEconomy, []float64{1, 0, 0}, -2),           // negative weight
		question("", types.AreaEconomy, []float64{1, 0, 0}, 1),              // missing id
		question("q7", "foreign", []float64{1, 0, 0}, 1),                    // unknown area
		question("q8", types.AreaEconomy, []float64{math.NaN(), 0, 0}, 1),   // not numeric
		question("q9", types.AreaHealthcare, []float64{0.1, 0.2, 0.3}, 0.5), // valid
	}
	questions = append(questions, types.Question{
		QuestionID: "q10", PolicyArea: types.AreaSocial, Type: "free-text",
		Embedding: []float64{1, 1, 1}, Weight: 1,
	})

	valid, report := v.Questions(questions)
	require.Len(t, valid, 2)
	assert.Equal(t, "q1", valid[0].QuestionID)
	assert.Equal(t, "q9", valid[1].QuestionID)

	assert.Equal(t, 10, report.Total)
	assert.Equal(t, 2, report.Valid)
	assert.Equal(t, 8, report.Dropped)
	assert.Equal(t, 3, report.Reasons[ReasonEmbedding])
	assert.Equal(t, 2, report.Reasons[ReasonWeight])
	assert.Equal(t, 3, report.Reasons[ReasonStructure])
	assert.False(t, report.AllInvalid())
}

func TestValidator_Positions(t *testing.T) {
	v := New(2)

	positions := []types.PolicyPosition{
		position("a", types.AreaEconomy, []float64{1, 0}),
		position("a", types.AreaEconomy, []float64{0, 1}), // duplicate, first wins
		position("a", types.AreaSocial, []float64{0, 1}),
		position("b", "space", []float64{0, 1}),
		position("b", types.AreaSecurity, []float64{}),
		position("", types.AreaSecurity, []float64{1, 1}),
		position("c", types.AreaSecurity, []float64{1, 1, 1}),
	}

	valid, report := v.Positions(positions)
	require.Len(t, valid, 2)
	assert.Equal(t, []float64{1, 0}, valid[0].Embedding)
	assert.Equal(t, types.AreaSocial, valid[1].PolicyArea)

	assert.Equal(t, 5, report.Dropped)
	assert.Equal(t, 1, report.Reasons[ReasonDuplicate])
	assert.Equal(t, 1, report.Reasons[ReasonPolicyArea])
	assert.Equal(t, 2, report.Reasons[ReasonEmbedding])
	assert.Equal(t, 1, report.Reasons[ReasonStructure])
}

func TestValidator_ZeroDimensionAcceptsAnyLength(t *testing.T) {
	v := New(0)
	valid, _ := v.Questions([]types.Question{
		question("q1", types.AreaEconomy, []float64{1}, 1),
		question("q2", types.AreaEconomy, []float64{1, 2, 3}, 1),
	})
	assert.Len(t, valid, 2)
}

func TestValidator_AllInvalid(t *testing.T) {
	v := New(3)
	_, report := v.Positions([]types.PolicyPosition{
		position("a", types.AreaEconomy, nil),
		position("b", "nowhere", []float64{1, 2, 3}),
	})
	assert.True(t, report.AllInvalid())

	_, empty := v.Positions(nil)
	assert.False(t, empty.AllInvalid(), "an empty batch is absence, not corruption")
}

func TestInferDimension(t *testing.T) {
	assert.Equal(t, 0, InferDimension(nil))
	assert.Equal(t, 3, InferDimension([]types.Question{
		{QuestionID: "q0"},
		{QuestionID: "q1", Embedding: []float64{1, 2, 3}},
		{QuestionID: "q2", Embedding: []float64{1, 2}},
	}))
}

func TestValidator_DoesNotMutateInput(t *testing.T) {
	v := New(2)
	positions := []types.PolicyPosition{
		position("a", types.AreaEconomy, []float64{1, 0}),
		position("a", types.AreaEconomy, []float64{0, 1}),
	}
	snapshot := append([]types.PolicyPosition(nil), positions...)

	_, _ = v.Positions(positions)
	assert.Equal(t, snapshot, positions)
}
