package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-match/internal/config"
	"github.com/jonathan/candidate-match/internal/types"
)

func TestOpen_EmptyURL(t *testing.T) {
	_, err := Open(t.Context(), config.DatabaseConfig{})
	require.Error(t, err)
}

func TestOpen_SQLiteAndImport(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "nested", "votes.db")

	s, err := Open(ctx, config.DatabaseConfig{URL: "sqlite://" + path})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.CreateSchema(ctx))

	catalog := &types.Catalog{
		Candidates: []types.Candidate{{ID: "A", Name: "Avery Adams", Party: "Blue"}},
		Questions: []types.Question{
			{QuestionID: "q1", PolicyArea: types.AreaEconomy, Text: "Raise the minimum wage", Type: types.QuestionAgreementScale, Weight: 1},
		},
		Positions: []types.PolicyPosition{
			{CandidateID: "A", PolicyArea: types.AreaEconomy, Position: "Supports a higher minimum wage"},
		},
	}
	require.NoError(t, Import(ctx, s, catalog))

	questions, err := s.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Raise the minimum wage", questions[0].Text)

	positions, err := s.GetAllCandidatePositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "A", positions[0].CandidateID)

	// Re-importing is idempotent.
	require.NoError(t, Import(ctx, s, catalog))
	positions, err = s.GetAllCandidatePositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 1)
}
