package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedCommand(t *testing.T) {
	dbPath := setupEnv(t)
	t.Setenv("CANDIDATE_MATCH_MATCHING_EMBEDDING_DIM", "3")

	fake := &fakeLLM{dim: 3}
	useFakeLLM(t, fake)

	_, err := runCLI(t, "import", "--file", "testdata/raw_catalog.json")
	require.NoError(t, err)

	out, err := runCLI(t, "embed")
	require.NoError(t, err)
	assert.Contains(t, out, "Embedded 2 questions and 4 positions")
	assert.Len(t, fake.embedded, 6)
	assert.Contains(t, fake.embedded, "The minimum wage should rise.")

	s := openTestStore(t, dbPath)
	questions, err := s.ListQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, []float64{float64(len("The minimum wage should rise.")), 0, 0}, questions[0].Embedding)
	require.NoError(t, s.Close())

	out, err = runCLI(t, "embed")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to embed.")

	out, err = runCLI(t, "embed", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Embedded 2 questions and 4 positions")
	assert.Len(t, fake.embedded, 12)
}

func TestEmbedCommand_EmbeddedCatalogScores(t *testing.T) {
	setupEnv(t)
	useFakeLLM(t, &fakeLLM{dim: 3})

	_, err := runCLI(t, "import", "--file", "testdata/raw_catalog.json")
	require.NoError(t, err)
	_, err = runCLI(t, "embed")
	require.NoError(t, err)

	out, err := runCLI(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions: 2 of 2 usable")
	assert.Contains(t, out, "Positions: 4 of 4 usable")
}

func TestEmbedCommand_DimensionMismatch(t *testing.T) {
	setupEnv(t)
	t.Setenv("CANDIDATE_MATCH_MATCHING_EMBEDDING_DIM", "4")
	useFakeLLM(t, &fakeLLM{dim: 3})

	_, err := runCLI(t, "import", "--file", "testdata/raw_catalog.json")
	require.NoError(t, err)

	_, err = runCLI(t, "embed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matching.embedding_dim is 4")
}
