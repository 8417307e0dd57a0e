package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCommand(t *testing.T) {
	dbPath := setupEnv(t)

	out, err := runCLI(t, "import", "--file", "testdata/catalog.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 candidates, 2 questions, 4 positions")

	// Importing again updates in place.
	_, err = runCLI(t, "import", "--file", "testdata/catalog.json")
	require.NoError(t, err)

	s := openTestStore(t, dbPath)
	ctx := context.Background()

	positions, err := s.GetAllCandidatePositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 4)
	assert.Equal(t, "expand", positions[2].Stances["q2"])

	candidates, err := s.GetCandidates(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestImportCommand_Rejected(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	duplicate := filepath.Join(dir, "duplicate.json")
	require.NoError(t, os.WriteFile(duplicate, []byte(`{
		"candidates": [{"id": "a", "name": "Avery Adams"}],
		"questions": [],
		"positions": [
			{"candidateId": "a", "policyArea": "economy", "position": "One."},
			{"candidateId": "a", "policyArea": "economy", "position": "Two."}
		]
	}`), 0o644))

	badArea := filepath.Join(dir, "bad_area.json")
	require.NoError(t, os.WriteFile(badArea, []byte(`{
		"candidates": [],
		"questions": [],
		"positions": [{"candidateId": "a", "policyArea": "taxes"}]
	}`), 0o644))

	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{name: "duplicate position", file: duplicate, wantErr: "duplicate position for a/economy"},
		{name: "schema violation", file: badArea, wantErr: "positions.0.policyArea"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "import", "--file", tt.file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportCommand_MissingFileFlag(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "file" not set`)
}

func TestMigrateCommand(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date.")
}
