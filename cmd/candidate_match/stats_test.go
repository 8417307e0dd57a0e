package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-match/internal/config"
	"github.com/jonathan/candidate-match/internal/server"
	"github.com/jonathan/candidate-match/internal/types"
)

func seedStats(t *testing.T, dbPath string) {
	t.Helper()
	s := openTestStore(t, dbPath)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	increments := []struct {
		shard string
		inc   types.StatsIncrement
	}{
		{"global-0", types.StatsIncrement{CandidateID: "a", QuestionsAnswered: 10, At: at}},
		{"global-7", types.StatsIncrement{CandidateID: "a", QuestionsAnswered: 12, At: at}},
		{"global-42", types.StatsIncrement{CandidateID: "b", QuestionsAnswered: 5, At: at}},
	}
	for _, i := range increments {
		require.NoError(t, s.IncrementShard(ctx, i.shard, i.inc))
	}
	require.NoError(t, s.Close())
}

func TestStatsCommand_Public(t *testing.T) {
	dbPath := setupEnv(t)

	_, err := runCLI(t, "import", "--file", "testdata/catalog.json")
	require.NoError(t, err)
	seedStats(t, dbPath)

	out, err := runCLI(t, "stats", "--format", "json")
	require.NoError(t, err)

	var public types.PublicStats
	require.NoError(t, json.Unmarshal([]byte(out), &public))
	assert.Equal(t, 3, public.TotalMatches)
	assert.Equal(t, 9.0, public.AverageQuestions)
	require.Len(t, public.TopResults, 2)
	assert.Equal(t, types.RankedShare{Rank: 1, Percentage: 66.7, Count: 2}, public.TopResults[0])
	assert.NotContains(t, out, "Avery")
}

func TestStatsCommand_Disclosed(t *testing.T) {
	dbPath := setupEnv(t)

	_, err := runCLI(t, "import", "--file", "testdata/catalog.json")
	require.NoError(t, err)
	seedStats(t, dbPath)

	out, err := runCLI(t, "stats", "--disclosed", "--format", "json")
	require.NoError(t, err)

	var disclosed types.DisclosedStats
	require.NoError(t, json.Unmarshal([]byte(out), &disclosed))
	require.Len(t, disclosed.Candidates, 2)
	assert.Equal(t, "Avery Adams", disclosed.Candidates[0].Name)
	assert.Equal(t, 2, disclosed.Candidates[0].Count)
	assert.Equal(t, "Blair Brooks", disclosed.Candidates[1].Name)

	out, err = runCLI(t, "stats", "--disclosed")
	require.NoError(t, err)
	assert.Contains(t, out, "Avery Adams")
}

func TestStatsCommand_Empty(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "migrate")
	require.NoError(t, err)

	out, err := runCLI(t, "stats", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalMatches": 0, "averageQuestions": 0, "topResults": []}`, out)
}

func TestTokenCommand(t *testing.T) {
	setupEnv(t)
	secret := "an-admin-secret-of-some-length"
	t.Setenv("CANDIDATE_MATCH_AUTH_JWT_SECRET", secret)

	out, err := runCLI(t, "token", "--subject", "operator")
	require.NoError(t, err)

	svc := server.NewJWTService(&config.JWTConfig{Secret: secret, ExpirationHours: 24})
	claims, err := svc.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Identity())
	assert.True(t, claims.IsAdmin())
}

func TestTokenCommand_NoSecret(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "token", "--subject", "operator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}
