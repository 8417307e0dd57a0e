package main

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-match/internal/config"
	"github.com/jonathan/candidate-match/internal/llm"
	"github.com/jonathan/candidate-match/internal/localstore"
)

// setupEnv points the CLI at a fresh SQLite file and returns its path.
func setupEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "candidate-match.db")
	t.Setenv("CANDIDATE_MATCH_DATABASE_URL", dbPath)
	t.Setenv("CANDIDATE_MATCH_MATCHING_EMBEDDING_DIM", "0")
	t.Setenv("CANDIDATE_MATCH_AUTH_JWT_SECRET", "")
	t.Setenv("JWT_SECRET", "")
	return dbPath
}

// runCLI executes the root command in-process with args and returns its
// combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func openTestStore(t *testing.T, path string) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeLLM embeds every text as a dim-length vector and answers stance
// questions from a fixed table keyed by position text.
type fakeLLM struct {
	mu       sync.Mutex
	dim      int
	stances  map[string]string
	embedded []string
	asked    int
}

func (f *fakeLLM) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([][]float64, len(texts))
	for i, text := range texts {
		f.embedded = append(f.embedded, text)
		v := make([]float64, f.dim)
		v[0] = float64(len(text))
		out[i] = v
	}
	return out, nil
}

func (f *fakeLLM) ClassifyStance(_ context.Context, _ string, _ []string, positionText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked++
	return f.stances[positionText], nil
}

func (f *fakeLLM) Close() error { return nil }

func useFakeLLM(t *testing.T, f *fakeLLM) {
	t.Helper()
	original := newLLMClient
	newLLMClient = func(context.Context, config.EmbeddingConfig) (llm.Client, error) {
		return f, nil
	}
	t.Cleanup(func() { newLLMClient = original })
}
