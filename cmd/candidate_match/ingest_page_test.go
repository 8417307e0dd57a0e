package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-match/internal/types"
)

const issuesHTML = `<html><body>
<main>
	<h1>Where Casey Stands</h1>
	<h2>Jobs and the Economy</h2>
	<p>Raise the minimum wage.</p>
	<h2>Health Care</h2>
	<p>Expand community clinics.</p>
	<h2>About Casey</h2>
	<p>Grew up here.</p>
</main>
</body></html>`

func newIssuesServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(issuesHTML))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIngestPageCommand(t *testing.T) {
	dbPath := setupEnv(t)
	srv := newIssuesServer(t)

	out, err := runCLI(t, "ingest-page",
		"--url", srv.URL,
		"--candidate", "c",
		"--name", "Casey Cole",
		"--party", "Green")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored 2 positions for c")

	s := openTestStore(t, dbPath)
	ctx := context.Background()

	positions, err := s.GetAllCandidatePositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, types.AreaEconomy, positions[0].PolicyArea)
	assert.Equal(t, "Raise the minimum wage.", positions[0].Position)
	assert.Equal(t, types.AreaHealthcare, positions[1].PolicyArea)
	assert.Equal(t, "Expand community clinics.", positions[1].Position)
	for _, p := range positions {
		assert.NotNil(t, p.ExtractedAt)
		assert.Empty(t, p.Embedding)
	}

	candidates, err := s.GetCandidates(ctx, []string{"c"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, types.Candidate{ID: "c", Name: "Casey Cole", Party: "Green"}, candidates[0])
}

func TestIngestPageCommand_UnknownCandidate(t *testing.T) {
	setupEnv(t)
	srv := newIssuesServer(t)

	_, err := runCLI(t, "ingest-page", "--url", srv.URL, "--candidate", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `candidate "c" not found`)
}

func TestIngestPageCommand_FetchErrors(t *testing.T) {
	setupEnv(t)

	notFound := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(notFound.Close)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h2>About Me</h2><p>Hi.</p></body></html>`))
	}))
	t.Cleanup(empty.Close)

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "unsupported scheme", url: "ftp://example.com/issues", wantErr: "invalid URL"},
		{name: "not found", url: notFound.URL, wantErr: "HTTP status 404"},
		{name: "no policy headings", url: empty.URL, wantErr: "no policy sections found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "ingest-page", "--url", tt.url, "--candidate", "c", "--name", "Casey Cole")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
