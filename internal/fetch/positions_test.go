package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-match/internal/types"
)

func TestAreaForHeading(t *testing.T) {
	tests := []struct {
		heading string
		want    types.PolicyArea
		ok      bool
	}{
		{"Jobs & the Economy", types.AreaEconomy, true},
		{"Health Care for All", types.AreaHealthcare, true},
		{"Fixing Our Schools", types.AreaEducation, true},
		{"Public Safety", types.AreaSecurity, true},
		{"CLIMATE ACTION", types.AreaEnvironment, true},
		{"Housing", types.AreaSocial, true},
		{"Roads and Transit", types.AreaInfrastructure, true},
		{"Meet the Candidate", "", false},
		{"Taxpayers", "", false}, // whole words only
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			got, ok := AreaForHeading(tt.heading)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

const issuesPage = `
<html>
<head><meta name="generator" content="WordPress 6.6"></head>
<body>
	<nav><h2>Economy</h2> menu link</nav>
	<div class="entry-content">
		<h1>Where I Stand</h1>
		<p>Intro paragraph.</p>

		<h2>Jobs and the Economy</h2>
		<p>Raise the minimum wage.</p>
		<ul><li>Cut small business taxes.</li></ul>

		<div class="section-title"><h3>Health Care</h3></div>
		<p>Expand community clinics.</p>

		<h2>About Me</h2>
		<p>Grew up here.</p>

		<h2>More on the Economy</h2>
		<p>Ignored, economy already captured.</p>

		<h2>Climate</h2>
		<div class="donate">Chip in</div>
	</div>
	<footer><h2>Education</h2><p>footer text</p></footer>
</body>
</html>`

func TestExtractPositions(t *testing.T) {
	page, err := ExtractPositions(issuesPage)
	require.NoError(t, err)

	assert.Equal(t, PlatformWordPress, page.Platform)
	assert.Equal(t, map[types.PolicyArea]string{
		types.AreaEconomy:    "Raise the minimum wage.\nCut small business taxes.",
		types.AreaHealthcare: "Expand community clinics.",
	}, page.Sections)
}

func TestPageSections_Positions(t *testing.T) {
	page := &PageSections{Sections: map[types.PolicyArea]string{
		types.AreaInfrastructure: "Fix bridges.",
		types.AreaEconomy:        "Lower taxes.",
	}}

	got := page.Positions("cand-1")
	require.Len(t, got, 2)
	assert.Equal(t, types.PolicyPosition{CandidateID: "cand-1", PolicyArea: types.AreaEconomy, Position: "Lower taxes."}, got[0])
	assert.Equal(t, types.AreaInfrastructure, got[1].PolicyArea)
}
