package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCache(t *testing.T) {
	t.Helper()
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}

func TestGet_ValidPrompt(t *testing.T) {
	resetCache(t)

	prompt, err := Get("stances.json", "classify-stance")
	require.NoError(t, err)
	assert.Contains(t, prompt, "nonpartisan policy analyst")
	assert.Contains(t, prompt, "{{.Question}}")
	assert.Contains(t, prompt, "{{.Options}}")
}

func TestGet_InvalidFile(t *testing.T) {
	resetCache(t)

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	resetCache(t)

	_, err := Get("stances.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	resetCache(t)

	assert.Panics(t, func() {
		MustGet("stances.json", "nonexistent-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	resetCache(t)

	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("stances.json", "stance-field"))
	})
}

func TestFormat(t *testing.T) {
	template := "Question: {{.Question}}\nOptions: {{.Options}}"
	data := map[string]string{
		"Question": "Should transit fares be free?",
		"Options":  `"yes", "no"`,
	}

	result := Format(template, data)
	assert.Equal(t, "Question: Should transit fares be free?\nOptions: \"yes\", \"no\"", result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Question: {{.Question}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestCheckPlaceholders(t *testing.T) {
	want := map[string][]string{"classify-stance": {"Question", "Options"}}

	tests := []struct {
		name      string
		templates map[string]string
		wantErr   string
	}{
		{
			name:      "all present",
			templates: map[string]string{"classify-stance": "{{.Question}} / {{.Options}}"},
		},
		{
			name:      "one missing",
			templates: map[string]string{"classify-stance": "Question: {{.Question}}"},
			wantErr:   "prompt file stances.json is missing classify-stance: {{.Options}}",
		},
		{
			name:      "both missing",
			templates: map[string]string{"classify-stance": "Pick one."},
			wantErr:   "prompt file stances.json is missing classify-stance: {{.Options}}, classify-stance: {{.Question}}",
		},
		{
			name:      "prompt missing",
			templates: map[string]string{"stance-field": "One of the options"},
			wantErr:   "prompt file stances.json is missing classify-stance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPlaceholders("stances.json", tt.templates, want)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestEmbeddedFilesHaveRequiredPlaceholders(t *testing.T) {
	for filename := range required {
		resetCache(t)
		_, err := loadFile(filename)
		assert.NoError(t, err, filename)
	}
}

func TestCaching(t *testing.T) {
	resetCache(t)

	prompt1, err := Get("stances.json", "classify-stance")
	require.NoError(t, err)

	cacheMu.RLock()
	_, cached := cache["stances.json"]
	cacheMu.RUnlock()
	assert.True(t, cached)

	prompt2, err := Get("stances.json", "classify-stance")
	require.NoError(t, err)
	assert.Equal(t, prompt1, prompt2)
}
