// Package prompts holds the LLM prompt templates used during catalog
// enrichment. Templates live in embedded JSON files keyed by prompt name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// required lists, per file and prompt, the placeholders a template must
// contain. A file whose template lacks one fails to load.
var required = map[string]map[string][]string{
	"stances.json": {
		"classify-stance": {"Question", "Options"},
	},
}

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get returns the prompt called key from filename (e.g. "stances.json").
func Get(filename, key string) (string, error) {
	templates, err := loadFile(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts needed at initialization. It panics on error.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes each {{.Key}} placeholder with data[Key]. Placeholders
// without a value are left as they are.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, placeholder(key), value)
	}
	return result
}

func placeholder(name string) string {
	return "{{." + name + "}}"
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	templates, ok := cache[filename]
	cacheMu.RUnlock()
	if ok {
		return templates, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}
	if err := checkPlaceholders(filename, templates, required[filename]); err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[filename] = templates
	cacheMu.Unlock()
	return templates, nil
}

// checkPlaceholders reports every required placeholder missing from
// templates, including prompts that are missing entirely.
func checkPlaceholders(filename string, templates map[string]string, want map[string][]string) error {
	var missing []string
	for key, names := range want {
		text, ok := templates[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		for _, name := range names {
			if !strings.Contains(text, placeholder(name)) {
				missing = append(missing, key+": "+placeholder(name))
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("prompt file %s is missing %s", filename, strings.Join(missing, ", "))
}
