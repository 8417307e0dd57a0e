package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-match/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "Stance")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  %q: %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Judge only from the text, do not use outside knowledge of the candidate.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// StanceSchema returns the schema for classifying a candidate's position text
// against the options of one specific-choice question.
func StanceSchema(question string, options []string) ExtractionSchema {
	quoted := make([]string, len(options))
	for i, opt := range options {
		quoted[i] = fmt.Sprintf("%q", opt)
	}
	return ExtractionSchema{
		Name: "Stance",
		Description: prompts.Format(prompts.MustGet("stances.json", "classify-stance"), map[string]string{
			"Question": question,
			"Options":  strings.Join(quoted, ", "),
		}),
		Fields: []SchemaField{
			{
				Name:        "stance",
				Type:        "\"string\"",
				Description: prompts.MustGet("stances.json", "stance-field"),
				Required:    true,
			},
		},
	}
}
