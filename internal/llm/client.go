package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is the enrichment surface used by the ingestion commands.
type Client interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// ClassifyStance returns the option the position text supports, or ""
	// when the text takes no clear side.
	ClassifyStance(ctx context.Context, question string, options []string, positionText string) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Embed embeds texts in batches of at most MaxBatchSize.
func (c *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	model := c.client.EmbeddingModel(c.config.EmbeddingModel)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	out := make([][]float64, 0, len(texts))
	for _, chunk := range Chunk(texts, c.config.batchSize()) {
		batch := model.NewBatch()
		for _, text := range chunk {
			batch.AddContent(genai.Text(NormalizeText(text)))
		}

		resp, err := model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch: %w", err)
		}
		if len(resp.Embeddings) != len(chunk) {
			return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(chunk), len(resp.Embeddings))
		}
		for _, e := range resp.Embeddings {
			if e == nil || len(e.Values) == 0 {
				return nil, fmt.Errorf("empty embedding in response")
			}
			out = append(out, ToFloat64(e.Values))
		}
	}
	return out, nil
}

// ClassifyStance asks the stance model which option the text supports.
func (c *GeminiClient) ClassifyStance(ctx context.Context, question string, options []string, positionText string) (string, error) {
	model := c.client.GenerativeModel(c.config.StanceModel)
	model.SetTemperature(0) // deterministic labels
	model.ResponseMIMEType = "application/json"

	prompt := BuildExtractionPrompt(StanceSchema(question, options), positionText)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return ParseStance(text, options)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// ParseStance decodes a stance response and maps it onto one of options.
// An answer outside options is an error; an explicit empty stance is not.
func ParseStance(raw string, options []string) (string, error) {
	var out struct {
		Stance string `json:"stance"`
	}
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return "", fmt.Errorf("failed to parse stance response: %w", err)
	}

	stance := strings.TrimSpace(out.Stance)
	if stance == "" || strings.EqualFold(stance, "none") {
		return "", nil
	}
	for _, opt := range options {
		if strings.EqualFold(stance, strings.TrimSpace(opt)) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("stance %q is not one of the options", stance)
}
