// Package llm wraps the Gemini API for offline catalog enrichment: text
// embeddings for questions and positions, and stance classification for
// specific-choice questions.
package llm

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// MaxBatchSize is the largest number of texts sent in one embedding call.
const MaxBatchSize = 100

// Config holds the model configuration for enrichment.
type Config struct {
	Provider Provider
	// EmbeddingModel produces question and position vectors. Both sides must
	// use the same model or cosine scores are meaningless.
	EmbeddingModel string
	// StanceModel classifies position text against choice options.
	StanceModel string
	BatchSize   int
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		EmbeddingModel: "text-embedding-004",
		StanceModel:    "gemini-2.5-flash",
		BatchSize:      MaxBatchSize,
	}
}

// WithEmbeddingModel returns a copy of c using model for embeddings.
func (c *Config) WithEmbeddingModel(model string) *Config {
	out := *c
	if model != "" {
		out.EmbeddingModel = model
	}
	return &out
}

func (c *Config) batchSize() int {
	if c.BatchSize <= 0 || c.BatchSize > MaxBatchSize {
		return MaxBatchSize
	}
	return c.BatchSize
}
