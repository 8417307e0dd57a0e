package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "text-embedding-004", config.EmbeddingModel)
	assert.Equal(t, "gemini-2.5-flash", config.StanceModel)
	assert.Equal(t, MaxBatchSize, config.batchSize())
}

func TestWithEmbeddingModel(t *testing.T) {
	config := DefaultConfig()
	custom := config.WithEmbeddingModel("embedding-001")

	// Original should be unchanged
	assert.Equal(t, "text-embedding-004", config.EmbeddingModel)
	assert.Equal(t, "embedding-001", custom.EmbeddingModel)
	assert.Equal(t, config.StanceModel, custom.StanceModel)

	assert.Equal(t, "text-embedding-004", config.WithEmbeddingModel("").EmbeddingModel)
}

func TestBatchSize_Clamped(t *testing.T) {
	assert.Equal(t, MaxBatchSize, (&Config{}).batchSize())
	assert.Equal(t, MaxBatchSize, (&Config{BatchSize: 500}).batchSize())
	assert.Equal(t, 10, (&Config{BatchSize: 10}).batchSize())
}
