package main

import (
	"context"
	"fmt"

	"github.com/jonathan/candidate-match/internal/config"
	"github.com/jonathan/candidate-match/internal/llm"
)

// newLLMClient builds the embedding and stance client. Tests replace it.
var newLLMClient = func(ctx context.Context, cfg config.EmbeddingConfig) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return llm.NewClient(ctx, llm.DefaultConfig().WithEmbeddingModel(cfg.Model), cfg.APIKey)
}
