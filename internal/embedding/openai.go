// ABOUTME: Remote embedder for OpenAI-compatible embedding endpoints
// ABOUTME: Wraps go-openai CreateEmbeddings with a per-call timeout and dimension check
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/2jang/Pawsonality/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultEmbeddingModel is used when no model is configured
const DefaultEmbeddingModel = openai.SmallEmbedding3

// OpenAIConfig configures the remote embedder
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// OpenAIEmbedder embeds text through an OpenAI-compatible API
type OpenAIEmbedder struct {
	client   *openai.Client
	model    openai.EmbeddingModel
	dim      int
	timeout  time.Duration
	maxRunes int
}

// NewOpenAIEmbedder creates a remote embedder. The dimension must match the
// model output; mismatched responses are rejected.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", cfg.Dimension)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = DefaultEmbeddingModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OpenAIEmbedder{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		dim:      cfg.Dimension,
		timeout:  timeout,
		maxRunes: DefaultMaxInputRunes,
	}, nil
}

// Name identifies the remote model
func (e *OpenAIEmbedder) Name() string { return "openai:" + string(e.model) }

// Dimension returns the expected vector length
func (e *OpenAIEmbedder) Dimension() int { return e.dim }

// Embed requests one embedding and converts it to float64
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := checkInput(text, e.maxRunes); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", models.ErrEmbeddingUnavailable)
	}

	embedding32 := resp.Data[0].Embedding
	if len(embedding32) != e.dim {
		return nil, fmt.Errorf("%w: %w: expected %d, got %d", models.ErrEmbeddingUnavailable, models.ErrDimensionMismatch, e.dim, len(embedding32))
	}

	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}
	return embedding64, nil
}
