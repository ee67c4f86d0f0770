// OpenAI embedder implementation using sashabaranov/go-openai.
//
// Information Hiding:
// - Embeddings API request/response format
// - Model and dimensionality defaults
package embedding

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIEmbeddingModel is the embedding model used when none is configured.
const DefaultOpenAIEmbeddingModel = openai.AdaEmbeddingV2

// DefaultOpenAIEmbeddingDimensions is the vector length produced by the default model.
const DefaultOpenAIEmbeddingDimensions = 1536

// OpenAIEmbedder implements Embedder using the OpenAI embeddings API.
// OpenAI vectors arrive unit-normalized, so they are returned as-is.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAIEmbedder creates an embedder with the default model.
func NewOpenAIEmbedder(apiKey string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return &OpenAIEmbedder{
		client:     openai.NewClient(apiKey),
		model:      DefaultOpenAIEmbeddingModel,
		dimensions: DefaultOpenAIEmbeddingDimensions,
	}, nil
}

// WithModel overrides the embedding model and its expected dimensionality.
func (e *OpenAIEmbedder) WithModel(model string, dimensions int) *OpenAIEmbedder {
	e.model = openai.EmbeddingModel(model)
	e.dimensions = dimensions
	return e
}

// Embed returns the embedding vector for text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	vector := resp.Data[0].Embedding
	if e.dimensions > 0 && len(vector) != e.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWrongDimensions, len(vector), e.dimensions)
	}

	return vector, nil
}

// Dimensions returns the fixed dimensionality of returned vectors.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Model returns the embedding model identifier.
func (e *OpenAIEmbedder) Model() string {
	return string(e.model)
}

// Verify OpenAIEmbedder implements Embedder
var _ Embedder = (*OpenAIEmbedder)(nil)
