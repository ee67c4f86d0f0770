// Gemini embedder implementation using official google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication and client creation
// - EmbedContent request/response format
// - Normalization of returned vectors
package embedding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiEmbeddingModel is the embedding model used when none is configured.
const DefaultGeminiEmbeddingModel = "text-embedding-004"

// DefaultGeminiEmbeddingDimensions is the vector length produced by the default model.
const DefaultGeminiEmbeddingDimensions = 768

// GeminiEmbedder implements Embedder using the Gemini embedding API.
// Gemini vectors are not guaranteed unit-length, so they are normalized
// before being returned.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
	initErr    error // Stores client initialization error for deferred reporting
}

// NewGeminiEmbedder creates an embedder with the default model.
// If client initialization fails, the error is stored and returned on first use.
func NewGeminiEmbedder(apiKey string) *GeminiEmbedder {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return &GeminiEmbedder{
			model:      DefaultGeminiEmbeddingModel,
			dimensions: DefaultGeminiEmbeddingDimensions,
			initErr:    fmt.Errorf("failed to initialize Gemini client: %w", err),
		}
	}

	return &GeminiEmbedder{
		client:     client,
		model:      DefaultGeminiEmbeddingModel,
		dimensions: DefaultGeminiEmbeddingDimensions,
	}
}

// WithModel overrides the embedding model and its expected dimensionality.
func (e *GeminiEmbedder) WithModel(model string, dimensions int) *GeminiEmbedder {
	e.model = model
	e.dimensions = dimensions
	return e
}

// Embed returns the embedding vector for text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.initErr != nil {
		return nil, e.initErr
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	vector := resp.Embeddings[0].Values
	if e.dimensions > 0 && len(vector) != e.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWrongDimensions, len(vector), e.dimensions)
	}

	return Normalize(vector), nil
}

// Dimensions returns the fixed dimensionality of returned vectors.
func (e *GeminiEmbedder) Dimensions() int {
	return e.dimensions
}

// Model returns the embedding model identifier.
func (e *GeminiEmbedder) Model() string {
	return e.model
}

// Verify GeminiEmbedder implements Embedder
var _ Embedder = (*GeminiEmbedder)(nil)
