// Package embedding provides text embedding clients for the retrieval layer.
//
// Information Hiding:
// - Embedding API endpoints and authentication
// - Request/response formats per provider
// - Vector normalization guarantees
package embedding

import (
	"context"
	"errors"
)

// Sentinel errors for embedding failures.
var (
	// ErrEmptyText indicates an embedding was requested for empty text.
	ErrEmptyText = errors.New("cannot embed empty text")
	// ErrNoAPIKey indicates the provider API key is not configured.
	ErrNoAPIKey = errors.New("embedding API key not configured")
	// ErrWrongDimensions indicates the provider returned a vector of
	// unexpected length.
	ErrWrongDimensions = errors.New("embedding has unexpected dimensions")
)

// Embedder converts text into a fixed-length vector. Implementations must
// return unit-normalized vectors so callers can rank by dot product alone.
type Embedder interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed dimensionality of returned vectors.
	Dimensions() int

	// Model returns the embedding model identifier.
	Model() string
}
