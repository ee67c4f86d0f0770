// Package retrieval implements document chunking, the in-memory vector
// index, and the engine that ties them to an embedding provider.
//
// Information Hiding:
// - Chunk window arithmetic
// - Index locking discipline and ranking order
// - Per-chunk embedding fan-out during ingest
package retrieval

import (
	"fmt"
	"iter"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits document text into overlapping fixed-size windows.
// Chunk i starts at i*(size-overlap); the final chunk may be shorter.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. The overlap must be smaller than the size;
// violating that is a configuration error, not something to clamp silently.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// NewDefaultChunker creates a chunker with the default window parameters.
func NewDefaultChunker() *Chunker {
	return &Chunker{size: DefaultChunkSize, overlap: DefaultChunkOverlap}
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured chunk overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunks returns a lazy, restartable sequence of windows over text.
// Empty text yields nothing. Ranging over the sequence twice replays it
// from the start.
func (c *Chunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}
		step := c.size - c.overlap
		for start := 0; start < len(text); start += step {
			end := start + c.size
			if end > len(text) {
				end = len(text)
			}
			if !yield(text[start:end]) {
				return
			}
		}
	}
}

// ChunkAll materializes the full chunk sequence for text.
func (c *Chunker) ChunkAll(text string) []string {
	if text == "" {
		return nil
	}
	estimated := len(text)/(c.size-c.overlap) + 1
	chunks := make([]string, 0, estimated)
	for chunk := range c.Chunks(text) {
		chunks = append(chunks, chunk)
	}
	return chunks
}
