package retrieval

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/embedding"
)

// DocumentChunk is one indexed piece of a source document. Immutable after
// ingest; only chunks whose embedding succeeded are ever stored.
type DocumentChunk struct {
	ID        string
	SourceID  string
	Text      string
	Embedding []float32
}

// ScoredChunk is a single ranked search hit.
type ScoredChunk struct {
	SourceID string
	Text     string
	Score    float64
}

// Index is an in-memory vector index. Batches are added under one write
// lock so a concurrent query sees all of a batch or none of it.
// Ranking is by dot product over pre-normalized embeddings, descending,
// with insertion order breaking ties (first inserted wins).
type Index struct {
	mu         sync.RWMutex
	chunks     []DocumentChunk
	dimensions int // fixed by the first stored batch
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// AddBatch stores a batch of chunks atomically. The whole batch is
// validated before anything is appended, so a bad chunk never leaves a
// partial batch visible. Every chunk must carry an embedding of the
// index's dimensionality (the first batch fixes it).
func (ix *Index) AddBatch(chunks []DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	dims := ix.dimensions
	if dims == 0 {
		dims = len(chunks[0].Embedding)
	}
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %s of %s has no embedding", chunk.ID, chunk.SourceID)
		}
		if len(chunk.Embedding) != dims {
			return fmt.Errorf("chunk %s of %s has %d dimensions, index has %d",
				chunk.ID, chunk.SourceID, len(chunk.Embedding), dims)
		}
	}

	for _, chunk := range chunks {
		// Copy the embedding so later mutation of the caller's slice
		// cannot reach into the index.
		vec := make([]float32, len(chunk.Embedding))
		copy(vec, chunk.Embedding)
		chunk.Embedding = vec
		ix.chunks = append(ix.chunks, chunk)
	}
	ix.dimensions = dims

	return nil
}

// Search returns the top k chunks by dot product against query, descending,
// ties broken by insertion order. Returns nil when the index is empty, k is
// not positive, or the query dimensionality does not match.
func (ix *Index) Search(query []float32, k int) []ScoredChunk {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if k <= 0 || len(ix.chunks) == 0 || len(query) != ix.dimensions {
		return nil
	}

	scored := make([]ScoredChunk, 0, len(ix.chunks))
	for _, chunk := range ix.chunks {
		scored = append(scored, ScoredChunk{
			SourceID: chunk.SourceID,
			Text:     chunk.Text,
			Score:    embedding.DotProduct(query, chunk.Embedding),
		})
	}

	// Stable keeps insertion order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// Remove deletes every chunk belonging to sourceID and returns how many
// were removed. Removing an unknown source is a no-op.
func (ix *Index) Remove(sourceID string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	kept := ix.chunks[:0]
	removed := 0
	for _, chunk := range ix.chunks {
		if chunk.SourceID == sourceID {
			removed++
			continue
		}
		kept = append(kept, chunk)
	}
	ix.chunks = kept

	return removed
}

// Len returns the number of stored chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Dimensions returns the index's fixed dimensionality, 0 until the first
// batch is stored. Removals do not unfix it.
func (ix *Index) Dimensions() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dimensions
}
