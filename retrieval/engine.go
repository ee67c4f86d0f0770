package retrieval

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/embedding"
)

// DefaultTopK is the number of chunks returned by a query when the caller
// does not choose otherwise.
const DefaultTopK = 3

// IngestStats reports what happened to one document's chunks during ingest.
type IngestStats struct {
	Chunks  int // windows produced by the chunker
	Stored  int // chunks embedded and added to the index
	Dropped int // chunks whose embedding failed
}

// Engine orchestrates chunking and embedding on ingest, and similarity
// ranking on query. It owns the index; callers share the engine, not the
// index.
type Engine struct {
	embedder embedding.Embedder
	chunker  *Chunker
	index    *Index
	verbose  bool
}

// NewEngine creates an engine over the given embedder and chunker.
func NewEngine(embedder embedding.Embedder, chunker *Chunker) *Engine {
	return &Engine{
		embedder: embedder,
		chunker:  chunker,
		index:    NewIndex(),
	}
}

// Verbose enables progress logging. Returns the engine for chaining.
func (e *Engine) Verbose(v bool) *Engine {
	e.verbose = v
	return e
}

// Ingest chunks text, embeds each chunk, and stores the survivors in one
// atomic index batch. Per-chunk embeddings run concurrently since chunks
// are independent. A chunk whose embedding fails is dropped and logged;
// the rest of the document still becomes searchable. The returned error
// covers only validation and cancellation, never a per-chunk failure.
func (e *Engine) Ingest(ctx context.Context, sourceID, text string) (IngestStats, error) {
	var stats IngestStats

	if sourceID == "" {
		return stats, fmt.Errorf("source id must not be empty")
	}

	chunks := e.chunker.ChunkAll(text)
	stats.Chunks = len(chunks)
	if len(chunks) == 0 {
		return stats, nil
	}

	// Fan out one embedding request per chunk; each goroutine writes only
	// its own slot, so the join needs no extra locking.
	embedded := make([]DocumentChunk, len(chunks))
	succeeded := make([]bool, len(chunks))

	var wg sync.WaitGroup
	for i, chunkText := range chunks {
		wg.Add(1)
		go func(slot int, text string) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			vector, err := e.embedder.Embed(ctx, text)
			if err != nil {
				log.Printf("warning: dropping chunk %d of %s: %v", slot+1, sourceID, err)
				return
			}
			embedded[slot] = DocumentChunk{
				ID:        uuid.New().String(),
				SourceID:  sourceID,
				Text:      text,
				Embedding: vector,
			}
			succeeded[slot] = true
		}(i, chunkText)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	batch := make([]DocumentChunk, 0, len(chunks))
	for i := range embedded {
		if succeeded[i] {
			batch = append(batch, embedded[i])
		}
	}
	stats.Stored = len(batch)
	stats.Dropped = stats.Chunks - stats.Stored

	if len(batch) > 0 {
		if err := e.index.AddBatch(batch); err != nil {
			return stats, fmt.Errorf("failed to index %s: %w", sourceID, err)
		}
	}

	if e.verbose {
		log.Printf("ingested %s: %d chunks stored, %d dropped", sourceID, stats.Stored, stats.Dropped)
	}

	return stats, nil
}

// Query embeds text and returns the top k chunks ranked by dot product.
// An embedding failure or an empty index yields an empty result, not an
// error: absent retrieval context is a valid outcome. Only cancellation
// and invalid k surface as errors. k must be >= 0.
func (e *Engine) Query(ctx context.Context, text string, k int) ([]ScoredChunk, error) {
	if k < 0 {
		return nil, fmt.Errorf("top-k must be non-negative, got %d", k)
	}
	if k == 0 || e.index.Len() == 0 {
		return []ScoredChunk{}, nil
	}

	vector, err := e.embedder.Embed(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("warning: query embedding failed: %v", err)
		return []ScoredChunk{}, nil
	}

	results := e.index.Search(vector, k)
	if results == nil {
		return []ScoredChunk{}, nil
	}
	return results, nil
}

// Remove deletes every indexed chunk of sourceID and returns the count.
func (e *Engine) Remove(sourceID string) int {
	return e.index.Remove(sourceID)
}

// Len returns the number of chunks currently indexed.
func (e *Engine) Len() int {
	return e.index.Len()
}
