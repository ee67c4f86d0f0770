package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/embedding"
)

func TestMain(m *testing.M) {
	// go.opencensus.io (pulled in transitively via google.golang.org/genai)
	// starts a background worker in package init; it is outside this
	// package's control, so exclude it from the leak check.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

// fakeEmbedder produces deterministic three-feature vectors so ranking is
// predictable without a live embedding API.
type fakeEmbedder struct {
	failSubstring string // chunks containing this fail to embed
	failAll       bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.failAll {
		return nil, errors.New("embedding service unavailable")
	}
	if f.failSubstring != "" && strings.Contains(text, f.failSubstring) {
		return nil, errors.New("embedding service unavailable")
	}

	lower := strings.ToLower(text)
	v := []float32{0, 0, 1}
	if strings.Contains(lower, "sky") {
		v[0] = 1
	}
	if strings.Contains(lower, "grass") {
		v[1] = 1
	}
	return embedding.Normalize(v), nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

func (f *fakeEmbedder) Model() string { return "fake-embedder" }

var _ embedding.Embedder = (*fakeEmbedder)(nil)

func newTestEngine(t *testing.T, size, overlap int, emb embedding.Embedder) *Engine {
	t.Helper()
	chunker, err := NewChunker(size, overlap)
	if err != nil {
		t.Fatalf("NewChunker failed: %v", err)
	}
	return NewEngine(emb, chunker)
}

func TestQueryEmptyIndexReturnsEmpty(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	results, err := engine.Query(context.Background(), "anything", DefaultTopK)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result on empty index, got %d", len(results))
	}
}

func TestQueryEmbeddingFailureReturnsEmpty(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	if _, err := engine.Ingest(context.Background(), "doc.txt", "The sky is blue."); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// Same engine, now with a broken embedder path for queries.
	engine.embedder = &fakeEmbedder{failAll: true}

	results, err := engine.Query(context.Background(), "sky", DefaultTopK)
	if err != nil {
		t.Fatalf("expected no error on embedding failure, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result on embedding failure, got %d", len(results))
	}
}

func TestQueryRejectsNegativeK(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	if _, err := engine.Query(context.Background(), "anything", -1); err == nil {
		t.Error("expected error for negative k")
	}
}

func TestQueryZeroKReturnsEmpty(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})
	if _, err := engine.Ingest(context.Background(), "doc.txt", "The sky is blue."); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	results, err := engine.Query(context.Background(), "sky", 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result for k=0, got %d", len(results))
	}
}

func TestIngestDropsFailedChunks(t *testing.T) {
	engine := newTestEngine(t, 5, 0, &fakeEmbedder{failSubstring: "X"})

	stats, err := engine.Ingest(context.Background(), "doc.txt", "aaaaaXbbbbccccc")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if stats.Chunks != 3 {
		t.Fatalf("expected 3 chunks, got %d", stats.Chunks)
	}
	if stats.Dropped != 1 {
		t.Errorf("expected 1 dropped chunk, got %d", stats.Dropped)
	}
	if stats.Stored != 2 {
		t.Errorf("expected 2 stored chunks, got %d", stats.Stored)
	}
	if engine.Len() != 2 {
		t.Errorf("expected 2 indexed chunks, got %d", engine.Len())
	}
}

func TestIngestEmptyText(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	stats, err := engine.Ingest(context.Background(), "doc.txt", "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if stats.Chunks != 0 || stats.Stored != 0 {
		t.Errorf("expected nothing chunked or stored, got %+v", stats)
	}
}

func TestIngestRejectsEmptySourceID(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	if _, err := engine.Ingest(context.Background(), "", "some text"); err == nil {
		t.Error("expected error for empty source id")
	}
}

func TestIngestCancelled(t *testing.T) {
	engine := newTestEngine(t, 5, 0, &fakeEmbedder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Ingest(ctx, "doc.txt", "aaaaabbbbbccccc")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if engine.Len() != 0 {
		t.Errorf("expected nothing indexed after cancellation, got %d", engine.Len())
	}
}

func TestRemoveDropsDocumentChunks(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	if _, err := engine.Ingest(context.Background(), "a.txt", "The sky is blue. Grass is green."); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := engine.Ingest(context.Background(), "b.txt", "Grass everywhere."); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	before := engine.Len()
	removed := engine.Remove("a.txt")
	if removed == 0 {
		t.Fatal("expected chunks removed for a.txt")
	}
	if engine.Len() != before-removed {
		t.Errorf("expected %d chunks left, got %d", before-removed, engine.Len())
	}

	results, err := engine.Query(context.Background(), "sky", DefaultTopK)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for _, r := range results {
		if r.SourceID == "a.txt" {
			t.Errorf("removed source still returned: %+v", r)
		}
	}
}

func TestSkyIsBlueRankedFirst(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	stats, err := engine.Ingest(context.Background(), "facts.txt", "The sky is blue. Grass is green.")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if stats.Stored != 3 {
		t.Fatalf("expected 3 stored chunks, got %d", stats.Stored)
	}

	results, err := engine.Query(context.Background(), "What color is the sky?", DefaultTopK)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !strings.Contains(results[0].Text, "sky is blue") {
		t.Errorf("expected 'sky is blue' chunk first, got %q", results[0].Text)
	}
	if results[0].SourceID != "facts.txt" {
		t.Errorf("expected source 'facts.txt', got %q", results[0].SourceID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("expected strictly best score first, got %v then %v", results[0].Score, results[1].Score)
	}
}

func TestQueryIsDeterministic(t *testing.T) {
	engine := newTestEngine(t, 20, 5, &fakeEmbedder{})

	if _, err := engine.Ingest(context.Background(), "facts.txt", "The sky is blue. Grass is green."); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	first, err := engine.Query(context.Background(), "What color is the sky?", DefaultTopK)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for round := 0; round < 5; round++ {
		again, err := engine.Query(context.Background(), "What color is the sky?", DefaultTopK)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("round %d: expected %d results, got %d", round, len(first), len(again))
		}
		for i := range first {
			if again[i].Text != first[i].Text || again[i].Score != first[i].Score {
				t.Errorf("round %d: result %d differs: %+v vs %+v", round, i, again[i], first[i])
			}
		}
	}
}
