// Session builder for fluent configuration.
//
// Information Hiding:
// - Component wiring order hidden
// - Default value application hidden

package assistant

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/capability"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/embedding"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/orchestration"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/storage"
)

// Builder provides fluent configuration for creating sessions.
// Usage: assistant.NewBuilder(client, embedder) - no stutter.
type Builder struct {
	id            string
	client        *llm.Client
	embedder      embedding.Embedder
	chunker       *retrieval.Chunker
	sink          orchestration.ProgressSink
	store         storage.ConversationStorage
	topK          int
	historyWindow int
	verbose       bool
}

// NewBuilder creates a session builder over the given language-model client
// and embedder.
func NewBuilder(client *llm.Client, embedder embedding.Embedder) *Builder {
	return &Builder{
		client:   client,
		embedder: embedder,
	}
}

// SessionID sets the session id. Empty means a generated UUID.
func (b *Builder) SessionID(id string) *Builder {
	b.id = id
	return b
}

// Chunker overrides the default chunk window parameters.
func (b *Builder) Chunker(chunker *retrieval.Chunker) *Builder {
	b.chunker = chunker
	return b
}

// Progress directs step progress notifications to the given sink.
func (b *Builder) Progress(sink orchestration.ProgressSink) *Builder {
	b.sink = sink
	return b
}

// Persistence saves the conversation after every response. When the store
// also implements storage.DocumentStorage, uploaded documents persist too.
func (b *Builder) Persistence(store storage.ConversationStorage) *Builder {
	b.store = store
	return b
}

// TopK sets how many chunks knowledge questions retrieve. Zero keeps the
// retrieval default.
func (b *Builder) TopK(k int) *Builder {
	b.topK = k
	return b
}

// HistoryWindow sets how many trailing turns the planner sees.
func (b *Builder) HistoryWindow(turns int) *Builder {
	b.historyWindow = turns
	return b
}

// Verbose enables progress logging across the session's components.
func (b *Builder) Verbose(enabled bool) *Builder {
	b.verbose = enabled
	return b
}

// Build wires the session together.
func (b *Builder) Build() (*Session, error) {
	if b.client == nil {
		return nil, fmt.Errorf("session requires a language-model client")
	}
	if b.embedder == nil {
		return nil, fmt.Errorf("session requires an embedder")
	}

	id := b.id
	if id == "" {
		id = uuid.NewString()
	}

	chunker := b.chunker
	if chunker == nil {
		chunker = retrieval.NewDefaultChunker()
	}

	engine := retrieval.NewEngine(b.embedder, chunker).Verbose(b.verbose)
	documents := storage.NewDocumentStore()

	registry, err := capability.DefaultRegistry(b.client, engine, documents, capability.Config{TopK: b.topK})
	if err != nil {
		return nil, err
	}

	planner := orchestration.NewPlanner(b.client, registry).Verbose(b.verbose)
	if b.historyWindow > 0 {
		planner.HistoryWindow(b.historyWindow)
	}

	executor := orchestration.NewExecutor(registry).Verbose(b.verbose)
	if b.sink != nil {
		executor.WithProgress(b.sink)
	}

	session := &Session{
		id:            id,
		client:        b.client,
		registry:      registry,
		planner:       planner,
		executor:      executor,
		engine:        engine,
		documents:     documents,
		conversations: b.store,
	}
	if docStore, ok := b.store.(storage.DocumentStorage); ok {
		session.documentStore = docStore
	}

	return session, nil
}
