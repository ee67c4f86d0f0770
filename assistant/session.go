// Package assistant ties planning, execution, retrieval, and persistence
// together into one interactive session.
//
// Information Hiding:
// - Turn bookkeeping and persistence timing hidden
// - Document replace and re-ingest ordering hidden
// - Token accounting across planner and capability calls hidden
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/capability"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/orchestration"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/storage"
)

// Session owns one conversation: its history, its uploaded documents, the
// retrieval index built from them, and the planner/executor pair that
// answers requests. All state lives on the session; there are no globals.
//
// Not safe for concurrent use - use separate instances.
type Session struct {
	id        string
	client    *llm.Client
	registry  *capability.Registry
	planner   *orchestration.Planner
	executor  *orchestration.Executor
	engine    *retrieval.Engine
	documents *storage.DocumentStore
	history   []model.ConversationTurn

	conversations storage.ConversationStorage // nil disables persistence
	documentStore storage.DocumentStorage
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Respond plans and executes an answer to the request. The optional image
// is forwarded to every plan step. The returned Result carries the full
// step transcript; Result.Final() is the answer. Token stats cover the
// planner call and every capability call of this run.
//
// On cancellation the partial result is returned with the context error,
// and the user turn is still recorded so a resumed session sees it.
func (s *Session) Respond(ctx context.Context, request string, image *llm.ImageData) (orchestration.Result, error) {
	if strings.TrimSpace(request) == "" {
		return orchestration.Result{}, fmt.Errorf("request must not be empty")
	}

	// Accumulation restarts per request so stats cover exactly this run.
	s.client.ResetUsage()

	plan := s.planner.CreatePlan(ctx, request, s.history)
	s.history = append(s.history, model.UserTurn(request))

	result, err := s.executor.Execute(ctx, plan, image)
	result.Stats = orchestration.StatsFromUsage(s.client.Usage(), s.client.Calls())
	if err != nil {
		s.persist()
		return result, err
	}

	final := result.Final()
	s.history = append(s.history, model.AssistantTurn(final.Text, final.Agent))
	s.persist()

	return result, nil
}

// UploadDocument stores a document's extracted text and indexes it for
// retrieval. Re-uploading a source id replaces both its text and its
// indexed chunks.
func (s *Session) UploadDocument(ctx context.Context, sourceID, text string) (retrieval.IngestStats, error) {
	if strings.TrimSpace(sourceID) == "" {
		return retrieval.IngestStats{}, fmt.Errorf("document source id must not be empty")
	}

	s.engine.Remove(sourceID)
	stats, err := s.engine.Ingest(ctx, sourceID, text)
	if err != nil {
		return stats, err
	}

	if err := s.documents.Add(sourceID, text); err != nil {
		return stats, err
	}
	if s.documentStore != nil {
		if err := s.documentStore.SaveDocument(ctx, s.id, storage.Document{SourceID: sourceID, Text: text}); err != nil {
			log.Printf("warning: failed to persist document %s: %v", sourceID, err)
		}
	}

	return stats, nil
}

// RemoveDocument removes a document's text and indexed chunks. The source
// id may be abbreviated; an unambiguous prefix resolves to the full id,
// which is returned.
func (s *Session) RemoveDocument(ctx context.Context, sourceID string) (string, error) {
	resolved, err := s.documents.Resolve(sourceID)
	if err != nil {
		return "", err
	}

	s.documents.Remove(resolved)
	s.engine.Remove(resolved)
	if s.documentStore != nil {
		if err := s.documentStore.DeleteDocument(ctx, s.id, resolved); err != nil {
			log.Printf("warning: failed to delete persisted document %s: %v", resolved, err)
		}
	}

	return resolved, nil
}

// Documents returns uploaded source ids in upload order.
func (s *Session) Documents() []string {
	return s.documents.DocumentNames()
}

// IndexedChunks returns how many chunks the retrieval index holds.
func (s *Session) IndexedChunks() int {
	return s.engine.Len()
}

// History returns a copy of the conversation so far.
func (s *Session) History() []model.ConversationTurn {
	history := make([]model.ConversationTurn, len(s.history))
	copy(history, s.history)
	return history
}

// Capabilities returns the metadata of every capability this session can
// dispatch to.
func (s *Session) Capabilities() []capability.Metadata {
	return s.registry.List()
}

// Restore loads the session's persisted history and documents and
// re-ingests every document through the retrieval engine. Call it before
// the first Respond. Restoring an unknown session id leaves the session
// empty, matching a fresh one.
func (s *Session) Restore(ctx context.Context) error {
	if s.conversations == nil {
		return fmt.Errorf("session restore requires storage")
	}

	history, err := s.conversations.Load(ctx, s.id)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	s.history = history

	if s.documentStore == nil {
		return nil
	}
	docs, err := s.documentStore.LoadDocuments(ctx, s.id)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	for _, doc := range docs {
		if _, err := s.UploadDocument(ctx, doc.SourceID, doc.Text); err != nil {
			return fmt.Errorf("failed to re-ingest %s: %w", doc.SourceID, err)
		}
	}

	return nil
}

// persist saves the conversation on its own context, so an aborted run
// still records its turns. Persistence failures are logged, not returned;
// the in-memory session stays authoritative.
func (s *Session) persist() {
	if s.conversations == nil {
		return
	}
	if err := s.conversations.Save(context.Background(), s.id, s.history); err != nil {
		log.Printf("warning: failed to persist session %s: %v", s.id, err)
	}
}
