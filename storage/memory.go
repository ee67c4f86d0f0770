// Package storage provides in-memory conversation storage.
//
// Information Hiding:
// - Map storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind interface
// - Suitable for testing and ephemeral sessions

package storage

import (
	"context"
	"sync"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

// InMemoryStorage implements ConversationStorage and DocumentStorage using
// in-memory maps. Data is lost when the process terminates.
type InMemoryStorage struct {
	mu        sync.RWMutex
	sessions  map[string][]model.ConversationTurn
	documents map[string][]Document // keyed by session, in upload order
}

// NewInMemoryStorage creates a new in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		sessions:  make(map[string][]model.ConversationTurn),
		documents: make(map[string][]Document),
	}
}

// Save saves conversation history for a session.
func (s *InMemoryStorage) Save(ctx context.Context, sessionID string, history []model.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Make a copy to avoid external mutations
	copied := make([]model.ConversationTurn, len(history))
	copy(copied, history)
	s.sessions[sessionID] = copied

	return nil
}

// Load loads conversation history for a session.
// Returns empty slice if session doesn't exist.
func (s *InMemoryStorage) Load(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.sessions[sessionID]
	if !ok {
		return []model.ConversationTurn{}, nil
	}

	// Return a copy to avoid external mutations
	copied := make([]model.ConversationTurn, len(history))
	copy(copied, history)
	return copied, nil
}

// Delete deletes conversation history and documents for a session.
func (s *InMemoryStorage) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	delete(s.documents, sessionID)
	return nil
}

// ListSessions lists all session IDs.
func (s *InMemoryStorage) ListSessions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.sessions))
	for sessionID := range s.sessions {
		sessions = append(sessions, sessionID)
	}
	return sessions, nil
}

// Exists checks if a session exists.
func (s *InMemoryStorage) Exists(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[sessionID]
	return ok, nil
}

// SaveDocument stores a document, replacing any existing one with the same
// source id while keeping its upload position.
func (s *InMemoryStorage) SaveDocument(ctx context.Context, sessionID string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.documents[sessionID]
	for i := range docs {
		if docs[i].SourceID == doc.SourceID {
			docs[i] = doc
			return nil
		}
	}
	s.documents[sessionID] = append(docs, doc)
	return nil
}

// LoadDocuments returns a session's documents in upload order.
func (s *InMemoryStorage) LoadDocuments(ctx context.Context, sessionID string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.documents[sessionID]
	if !ok {
		return []Document{}, nil
	}

	copied := make([]Document, len(docs))
	copy(copied, docs)
	return copied, nil
}

// DeleteDocument removes one document from a session.
func (s *InMemoryStorage) DeleteDocument(ctx context.Context, sessionID, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.documents[sessionID]
	for i := range docs {
		if docs[i].SourceID == sourceID {
			s.documents[sessionID] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

// Verify InMemoryStorage implements both storage interfaces
var _ ConversationStorage = (*InMemoryStorage)(nil)
var _ DocumentStorage = (*InMemoryStorage)(nil)
