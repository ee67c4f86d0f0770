// Package storage provides conversation and document persistence.
//
// Information Hiding:
// - Storage backend implementation details hidden behind interfaces
// - Allows swapping between memory and SQLite without API changes
// - Each storage implementation encapsulates its own data structures and protocols

package storage

import (
	"context"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

// Document is the extracted text of one uploaded document, keyed by its
// source id (the file base name at the CLI edge).
type Document struct {
	SourceID string
	Text     string
}

// ConversationStorage defines the interface for storing conversation history.
// Implementations can use different backends (memory, database).
type ConversationStorage interface {
	// Save saves conversation history for a session.
	Save(ctx context.Context, sessionID string, history []model.ConversationTurn) error

	// Load loads conversation history for a session.
	// Returns empty slice (not nil) if session doesn't exist.
	// Returns error only for storage failures (I/O errors, etc.), not missing sessions.
	Load(ctx context.Context, sessionID string) ([]model.ConversationTurn, error)

	// Delete deletes conversation history for a session, including its documents.
	Delete(ctx context.Context, sessionID string) error

	// ListSessions lists all session IDs.
	ListSessions(ctx context.Context) ([]string, error)

	// Exists checks if a session exists.
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// DocumentStorage defines the interface for persisting uploaded document
// text per session, so a restored session can re-ingest its documents.
type DocumentStorage interface {
	// SaveDocument stores a document for a session, replacing any document
	// with the same source id.
	SaveDocument(ctx context.Context, sessionID string, doc Document) error

	// LoadDocuments returns a session's documents in upload order.
	// Returns empty slice (not nil) if the session has none.
	LoadDocuments(ctx context.Context, sessionID string) ([]Document, error)

	// DeleteDocument removes one document from a session. Removing an
	// unknown document is not an error.
	DeleteDocument(ctx context.Context, sessionID, sourceID string) error
}
