// DocumentStore - the live store of a session's uploaded document text.

package storage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/internal/prefix"
)

// DocumentStore holds the extracted text of a session's uploaded documents,
// keyed by source id, preserving upload order. A radix index over source
// ids lets callers resolve abbreviated ids typed at the CLI. Safe for
// concurrent use.
type DocumentStore struct {
	mu    sync.RWMutex
	order []string
	texts map[string]string
	index *prefix.Index
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		texts: make(map[string]string),
		index: prefix.New(),
	}
}

// Add stores a document's text. Adding an existing source id replaces its
// text but keeps its upload position.
func (d *DocumentStore) Add(sourceID, text string) error {
	if strings.TrimSpace(sourceID) == "" {
		return fmt.Errorf("document source id must not be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.texts[sourceID]; !exists {
		d.order = append(d.order, sourceID)
		d.index.Insert(sourceID)
	}
	d.texts[sourceID] = text
	return nil
}

// Remove deletes a document and reports whether it was present.
func (d *DocumentStore) Remove(sourceID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.texts[sourceID]; !exists {
		return false
	}
	delete(d.texts, sourceID)
	d.index.Remove(sourceID)
	for i, id := range d.order {
		if id == sourceID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Document returns the full text of a document by source id.
func (d *DocumentStore) Document(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	text, ok := d.texts[name]
	return text, ok
}

// DocumentNames returns all source ids in upload order.
func (d *DocumentStore) DocumentNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, len(d.order))
	copy(names, d.order)
	return names
}

// Resolve maps a possibly abbreviated source id to a stored one. An exact
// match always wins; otherwise the id must be the prefix of exactly one
// document. Ambiguous or unknown ids are errors naming the candidates.
func (d *DocumentStore) Resolve(partial string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.texts[partial]; ok {
		return partial, nil
	}

	matches := d.index.Matches(partial)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no document matches %q", partial)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous, matches: %s", partial, strings.Join(matches, ", "))
	}
}

// Len returns the number of stored documents.
func (d *DocumentStore) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}
