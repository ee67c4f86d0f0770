// Capability registry and dispatch.
//
// Information Hiding:
// - Handler storage and lookup implementation hidden
// - Unknown-capability rejection centralized at the dispatch boundary

package capability

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

// Registry maps capability names to their handlers. The capability set is
// closed: dispatching a name with no registered handler produces a failed
// StepResult rather than an error, so a malformed plan degrades per step.
type Registry struct {
	mu       sync.RWMutex
	handlers map[model.Capability]Handler
}

// NewRegistry creates a new empty capability registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[model.Capability]Handler),
	}
}

// Register adds a handler to the registry.
// Returns error if a handler for the same capability already exists.
func (r *Registry) Register(handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := handler.Metadata().Name
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("capability '%s' already registered", name)
	}
	r.handlers[name] = handler
	return nil
}

// Get returns a handler by capability name.
func (r *Registry) Get(name model.Capability) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[name]
	return handler, exists
}

// Has checks if a handler exists for the capability.
func (r *Registry) Has(name model.Capability) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.handlers[name]
	return exists
}

// Names returns registered capability names, following the fixed order of
// the capability set rather than map iteration order.
func (r *Registry) Names() []model.Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]model.Capability, 0, len(r.handlers))
	for _, c := range model.AllCapabilities() {
		if _, exists := r.handlers[c]; exists {
			names = append(names, c)
		}
	}
	return names
}

// List returns metadata for all registered handlers in fixed capability order.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]Metadata, 0, len(r.handlers))
	for _, c := range model.AllCapabilities() {
		if handler, exists := r.handlers[c]; exists {
			metadata = append(metadata, handler.Metadata())
		}
	}
	return metadata
}

// Describe returns a formatted description of all capabilities for planner prompts.
func (r *Registry) Describe() string {
	var lines []string
	for _, meta := range r.List() {
		lines = append(lines, fmt.Sprintf("- %s: %s", meta.Name, meta.Description))
	}
	return strings.Join(lines, "\n")
}

// Dispatch routes a resolved step to its handler. An unknown capability name
// yields a failed StepResult naming the capability; it never aborts the plan.
func (r *Registry) Dispatch(ctx context.Context, agent model.Capability, in Input) (model.StepResult, error) {
	handler, exists := r.Get(agent)
	if !exists {
		return model.FailedResult(agent, "capability %q is not recognized", agent), nil
	}
	return handler.Execute(ctx, in)
}

// Config adjusts the default capability wiring.
type Config struct {
	// TopK is the number of chunks Knowledge retrieves per question.
	// Zero keeps the retrieval default.
	TopK int
}

// DefaultRegistry creates a registry with the full capability set wired to
// the given collaborators.
func DefaultRegistry(generator Generator, retriever Retriever, documents DocumentLookup, cfg Config) (*Registry, error) {
	registry := NewRegistry()

	handlers := []Handler{
		NewKnowledgeHandler(generator, retriever).TopK(cfg.TopK),
		NewWebSearchHandler(generator),
		NewCodeGenerationHandler(generator),
		NewSummarizationHandler(generator, documents),
		NewImageAnalysisHandler(generator),
	}

	for _, h := range handlers {
		if err := registry.Register(h); err != nil {
			return nil, fmt.Errorf("failed to register default capabilities: %w", err)
		}
	}

	return registry, nil
}
