// Package capability provides the specialized handlers plan steps dispatch to.
//
// Information Hiding:
// - Handler prompt construction hidden in implementations
// - Collaborator failure handling internalized per handler
// - Dispatch table implementation hidden from consumers
package capability

import (
	"context"
	"fmt"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
)

// Metadata describes a capability for planner prompts and listings.
type Metadata struct {
	Name        model.Capability `json:"name"`
	Description string           `json:"description"`
}

// String returns a string representation of the capability metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// Input carries one resolved plan step into a handler. Prompt has already
// had its placeholders substituted by the executor.
type Input struct {
	Prompt string
	Image  *llm.ImageData
}

// Handler executes a single capability.
//
// Execute absorbs collaborator failures into failed StepResults so a plan
// can keep running past them. The error return is reserved for context
// cancellation, which aborts the surrounding plan.
type Handler interface {
	// Metadata returns the capability name and description.
	Metadata() Metadata

	// Execute runs the capability against the resolved input.
	Execute(ctx context.Context, in Input) (model.StepResult, error)
}

// Generator is the language-model surface handlers call.
// *llm.Client satisfies it.
type Generator interface {
	Chat(ctx context.Context, messages []llm.ChatMessage) (string, error)
	ChatWithImage(ctx context.Context, messages []llm.ChatMessage, image *llm.ImageData) (string, error)
}

// Retriever supplies scored chunks for knowledge answers.
// *retrieval.Engine satisfies it.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]retrieval.ScoredChunk, error)
}

// DocumentLookup resolves uploaded documents for handlers that read them.
type DocumentLookup interface {
	// Document returns the full text of a document by name.
	Document(name string) (string, bool)

	// DocumentNames returns the names of all uploaded documents.
	DocumentNames() []string
}

// softFail converts a collaborator error into a failed StepResult unless the
// context was cancelled, in which case the cancellation is surfaced.
func softFail(ctx context.Context, agent model.Capability, err error) (model.StepResult, error) {
	if ctx.Err() != nil {
		return model.StepResult{}, ctx.Err()
	}
	return model.FailedResult(agent, "%s step failed: %v", agent, err), nil
}
