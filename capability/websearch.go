// WebSearch capability - simulated web search responses.

package capability

import (
	"context"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

const webSearchSystemPrompt = `You are a web search assistant. Respond as if you had just searched the web for the user's query:
give a concise, current-sounding synthesis of what such a search would surface, followed by a short list of illustrative links.
The links are illustrative and do not need to resolve.`

// WebSearchHandler wraps the prompt in a search-simulation instruction and
// returns the model's text verbatim. It is also the planner's fallback
// capability, so it accepts any prompt.
type WebSearchHandler struct {
	generator Generator
}

// NewWebSearchHandler creates a web search handler.
func NewWebSearchHandler(generator Generator) *WebSearchHandler {
	return &WebSearchHandler{generator: generator}
}

// Metadata returns the capability metadata.
func (h *WebSearchHandler) Metadata() Metadata {
	return Metadata{
		Name:        model.CapabilityWebSearch,
		Description: "Simulates a web search and answers general or current-events questions with illustrative links.",
	}
}

// Execute forwards the prompt under the search-simulation instruction.
func (h *WebSearchHandler) Execute(ctx context.Context, in Input) (model.StepResult, error) {
	text, err := h.generator.Chat(ctx, []llm.ChatMessage{
		llm.SystemMessage(webSearchSystemPrompt),
		llm.UserMessage(in.Prompt),
	})
	if err != nil {
		return softFail(ctx, model.CapabilityWebSearch, err)
	}

	return model.StepResult{
		Agent: model.CapabilityWebSearch,
		Text:  text,
	}, nil
}

// Verify WebSearchHandler implements Handler
var _ Handler = (*WebSearchHandler)(nil)
