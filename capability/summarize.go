// Summarization capability - condenses documents or inline text.

package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

const summarizationSystemPrompt = `You are a summarization assistant. Produce a concise summary of the provided text that preserves its key points.
Keep the summary noticeably shorter than the text.`

// SummarizationHandler resolves its target text from an uploaded document
// named in the prompt, or falls back to summarizing the prompt itself.
type SummarizationHandler struct {
	generator Generator
	documents DocumentLookup
}

// NewSummarizationHandler creates a summarization handler.
func NewSummarizationHandler(generator Generator, documents DocumentLookup) *SummarizationHandler {
	return &SummarizationHandler{
		generator: generator,
		documents: documents,
	}
}

// Metadata returns the capability metadata.
func (h *SummarizationHandler) Metadata() Metadata {
	return Metadata{
		Name:        model.CapabilitySummarization,
		Description: "Summarizes an uploaded document named in the prompt, or the prompt text itself.",
	}
}

// Execute picks the summarization target and asks the model to condense it.
// Document name matching is case-insensitive, first uploaded name wins.
// With no matching document and an empty prompt there is nothing to
// summarize, which is a soft failure.
func (h *SummarizationHandler) Execute(ctx context.Context, in Input) (model.StepResult, error) {
	target, label := h.resolveTarget(in.Prompt)
	if target == "" {
		return model.FailedResult(model.CapabilitySummarization,
			"nothing to summarize: no uploaded document matches the prompt and the prompt itself is empty"), nil
	}

	request := fmt.Sprintf("Summarize the following text:\n\n%s", target)
	if label != "" {
		request = fmt.Sprintf("Summarize the document %q:\n\n%s", label, target)
	}

	text, err := h.generator.Chat(ctx, []llm.ChatMessage{
		llm.SystemMessage(summarizationSystemPrompt),
		llm.UserMessage(request),
	})
	if err != nil {
		return softFail(ctx, model.CapabilitySummarization, err)
	}

	return model.StepResult{
		Agent: model.CapabilitySummarization,
		Text:  text,
	}, nil
}

// resolveTarget returns the text to summarize and, when it came from an
// uploaded document, that document's name.
func (h *SummarizationHandler) resolveTarget(prompt string) (target, label string) {
	lowered := strings.ToLower(prompt)
	if h.documents != nil {
		for _, name := range h.documents.DocumentNames() {
			if name == "" || !strings.Contains(lowered, strings.ToLower(name)) {
				continue
			}
			if text, ok := h.documents.Document(name); ok && text != "" {
				return text, name
			}
		}
	}
	if strings.TrimSpace(prompt) != "" {
		return prompt, ""
	}
	return "", ""
}

// Verify SummarizationHandler implements Handler
var _ Handler = (*SummarizationHandler)(nil)
