// Knowledge capability - answers questions from the retrieval index.

package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
)

// NoKnowledgeMessage is returned when retrieval finds nothing for a prompt.
const NoKnowledgeMessage = "No relevant information found in the knowledge base. Upload documents first, or rephrase the question."

const knowledgeSystemPrompt = `You are a knowledge assistant. Answer the question using ONLY the provided context.
Each context passage is labeled with the source document it came from.
If the context does not contain the answer, say so plainly instead of guessing.`

// KnowledgeHandler answers from retrieved document chunks, attaching the
// chunks it used as sources.
type KnowledgeHandler struct {
	generator Generator
	retriever Retriever
	topK      int
}

// NewKnowledgeHandler creates a knowledge handler.
func NewKnowledgeHandler(generator Generator, retriever Retriever) *KnowledgeHandler {
	return &KnowledgeHandler{
		generator: generator,
		retriever: retriever,
		topK:      retrieval.DefaultTopK,
	}
}

// TopK sets how many chunks each question retrieves. Values below one are
// ignored. Returns the handler for chaining.
func (h *KnowledgeHandler) TopK(k int) *KnowledgeHandler {
	if k >= 1 {
		h.topK = k
	}
	return h
}

// Metadata returns the capability metadata.
func (h *KnowledgeHandler) Metadata() Metadata {
	return Metadata{
		Name:        model.CapabilityKnowledge,
		Description: "Answers questions from documents uploaded to the knowledge base, citing sources.",
	}
}

// Execute retrieves the closest chunks and answers strictly from them.
// An empty retrieval result is a soft failure with a fixed message and no
// language-model call.
func (h *KnowledgeHandler) Execute(ctx context.Context, in Input) (model.StepResult, error) {
	chunks, err := h.retriever.Query(ctx, in.Prompt, h.topK)
	if err != nil {
		return softFail(ctx, model.CapabilityKnowledge, err)
	}
	if len(chunks) == 0 {
		return model.FailedResult(model.CapabilityKnowledge, "%s", NoKnowledgeMessage), nil
	}

	answer, err := h.generator.Chat(ctx, []llm.ChatMessage{
		llm.SystemMessage(knowledgeSystemPrompt),
		llm.UserMessage(fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock(chunks), in.Prompt)),
	})
	if err != nil {
		return softFail(ctx, model.CapabilityKnowledge, err)
	}

	sources := make([]model.Source, len(chunks))
	for i, c := range chunks {
		sources[i] = model.Source{SourceID: c.SourceID, Text: c.Text}
	}

	return model.StepResult{
		Agent:   model.CapabilityKnowledge,
		Text:    answer,
		Sources: sources,
	}, nil
}

// contextBlock concatenates retrieved chunks, each labeled with its source id.
func contextBlock(chunks []retrieval.ScoredChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[source: %s]\n%s", c.SourceID, c.Text)
	}
	return b.String()
}

// Verify KnowledgeHandler implements Handler
var _ Handler = (*KnowledgeHandler)(nil)
