// CodeGeneration capability - code answers as fenced blocks.

package capability

import (
	"context"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

const codeGenerationSystemPrompt = `You are a code generation assistant. Reply with exactly one fenced code block implementing the request.
Pick the language the request implies, label the fence with it, and put any essential caveats in code comments rather than prose.`

// CodeGenerationHandler asks for a single fenced code block and returns the
// model's text verbatim. Whether the model actually fenced its answer is a
// presentation concern left to the rendering layer.
type CodeGenerationHandler struct {
	generator Generator
}

// NewCodeGenerationHandler creates a code generation handler.
func NewCodeGenerationHandler(generator Generator) *CodeGenerationHandler {
	return &CodeGenerationHandler{generator: generator}
}

// Metadata returns the capability metadata.
func (h *CodeGenerationHandler) Metadata() Metadata {
	return Metadata{
		Name:        model.CapabilityCodeGeneration,
		Description: "Writes code for a described task as a single fenced code block.",
	}
}

// Execute forwards the prompt under the code-generation instruction.
func (h *CodeGenerationHandler) Execute(ctx context.Context, in Input) (model.StepResult, error) {
	text, err := h.generator.Chat(ctx, []llm.ChatMessage{
		llm.SystemMessage(codeGenerationSystemPrompt),
		llm.UserMessage(in.Prompt),
	})
	if err != nil {
		return softFail(ctx, model.CapabilityCodeGeneration, err)
	}

	return model.StepResult{
		Agent: model.CapabilityCodeGeneration,
		Text:  text,
	}, nil
}

// Verify CodeGenerationHandler implements Handler
var _ Handler = (*CodeGenerationHandler)(nil)
