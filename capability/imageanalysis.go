// ImageAnalysis capability - vision requests against an attached image.

package capability

import (
	"context"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

const imageAnalysisSystemPrompt = `You are an image analysis assistant. Describe the attached image and answer the user's question about it.
Be specific about what is visible rather than speculating about what is not.`

// defaultImagePrompt is used when a step carries an image but no question.
const defaultImagePrompt = "Describe this image."

// ImageAnalysisHandler forwards the prompt and attached image to a
// vision-capable provider. A step without an image is a soft failure.
type ImageAnalysisHandler struct {
	generator Generator
}

// NewImageAnalysisHandler creates an image analysis handler.
func NewImageAnalysisHandler(generator Generator) *ImageAnalysisHandler {
	return &ImageAnalysisHandler{generator: generator}
}

// Metadata returns the capability metadata.
func (h *ImageAnalysisHandler) Metadata() Metadata {
	return Metadata{
		Name:        model.CapabilityImageAnalysis,
		Description: "Describes and answers questions about an attached image.",
	}
}

// Execute requires an attached image and forwards it with the prompt.
func (h *ImageAnalysisHandler) Execute(ctx context.Context, in Input) (model.StepResult, error) {
	if in.Image == nil {
		return model.FailedResult(model.CapabilityImageAnalysis,
			"image analysis requires an attached image, but none was provided"), nil
	}

	prompt := in.Prompt
	if prompt == "" {
		prompt = defaultImagePrompt
	}

	text, err := h.generator.ChatWithImage(ctx, []llm.ChatMessage{
		llm.SystemMessage(imageAnalysisSystemPrompt),
		llm.UserMessage(prompt),
	}, in.Image)
	if err != nil {
		return softFail(ctx, model.CapabilityImageAnalysis, err)
	}

	return model.StepResult{
		Agent: model.CapabilityImageAnalysis,
		Text:  text,
	}, nil
}

// Verify ImageAnalysisHandler implements Handler
var _ Handler = (*ImageAnalysisHandler)(nil)
