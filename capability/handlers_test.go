package capability

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
)

// fakeGenerator records the last request and returns a canned reply.
type fakeGenerator struct {
	reply     string
	err       error
	calls     int
	lastMsgs  []llm.ChatMessage
	lastImage *llm.ImageData
}

func (f *fakeGenerator) Chat(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	f.calls++
	f.lastMsgs = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) ChatWithImage(ctx context.Context, messages []llm.ChatMessage, image *llm.ImageData) (string, error) {
	f.lastImage = image
	return f.Chat(ctx, messages)
}

var _ Generator = (*fakeGenerator)(nil)

// fakeRetriever returns canned chunks and records the requested k.
type fakeRetriever struct {
	chunks []retrieval.ScoredChunk
	err    error
	lastK  int
}

func (f *fakeRetriever) Query(ctx context.Context, text string, k int) ([]retrieval.ScoredChunk, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

var _ Retriever = (*fakeRetriever)(nil)

// fakeDocs is a map-backed document lookup with stable name order.
type fakeDocs struct {
	names []string
	texts map[string]string
}

func newFakeDocs(pairs ...string) *fakeDocs {
	d := &fakeDocs{texts: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		d.names = append(d.names, pairs[i])
		d.texts[pairs[i]] = pairs[i+1]
	}
	return d
}

func (d *fakeDocs) Document(name string) (string, bool) {
	text, ok := d.texts[name]
	return text, ok
}

func (d *fakeDocs) DocumentNames() []string {
	return d.names
}

var _ DocumentLookup = (*fakeDocs)(nil)

func userContent(msgs []llm.ChatMessage) string {
	for _, m := range msgs {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

func TestKnowledgeEmptyRetrievalFixedMessage(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be called"}
	handler := NewKnowledgeHandler(gen, &fakeRetriever{})

	result, err := handler.Execute(context.Background(), Input{Prompt: "what color is the sky?"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Failed {
		t.Error("Expected empty retrieval to be a soft failure")
	}
	if result.Text != NoKnowledgeMessage {
		t.Errorf("Expected fixed message, got %q", result.Text)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Expected no sources, got %d", len(result.Sources))
	}
	if gen.calls != 0 {
		t.Errorf("Expected no language-model call for empty retrieval, got %d", gen.calls)
	}
}

func TestKnowledgeAnswersFromContext(t *testing.T) {
	gen := &fakeGenerator{reply: "The sky is blue."}
	retriever := &fakeRetriever{chunks: []retrieval.ScoredChunk{
		{SourceID: "facts.txt", Text: "The sky is blue.", Score: 0.9},
		{SourceID: "notes.txt", Text: "Grass is green.", Score: 0.4},
	}}
	handler := NewKnowledgeHandler(gen, retriever)

	result, err := handler.Execute(context.Background(), Input{Prompt: "What color is the sky?"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Failed {
		t.Fatalf("Unexpected soft failure: %s", result.Text)
	}
	if result.Agent != model.CapabilityKnowledge {
		t.Errorf("Expected Knowledge agent, got %s", result.Agent)
	}
	if result.Text != "The sky is blue." {
		t.Errorf("Expected model answer passed through, got %q", result.Text)
	}

	if len(result.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(result.Sources))
	}
	if result.Sources[0].SourceID != "facts.txt" || result.Sources[1].SourceID != "notes.txt" {
		t.Errorf("Expected sources in retrieval order, got %+v", result.Sources)
	}

	sent := userContent(gen.lastMsgs)
	if !strings.Contains(sent, "[source: facts.txt]") || !strings.Contains(sent, "[source: notes.txt]") {
		t.Errorf("Expected source-labeled context block, got %q", sent)
	}
	if !strings.Contains(sent, "What color is the sky?") {
		t.Errorf("Expected question in prompt, got %q", sent)
	}
}

func TestKnowledgeGeneratorFailureSoftFails(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("rate limited")}
	retriever := &fakeRetriever{chunks: []retrieval.ScoredChunk{
		{SourceID: "facts.txt", Text: "The sky is blue.", Score: 0.9},
	}}
	handler := NewKnowledgeHandler(gen, retriever)

	result, err := handler.Execute(context.Background(), Input{Prompt: "sky?"})
	if err != nil {
		t.Fatalf("Expected soft failure, got error: %v", err)
	}
	if !result.Failed {
		t.Error("Expected failed result")
	}
	if !strings.Contains(result.Text, "rate limited") {
		t.Errorf("Expected explanation to include cause, got %q", result.Text)
	}
}

func TestKnowledgeTopKConfigurable(t *testing.T) {
	gen := &fakeGenerator{reply: "answer"}
	retriever := &fakeRetriever{chunks: []retrieval.ScoredChunk{
		{SourceID: "facts.txt", Text: "chunk", Score: 0.9},
	}}

	handler := NewKnowledgeHandler(gen, retriever)
	if _, err := handler.Execute(context.Background(), Input{Prompt: "q"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if retriever.lastK != retrieval.DefaultTopK {
		t.Errorf("Expected default top-k %d, got %d", retrieval.DefaultTopK, retriever.lastK)
	}

	handler.TopK(7)
	if _, err := handler.Execute(context.Background(), Input{Prompt: "q"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if retriever.lastK != 7 {
		t.Errorf("Expected configured top-k 7, got %d", retriever.lastK)
	}

	// Values below one are ignored
	handler.TopK(0)
	if _, err := handler.Execute(context.Background(), Input{Prompt: "q"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if retriever.lastK != 7 {
		t.Errorf("Expected top-k unchanged, got %d", retriever.lastK)
	}
}

func TestCancelledContextAbortsHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &fakeGenerator{err: context.Canceled}
	handler := NewWebSearchHandler(gen)

	_, err := handler.Execute(ctx, Input{Prompt: "anything"})
	if err == nil {
		t.Fatal("Expected cancellation to surface as an error")
	}
}

func TestWebSearchReturnsModelTextVerbatim(t *testing.T) {
	gen := &fakeGenerator{reply: "Top results: ..."}
	handler := NewWebSearchHandler(gen)

	result, err := handler.Execute(context.Background(), Input{Prompt: "latest Go release"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Failed {
		t.Fatalf("Unexpected soft failure: %s", result.Text)
	}
	if result.Text != "Top results: ..." {
		t.Errorf("Expected verbatim text, got %q", result.Text)
	}
	if len(gen.lastMsgs) == 0 || gen.lastMsgs[0].Role != "system" {
		t.Error("Expected a system instruction ahead of the prompt")
	}
	if userContent(gen.lastMsgs) != "latest Go release" {
		t.Errorf("Expected prompt forwarded unchanged, got %q", userContent(gen.lastMsgs))
	}
}

func TestCodeGenerationReturnsModelTextVerbatim(t *testing.T) {
	gen := &fakeGenerator{reply: "```go\nfunc main() {}\n```"}
	handler := NewCodeGenerationHandler(gen)

	result, err := handler.Execute(context.Background(), Input{Prompt: "hello world in Go"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Failed {
		t.Fatalf("Unexpected soft failure: %s", result.Text)
	}
	if result.Text != gen.reply {
		t.Errorf("Expected verbatim text, got %q", result.Text)
	}
}

func TestSummarizationPrefersUploadedDocument(t *testing.T) {
	docs := newFakeDocs("report.txt", "Quarterly revenue grew by ten percent across all regions.")
	gen := &fakeGenerator{reply: "Revenue grew."}
	handler := NewSummarizationHandler(gen, docs)

	result, err := handler.Execute(context.Background(), Input{Prompt: "Summarize report.txt for me"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Failed {
		t.Fatalf("Unexpected soft failure: %s", result.Text)
	}

	sent := userContent(gen.lastMsgs)
	if !strings.Contains(sent, "Quarterly revenue grew") {
		t.Errorf("Expected document text in request, got %q", sent)
	}
	if !strings.Contains(sent, "report.txt") {
		t.Errorf("Expected document name in request, got %q", sent)
	}
}

func TestSummarizationMatchesDocumentCaseInsensitively(t *testing.T) {
	docs := newFakeDocs("Report.txt", "Full report body.")
	gen := &fakeGenerator{reply: "Short."}
	handler := NewSummarizationHandler(gen, docs)

	result, err := handler.Execute(context.Background(), Input{Prompt: "please summarize REPORT.TXT"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Failed {
		t.Fatalf("Unexpected soft failure: %s", result.Text)
	}
	if !strings.Contains(userContent(gen.lastMsgs), "Full report body.") {
		t.Errorf("Expected case-insensitive document match, got %q", userContent(gen.lastMsgs))
	}
}

func TestSummarizationFallsBackToPromptText(t *testing.T) {
	gen := &fakeGenerator{reply: "Short."}
	handler := NewSummarizationHandler(gen, newFakeDocs())

	prompt := "The quick brown fox jumps over the lazy dog, repeatedly, for three paragraphs."
	result, err := handler.Execute(context.Background(), Input{Prompt: prompt})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Failed {
		t.Fatalf("Unexpected soft failure: %s", result.Text)
	}
	if !strings.Contains(userContent(gen.lastMsgs), prompt) {
		t.Errorf("Expected prompt used as target text, got %q", userContent(gen.lastMsgs))
	}
}

func TestSummarizationEmptyTargetSoftFails(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be called"}
	handler := NewSummarizationHandler(gen, newFakeDocs())

	result, err := handler.Execute(context.Background(), Input{Prompt: "   "})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Failed {
		t.Error("Expected soft failure for empty target")
	}
	if gen.calls != 0 {
		t.Errorf("Expected no language-model call, got %d", gen.calls)
	}
}

func TestImageAnalysisRequiresImage(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be called"}
	handler := NewImageAnalysisHandler(gen)

	result, err := handler.Execute(context.Background(), Input{Prompt: "what is this?"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Failed {
		t.Error("Expected soft failure without an image")
	}
	if !strings.Contains(result.Text, "image") {
		t.Errorf("Expected explanation to mention the missing image, got %q", result.Text)
	}
	if gen.calls != 0 {
		t.Errorf("Expected no language-model call, got %d", gen.calls)
	}
}

func TestImageAnalysisForwardsImage(t *testing.T) {
	gen := &fakeGenerator{reply: "A bar chart."}
	handler := NewImageAnalysisHandler(gen)

	image := &llm.ImageData{MimeType: "image/png", Base64Data: "aGVsbG8="}
	result, err := handler.Execute(context.Background(), Input{Prompt: "what does the chart show?", Image: image})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Failed {
		t.Fatalf("Unexpected soft failure: %s", result.Text)
	}
	if gen.lastImage != image {
		t.Error("Expected image forwarded to the provider")
	}
	if result.Text != "A bar chart." {
		t.Errorf("Expected model text passed through, got %q", result.Text)
	}
}

func TestImageAnalysisDefaultPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "A photo."}
	handler := NewImageAnalysisHandler(gen)

	image := &llm.ImageData{MimeType: "image/jpeg", Base64Data: "aGVsbG8="}
	if _, err := handler.Execute(context.Background(), Input{Image: image}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if userContent(gen.lastMsgs) != defaultImagePrompt {
		t.Errorf("Expected default prompt for empty step prompt, got %q", userContent(gen.lastMsgs))
	}
}
