package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/embedding"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/storage"
)

// scriptedProvider replays canned responses in order and records every call.
type scriptedProvider struct {
	responses []string
	calls     [][]llm.ChatMessage
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-model" }

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.ChatMessage) (llm.LLMResponse, error) {
	p.calls = append(p.calls, messages)
	if len(p.responses) == 0 {
		return llm.LLMResponse{}, fmt.Errorf("no scripted response left")
	}
	next := p.responses[0]
	p.responses = p.responses[1:]
	return llm.LLMResponse{
		Content: next,
		Usage:   &llm.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

func (p *scriptedProvider) ChatWithImage(ctx context.Context, messages []llm.ChatMessage, image *llm.ImageData) (llm.LLMResponse, error) {
	return p.Chat(ctx, messages)
}

var _ llm.Provider = (*scriptedProvider)(nil)

// keywordEmbedder maps texts about the sky and about grass onto different
// axes, so similarity ranking is deterministic in tests.
type keywordEmbedder struct{}

func (keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	lowered := strings.ToLower(text)
	vec := []float32{0.1, 0.1}
	if strings.Contains(lowered, "sky") {
		vec[0] = 1
	}
	if strings.Contains(lowered, "grass") || strings.Contains(lowered, "green") {
		vec[1] = 1
	}
	return embedding.Normalize(vec), nil
}

func (keywordEmbedder) Dimensions() int { return 2 }
func (keywordEmbedder) Model() string   { return "keyword-test" }

var _ embedding.Embedder = keywordEmbedder{}

func newTestSession(t *testing.T, provider *scriptedProvider) *Session {
	t.Helper()
	session, err := NewBuilder(llm.NewClient(provider), keywordEmbedder{}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return session
}

func TestSessionRespondExecutesPlan(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`[{"agent": "WebSearch", "prompt": "look up the weather"}]`,
		"It will be sunny.",
	}}
	session := newTestSession(t, provider)

	result, err := session.Respond(context.Background(), "what's the weather?", nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if result.Final().Text != "It will be sunny." {
		t.Errorf("expected final answer, got %q", result.Final().Text)
	}
	if result.Stats.LLMCalls != 2 {
		t.Errorf("expected 2 LLM calls (planner + step), got %d", result.Stats.LLMCalls)
	}
	if result.Stats.TotalTokens != 30 {
		t.Errorf("expected accumulated tokens 30, got %d", result.Stats.TotalTokens)
	}

	history := session.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != model.RoleUser || history[0].Text != "what's the weather?" {
		t.Errorf("unexpected user turn: %+v", history[0])
	}
	if history[1].Role != model.RoleAssistant || history[1].Capability != model.CapabilityWebSearch {
		t.Errorf("expected assistant turn attributed to WebSearch, got %+v", history[1])
	}
}

func TestSessionRespondEmptyRequest(t *testing.T) {
	session := newTestSession(t, &scriptedProvider{})

	if _, err := session.Respond(context.Background(), "   ", nil); err == nil {
		t.Fatal("expected error for empty request")
	}
	if len(session.History()) != 0 {
		t.Error("expected no history for rejected request")
	}
}

func TestSessionDocumentQuestionAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`[{"agent": "Knowledge", "prompt": "What color is the sky?"}]`,
		"The sky is blue.",
	}}
	chunker, err := retrieval.NewChunker(20, 5)
	if err != nil {
		t.Fatalf("NewChunker failed: %v", err)
	}
	session, err := NewBuilder(llm.NewClient(provider), keywordEmbedder{}).Chunker(chunker).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	stats, err := session.UploadDocument(context.Background(), "colors.txt", "The sky is blue. Grass is green.")
	if err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	if stats.Stored == 0 {
		t.Fatal("expected chunks to be indexed")
	}

	result, err := session.Respond(context.Background(), "What color is the sky?", nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	final := result.Final()
	if final.Failed {
		t.Fatalf("expected grounded answer, got failure: %s", final.Text)
	}
	if final.Text != "The sky is blue." {
		t.Errorf("unexpected answer: %q", final.Text)
	}
	if len(final.Sources) == 0 {
		t.Fatal("expected sources attached to the answer")
	}
	if final.Sources[0].SourceID != "colors.txt" {
		t.Errorf("expected source id colors.txt, got %q", final.Sources[0].SourceID)
	}
	if !strings.Contains(final.Sources[0].Text, "sky") {
		t.Errorf("expected the sky chunk ranked first, got %q", final.Sources[0].Text)
	}

	// The knowledge call's prompt carries labeled context
	knowledgeCall := provider.calls[len(provider.calls)-1]
	prompt := knowledgeCall[len(knowledgeCall)-1].Content
	if !strings.Contains(prompt, "[source: colors.txt]") {
		t.Errorf("expected labeled context in prompt, got %q", prompt)
	}
}

func TestSessionKnowledgeWithoutDocuments(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`[{"agent": "Knowledge", "prompt": "What color is the sky?"}]`,
	}}
	session := newTestSession(t, provider)

	result, err := session.Respond(context.Background(), "What color is the sky?", nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	final := result.Final()
	if !final.Failed {
		t.Error("expected soft failure for empty knowledge base")
	}
	if !strings.Contains(final.Text, "No relevant information") {
		t.Errorf("unexpected failure text: %q", final.Text)
	}
	// Only the planner talked to the model; the empty retrieval result
	// short-circuits the knowledge call.
	if result.Stats.LLMCalls != 1 {
		t.Errorf("expected 1 LLM call, got %d", result.Stats.LLMCalls)
	}
}

func TestSessionStepOutputThreading(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`[{"agent": "WebSearch", "prompt": "find the population of Oslo"},
		  {"agent": "Summarization", "prompt": "condense this: {{step_1_output}}"}]`,
		"Oslo has about 700k inhabitants as of 2024.",
		"About 700k people.",
	}}
	session := newTestSession(t, provider)

	result, err := session.Respond(context.Background(), "how many people live in Oslo, briefly?", nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(result.Results))
	}
	// The second capability call received the first step's output
	secondCall := provider.calls[2]
	prompt := secondCall[len(secondCall)-1].Content
	if !strings.Contains(prompt, "Oslo has about 700k inhabitants") {
		t.Errorf("expected first step output threaded into second prompt, got %q", prompt)
	}
	if result.Final().Text != "About 700k people." {
		t.Errorf("unexpected final answer: %q", result.Final().Text)
	}
}

func TestSessionUploadAndRemoveDocuments(t *testing.T) {
	session := newTestSession(t, &scriptedProvider{})
	ctx := context.Background()

	if _, err := session.UploadDocument(ctx, "report.txt", "the sky report"); err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	if _, err := session.UploadDocument(ctx, "notes.md", "grass notes"); err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}

	docs := session.Documents()
	if len(docs) != 2 || docs[0] != "report.txt" {
		t.Errorf("expected upload order [report.txt notes.md], got %v", docs)
	}
	if session.IndexedChunks() == 0 {
		t.Error("expected indexed chunks after upload")
	}

	resolved, err := session.RemoveDocument(ctx, "rep")
	if err != nil {
		t.Fatalf("RemoveDocument failed: %v", err)
	}
	if resolved != "report.txt" {
		t.Errorf("expected prefix to resolve to report.txt, got %q", resolved)
	}
	if len(session.Documents()) != 1 {
		t.Errorf("expected 1 document left, got %v", session.Documents())
	}

	if _, err := session.RemoveDocument(ctx, "zzz"); err == nil {
		t.Error("expected error removing unknown document")
	}
}

func TestSessionReplacedDocumentReindexed(t *testing.T) {
	session := newTestSession(t, &scriptedProvider{})
	ctx := context.Background()

	if _, err := session.UploadDocument(ctx, "doc.txt", "the sky"); err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	before := session.IndexedChunks()

	if _, err := session.UploadDocument(ctx, "doc.txt", "the grass"); err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}

	if session.IndexedChunks() != before {
		t.Errorf("expected replacement to keep chunk count at %d, got %d", before, session.IndexedChunks())
	}
	if len(session.Documents()) != 1 {
		t.Errorf("expected 1 document, got %v", session.Documents())
	}
}

func TestSessionCancelledRunKeepsUserTurn(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`[{"agent": "WebSearch", "prompt": "x"}]`,
	}}
	session := newTestSession(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Respond(ctx, "doomed request", nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}

	history := session.History()
	if len(history) != 1 {
		t.Fatalf("expected only the user turn, got %d turns", len(history))
	}
	if history[0].Role != model.RoleUser {
		t.Errorf("expected user turn, got %+v", history[0])
	}
}

func TestSessionPersistenceRoundTrip(t *testing.T) {
	store := storage.NewInMemoryStorage()
	ctx := context.Background()

	provider := &scriptedProvider{responses: []string{
		`[{"agent": "WebSearch", "prompt": "hello"}]`,
		"hello back",
	}}
	first, err := NewBuilder(llm.NewClient(provider), keywordEmbedder{}).
		SessionID("persisted-session").
		Persistence(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := first.UploadDocument(ctx, "sky.txt", "facts about the sky"); err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	if _, err := first.Respond(ctx, "say hello", nil); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	// A fresh session with the same id restores history and re-ingests documents
	restored, err := NewBuilder(llm.NewClient(&scriptedProvider{}), keywordEmbedder{}).
		SessionID("persisted-session").
		Persistence(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	history := restored.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 restored turns, got %d", len(history))
	}
	if history[1].Text != "hello back" {
		t.Errorf("expected assistant turn restored, got %+v", history[1])
	}

	docs := restored.Documents()
	if len(docs) != 1 || docs[0] != "sky.txt" {
		t.Errorf("expected restored documents, got %v", docs)
	}
	if restored.IndexedChunks() == 0 {
		t.Error("expected restored documents to be re-ingested")
	}
}

func TestSessionGeneratedID(t *testing.T) {
	a := newTestSession(t, &scriptedProvider{})
	b := newTestSession(t, &scriptedProvider{})

	if a.ID() == "" {
		t.Error("expected generated session id")
	}
	if a.ID() == b.ID() {
		t.Error("expected distinct generated ids")
	}
}

func TestBuilderRequiresCollaborators(t *testing.T) {
	if _, err := NewBuilder(nil, keywordEmbedder{}).Build(); err == nil {
		t.Error("expected error without client")
	}
	if _, err := NewBuilder(llm.NewClient(&scriptedProvider{}), nil).Build(); err == nil {
		t.Error("expected error without embedder")
	}
}
