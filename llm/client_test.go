package llm

import (
	"context"
	"fmt"
	"testing"
)

// fakeProvider returns canned responses and reports fixed usage per call.
type fakeProvider struct {
	content string
	usage   *TokenUsage
	err     error
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	if f.err != nil {
		return LLMResponse{}, f.err
	}
	return LLMResponse{Content: f.content, Usage: f.usage}, nil
}

func (f *fakeProvider) ChatWithImage(ctx context.Context, messages []ChatMessage, image *ImageData) (LLMResponse, error) {
	return f.Chat(ctx, messages)
}

var _ Provider = (*fakeProvider)(nil)

func TestClientReturnsContent(t *testing.T) {
	client := NewClient(&fakeProvider{content: "hello"})

	got, err := client.Chat(context.Background(), []ChatMessage{UserMessage("hi")})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("Expected 'hello', got %q", got)
	}
}

func TestClientAccumulatesUsage(t *testing.T) {
	provider := &fakeProvider{
		content: "ok",
		usage:   &TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
	client := NewClient(provider)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.Chat(ctx, []ChatMessage{UserMessage("hi")}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	usage := client.Usage()
	if usage.PromptTokens != 30 || usage.CompletionTokens != 15 || usage.TotalTokens != 45 {
		t.Errorf("Expected accumulated usage 30/15/45, got %d/%d/%d",
			usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	}
	if calls := client.Calls(); calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestClientResetUsage(t *testing.T) {
	provider := &fakeProvider{
		content: "ok",
		usage:   &TokenUsage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
	}
	client := NewClient(provider)

	if _, err := client.Chat(context.Background(), []ChatMessage{UserMessage("hi")}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	client.ResetUsage()

	if usage := client.Usage(); usage.TotalTokens != 0 {
		t.Errorf("Expected zeroed usage after reset, got %d", usage.TotalTokens)
	}
	if calls := client.Calls(); calls != 0 {
		t.Errorf("Expected zeroed call count after reset, got %d", calls)
	}
}

func TestClientFailedCallsNotCounted(t *testing.T) {
	client := NewClient(&fakeProvider{err: fmt.Errorf("boom")})

	if _, err := client.Chat(context.Background(), []ChatMessage{UserMessage("hi")}); err == nil {
		t.Fatal("Expected error from failing provider")
	}
	if calls := client.Calls(); calls != 0 {
		t.Errorf("Expected failed calls uncounted, got %d", calls)
	}
}

func TestClientMissingUsageTolerated(t *testing.T) {
	client := NewClient(&fakeProvider{content: "ok"})

	if _, err := client.Chat(context.Background(), []ChatMessage{UserMessage("hi")}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls := client.Calls(); calls != 1 {
		t.Errorf("Expected call counted without usage, got %d", calls)
	}
	if usage := client.Usage(); usage.TotalTokens != 0 {
		t.Errorf("Expected no tokens recorded, got %d", usage.TotalTokens)
	}
}
