// LLMClient - Simple wrapper around providers.

package llm

import (
	"context"
	"sync"
)

// Client wraps a Provider with a simple interface. It also accumulates
// token usage across calls, so callers that fan work out over several
// requests can report totals without threading usage through every call
// site. Safe for concurrent use.
type Client struct {
	provider Provider

	mu    sync.Mutex
	usage TokenUsage
	calls int
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Chat sends a chat completion request and returns just the content.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	response, err := c.provider.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	c.record(response.Usage)
	return response.Content, nil
}

// ChatWithUsage sends a chat completion request and returns content with token usage.
func (c *Client) ChatWithUsage(ctx context.Context, messages []ChatMessage) (string, *TokenUsage, error) {
	response, err := c.provider.Chat(ctx, messages)
	if err != nil {
		return "", nil, err
	}
	c.record(response.Usage)
	return response.Content, response.Usage, nil
}

// ChatWithImage sends a chat completion request with an attached image and
// returns just the content.
func (c *Client) ChatWithImage(ctx context.Context, messages []ChatMessage, image *ImageData) (string, error) {
	response, err := c.provider.ChatWithImage(ctx, messages, image)
	if err != nil {
		return "", err
	}
	c.record(response.Usage)
	return response.Content, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Usage returns the token usage accumulated since creation or the last reset.
func (c *Client) Usage() TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// Calls returns the number of successful completions since creation or the
// last reset.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// ResetUsage zeroes the accumulated usage and call count.
func (c *Client) ResetUsage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = TokenUsage{}
	c.calls = 0
}

func (c *Client) record(usage *TokenUsage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if usage == nil {
		return
	}
	c.usage.PromptTokens += usage.PromptTokens
	c.usage.CompletionTokens += usage.CompletionTokens
	c.usage.TotalTokens += usage.TotalTokens
}
