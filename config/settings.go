// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
)

// Settings holds all application configuration.
type Settings struct {
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Retrieval RetrievalConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider    string
	Model       string
	MaxTokens   uint32
	Temperature float64
}

// EmbeddingConfig holds embedding provider configuration.
// An empty Model selects the provider's built-in default.
type EmbeddingConfig struct {
	Provider string
	Model    string
}

// RetrievalConfig holds document chunking and lookup configuration.
type RetrievalConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", "gpt-5.2", "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", "claude-opus-4-5-20251101", "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-v3.2", "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", "gemini-3-flash", "GEMINI_API_KEY"},
}

// Embedding providers and their API key environment variables. The model
// default is left empty so the embedder picks its own.
var embeddingProviders = map[string]providerInfo{
	"openai": {"EMBEDDING_MODEL", "", "OPENAI_API_KEY"},
	"gemini": {"EMBEDDING_MODEL", "", "GEMINI_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

// New creates settings for the specified provider, loading values from environment variables.
// Returns an error if the provider is unknown, environment variables contain invalid
// values, or the retrieval settings are inconsistent (overlap must be below chunk size).
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 4096)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	embedding, err := newEmbeddingConfig(provider)
	if err != nil {
		return Settings{}, err
	}

	rc, err := newRetrievalConfig()
	if err != nil {
		return Settings{}, err
	}

	// Get model from environment or use default
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Embedding: embedding,
		Retrieval: rc,
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// newEmbeddingConfig resolves the embedding provider and model.
// The embedding provider defaults to the LLM provider when that provider can
// embed, otherwise to openai.
func newEmbeddingConfig(llmProvider string) (EmbeddingConfig, error) {
	provider := normalizeProvider(os.Getenv("EMBEDDING_PROVIDER"))
	if provider == "" {
		if _, ok := embeddingProviders[llmProvider]; ok {
			provider = llmProvider
		} else {
			provider = "openai"
		}
	}

	info, ok := embeddingProviders[provider]
	if !ok {
		return EmbeddingConfig{}, fmt.Errorf("unknown embedding provider: %q", provider)
	}

	return EmbeddingConfig{
		Provider: provider,
		Model:    os.Getenv(info.modelEnv),
	}, nil
}

// newRetrievalConfig loads chunking and lookup settings.
func newRetrievalConfig() (RetrievalConfig, error) {
	chunkSize, err := getEnvInt("CHUNK_SIZE", retrieval.DefaultChunkSize)
	if err != nil {
		return RetrievalConfig{}, err
	}

	chunkOverlap, err := getEnvInt("CHUNK_OVERLAP", retrieval.DefaultChunkOverlap)
	if err != nil {
		return RetrievalConfig{}, err
	}

	topK, err := getEnvInt("TOP_K", retrieval.DefaultTopK)
	if err != nil {
		return RetrievalConfig{}, err
	}

	if chunkSize < 1 {
		return RetrievalConfig{}, fmt.Errorf("CHUNK_SIZE must be at least 1, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return RetrievalConfig{}, fmt.Errorf("CHUNK_OVERLAP must not be negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return RetrievalConfig{}, fmt.Errorf("CHUNK_OVERLAP (%d) must be below CHUNK_SIZE (%d)", chunkOverlap, chunkSize)
	}
	if topK < 1 {
		return RetrievalConfig{}, fmt.Errorf("TOP_K must be at least 1, got %d", topK)
	}

	return RetrievalConfig{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		TopK:         topK,
	}, nil
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// EmbeddingAPIKey returns the API key for an embedding provider from
// environment variables.
func EmbeddingAPIKey(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, ok := embeddingProviders[provider]
	if !ok {
		return "", fmt.Errorf("unknown embedding provider: %q", provider)
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
