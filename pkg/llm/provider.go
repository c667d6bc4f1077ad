// Package llm provides the provider abstraction for embeddings and text
// generation. Providers register themselves from their package init, so a
// blank import is enough to make a provider available by name.
package llm

import (
	"context"
	"fmt"
	"sync"
)

// EmbeddingProvider maps text to fixed-length numeric vectors.
type EmbeddingProvider interface {
	// Embed generates embeddings for multiple texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates the embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Name returns the provider name.
	Name() string
}

// ResponseFormat selects the response-shape contract for a generation call.
type ResponseFormat string

const (
	// FormatText requests a free-text completion.
	FormatText ResponseFormat = "text"

	// FormatJSON requests a completion constrained to a single JSON object.
	// Providers that support structured-output enforcement must enable it
	// for this format; prompt-only best effort is a known source of
	// malformed output.
	FormatJSON ResponseFormat = "json"
)

// GenerateRequest is a single generation call.
type GenerateRequest struct {
	// Prompt is the user-turn prompt.
	Prompt string

	// SystemPrompt carries persona instructions and grounding context.
	// Empty means no system turn.
	SystemPrompt string

	// Format is the response-shape contract. Zero value means FormatText.
	Format ResponseFormat
}

// GenerateResponse is the raw completion plus usage accounting.
type GenerateResponse struct {
	// Content is the completion text, unmodified.
	Content string

	// TokenUsage is nil when the provider does not report usage.
	TokenUsage *TokenUsage
}

// TokenUsage reports token consumption of a single call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatProvider generates completions.
type ChatProvider interface {
	// Generate produces a completion under the request's response-shape
	// contract.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider supports both embeddings and generation.
type Provider interface {
	EmbeddingProvider
	ChatProvider
}

// ProviderFactory builds a full provider from a config map.
type ProviderFactory func(config map[string]any) (Provider, error)

var registry = &providerRegistry{
	providers: make(map[string]ProviderFactory),
}

type providerRegistry struct {
	mu        sync.RWMutex
	providers map[string]ProviderFactory
}

// RegisterProvider registers a provider factory under the given name.
// Called from provider package init functions.
func RegisterProvider(name string, factory ProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.providers[name] = factory
}

// NewProvider creates a provider instance by name.
func NewProvider(name string, config map[string]any) (Provider, error) {
	registry.mu.RLock()
	factory, ok := registry.providers[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return factory(config)
}

// NewEmbeddingProvider creates a provider by name for embedding use.
func NewEmbeddingProvider(name string, config map[string]any) (EmbeddingProvider, error) {
	return NewProvider(name, config)
}

// NewChatProvider creates a provider by name for generation use.
func NewChatProvider(name string, config map[string]any) (ChatProvider, error) {
	return NewProvider(name, config)
}

// Registered reports whether a provider name is known.
func Registered(name string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.providers[name]
	return ok
}
