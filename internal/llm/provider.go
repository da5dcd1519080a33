package llm

import (
	"context"
	"time"

	"github.com/neurocase/neurocase/internal/model"
)

// Message is one turn of a chat exchange
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Options tunes a single completion request
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a chat exchange to the given model and returns the
	// raw response text
	Complete(ctx context.Context, modelName string, messages []Message, opts Options) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Client is the surface the pipeline components depend on. Completer
// implements it; tests substitute stubs.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model is the primary model identifier (provider-specific)
	Model string

	// FallbackModel is tried once when the primary call errors
	FallbackModel string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Rate limit applied per model
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Timeout:           60 * time.Second,
		MaxTokens:         2000,
		RequestsPerSecond: 2,
		Burst:             5,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		FallbackModel:     mc.FallbackModel,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.Timeout,
		MaxTokens:         mc.MaxTokens,
		RequestsPerSecond: mc.RequestsPerSecond,
		Burst:             mc.Burst,
	}
}
