package llm

import (
	"context"
	"fmt"
	"log"
)

// Completer routes completion requests to a provider, applying the
// per-model rate limit and a single fallback-model retry when the
// primary call errors.
type Completer struct {
	provider Provider
	limiter  *Limiter
	config   Config
}

// NewCompleter creates a Completer over the configured provider.
// Returns nil when no provider is configured.
func NewCompleter(config Config) (*Completer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	return &Completer{
		provider: provider,
		limiter:  NewLimiter(config.RequestsPerSecond, config.Burst),
		config:   config,
	}, nil
}

// NewCompleterWithProvider wires a Completer around an existing
// provider, used by tests and by callers that build providers
// themselves.
func NewCompleterWithProvider(provider Provider, config Config) *Completer {
	return &Completer{
		provider: provider,
		limiter:  NewLimiter(config.RequestsPerSecond, config.Burst),
		config:   config,
	}
}

// Complete tries the primary model and, on error, retries once against
// the fallback model when one is configured and differs from the
// primary. The fallback's error propagates.
func (c *Completer) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	primary := c.config.Model

	if err := c.limiter.Wait(ctx, primary); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	text, err := c.provider.Complete(ctx, primary, messages, opts)
	if err == nil {
		return text, nil
	}

	fallback := c.config.FallbackModel
	if fallback == "" || fallback == primary {
		return "", err
	}

	log.Printf("model %s failed (%v), retrying with %s", primary, err, fallback)

	if werr := c.limiter.Wait(ctx, fallback); werr != nil {
		return "", fmt.Errorf("rate limit wait: %w", werr)
	}
	return c.provider.Complete(ctx, fallback, messages, opts)
}

// Provider exposes the underlying provider for availability checks.
func (c *Completer) Provider() Provider {
	return c.provider
}
