package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/neurocase/neurocase/internal/cache"
	"github.com/neurocase/neurocase/internal/convert"
	"github.com/neurocase/neurocase/internal/llm"
	"github.com/neurocase/neurocase/internal/model"
)

var (
	llmProvider   string
	llmModel      string
	fallbackModel string
	llmTimeout    time.Duration
	profile       string
	noCache       bool
	cacheBackend  string
	cacheDir      string
	redisAddr     string
	minScore      float64
	maxAttempts   int
)

// applyLLMEnv fills in the provider API key and base URL from the
// conventional environment variables.
func applyLLMEnv(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// buildConfig assembles the effective configuration from defaults, the
// selected deployment profile, and command flags.
func buildConfig() (model.Config, error) {
	cfg := *model.DefaultConfig()
	if profile != "" {
		cfg.ApplyProfile(profile)
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.FallbackModel = fallbackModel
	if llmTimeout > 0 {
		cfg.LLM.Timeout = llmTimeout
	}

	cfg.Cache.Enabled = !noCache
	if cacheBackend != "" {
		cfg.Cache.Backend = cacheBackend
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if redisAddr != "" {
		cfg.Cache.RedisAddr = redisAddr
	}

	if minScore > 0 {
		cfg.Validation.MinValidationScore = minScore
	}
	if maxAttempts > 0 {
		cfg.Retry.MaxAttempts = maxAttempts
	}
	cfg.Output.Verbose = verbose

	if err := applyLLMEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildController wires the conversion pipeline from a configuration
func buildController(cfg model.Config) (*convert.Controller, error) {
	completer, err := llm.NewCompleter(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configure LLM: %w", err)
	}

	var client llm.Client
	if completer != nil {
		client = completer
	}

	store, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("configure cache: %w", err)
	}

	return convert.NewController(client, store, cfg), nil
}
