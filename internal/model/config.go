package model

import "time"

// Deployment profiles. Constrained environments get a smaller retry
// budget, shorter timeouts, and more permissive validation thresholds.
const (
	ProfileStandard    = "standard"
	ProfileConstrained = "constrained"
)

// Config is the complete configuration, built once at process start.
// Components receive the sections they need; nothing reads environment
// variables after construction.
type Config struct {
	Profile     string            `yaml:"profile"`
	LLM         LLMConfig         `yaml:"llm"`
	Cache       CacheConfig       `yaml:"cache"`
	Validation  ValidationConfig  `yaml:"validation"`
	Retry       RetryConfig       `yaml:"retry"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the text-generation collaborator
type LLMConfig struct {
	Provider          string        `yaml:"provider"` // openai, anthropic, ollama
	Model             string        `yaml:"model"`
	FallbackModel     string        `yaml:"fallback_model"`
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxTokens         int           `yaml:"max_tokens"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// CacheConfig configures the conversion cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Backend   string        `yaml:"backend"` // memory, disk, layered, redis
	Dir       string        `yaml:"dir"`
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

// ValidationConfig holds the acceptance thresholds
type ValidationConfig struct {
	MinValidationScore float64 `yaml:"min_validation_score"`
	MinSemanticScore   float64 `yaml:"min_semantic_score"`
}

// RetryConfig bounds the generation attempts per question
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool   `yaml:"verbose"`
	Dir     string `yaml:"dir"`
}

// DefaultConfig returns the standard-profile defaults
func DefaultConfig() *Config {
	return &Config{
		Profile: ProfileStandard,
		LLM: LLMConfig{
			Provider:          "openai",
			Timeout:           60 * time.Second,
			MaxTokens:         2000,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     time.Hour,
		},
		Validation: ValidationConfig{
			MinValidationScore: 70,
			MinSemanticScore:   50,
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 5,
		},
		Output: OutputConfig{
			Dir: "./neurocase-out",
		},
	}
}

// ApplyProfile adjusts thresholds for the selected deployment profile.
// Called exactly once, right after the config is assembled.
func (c *Config) ApplyProfile(profile string) {
	c.Profile = profile
	if profile != ProfileConstrained {
		return
	}
	c.Retry.MaxAttempts = 3
	c.LLM.Timeout = 30 * time.Second
	c.Validation.MinValidationScore = 40
	c.Validation.MinSemanticScore = 30
}
