package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures the model backend used for authoring
// suggestions.
type Config struct {
	Provider string `yaml:"provider"`

	Anthropic  ProviderConfig `yaml:"anthropic"`
	OpenAI     ProviderConfig `yaml:"openai"`
	OpenRouter ProviderConfig `yaml:"openrouter"`
	Gemini     ProviderConfig `yaml:"gemini"`

	Retry   RetryConfig   `yaml:"retry"`
	Breaker BreakerConfig `yaml:"breaker"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfig holds the credentials and model for one backend.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// BreakerConfig configures the circuit breaker and concurrency limit in
// front of the provider. A zero FailureThreshold disables the breaker and a
// zero MaxConcurrent disables the limit.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
	MaxConcurrent    int           `yaml:"max_concurrent"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      time.Minute,
			MaxConcurrent:    4,
		},
		Timeout: 60 * time.Second,
	}
}

// ApplyEnv overrides cfg from PLAYLENS_* variables. When no provider key
// is configured at all, the conventional vendor variables
// (ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY)
// are checked in that order.
func ApplyEnv(cfg *Config) {
	setFromEnv(&cfg.Provider, "PLAYLENS_LLM_PROVIDER")
	setFromEnv(&cfg.Anthropic.APIKey, "PLAYLENS_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "PLAYLENS_ANTHROPIC_MODEL")
	setFromEnv(&cfg.OpenAI.APIKey, "PLAYLENS_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "PLAYLENS_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "PLAYLENS_OPENAI_BASE_URL")
	setFromEnv(&cfg.OpenRouter.APIKey, "PLAYLENS_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "PLAYLENS_OPENROUTER_MODEL")
	setFromEnv(&cfg.Gemini.APIKey, "PLAYLENS_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "PLAYLENS_GEMINI_MODEL")

	if cfg.hasAnyKey() || os.Getenv("PLAYLENS_LLM_PROVIDER") != "" {
		return
	}
	vendors := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, v := range vendors {
		if k := os.Getenv(v.env); k != "" {
			cfg.Provider = v.provider
			*v.key = k
			return
		}
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) hasAnyKey() bool {
	return c.Anthropic.APIKey != "" || c.OpenAI.APIKey != "" ||
		c.OpenRouter.APIKey != "" || c.Gemini.APIKey != ""
}

// Selected returns the settings of the configured provider.
func (c Config) Selected() (ProviderConfig, error) {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic, nil
	case ProviderOpenAI:
		return c.OpenAI, nil
	case ProviderOpenRouter:
		return c.OpenRouter, nil
	case ProviderGemini:
		return c.Gemini, nil
	case ProviderMock:
		return ProviderConfig{Model: "mock"}, nil
	}
	return ProviderConfig{}, fmt.Errorf("unknown LLM provider %q", c.Provider)
}

// Validate checks that the selected provider can be constructed.
func (c Config) Validate() error {
	pc, err := c.Selected()
	if err != nil {
		return err
	}
	if c.Provider != ProviderMock && pc.APIKey == "" {
		return fmt.Errorf("no API key for the %s provider (set llm.%s.api_key or PLAYLENS_%s_API_KEY)",
			c.Provider, c.Provider, strings.ToUpper(c.Provider))
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm.retry.max_attempts must be at least 1")
	}
	return nil
}
