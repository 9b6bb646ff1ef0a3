// Package llm adapts a prompt to one call against a text-completion endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"skillsync-backend/internal/domain"
)

// NoResponse is returned in place of text when the endpoint replied without a
// usable choice.
const NoResponse = "No response."

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

var (
	// ErrUpstream wraps every transport, status and envelope failure.
	ErrUpstream    = errors.New("llm: upstream completion failed")
	ErrEmptyPrompt = errors.New("llm: prompt is empty")
)

type Config struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// New builds the configured provider. Each call makes exactly one attempt.
// When rec is non-nil every call is reported to it.
func New(ctx context.Context, cfg Config, rec Recorder) (domain.CompletionClient, error) {
	var (
		c   domain.CompletionClient
		err error
	)
	switch cfg.Provider {
	case ProviderOpenAI, "":
		cfg.Provider = ProviderOpenAI
		c = NewOpenAIClient(cfg)
	case ProviderGemini:
		c, err = NewGeminiClient(ctx, cfg)
	case ProviderAnthropic:
		c = NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if rec != nil {
		c = Instrument(c, cfg.Provider, rec)
	}
	return c, nil
}
