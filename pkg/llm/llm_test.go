package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ domain.CompletionClient = (*llm.OpenAIClient)(nil)
	_ domain.CompletionClient = (*llm.GeminiClient)(nil)
	_ domain.CompletionClient = (*llm.AnthropicClient)(nil)
)

type stubCompleter struct {
	out string
	err error
}

func (s stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.out, s.err
}

type observation struct {
	provider, outcome string
}

type fakeRecorder struct {
	seen []observation
}

func (f *fakeRecorder) ObserveCompletion(provider, outcome string, elapsed time.Duration) {
	f.seen = append(f.seen, observation{provider: provider, outcome: outcome})
}

func TestInstrument(t *testing.T) {
	rec := &fakeRecorder{}
	ctx := context.Background()

	_, _ = llm.Instrument(stubCompleter{out: "text"}, "openai", rec).Complete(ctx, "p")
	_, _ = llm.Instrument(stubCompleter{out: llm.NoResponse}, "openai", rec).Complete(ctx, "p")
	_, _ = llm.Instrument(stubCompleter{err: errors.New("boom")}, "gemini", rec).Complete(ctx, "p")

	assert.Equal(t, []observation{
		{provider: "openai", outcome: llm.OutcomeOK},
		{provider: "openai", outcome: llm.OutcomeEmpty},
		{provider: "gemini", outcome: llm.OutcomeError},
	}, rec.seen)
}

func TestNew(t *testing.T) {
	t.Run("Should default to the openai provider", func(t *testing.T) {
		c, err := llm.New(context.Background(), llm.Config{APIKey: "k", Model: "m", MaxTokens: 10}, nil)
		require.NoError(t, err)
		_, ok := c.(*llm.OpenAIClient)
		assert.True(t, ok)
	})

	t.Run("Should build the anthropic provider", func(t *testing.T) {
		c, err := llm.New(context.Background(), llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k", Model: "m", MaxTokens: 10}, nil)
		require.NoError(t, err)
		_, ok := c.(*llm.AnthropicClient)
		assert.True(t, ok)
	})

	t.Run("Should wrap with instrumentation when a recorder is given", func(t *testing.T) {
		c, err := llm.New(context.Background(), llm.Config{Provider: llm.ProviderOpenAI, APIKey: "k"}, &fakeRecorder{})
		require.NoError(t, err)
		_, raw := c.(*llm.OpenAIClient)
		assert.False(t, raw)
	})

	t.Run("Should reject unknown providers", func(t *testing.T) {
		_, err := llm.New(context.Background(), llm.Config{Provider: "cohere"}, nil)
		assert.Error(t, err)
	})

	t.Run("Should return a client the usecase layer accepts", func(t *testing.T) {
		c, err := llm.New(context.Background(), llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k"}, &fakeRecorder{})
		require.NoError(t, err)

		var client domain.CompletionClient = c
		assert.NotNil(t, client)
	})
}
